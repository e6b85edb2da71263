package telemetry

// HistoryEntry is one generation's headline scores.
type HistoryEntry struct {
	Generation int     `json:"generation"`
	Best       float64 `json:"best"`
	Avg        float64 `json:"avg"`
}

// History is the append-only record of per-generation best and average
// fitness. Entry i belongs to the i-th finished generation.
type History struct {
	entries []HistoryEntry
}

// Append records a finished generation.
func (h *History) Append(generation int, best, avg float64) {
	h.entries = append(h.entries, HistoryEntry{Generation: generation, Best: best, Avg: avg})
}

// Len returns the number of recorded generations.
func (h *History) Len() int {
	if h == nil {
		return 0
	}
	return len(h.entries)
}

// At returns entry i, or false if out of range.
func (h *History) At(i int) (HistoryEntry, bool) {
	if h == nil || i < 0 || i >= len(h.entries) {
		return HistoryEntry{}, false
	}
	return h.entries[i], true
}

// Last returns the most recent entry, or false if empty.
func (h *History) Last() (HistoryEntry, bool) {
	return h.At(h.Len() - 1)
}

// Entries returns a copy of all entries.
func (h *History) Entries() []HistoryEntry {
	if h == nil {
		return nil
	}
	out := make([]HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Series returns the best and average values as parallel slices.
func (h *History) Series() (best, avg []float64) {
	if h == nil {
		return nil, nil
	}
	best = make([]float64, len(h.entries))
	avg = make([]float64, len(h.entries))
	for i, e := range h.entries {
		best[i] = e.Best
		avg[i] = e.Avg
	}
	return best, avg
}

// Range returns the smallest and largest value across both series.
// An empty history reports (0, 0).
func (h *History) Range() (lo, hi float64) {
	for i, e := range h.Entries() {
		if i == 0 {
			lo, hi = min(e.Best, e.Avg), max(e.Best, e.Avg)
			continue
		}
		lo = min(lo, e.Best, e.Avg)
		hi = max(hi, e.Best, e.Avg)
	}
	return lo, hi
}
