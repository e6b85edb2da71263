package telemetry

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
)

// HallEntry records one standout agent.
type HallEntry struct {
	Generation int        `json:"generation"`
	Genome     int        `json:"genome"`
	Species    int        `json:"species"`
	Fitness    float64    `json:"fitness"`
	FoodsEaten int        `json:"foods_eaten"`
	Lifetime   int        `json:"lifetime"`
	Cause      DeathCause `json:"cause"`
}

// HallOfFame keeps the best agents seen across all generations.
type HallOfFame struct {
	entries []HallEntry
	maxSize int
}

// NewHallOfFame creates a hall holding at most maxSize entries.
func NewHallOfFame(maxSize int) *HallOfFame {
	if maxSize < 1 {
		maxSize = 10
	}
	return &HallOfFame{maxSize: maxSize}
}

// Consider offers every agent of a finished episode to the hall.
// Returns the number of entries added.
func (hof *HallOfFame) Consider(generation, ticks int, lifetimes *LifetimeTracker, fitness map[int]float64) int {
	added := 0
	for _, s := range lifetimes.All() {
		f, ok := fitness[s.ID]
		if !ok {
			continue
		}
		if len(hof.entries) == hof.maxSize && f <= hof.entries[len(hof.entries)-1].Fitness {
			continue
		}
		hof.insertEntry(HallEntry{
			Generation: generation,
			Genome:     s.ID,
			Species:    s.Species,
			Fitness:    f,
			FoodsEaten: s.FoodsEaten,
			Lifetime:   s.Lifetime(ticks),
			Cause:      s.Cause,
		})
		added++
	}
	return added
}

// insertEntry keeps entries sorted by fitness, best first, and trims to maxSize.
func (hof *HallOfFame) insertEntry(entry HallEntry) {
	i := sort.Search(len(hof.entries), func(i int) bool {
		return hof.entries[i].Fitness < entry.Fitness
	})
	hof.entries = append(hof.entries, HallEntry{})
	copy(hof.entries[i+1:], hof.entries[i:])
	hof.entries[i] = entry
	if len(hof.entries) > hof.maxSize {
		hof.entries = hof.entries[:hof.maxSize]
	}
}

// Entries returns the hall, best first.
func (hof *HallOfFame) Entries() []HallEntry {
	out := make([]HallEntry, len(hof.entries))
	copy(out, hof.entries)
	return out
}

// Top returns the best entry, or false if the hall is empty.
func (hof *HallOfFame) Top() (HallEntry, bool) {
	if len(hof.entries) == 0 {
		return HallEntry{}, false
	}
	return hof.entries[0], true
}

// MarshalJSON serializes the hall as a JSON array.
func (hof *HallOfFame) MarshalJSON() ([]byte, error) {
	return json.MarshalIndent(hof.entries, "", "  ")
}

// LoadHallOfFameFromFile restores a hall written by OutputManager.
func LoadHallOfFameFromFile(path string, maxSize int) (*HallOfFame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading hall of fame: %w", err)
	}
	var entries []HallEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing hall of fame: %w", err)
	}

	hof := NewHallOfFame(maxSize)
	for _, e := range entries {
		hof.insertEntry(e)
	}
	slog.Info("hall of fame loaded", "path", path, "entries", len(hof.entries))
	return hof, nil
}
