package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkNewBest            BookmarkType = "new_best"
	BookmarkForageBreakthrough BookmarkType = "forage_breakthrough"
	BookmarkEarlyExtinction    BookmarkType = "early_extinction"
	BookmarkPlateau            BookmarkType = "plateau"
)

// Bookmark represents an automatically flagged generation.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Generation  int          `csv:"generation"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"generation", b.Generation,
		"description", b.Description,
	)
}

// BookmarkDetector flags notable generations.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []GenerationStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	bestEver      float64
	haveBest      bool
	sinceBest     int // generations since the last new best
	plateauAfter  int
	plateauMarked bool
}

// NewBookmarkDetector creates a detector with the given history size.
// A plateau is flagged once after plateauAfter generations without a new best.
func NewBookmarkDetector(historySize, plateauAfter int) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3
	}
	if plateauAfter < 1 {
		plateauAfter = 10
	}
	return &BookmarkDetector{
		history:      make([]GenerationStats, historySize),
		historySize:  historySize,
		plateauAfter: plateauAfter,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats GenerationStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkNewBest(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	} else if b := bd.checkPlateau(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	if bd.historyFull || bd.historyIdx > 0 {
		if b := bd.checkForageBreakthrough(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkEarlyExtinction(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats GenerationStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []GenerationStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkNewBest(stats GenerationStats) *Bookmark {
	if bd.haveBest && stats.Best <= bd.bestEver {
		bd.sinceBest++
		return nil
	}
	prev, had := bd.bestEver, bd.haveBest
	bd.bestEver = stats.Best
	bd.haveBest = true
	bd.sinceBest = 0
	bd.plateauMarked = false
	if !had {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkNewBest,
		Generation:  stats.Generation,
		Description: fmt.Sprintf("Best fitness %.2f beats %.2f (genome %d)", stats.Best, prev, stats.BestGenome),
	}
}

func (bd *BookmarkDetector) checkPlateau(stats GenerationStats) *Bookmark {
	if bd.plateauMarked || bd.sinceBest < bd.plateauAfter {
		return nil
	}
	bd.plateauMarked = true
	return &Bookmark{
		Type:        BookmarkPlateau,
		Generation:  stats.Generation,
		Description: fmt.Sprintf("No improvement on %.2f for %d generations", bd.bestEver, bd.sinceBest),
	}
}

func (bd *BookmarkDetector) checkForageBreakthrough(stats GenerationStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.FoodsEaten
	}
	avg := float64(total) / float64(len(history))
	if avg == 0 {
		return nil
	}

	if float64(stats.FoodsEaten) > avg*2.0 && stats.FoodsEaten >= 5 {
		return &Bookmark{
			Type:        BookmarkForageBreakthrough,
			Generation:  stats.Generation,
			Description: fmt.Sprintf("%d foods eaten is %.1fx average (%.1f)", stats.FoodsEaten, float64(stats.FoodsEaten)/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkEarlyExtinction(stats GenerationStats) *Bookmark {
	if stats.Survivors > 0 {
		return nil
	}
	history := bd.getHistory()
	var total int
	for _, h := range history {
		total += h.Ticks
	}
	avg := float64(total) / float64(len(history))
	if float64(stats.Ticks) < avg/2 {
		return &Bookmark{
			Type:        BookmarkEarlyExtinction,
			Generation:  stats.Generation,
			Description: fmt.Sprintf("All agents gone after %d ticks (average episode %.0f)", stats.Ticks, avg),
		}
	}
	return nil
}
