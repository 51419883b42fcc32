package catalog

import (
	"time"

	"github.com/pathfinder/pathfinder/pkg/event"
)

// Snapshot is one validated load of the feed. It is replaced wholesale, never
// mutated in place.
type Snapshot struct {
	Events    []event.Event
	Rejected  int
	FetchedAt time.Time
}

type Stats struct {
	Total     int               `json:"total"`
	Rejected  int               `json:"rejected"`
	ByType    []event.TypeCount `json:"byType"`
	FetchedAt *time.Time        `json:"fetchedAt,omitempty"`
}

func typeCounts(events []event.Event) map[string]int {
	counts := make(map[string]int)
	for _, c := range event.CountByType(events) {
		counts[c.Type] = c.Count
	}
	return counts
}
