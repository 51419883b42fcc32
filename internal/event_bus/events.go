package event_bus

import "time"

const (
	CatalogRefreshedType     EventType = "catalog.refreshed"
	CatalogRefreshFailedType EventType = "catalog.refresh_failed"
)

// CatalogRefreshed is published after a new snapshot replaced the previous one.
type CatalogRefreshed struct {
	FetchedAt time.Time
	Accepted  int
	Rejected  int
	// Types maps each event_type to its number of events.
	Types map[string]int
}

type CatalogRefreshFailed struct {
	At    time.Time
	Error string
}
