package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/pathfinder/pathfinder/internal/event_bus"
	"github.com/pathfinder/pathfinder/internal/utils"
	"github.com/pathfinder/pathfinder/pkg/event"
	"github.com/pathfinder/pathfinder/pkg/feed"
	log "github.com/sirupsen/logrus"
)

var ErrEventNotFound = errors.New("event not found")

// Service owns the current snapshot and feeds it to the pure event functions.
type Service struct {
	fetcher       feed.Fetcher
	repo          Repository
	bus           *event_bus.EventBus
	clock         utils.Clock
	keepSnapshots int

	refreshMu sync.Mutex
	mu        sync.RWMutex
	current   Snapshot
}

func NewService(fetcher feed.Fetcher, repo Repository, bus *event_bus.EventBus, clock utils.Clock, keepSnapshots int) *Service {
	return &Service{
		fetcher:       fetcher,
		repo:          repo,
		bus:           bus,
		clock:         clock,
		keepSnapshots: keepSnapshots,
	}
}

// Refresh loads the feed, validates every record and swaps in the new snapshot.
// On failure the previous snapshot stays in place.
func (s *Service) Refresh(ctx context.Context) (Snapshot, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	records, err := s.fetcher.Fetch(ctx)
	if err != nil {
		s.publish(ctx, event_bus.CatalogRefreshFailedType, event_bus.CatalogRefreshFailed{
			At:    s.clock.Now(),
			Error: err.Error(),
		})
		return Snapshot{}, fmt.Errorf("refresh catalog: %w", err)
	}

	events, problems := event.ValidateAll(records)
	for _, problem := range problems {
		log.Warnf("Skipping feed record: %v", problem)
	}
	warnInvertedDates(events)

	snapshot := Snapshot{
		Events:    events,
		Rejected:  len(problems),
		FetchedAt: s.clock.Now(),
	}

	s.mu.Lock()
	s.current = snapshot
	s.mu.Unlock()
	log.Infof("Catalog refreshed: %d events, %d rejected", len(events), len(problems))

	if err := s.repo.StoreSnapshot(ctx, snapshot); err != nil {
		log.Errorf("Failed to persist snapshot: %v", err)
	} else if s.keepSnapshots > 0 {
		if removed, err := s.repo.PruneSnapshots(ctx, s.keepSnapshots); err != nil {
			log.Errorf("Failed to prune snapshots: %v", err)
		} else if removed > 0 {
			log.Debugf("Pruned %d old snapshots", removed)
		}
	}

	s.publish(ctx, event_bus.CatalogRefreshedType, event_bus.CatalogRefreshed{
		FetchedAt: snapshot.FetchedAt,
		Accepted:  len(snapshot.Events),
		Rejected:  snapshot.Rejected,
		Types:     typeCounts(snapshot.Events),
	})
	return snapshot, nil
}

// Restore loads the last persisted snapshot, so the catalog is not empty while
// the first refresh is running or when the feed is down at start-up.
func (s *Service) Restore(ctx context.Context) error {
	snapshot, err := s.repo.LatestSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("restore catalog: %w", err)
	}
	if snapshot == nil {
		log.Debug("No stored snapshot to restore")
		return nil
	}
	s.mu.Lock()
	s.current = *snapshot
	s.mu.Unlock()
	log.Infof("Restored catalog snapshot from %s with %d events", snapshot.FetchedAt, len(snapshot.Events))
	return nil
}

func (s *Service) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// List returns the events of the given type, or all of them for event.AllTypes.
func (s *Service) List(selected string) []event.Event {
	return event.FilterByType(s.Snapshot().Events, selected)
}

func (s *Service) Types() []string {
	return event.DistinctTypes(s.Snapshot().Events)
}

func (s *Service) Stats() Stats {
	snapshot := s.Snapshot()
	stats := Stats{
		Total:    len(snapshot.Events),
		Rejected: snapshot.Rejected,
		ByType:   event.CountByType(snapshot.Events),
	}
	if !snapshot.FetchedAt.IsZero() {
		fetchedAt := snapshot.FetchedAt
		stats.FetchedAt = &fetchedAt
	}
	return stats
}

func (s *Service) Find(id uuid.UUID) (event.Event, error) {
	for _, e := range s.Snapshot().Events {
		if e.ID() == id {
			return e, nil
		}
	}
	return event.Event{}, ErrEventNotFound
}

func (s *Service) CalendarLink(id uuid.UUID) (string, error) {
	e, err := s.Find(id)
	if err != nil {
		return "", err
	}
	return event.BuildCalendarURL(e)
}

func (s *Service) publish(ctx context.Context, eventType event_bus.EventType, data any) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(event_bus.NewEvent(ctx, eventType, data)); err != nil {
		log.Errorf("Failed to publish %s: %v", eventType, err)
	}
}

// warnInvertedDates flags records whose start is after their end. They are
// kept as-is; the feed is the authority on its own dates.
func warnInvertedDates(events []event.Event) {
	for _, e := range events {
		start, end, err := event.ParseEventTimes(e)
		if err != nil {
			log.Debugf("Event %q has unparseable dates: %v", e.Title, err)
			continue
		}
		if start.After(end) {
			log.Debugf("Event %q starts after it ends (%s > %s)", e.Title, e.Date.Start, e.Date.End)
		}
	}
}
