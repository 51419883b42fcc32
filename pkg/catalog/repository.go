package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pathfinder/pathfinder/pkg/event"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	StoreSnapshot(ctx context.Context, snapshot Snapshot) error
	// LatestSnapshot returns nil when nothing was stored yet.
	LatestSnapshot(ctx context.Context) (*Snapshot, error)
	// PruneSnapshots keeps the newest keep snapshots and returns how many were deleted.
	PruneSnapshots(ctx context.Context, keep int) (int, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) StoreSnapshot(ctx context.Context, snapshot Snapshot) error {
	events := snapshot.Events
	if events == nil {
		events = []event.Event{}
	}
	payload, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("could not marshal snapshot events: %w", err)
	}

	query := `INSERT INTO event_snapshot (fetched_at, events, rejected_count) VALUES ($1, $2, $3)`
	if _, err := r.db.Exec(ctx, query, snapshot.FetchedAt, payload, snapshot.Rejected); err != nil {
		err := fmt.Errorf("could not store snapshot: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) LatestSnapshot(ctx context.Context) (*Snapshot, error) {
	query := `SELECT fetched_at, events, rejected_count
			  FROM event_snapshot
			  ORDER BY fetched_at DESC, id DESC
			  LIMIT 1`

	var snapshot Snapshot
	var payload []byte
	err := r.db.QueryRow(ctx, query).Scan(&snapshot.FetchedAt, &payload, &snapshot.Rejected)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		err := fmt.Errorf("could not query latest snapshot: %w", err)
		log.Error(err)
		return nil, err
	}
	if err := json.Unmarshal(payload, &snapshot.Events); err != nil {
		return nil, fmt.Errorf("could not unmarshal snapshot events: %w", err)
	}
	snapshot.FetchedAt = snapshot.FetchedAt.UTC()
	return &snapshot, nil
}

func (r *RepositoryImpl) PruneSnapshots(ctx context.Context, keep int) (int, error) {
	if keep < 1 {
		keep = 1
	}
	query := `DELETE FROM event_snapshot
			  WHERE id NOT IN (
			      SELECT id FROM event_snapshot ORDER BY fetched_at DESC, id DESC LIMIT $1
			  )`
	tag, err := r.db.Exec(ctx, query, keep)
	if err != nil {
		err := fmt.Errorf("could not prune snapshots: %w", err)
		log.Error(err)
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
