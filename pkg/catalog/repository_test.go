package catalog

import (
	"context"
	"flag"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pathfinder/pathfinder/internal/test_utils"
	"github.com/pathfinder/pathfinder/pkg/event"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

var pgContainer *postgres.PostgresContainer
var openDb func() *pgxpool.Pool

func TestMain(m *testing.M) {
	flag.Parse()
	if !testing.Short() {
		var err error
		pgContainer, openDb, err = test_utils.TestWithDB()
		if err != nil {
			log.Warnf("Repository tests disabled: %v", err)
			openDb = nil
		}
	}
	code := m.Run()
	if pgContainer != nil {
		if err := testcontainers.TerminateContainer(pgContainer); err != nil {
			log.Errorf("failed to terminate container: %s", err)
		}
	}
	os.Exit(code)
}

func setupTestRepository(t *testing.T) (context.Context, Repository) {
	if openDb == nil {
		t.Skip("postgres container not available")
	}
	ctx := context.Background()
	db := openDb()
	t.Cleanup(func() {
		db.Close()
		err := pgContainer.Restore(ctx)
		require.NoError(t, err)
	})
	return ctx, NewRepository(db)
}

func TestRepositoryImpl_LatestSnapshot(t *testing.T) {
	t.Run("should return nil when nothing is stored", func(t *testing.T) {
		// given
		ctx, repo := setupTestRepository(t)

		// when
		snapshot, err := repo.LatestSnapshot(ctx)

		// then
		require.NoError(t, err)
		assert.Nil(t, snapshot)
	})

	t.Run("should return the newest snapshot", func(t *testing.T) {
		// given
		ctx, repo := setupTestRepository(t)
		older := Snapshot{
			Events:    []event.Event{testEvent("old", "meetup")},
			FetchedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		}
		newer := Snapshot{
			Events:    []event.Event{testEvent("a", "hackathon"), testEvent("b", "conference")},
			Rejected:  3,
			FetchedAt: time.Date(2024, 3, 1, 11, 0, 0, 0, time.UTC),
		}
		require.NoError(t, repo.StoreSnapshot(ctx, older))
		require.NoError(t, repo.StoreSnapshot(ctx, newer))

		// when
		snapshot, err := repo.LatestSnapshot(ctx)

		// then
		require.NoError(t, err)
		require.NotNil(t, snapshot)
		assert.Equal(t, newer, *snapshot)
	})
}

func TestRepositoryImpl_PruneSnapshots(t *testing.T) {
	t.Run("should keep only the newest snapshots", func(t *testing.T) {
		// given
		ctx, repo := setupTestRepository(t)
		start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
		for i := 0; i < 5; i++ {
			err := repo.StoreSnapshot(ctx, Snapshot{
				Events:    []event.Event{testEvent("e", "hackathon")},
				FetchedAt: start.Add(time.Duration(i) * time.Hour),
			})
			require.NoError(t, err)
		}

		// when
		removed, err := repo.PruneSnapshots(ctx, 2)

		// then
		require.NoError(t, err)
		assert.Equal(t, 3, removed)
		latest, err := repo.LatestSnapshot(ctx)
		require.NoError(t, err)
		assert.Equal(t, start.Add(4*time.Hour), latest.FetchedAt)
	})
}
