package app

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pathfinder/pathfinder/internal/config"
	"github.com/pathfinder/pathfinder/internal/event_bus"
	"github.com/pathfinder/pathfinder/internal/metrics"
	"github.com/pathfinder/pathfinder/internal/utils"
	"github.com/pathfinder/pathfinder/pkg/catalog"
	"github.com/pathfinder/pathfinder/pkg/feed"
	"github.com/pathfinder/pathfinder/pkg/google"
	log "github.com/sirupsen/logrus"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Clock    utils.Clock
	EventBus *event_bus.EventBus
	Metrics  *metrics.Metrics

	FeedClient *feed.Client

	CatalogRepo    catalog.Repository
	CatalogService *catalog.Service
	CatalogHandler *catalog.Handler

	GooglePublisher *google.Publisher
}

// BuildDependencies initializes and wires all application services and handlers.
// db is nil when persistence is disabled.
func BuildDependencies(ctx context.Context, db *pgxpool.Pool, cfg config.Application) (*Dependencies, error) {
	deps := &Dependencies{}

	deps.Clock = &utils.SystemClock{}
	deps.EventBus = event_bus.NewEventBus()
	deps.Metrics = metrics.New()
	deps.Metrics.Subscribe(deps.EventBus)

	deps.FeedClient = feed.NewClient(cfg.Source.Url, cfg.Source.Timeout, cfg.Source.Retries)

	if db != nil {
		deps.CatalogRepo = catalog.NewRepository(db)
	} else {
		log.Info("Database disabled, keeping snapshots in memory")
		deps.CatalogRepo = catalog.NewStubRepository()
	}
	deps.CatalogService = catalog.NewService(deps.FeedClient, deps.CatalogRepo, deps.EventBus, deps.Clock, cfg.Database.KeepSnapshots)

	publisher, err := google.NewPublisher(ctx, cfg.Google)
	if err != nil {
		return nil, err
	}
	deps.GooglePublisher = publisher
	if publisher != nil {
		deps.CatalogHandler = catalog.NewHandler(deps.CatalogService, publisher)
	} else {
		log.Info("Google Calendar integration not configured")
		deps.CatalogHandler = catalog.NewHandler(deps.CatalogService, nil)
	}

	return deps, nil
}
