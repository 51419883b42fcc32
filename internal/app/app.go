package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pathfinder/pathfinder/internal/config"
	"github.com/pathfinder/pathfinder/internal/database"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// Application wires configuration, database, router, scheduler and server lifecycle.
type Application struct {
	cfg       config.Application
	db        *pgxpool.Pool
	deps      *Dependencies
	router    *mux.Router
	srv       *http.Server
	scheduler *cron.Cron

	refreshes     sync.WaitGroup
	cancelRefresh context.CancelFunc
}

// NewApplication constructs the full HTTP application, ready to Run().
func NewApplication(ctx context.Context, cfg config.Application) (*Application, error) {
	var db *pgxpool.Pool
	if cfg.Database.Enabled {
		if err := database.Migrate(cfg.Database); err != nil {
			return nil, err
		}
		pool, err := database.Open(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		db = pool
	}

	deps, err := BuildDependencies(ctx, db, cfg)
	if err != nil {
		if db != nil {
			db.Close()
		}
		return nil, err
	}

	r := mux.NewRouter()
	SetupMiddleware(r)
	RegisterRoutes(r, deps)

	srv := &http.Server{
		Handler:      cors(r),
		Addr:         cfg.Addr,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	scheduler := cron.New()
	_, err = scheduler.AddFunc(cfg.Source.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if _, err := deps.CatalogService.Refresh(ctx); err != nil {
			log.Errorf("Scheduled refresh failed: %v", err)
		}
	})
	if err != nil {
		if db != nil {
			db.Close()
		}
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", cfg.Source.Schedule, err)
	}

	return &Application{cfg: cfg, db: db, deps: deps, router: r, srv: srv, scheduler: scheduler}, nil
}

// Run restores the last snapshot, starts the refresh scheduler and the HTTP
// server, and blocks until SIGINT/SIGTERM.
func (a *Application) Run(ctx context.Context) error {
	if err := a.deps.CatalogService.Restore(ctx); err != nil {
		log.Warnf("Could not restore catalog: %v", err)
	}
	a.refreshInBackground(ctx)
	a.scheduler.Start()

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting server on %s", a.srv.Addr)
		if err := a.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-errCh:
		a.close()
		return err
	case sig := <-stop:
		log.Infof("Received %s, shutting down", sig)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := a.srv.Shutdown(shutdownCtx)
	a.close()
	return err
}

// refreshInBackground runs the start-up refresh; close cancels and waits for it.
func (a *Application) refreshInBackground(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	a.cancelRefresh = cancel
	a.refreshes.Add(1)
	go func() {
		defer a.refreshes.Done()
		if _, err := a.deps.CatalogService.Refresh(ctx); err != nil {
			log.Errorf("Initial refresh failed: %v", err)
		}
	}()
}

func (a *Application) close() {
	if a.cancelRefresh != nil {
		a.cancelRefresh()
	}
	a.refreshes.Wait()
	<-a.scheduler.Stop().Done()
	if a.db != nil {
		a.db.Close()
	}
}
