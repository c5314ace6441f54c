package entrypoint

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mrlokans/hadith/internal/config"
	"github.com/mrlokans/hadith/internal/database"
	"github.com/mrlokans/hadith/internal/database/collections"
	"github.com/mrlokans/hadith/internal/database/hadith"
	"github.com/mrlokans/hadith/internal/database/meta"
	"github.com/mrlokans/hadith/internal/exporters"
	"github.com/mrlokans/hadith/internal/scheduler"
	"github.com/mrlokans/hadith/internal/seed"
)

// App wires the store, repositories and jobs built from one configuration.
// Nothing touches the database file until the first call that needs it.
type App struct {
	Config      *config.Config
	DB          *database.Database
	Collections *collections.Repository
	Hadith      *hadith.Repository
	Meta        *meta.Repository
	Seeder      *seed.Seeder
	Exporter    *exporters.DatabaseMarkdownExporter
}

// NewApp builds an App from cfg.
func NewApp(cfg *config.Config) *App {
	db := database.NewDatabase(cfg.Database.Path, database.WithLogLevel(database.ParseLogLevel(cfg.Database.LogLevel)))

	return &App{
		Config:      cfg,
		DB:          db,
		Collections: collections.NewRepository(db),
		Hadith:      hadith.NewRepository(db).WithSearchLimit(cfg.Search.Limit),
		Meta:        meta.NewRepository(db),
		Seeder:      seed.NewSeeder(db, seed.FileSource(cfg.Seed.DatasetPath)),
		Exporter:    exporters.NewDatabaseMarkdownExporter(db, cfg.Export.Dir),
	}
}

// Bootstrap runs Initialize with the configured retry policy.
func (a *App) Bootstrap() (Bootstrap, error) {
	return WithRetry(a.Config.Bootstrap.MaxAttempts, a.Config.Bootstrap.RetryDelay, func() (Bootstrap, error) {
		return Initialize(a.DB, a.Seeder, a.Config.UI.DefaultCollection)
	})
}

// Close releases the database handle.
func (a *App) Close() {
	if err := a.DB.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}
}

// NewExportScheduler builds the scheduler for the configured export job.
// Run outcomes are recorded in the meta table.
func (a *App) NewExportScheduler() *scheduler.ExportScheduler {
	return scheduler.NewExportScheduler(a.Exporter, a.Meta, a.Config.Export.Schedule)
}

// ServeScheduledExport runs the export scheduler until ctx is cancelled or
// the process receives SIGINT or SIGTERM.
func (a *App) ServeScheduledExport(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s := a.NewExportScheduler()
	if err := s.Start(context.Background()); err != nil {
		return fmt.Errorf("failed to start export scheduler: %w", err)
	}
	if next := s.NextRun(); next != nil {
		fmt.Fprintf(os.Stdout, "Exporting to %s on schedule '%s'. Next run: %s\n",
			a.Config.Export.Dir, a.Config.Export.Schedule, next.Format(time.RFC1123))
	}

	<-ctx.Done()

	timeout := time.Duration(a.Config.Global.ShutdownTimeoutInSeconds) * time.Second
	log.Printf("Shutting down export scheduler, waiting %v for a running export", timeout)

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(timeout):
		log.Printf("Export scheduler did not stop within %v", timeout)
	}
	return nil
}
