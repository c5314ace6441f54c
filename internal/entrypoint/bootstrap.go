package entrypoint

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mrlokans/hadith/internal/database"
	"github.com/mrlokans/hadith/internal/database/hadith"
	"github.com/mrlokans/hadith/internal/entities"
	"github.com/mrlokans/hadith/internal/seed"
)

// Seeder is the one-time import run after migrations.
type Seeder interface {
	SeedIfEmpty() (seed.Report, error)
}

var _ Seeder = (*seed.Seeder)(nil)

// Bootstrap is what a successful start hands to the presentation layer.
type Bootstrap struct {
	Report seed.Report
	// Initial holds the records of the default collection.
	Initial []entities.Hadith
}

// Initialize runs migrate, seed and the initial listing, in that order. Any
// failure aborts the sequence; callers retry by calling Initialize again.
func Initialize(db *database.Database, seeder Seeder, defaultCollection string) (Bootstrap, error) {
	if err := db.RunMigrations(); err != nil {
		return Bootstrap{}, fmt.Errorf("failed to run migrations: %w", err)
	}

	report, err := seeder.SeedIfEmpty()
	if err != nil {
		return Bootstrap{}, fmt.Errorf("failed to seed database: %w", err)
	}

	initial, err := hadith.NewRepository(db).ListByCollection(defaultCollection)
	if err != nil {
		return Bootstrap{}, fmt.Errorf("failed to list collection %s: %w", defaultCollection, err)
	}

	return Bootstrap{Report: report, Initial: initial}, nil
}

// WithRetry calls fn until it succeeds or attempts run out, sleeping delay
// between attempts. attempts below 1 means a single attempt. The last error
// is returned.
func WithRetry[T any](attempts int, delay time.Duration, fn func() (T, error)) (T, error) {
	if attempts < 1 {
		attempts = 1
	}

	var (
		result T
		err    error
	)
	for attempt := 1; attempt <= attempts; attempt++ {
		result, err = fn()
		if err == nil {
			return result, nil
		}
		if attempt < attempts {
			log.Printf("Bootstrap: attempt %d/%d failed: %v. Retrying in %v", attempt, attempts, err, delay)
			time.Sleep(delay)
		}
	}
	return result, err
}

// FriendlyMessage turns a bootstrap or query failure into a sentence that
// can be shown to the user as is.
func FriendlyMessage(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, database.ErrSchemaTooNew):
		return "The hadith library was created by a newer version of this app. Please update the app."
	case errors.Is(err, database.ErrClosed):
		return "The hadith library is no longer open. Please restart the app."
	}

	if dbErr, ok := database.AsError(err); ok {
		if dbErr.IsConstraint() {
			return "The hadith library contains conflicting records and could not be prepared. Please try again."
		}
		return fmt.Sprintf("The hadith library could not be loaded (%s). Please try again.", dbErr.Message)
	}

	return "Something went wrong while preparing the hadith library. Please try again."
}
