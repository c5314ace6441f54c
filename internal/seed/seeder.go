// Package seed performs the one-time import of the hadith dataset.
//
// SeedIfEmpty is safe to call on every start, after migrations. It imports
// only into an empty store that was never seeded, and the seeded flag
// commits in the same transaction as the rows.
package seed

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/mrlokans/hadith/internal/database"
	"github.com/mrlokans/hadith/internal/database/collections"
	"github.com/mrlokans/hadith/internal/database/hadith"
	"github.com/mrlokans/hadith/internal/database/meta"
	"github.com/mrlokans/hadith/internal/entities"
	"github.com/mrlokans/hadith/internal/textnorm"
)

// Outcome says which branch SeedIfEmpty took.
type Outcome string

const (
	OutcomeAlreadySeeded Outcome = "already_seeded"
	OutcomeLegacyData    Outcome = "legacy_data"
	OutcomeImported      Outcome = "imported"
)

// Report summarizes one SeedIfEmpty call.
type Report struct {
	Outcome Outcome
	// Inserted counts distinct rows written. A later item with the same uid
	// overwrites the earlier row and is counted in Replaced instead.
	Inserted int
	Replaced int
	Skipped  int
	// Collections lists the distinct collection ids of the valid items, in
	// the order they first appear in the dataset.
	Collections []string
}

// Source supplies the dataset. It is only called when an import happens.
type Source func() ([]Item, error)

// StaticSource serves a fixed list of items.
func StaticSource(items []Item) Source {
	return func() ([]Item, error) {
		return items, nil
	}
}

// FileSource serves the dataset file at path, or the bundled dataset when
// path is empty.
func FileSource(path string) Source {
	return func() ([]Item, error) {
		return Dataset(path)
	}
}

// Seeder imports a dataset into an empty store.
type Seeder struct {
	db     *database.Database
	source Source
}

// NewSeeder creates a seeder reading items from source.
func NewSeeder(db *database.Database, source Source) *Seeder {
	return &Seeder{db: db, source: source}
}

// SeedIfEmpty imports the dataset unless the store was already seeded or
// already holds rows. Invalid items and rows rejected by a constraint are
// skipped and counted. Any other failure aborts the whole import, leaving no
// rows and no seeded flag behind.
func (s *Seeder) SeedIfEmpty() (Report, error) {
	seeded, err := meta.NewRepository(s.db).IsSet(entities.MetaKeySeeded)
	if err != nil {
		return Report{}, err
	}
	if seeded {
		return Report{Outcome: OutcomeAlreadySeeded}, nil
	}

	count, err := hadith.NewRepository(s.db).Count()
	if err != nil {
		return Report{}, err
	}
	if count > 0 {
		if err := meta.NewRepository(s.db).MarkSet(entities.MetaKeySeeded); err != nil {
			return Report{}, err
		}
		log.Printf("Seeder: found %d existing hadith rows, marking store as seeded without import", count)
		return Report{Outcome: OutcomeLegacyData}, nil
	}

	items, err := s.source()
	if err != nil {
		return Report{}, fmt.Errorf("failed to load seed dataset: %w", err)
	}
	return s.importItems(items)
}

func (s *Seeder) importItems(items []Item) (Report, error) {
	report := Report{Outcome: OutcomeImported}

	valid := make([]Item, 0, len(items))
	seen := make(map[string]bool)
	for i, item := range items {
		if err := item.Validate(); err != nil {
			log.Printf("Seeder: skipping item %d: %v", i, err)
			report.Skipped++
			continue
		}
		valid = append(valid, item)
		if !seen[item.Collection] {
			seen[item.Collection] = true
			report.Collections = append(report.Collections, item.Collection)
		}
	}

	collectionRepo := collections.NewRepository(s.db)
	for _, id := range report.Collections {
		added, err := collectionRepo.RegisterIfAbsent(collectionFor(id))
		if err != nil {
			return Report{}, err
		}
		if added {
			log.Printf("Seeder: registered collection %s", id)
		}
	}

	err := s.db.Transaction(func(tx *database.Tx) error {
		repo := hadith.NewRepository(tx)
		written := make(map[string]bool, len(valid))
		for _, item := range valid {
			row, err := buildRow(item)
			if err != nil {
				log.Printf("Seeder: skipping %s:%s: %v", item.Collection, item.ID, err)
				report.Skipped++
				continue
			}

			rejected, err := insertRow(tx, repo, row)
			if err != nil {
				return err
			}
			switch {
			case rejected:
				report.Skipped++
			case written[row.UID]:
				report.Replaced++
			default:
				written[row.UID] = true
				report.Inserted++
			}
		}
		return meta.NewRepository(tx).MarkSet(entities.MetaKeySeeded)
	})
	if err != nil {
		return Report{}, err
	}

	log.Printf("Seeder: imported %d hadith into %d collections (%d replaced, %d skipped)",
		report.Inserted, len(report.Collections), report.Replaced, report.Skipped)
	return report, nil
}

const rowSavepoint = "seed_row"

// insertRow upserts one row under a savepoint. A row rejected by a constraint
// is undone on its own and reported as rejected. Any other failure, or one
// that already ended the surrounding transaction, is returned.
func insertRow(tx *database.Tx, repo *hadith.Repository, row entities.Hadith) (bool, error) {
	if _, err := tx.Execute("SAVEPOINT " + rowSavepoint); err != nil {
		return false, err
	}

	upsertErr := repo.Upsert(row)
	if upsertErr != nil {
		// Fails when the engine rolled back the whole transaction.
		if _, err := tx.Execute("ROLLBACK TO " + rowSavepoint); err != nil {
			return false, fmt.Errorf("failed to insert %s: %w", row.UID, upsertErr)
		}
	}
	if _, err := tx.Execute("RELEASE " + rowSavepoint); err != nil {
		return false, err
	}
	if upsertErr == nil {
		return false, nil
	}

	if dbErr, ok := database.AsError(upsertErr); !ok || !dbErr.IsConstraint() {
		return false, fmt.Errorf("failed to insert %s: %w", row.UID, upsertErr)
	}
	log.Printf("Seeder: skipping %s: %v", row.UID, upsertErr)
	return true, nil
}

// buildRow derives the stored columns. The item's own tokens win when it has
// any; otherwise tokens come from the text.
func buildRow(item Item) (entities.Hadith, error) {
	var tokens []string
	if len(item.Tokens) > 0 {
		tokens = textnorm.NormalizeTokens(item.Tokens)
	} else {
		tokens = textnorm.Tokenize(item.TextAr)
	}
	if tokens == nil {
		tokens = []string{}
	}

	tokensJSON, err := json.Marshal(tokens)
	if err != nil {
		return entities.Hadith{}, fmt.Errorf("failed to encode tokens: %w", err)
	}

	id := string(item.ID)
	return entities.Hadith{
		ID:         id,
		Collection: item.Collection,
		TextAr:     item.TextAr,
		TextNorm:   textnorm.Normalize(item.TextAr),
		TokensJSON: string(tokensJSON),
		SearchKeys: textnorm.TokensToSearchKeys(tokens),
		UID:        entities.MakeUID(item.Collection, id),
	}, nil
}
