// Package meta provides database operations for process-wide flags.
//
// # Usage
//
//	repo := meta.NewRepository(db)
//	seeded, err := repo.IsSet(entities.MetaKeySeeded)
package meta

import (
	"github.com/mrlokans/hadith/internal/database"
	"github.com/mrlokans/hadith/internal/entities"
)

// Repository handles all meta database operations.
type Repository struct {
	exec database.Executor
}

// NewRepository creates a new meta repository. exec may be a *database.Tx.
func NewRepository(exec database.Executor) *Repository {
	return &Repository{exec: exec}
}

// Get retrieves a value by key. found is false when the key is absent.
func (r *Repository) Get(key string) (value string, found bool, err error) {
	var rows []entities.Meta
	if err := r.exec.Query(&rows, `SELECT key, value FROM meta WHERE key = ?`, key); err != nil {
		return "", false, err
	}
	if len(rows) == 0 {
		return "", false, nil
	}
	return rows[0].Value, true, nil
}

// Set creates or replaces a value.
func (r *Repository) Set(key, value string) error {
	_, err := r.exec.Execute(`INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)`, key, value)
	return err
}

// Delete removes a key. Deleting a missing key is not an error.
func (r *Repository) Delete(key string) error {
	_, err := r.exec.Execute(`DELETE FROM meta WHERE key = ?`, key)
	return err
}

// IsSet reports whether a boolean flag holds "1".
func (r *Repository) IsSet(key string) (bool, error) {
	value, found, err := r.Get(key)
	if err != nil {
		return false, err
	}
	return found && value == entities.MetaValueTrue, nil
}

// MarkSet stores "1" for a boolean flag.
func (r *Repository) MarkSet(key string) error {
	return r.Set(key, entities.MetaValueTrue)
}
