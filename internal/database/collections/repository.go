// Package collections provides database operations for collections and the
// user's selected collection filter.
//
// # Usage
//
//	repo := collections.NewRepository(db)
//	all, err := repo.ListCollections()
//	err = repo.SetUserSelectedCollections([]string{"bukhari", "muslim"})
package collections

import (
	"github.com/mrlokans/hadith/internal/database"
	"github.com/mrlokans/hadith/internal/entities"
)

// Repository handles all collection database operations.
type Repository struct {
	db *database.Database
}

// NewRepository creates a new collections repository.
func NewRepository(db *database.Database) *Repository {
	return &Repository{db: db}
}

// ListCollections returns every collection ordered by name, case-insensitive.
func (r *Repository) ListCollections() ([]entities.Collection, error) {
	var collections []entities.Collection
	err := r.db.Query(&collections,
		`SELECT id, name, version, description FROM collections ORDER BY name COLLATE NOCASE ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	return collections, nil
}

// RegisterIfAbsent inserts a collection unless one with the same id exists.
// An existing collection is never overwritten. Reports whether a row was added.
func (r *Repository) RegisterIfAbsent(collection entities.Collection) (bool, error) {
	res, err := r.db.Execute(
		`INSERT OR IGNORE INTO collections (id, name, version, description) VALUES (?, ?, ?, ?)`,
		collection.ID, collection.Name, collection.Version, collection.Description,
	)
	if err != nil {
		return false, err
	}
	return res.RowsAffected > 0, nil
}

// SetUserSelectedCollections replaces the whole selection in one transaction.
// Duplicate ids are stored once.
func (r *Repository) SetUserSelectedCollections(ids []string) error {
	return r.db.Transaction(func(tx *database.Tx) error {
		if _, err := tx.Execute(`DELETE FROM user_selected_collections`); err != nil {
			return err
		}
		for _, id := range ids {
			if _, err := tx.Execute(`INSERT OR IGNORE INTO user_selected_collections (id) VALUES (?)`, id); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetUserSelectedCollections returns the selected collection ids. The order
// carries no meaning.
func (r *Repository) GetUserSelectedCollections() ([]string, error) {
	ids := []string{}
	if err := r.db.Query(&ids, `SELECT id FROM user_selected_collections`); err != nil {
		return nil, err
	}
	return ids, nil
}
