// Package hadith provides lookup, listing and search over hadith records.
//
// Search is a substring match over search_keys, the space-joined normalized
// tokens of each record. It is not token-aware: a query that matches inside
// one token and runs into the next can produce a false positive, and a query
// whose words never appear as one literal substring is missed.
//
// # Usage
//
//	repo := hadith.NewRepository(db)
//	results, err := repo.SearchByText("بسم الله")
package hadith

import (
	"github.com/mrlokans/hadith/internal/config"
	"github.com/mrlokans/hadith/internal/database"
	"github.com/mrlokans/hadith/internal/entities"
	"github.com/mrlokans/hadith/internal/textnorm"
)

const columns = `id, collection, text_ar, text_norm, tokens_json, search_keys, uid`

// Ids are stored as text; ordering uses their numeric value and falls back
// to the text for ties such as non-numeric ids.
const (
	orderByID           = `ORDER BY CAST(id AS INTEGER) ASC, id ASC`
	orderByCollectionID = `ORDER BY collection ASC, CAST(id AS INTEGER) ASC, id ASC`
)

// Repository handles all hadith database operations.
type Repository struct {
	exec        database.Executor
	searchLimit int
}

// NewRepository creates a new hadith repository. exec may be a *database.Tx.
func NewRepository(exec database.Executor) *Repository {
	return &Repository{
		exec:        exec,
		searchLimit: config.DefaultSearchLimit,
	}
}

// WithSearchLimit returns a copy of the repository with a different cap on
// search results. Values <= 0 are ignored.
func (r *Repository) WithSearchLimit(limit int) *Repository {
	clone := *r
	if limit > 0 {
		clone.searchLimit = limit
	}
	return &clone
}

// GetByUID returns the record with the given uid, or nil when none exists.
func (r *Repository) GetByUID(uid string) (*entities.Hadith, error) {
	var rows []entities.Hadith
	if err := r.exec.Query(&rows, `SELECT `+columns+` FROM hadith WHERE uid = ? LIMIT 1`, uid); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// ListByCollection returns all records of one collection ordered by numeric id.
func (r *Repository) ListByCollection(collection string) ([]entities.Hadith, error) {
	var rows []entities.Hadith
	err := r.exec.Query(&rows,
		`SELECT `+columns+` FROM hadith WHERE collection = ? `+orderByID, collection)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByCollections returns the records of the given collections ordered by
// collection, then numeric id. An empty list means no filter: every record
// is returned.
func (r *Repository) ListByCollections(collections []string) ([]entities.Hadith, error) {
	var rows []entities.Hadith
	var err error
	if len(collections) == 0 {
		err = r.exec.Query(&rows, `SELECT `+columns+` FROM hadith `+orderByCollectionID)
	} else {
		err = r.exec.Query(&rows,
			`SELECT `+columns+` FROM hadith WHERE collection IN ? `+orderByCollectionID, collections)
	}
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// SearchByText normalizes query and returns records whose search keys
// contain it, ordered by collection then numeric id and capped at the
// search limit. A query that normalizes to nothing matches every record.
func (r *Repository) SearchByText(query string) ([]entities.Hadith, error) {
	var rows []entities.Hadith
	err := r.exec.Query(&rows,
		`SELECT `+columns+` FROM hadith WHERE search_keys LIKE ? `+orderByCollectionID+` LIMIT ?`,
		likePattern(query), r.searchLimit)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// SearchWithinCollections is SearchByText restricted to the given
// collections. An empty list falls back to the unfiltered search.
func (r *Repository) SearchWithinCollections(query string, collections []string) ([]entities.Hadith, error) {
	if len(collections) == 0 {
		return r.SearchByText(query)
	}

	var rows []entities.Hadith
	err := r.exec.Query(&rows,
		`SELECT `+columns+` FROM hadith WHERE search_keys LIKE ? AND collection IN ? `+orderByCollectionID+` LIMIT ?`,
		likePattern(query), collections, r.searchLimit)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Upsert inserts a record or replaces the one with the same uid.
func (r *Repository) Upsert(h entities.Hadith) error {
	_, err := r.exec.Execute(
		`INSERT OR REPLACE INTO hadith (`+columns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		h.ID, h.Collection, h.TextAr, h.TextNorm, h.TokensJSON, h.SearchKeys, h.UID,
	)
	return err
}

// Count returns the number of stored records.
func (r *Repository) Count() (int64, error) {
	var counts []int64
	if err := r.exec.Query(&counts, `SELECT COUNT(*) FROM hadith`); err != nil {
		return 0, err
	}
	if len(counts) == 0 {
		return 0, nil
	}
	return counts[0], nil
}

// CountByCollection returns the number of records per collection id.
func (r *Repository) CountByCollection() (map[string]int64, error) {
	var rows []struct {
		Collection string `gorm:"column:collection"`
		Total      int64  `gorm:"column:total"`
	}
	if err := r.exec.Query(&rows, `SELECT collection, COUNT(*) AS total FROM hadith GROUP BY collection`); err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Collection] = row.Total
	}
	return counts, nil
}

// Normalized text contains no LIKE wildcards, so it needs no escaping.
func likePattern(query string) string {
	return "%" + textnorm.Normalize(query) + "%"
}
