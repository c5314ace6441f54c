package database

import (
	"fmt"
	"log"
	"strconv"

	"github.com/mrlokans/hadith/internal/entities"
)

// migration is one idempotent schema step. Every step runs on every start;
// the highest version is recorded in meta so that a file written by a newer
// build is detected instead of silently mis-read.
type migration struct {
	version int
	name    string
	apply   func(tx *Tx) error
}

var migrations = []migration{
	{version: 1, name: "create base tables", apply: createBaseTables},
	{version: 2, name: "add hadith uid", apply: addHadithUID},
	{version: 3, name: "create indexes", apply: createIndexes},
	{version: 4, name: "backfill collections", apply: backfillCollections},
}

// SchemaVersion is the highest migration version this build knows.
func SchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// connectionPragmas are connection-level settings and cannot change inside
// a transaction.
var connectionPragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA foreign_keys = ON",
}

// RunMigrations creates or upgrades the schema. It is safe to call on every
// start. All steps run in one transaction; any failure rolls back the whole
// migration and should be treated as fatal to startup.
func (d *Database) RunMigrations() error {
	for _, pragma := range connectionPragmas {
		if _, err := d.Execute(pragma); err != nil {
			return err
		}
	}

	return d.Transaction(func(tx *Tx) error {
		stored, err := storedSchemaVersion(tx)
		if err != nil {
			return err
		}
		if stored > SchemaVersion() {
			return newError(
				fmt.Sprintf("database schema version %d is newer than supported version %d", stored, SchemaVersion()),
				ErrSchemaTooNew, "", nil)
		}

		for _, m := range migrations {
			if err := m.apply(tx); err != nil {
				return asError(fmt.Sprintf("migration %d (%s) failed", m.version, m.name), err)
			}
		}

		if _, err := tx.Execute(
			`INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)`,
			entities.MetaKeySchemaVersion, strconv.Itoa(SchemaVersion()),
		); err != nil {
			return err
		}

		if stored < SchemaVersion() {
			log.Printf("Migrations: schema upgraded from version %d to %d", stored, SchemaVersion())
		}
		return nil
	})
}

// storedSchemaVersion returns 0 for a fresh file or one that predates
// versioned migrations.
func storedSchemaVersion(tx *Tx) (int, error) {
	var tables []string
	if err := tx.Query(&tables, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'meta'`); err != nil {
		return 0, err
	}
	if len(tables) == 0 {
		return 0, nil
	}

	var rows []entities.Meta
	if err := tx.Query(&rows, `SELECT key, value FROM meta WHERE key = ?`, entities.MetaKeySchemaVersion); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}

	version, err := strconv.Atoi(rows[0].Value)
	if err != nil {
		return 0, newError(fmt.Sprintf("invalid stored schema version %q", rows[0].Value), err, "", nil)
	}
	return version, nil
}

// hadith deliberately has no primary key so that legacy files with
// duplicate rows still open; uid uniqueness is enforced by an index.
func createBaseTables(tx *Tx) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS collections (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			version TEXT,
			description TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS hadith (
			id TEXT,
			collection TEXT,
			text_ar TEXT,
			text_norm TEXT,
			tokens_json TEXT,
			search_keys TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS user_selected_collections (
			id TEXT PRIMARY KEY
		)`,
	}
	for _, stmt := range statements {
		if _, err := tx.Execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

// addHadithUID adds the uid column to files created before it existed and
// fills it for any row that lacks one. The change is additive only.
func addHadithUID(tx *Tx) error {
	var columns []string
	if err := tx.Query(&columns, `SELECT name FROM pragma_table_info('hadith')`); err != nil {
		return err
	}

	hasUID := false
	for _, c := range columns {
		if c == "uid" {
			hasUID = true
			break
		}
	}

	if !hasUID {
		if _, err := tx.Execute(`ALTER TABLE hadith ADD COLUMN uid TEXT`); err != nil {
			return err
		}
		log.Printf("Migrations: added hadith.uid column")
	}

	res, err := tx.Execute(`UPDATE hadith SET uid = collection || ':' || id WHERE uid IS NULL`)
	if err != nil {
		return err
	}
	if res.RowsAffected > 0 {
		log.Printf("Migrations: backfilled uid for %d hadith rows", res.RowsAffected)
	}
	return nil
}

func createIndexes(tx *Tx) error {
	statements := []string{
		`CREATE INDEX IF NOT EXISTS idx_hadith_collection ON hadith(collection)`,
		`CREATE INDEX IF NOT EXISTS idx_hadith_search_keys ON hadith(search_keys)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_hadith_uid ON hadith(uid)`,
	}
	for _, stmt := range statements {
		if _, err := tx.Execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

// backfillCollections registers every collection referenced by hadith rows
// that has no collections entry yet, using the id as its name.
func backfillCollections(tx *Tx) error {
	res, err := tx.Execute(`INSERT OR IGNORE INTO collections (id, name)
		SELECT DISTINCT collection, collection FROM hadith
		WHERE collection IS NOT NULL AND collection NOT IN (SELECT id FROM collections)`)
	if err != nil {
		return err
	}
	if res.RowsAffected > 0 {
		log.Printf("Migrations: backfilled %d collections from hadith rows", res.RowsAffected)
	}
	return nil
}
