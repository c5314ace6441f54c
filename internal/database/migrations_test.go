package database

import (
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/hadith/internal/entities"
)

func newUnmigratedDB(t *testing.T) *Database {
	t.Helper()
	db := NewDatabase(filepath.Join(t.TempDir(), "hadith.db"), WithLogLevel(logger.Silent))
	t.Cleanup(func() { db.Close() })
	return db
}

func tableNames(t *testing.T, db *Database) []string {
	t.Helper()
	var names []string
	require.NoError(t, db.Query(&names, `SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name`))
	return names
}

func indexNames(t *testing.T, db *Database) []string {
	t.Helper()
	var names []string
	require.NoError(t, db.Query(&names, `SELECT name FROM sqlite_master WHERE type = 'index' AND name LIKE 'idx_%' ORDER BY name`))
	return names
}

func TestRunMigrations_FreshDatabase(t *testing.T) {
	db := newUnmigratedDB(t)

	require.NoError(t, db.RunMigrations())

	assert.Equal(t, []string{"collections", "hadith", "meta", "user_selected_collections"}, tableNames(t, db))
	assert.Equal(t, []string{"idx_hadith_collection", "idx_hadith_search_keys", "idx_hadith_uid"}, indexNames(t, db))

	var columns []string
	require.NoError(t, db.Query(&columns, `SELECT name FROM pragma_table_info('hadith')`))
	assert.Contains(t, columns, "uid")

	var modes []string
	require.NoError(t, db.Query(&modes, `PRAGMA journal_mode`))
	assert.Equal(t, []string{"wal"}, modes)

	var fk []int
	require.NoError(t, db.Query(&fk, `PRAGMA foreign_keys`))
	assert.Equal(t, []int{1}, fk)

	var meta []entities.Meta
	require.NoError(t, db.Query(&meta, `SELECT key, value FROM meta WHERE key = ?`, entities.MetaKeySchemaVersion))
	require.Len(t, meta, 1)
	assert.Equal(t, strconv.Itoa(SchemaVersion()), meta[0].Value)
}

func TestRunMigrations_Idempotent(t *testing.T) {
	db := newUnmigratedDB(t)

	require.NoError(t, db.RunMigrations())
	_, err := db.Execute(`INSERT INTO hadith (id, collection, text_ar, text_norm, tokens_json, search_keys, uid)
		VALUES ('1', 'bukhari', 'x', 'x', '[]', 'x', 'bukhari:1')`)
	require.NoError(t, err)

	require.NoError(t, db.RunMigrations())
	require.NoError(t, db.RunMigrations())

	assert.Equal(t, 1, countRows(t, db, "hadith"))
	assert.Equal(t, 1, countRows(t, db, "collections"))
	assert.Len(t, indexNames(t, db), 3)
}

func TestRunMigrations_LegacyDatabase(t *testing.T) {
	db := newUnmigratedDB(t)

	// A file written before uid and collections existed.
	_, err := db.Execute(`CREATE TABLE hadith (id, collection, text_ar, text_norm, tokens_json, search_keys)`)
	require.NoError(t, err)
	_, err = db.Execute(`INSERT INTO hadith VALUES
		('1', 'bukhari', 'a', 'a', '[]', 'a'),
		('2', 'bukhari', 'b', 'b', '[]', 'b'),
		('7', 'muslim', 'c', 'c', '[]', 'c')`)
	require.NoError(t, err)

	require.NoError(t, db.RunMigrations())

	t.Run("backfills uid from collection and id", func(t *testing.T) {
		var uids []string
		require.NoError(t, db.Query(&uids, `SELECT uid FROM hadith ORDER BY uid`))
		assert.Equal(t, []string{"bukhari:1", "bukhari:2", "muslim:7"}, uids)
	})

	t.Run("backfills collections from hadith rows", func(t *testing.T) {
		var rows []entities.Collection
		require.NoError(t, db.Query(&rows, `SELECT * FROM collections ORDER BY id`))
		require.Len(t, rows, 2)
		assert.Equal(t, "bukhari", rows[0].ID)
		assert.Equal(t, "bukhari", rows[0].Name)
		assert.Equal(t, "muslim", rows[1].ID)
	})

	t.Run("keeps existing data", func(t *testing.T) {
		assert.Equal(t, 3, countRows(t, db, "hadith"))
	})

	t.Run("uid index rejects duplicates", func(t *testing.T) {
		_, err := db.Execute(`INSERT INTO hadith (id, collection, uid) VALUES ('1', 'bukhari', 'bukhari:1')`)
		dbErr, ok := AsError(err)
		require.True(t, ok)
		assert.True(t, dbErr.IsConstraint())
	})
}

func TestRunMigrations_DoesNotOverwriteExistingCollections(t *testing.T) {
	db := newUnmigratedDB(t)
	require.NoError(t, db.RunMigrations())

	_, err := db.Execute(`INSERT INTO collections (id, name) VALUES ('bukhari', 'Sahih al-Bukhari')`)
	require.NoError(t, err)
	_, err = db.Execute(`INSERT INTO hadith (id, collection, uid) VALUES ('1', 'bukhari', 'bukhari:1')`)
	require.NoError(t, err)

	require.NoError(t, db.RunMigrations())

	var rows []entities.Collection
	require.NoError(t, db.Query(&rows, `SELECT * FROM collections`))
	require.Len(t, rows, 1)
	assert.Equal(t, "Sahih al-Bukhari", rows[0].Name)
}

func TestRunMigrations_SchemaTooNew(t *testing.T) {
	db := newUnmigratedDB(t)
	require.NoError(t, db.RunMigrations())

	_, err := db.Execute(`UPDATE meta SET value = ? WHERE key = ?`,
		strconv.Itoa(SchemaVersion()+1), entities.MetaKeySchemaVersion)
	require.NoError(t, err)

	err = db.RunMigrations()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchemaTooNew)
	_, ok := AsError(err)
	assert.True(t, ok)
}

func TestRunMigrations_FailureRollsBack(t *testing.T) {
	db := newUnmigratedDB(t)

	// Duplicate legacy rows make the unique uid index impossible to build.
	_, err := db.Execute(`CREATE TABLE hadith (id, collection, text_ar, text_norm, tokens_json, search_keys)`)
	require.NoError(t, err)
	_, err = db.Execute(`INSERT INTO hadith VALUES
		('1', 'bukhari', 'a', 'a', '[]', 'a'),
		('1', 'bukhari', 'a', 'a', '[]', 'a')`)
	require.NoError(t, err)

	err = db.RunMigrations()
	dbErr, ok := AsError(err)
	require.True(t, ok)
	assert.True(t, dbErr.IsConstraint())

	// Nothing from the failed run survived, including the uid column.
	assert.Equal(t, []string{"hadith"}, tableNames(t, db))
	var columns []string
	require.NoError(t, db.Query(&columns, `SELECT name FROM pragma_table_info('hadith')`))
	assert.NotContains(t, columns, "uid")
}
