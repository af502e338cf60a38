package database

import (
	"context"
	"path/filepath"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *Migrator {
	t.Helper()
	db, err := Open(context.Background(), SQLite, SQLiteDSN(filepath.Join(t.TempDir(), "m.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	logger, _ := logtest.NewNullLogger()
	return NewMigrator(db, SQLite, logger)
}

func tableExists(t *testing.T, m *Migrator, name string) bool {
	t.Helper()
	var n int
	err := m.db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name).Scan(&n)
	require.NoError(t, err)
	return n == 1
}

func TestMigrationsAreOrderedAndComplete(t *testing.T) {
	for i, mig := range Migrations {
		assert.Equal(t, i+1, mig.Version, mig.Name)
		for _, d := range []Dialect{MySQL, SQLite} {
			assert.NotEmpty(t, mig.Up[d], "%s up %s", mig.Name, d)
			assert.NotEmpty(t, mig.Down[d], "%s down %s", mig.Name, d)
		}
	}
}

func TestMigrateUpDown(t *testing.T) {
	ctx := context.Background()
	m := openTestDB(t)

	n, err := m.Up(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, tableExists(t, m, "artists"))
	assert.False(t, tableExists(t, m, "shows"))

	n, err = m.Up(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, len(Migrations)-2, n)
	assert.True(t, tableExists(t, m, "shows"))

	// nothing left to apply
	n, err = m.Up(ctx, 0)
	require.NoError(t, err)
	assert.Zero(t, n)

	st, err := m.Status(ctx)
	require.NoError(t, err)
	require.Len(t, st, len(Migrations))
	for _, s := range st {
		assert.True(t, s.Applied, s.Name)
		assert.NotNil(t, s.AppliedAt)
	}

	// the additive columns are gone after one step down
	n, err = m.Down(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	_, err = m.db.Exec("SELECT seeking_venues FROM artists")
	assert.Error(t, err)
	_, err = m.db.Exec("SELECT seeking_talent FROM venues")
	assert.NoError(t, err)

	n, err = m.Down(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, len(Migrations)-1, n)
	assert.False(t, tableExists(t, m, "venues"))

	st, err = m.Status(ctx)
	require.NoError(t, err)
	for _, s := range st {
		assert.False(t, s.Applied, s.Name)
	}
}

func TestForeignKeysEnforced(t *testing.T) {
	ctx := context.Background()
	m := openTestDB(t)
	_, err := m.Up(ctx, 0)
	require.NoError(t, err)

	_, err = m.db.Exec("INSERT INTO shows (artist_id, venue_id, start_time) VALUES (1, 1, '2030-01-01 00:00:00')")
	assert.Error(t, err)
}

func TestParseDialect(t *testing.T) {
	d, err := ParseDialect("sqlite")
	require.NoError(t, err)
	assert.Equal(t, SQLite, d)

	d, err = ParseDialect("mysql")
	require.NoError(t, err)
	assert.Equal(t, MySQL, d)

	_, err = ParseDialect("postgres")
	assert.Error(t, err)
}

func TestMySQLDSN(t *testing.T) {
	dsn := MySQLDSN("app", "s3cret", "db.internal", "3306", "fyyur")
	assert.Contains(t, dsn, "app:s3cret@tcp(db.internal:3306)/fyyur?")
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "clientFoundRows=true")
	assert.Contains(t, dsn, "charset=utf8mb4")
}
