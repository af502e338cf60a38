package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteLowerFoldsUnicode(t *testing.T) {
	db, err := Open(context.Background(), SQLite, SQLiteDSN(filepath.Join(t.TempDir(), "lower.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	for in, want := range map[string]string{
		"Élysée Montmartre": "élysée montmartre",
		"CAFÉ OTO":          "café oto",
		"Straße":            "straße",
		"plain ascii":       "plain ascii",
	} {
		var got string
		require.NoError(t, db.QueryRow("SELECT LOWER(?)", in).Scan(&got))
		assert.Equal(t, want, got, in)
	}

	var null *string
	require.NoError(t, db.QueryRow("SELECT LOWER(NULL)").Scan(&null))
	assert.Nil(t, null)

	var matched int
	require.NoError(t, db.QueryRow("SELECT LOWER('Élysée') LIKE ?", "%élys%").Scan(&matched))
	assert.Equal(t, 1, matched)
}
