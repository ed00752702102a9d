package sqliteutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAndMigrate(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS things (id TEXT PRIMARY KEY, active INTEGER NOT NULL)`,
		`CREATE INDEX IF NOT EXISTS idx_things_active ON things(active)`,
	}
	require.NoError(t, Migrate(ctx, db, "test", stmts))
	require.NoError(t, Migrate(ctx, db, "test", stmts), "migrations are idempotent")

	_, err = db.ExecContext(ctx, `INSERT INTO things(id, active) VALUES(?, ?)`, "a", BoolInt(true))
	require.NoError(t, err)

	var active int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT active FROM things WHERE id = ?`, "a").Scan(&active))
	assert.Equal(t, 1, active)
}

func TestMigrateRollsBackOnError(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()

	err = Migrate(context.Background(), db, "broken", []string{
		`CREATE TABLE ok_table (id TEXT)`,
		`THIS IS NOT SQL`,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apply broken schema")
}
