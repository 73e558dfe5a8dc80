package infrastructure

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteClient_MigrateIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	assert.False(t, SQLiteExists(path))

	ctx := context.Background()
	client, err := NewSQLiteClient(ctx, path)
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Migrate(ctx))
	require.NoError(t, client.Migrate(ctx))
	assert.True(t, SQLiteExists(path))

	for _, table := range []string{"companies", "products", "services"} {
		var name string
		err := client.DB.QueryRowContext(ctx,
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, table)
		assert.Equal(t, table, name)
	}
}

func TestSQLiteClient_ForeignKeysEnforced(t *testing.T) {
	ctx := context.Background()
	client, err := NewSQLiteClient(ctx, filepath.Join(t.TempDir(), "fk.db"))
	require.NoError(t, err)
	defer client.Close()
	require.NoError(t, client.Migrate(ctx))

	_, err = client.DB.ExecContext(ctx, "INSERT INTO products (company_id, name) VALUES (42, 'Caneca')")
	assert.Error(t, err)
}
