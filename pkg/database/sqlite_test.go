package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/SscSPs/orsys_voucher_app/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "vouchers.db")

	db, err := database.OpenSQLite(context.Background(), path)
	require.NoError(t, err)
	defer db.Close()

	changed, err := database.MigrateSQLite(path)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = database.MigrateSQLite(path)
	require.NoError(t, err)
	assert.False(t, changed)

	for _, table := range []string{"vouchers", "heads", "app_users"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, table)
		assert.Equal(t, table, name)
	}
}
