package migration

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/pos/backend/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add stock table", "add_stock_table"},
		{"Add-Stock-Table", "add_stock_table"},
		{"ADD_STOCK_TABLE", "add_stock_table"},
		{"add__stock__table", "add_stock_table"},
		{"Add Refunds 2", "add_refunds_2"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	t.Run("first migration gets version 1", func(t *testing.T) {
		dir := t.TempDir()

		mf, err := CreateMigration(dir, "create operators", "Operators and roles")
		require.NoError(t, err)

		assert.Equal(t, uint(1), mf.Version)
		assert.Equal(t, filepath.Join(dir, "000001_create_operators.up.sql"), mf.UpPath)
		assert.Equal(t, filepath.Join(dir, "000001_create_operators.down.sql"), mf.DownPath)

		up, err := os.ReadFile(mf.UpPath)
		require.NoError(t, err)
		assert.Contains(t, string(up), "-- create_operators")
		assert.Contains(t, string(up), "-- Operators and roles")

		down, err := os.ReadFile(mf.DownPath)
		require.NoError(t, err)
		assert.Contains(t, string(down), "(rollback)")
	})

	t.Run("numbers after the highest existing version", func(t *testing.T) {
		dir := t.TempDir()
		for _, f := range []string{"000001_a.up.sql", "000001_a.down.sql", "000007_b.up.sql", "000007_b.down.sql"} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte("--"), 0o644))
		}

		mf, err := CreateMigration(dir, "add refunds", "")
		require.NoError(t, err)
		assert.Equal(t, uint(8), mf.Version)
		assert.FileExists(t, filepath.Join(dir, "000008_add_refunds.up.sql"))
	})

	t.Run("creates missing directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "migrations")

		_, err := CreateMigration(dir, "init", "")
		require.NoError(t, err)
		assert.DirExists(t, dir)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := CreateMigration(t.TempDir(), "!!!", "")
		assert.Error(t, err)
	})
}

func TestListMigrations(t *testing.T) {
	t.Run("orders by version and pairs directions", func(t *testing.T) {
		fsys := fstest.MapFS{
			"000010_add_index.up.sql":          {Data: []byte("--")},
			"000002_create_sessions.up.sql":    {Data: []byte("--")},
			"000002_create_sessions.down.sql":  {Data: []byte("--")},
			"000001_create_operators.up.sql":   {Data: []byte("--")},
			"000001_create_operators.down.sql": {Data: []byte("--")},
			"README.md":                        {Data: []byte("docs")},
			"notes.sql":                        {Data: []byte("--")},
			"subdir.up.sql/keep":               {Data: []byte("")},
		}

		entries, err := ListMigrations(fsys)
		require.NoError(t, err)
		require.Len(t, entries, 3)

		assert.Equal(t, Entry{Version: 1, Name: "create_operators", HasDown: true}, entries[0])
		assert.Equal(t, Entry{Version: 2, Name: "create_sessions", HasDown: true}, entries[1])
		assert.Equal(t, Entry{Version: 10, Name: "add_index", HasDown: false}, entries[2])
	})

	t.Run("missing directory", func(t *testing.T) {
		entries, err := ListMigrations(os.DirFS(filepath.Join(t.TempDir(), "absent")))
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestEmbeddedMigrationsAreComplete(t *testing.T) {
	entries, err := ListMigrations(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	for i, e := range entries {
		assert.Equal(t, uint(i+1), e.Version, "versions must be contiguous")
		assert.True(t, e.HasDown, "migration %06d_%s has no down file", e.Version, e.Name)
	}
}
