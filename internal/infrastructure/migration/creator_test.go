package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"add zones table", "add_zones_table"},
		{"Add-Weekly-Tasks", "add_weekly_tasks"},
		{"SEED_CAPABILITIES", "seed_capabilities"},
		{"add__sector__works", "add_sector_works"},
		{"Drop Legacy 2024", "drop_legacy_2024"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeName(tt.input), tt.input)
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	mf, err := CreateMigration(dir, "Add Picked By Column", "track the picking user on weekly tasks")
	require.NoError(t, err)

	assert.Len(t, mf.Version, 14)
	assert.Contains(t, filepath.Base(mf.UpPath), "add_picked_by_column.up.sql")
	assert.Contains(t, filepath.Base(mf.DownPath), "add_picked_by_column.down.sql")

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "Add Picked By Column")
	assert.Contains(t, string(up), "track the picking user on weekly tasks")

	down, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "Rollback")
}

func TestCreateMigration_MakesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "migrations")

	_, err := CreateMigration(dir, "init", "initial schema")
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()

	t.Run("empty directory", func(t *testing.T) {
		names, err := ListMigrations(dir)
		require.NoError(t, err)
		assert.Empty(t, names)
	})

	t.Run("missing directory", func(t *testing.T) {
		names, err := ListMigrations(filepath.Join(dir, "absent"))
		require.NoError(t, err)
		assert.Empty(t, names)
	})

	t.Run("lists up migrations once", func(t *testing.T) {
		for _, name := range []string{
			"20260101000000_add_zones.up.sql",
			"20260101000000_add_zones.down.sql",
			"20260102000000_add_works.up.sql",
			"20260102000000_add_works.down.sql",
			"notes.txt",
		} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("-- sql"), 0644))
		}

		names, err := ListMigrations(dir)
		require.NoError(t, err)
		assert.Equal(t, []string{
			"20260101000000_add_zones",
			"20260102000000_add_works",
		}, names)
	})
}
