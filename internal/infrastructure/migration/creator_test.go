package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	upPath, downPath, err := CreateMigration(dir, "Add Payment Notifications")
	require.NoError(t, err)

	assert.FileExists(t, upPath)
	assert.FileExists(t, downPath)
	assert.Contains(t, filepath.Base(upPath), "add_payment_notifications.up.sql")
	assert.Contains(t, filepath.Base(downPath), "add_payment_notifications.down.sql")

	content, err := os.ReadFile(upPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Add Payment Notifications")
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"create sites", "create_sites"},
		{"Create-Sites", "create_sites"},
		{"add  index!!", "add_index"},
		{"trailing ", "trailing"},
		{"v2 schema", "v2_schema"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeName(tt.input))
		})
	}
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()

	list, err := ListMigrations(dir)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, _, err = CreateMigration(dir, "create sites")
	require.NoError(t, err)

	list, err = ListMigrations(dir)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Contains(t, list[0], "create_sites")

	t.Run("missing directory", func(t *testing.T) {
		list, err := ListMigrations(filepath.Join(dir, "nope"))
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}
