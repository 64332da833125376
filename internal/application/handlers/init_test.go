package handlers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/genlib/internal/domain/mocks"
	"github.com/ersonp/genlib/internal/domain/ports"
	"github.com/ersonp/genlib/internal/infrastructure/config"
)

// recordingOpener returns db for every path and remembers the paths it saw.
func recordingOpener(db *mocks.RelationalDB, opened *[]string) StoreOpener {
	return func(path string) (ports.RelationalDB, error) {
		*opened = append(*opened, path)
		return db, nil
	}
}

func TestInitHandler_Handle_Success(t *testing.T) {
	tmpDir := t.TempDir()
	var opened []string
	handler := NewInitHandler(recordingOpener(mocks.NewRelationalDB(), &opened))

	result, err := handler.Handle(t.Context(), tmpDir, "")

	require.NoError(t, err)
	assert.Equal(t, config.ConfigFilePath(tmpDir), result.ConfigPath)
	assert.Equal(t, config.DefaultTree, result.Tree.Name)
	assert.Equal(t, config.SQLitePathForTree(tmpDir, config.DefaultTree), result.Tree.DatabasePath)
	assert.Equal(t, []string{result.Tree.DatabasePath}, opened)

	assert.True(t, config.Exists(tmpDir))
	trees, err := config.LoadTrees(tmpDir)
	require.NoError(t, err)
	assert.True(t, trees.Exists(config.DefaultTree))
	assert.DirExists(t, config.TreeDir(tmpDir, config.DefaultTree))
}

func TestInitHandler_Handle_AlreadyInitialized(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, config.WriteDefault(tmpDir))

	var opened []string
	handler := NewInitHandler(recordingOpener(mocks.NewRelationalDB(), &opened))

	_, err := handler.Handle(t.Context(), tmpDir, "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "already initialized")
	assert.Empty(t, opened)
}

func TestInitHandler_HandleCreateTree(t *testing.T) {
	tmpDir := t.TempDir()
	var opened []string
	handler := NewInitHandler(recordingOpener(mocks.NewRelationalDB(), &opened))

	tree, err := handler.HandleCreateTree(t.Context(), tmpDir, "berg-family", "Berg line from Dalarna")
	require.NoError(t, err)
	assert.Equal(t, "berg-family", tree.Name)

	trees, err := config.LoadTrees(tmpDir)
	require.NoError(t, err)
	entry, err := trees.Get("berg-family")
	require.NoError(t, err)
	assert.Equal(t, "Berg line from Dalarna", entry.Description)

	t.Run("duplicate name", func(t *testing.T) {
		_, err := handler.HandleCreateTree(t.Context(), tmpDir, "berg-family", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
	})

	t.Run("name sharing a directory", func(t *testing.T) {
		_, err := handler.HandleCreateTree(t.Context(), tmpDir, "Berg Family", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already uses the directory")
	})
}

func TestInitHandler_HandleCreateTree_StoreErrors(t *testing.T) {
	tests := []struct {
		name    string
		open    StoreOpener
		wantErr string
	}{
		{
			name: "open fails",
			open: func(string) (ports.RelationalDB, error) {
				return nil, errors.New("disk full")
			},
			wantErr: "opening tree database",
		},
		{
			name: "schema fails",
			open: func(string) (ports.RelationalDB, error) {
				db := mocks.NewRelationalDB()
				db.Err = errors.New("migration failed")
				return db, nil
			},
			wantErr: "creating tree schema",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			handler := NewInitHandler(tt.open)

			_, err := handler.HandleCreateTree(t.Context(), tmpDir, "smith", "")

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)

			trees, err := config.LoadTrees(tmpDir)
			require.NoError(t, err)
			assert.False(t, trees.Exists("smith"))
		})
	}
}
