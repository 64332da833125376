package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/genlib/internal/application/handlers"
	"github.com/ersonp/genlib/internal/domain/entities"
	"github.com/ersonp/genlib/internal/infrastructure/config"
)

func createTree(t *testing.T, basePath, name string) {
	t.Helper()
	_, err := handlers.NewInitHandler(openStore).HandleCreateTree(t.Context(), basePath, name, "")
	require.NoError(t, err)
}

func TestTreeManager_Delete_EmptyTree(t *testing.T) {
	tmpDir := t.TempDir()
	createTree(t, tmpDir, "holm")
	createTree(t, tmpDir, "berg")

	mgr := &treeManager{basePath: tmpDir}
	require.NoError(t, mgr.delete(t.Context(), "holm", false))

	trees, err := config.LoadTrees(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, []string{"berg"}, trees.Names())
	assert.NoDirExists(t, config.TreeDir(tmpDir, "holm"))
	assert.DirExists(t, config.TreeDir(tmpDir, "berg"))
}

func TestTreeManager_Delete_TreeWithPersons(t *testing.T) {
	tmpDir := t.TempDir()
	createTree(t, tmpDir, "berg")

	store, err := openStore(config.SQLitePathForTree(tmpDir, "berg"))
	require.NoError(t, err)
	require.NoError(t, store.EnsureSchema(t.Context()))
	_, err = store.CreatePerson(t.Context(), &entities.Person{
		Firstname:     "Olof",
		Surname:       "Berg",
		DirectoryName: "olof_berg",
	})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	mgr := &treeManager{basePath: tmpDir}

	count, err := mgr.personCount(t.Context(), "berg")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	err = mgr.delete(t.Context(), "berg", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contains 1 persons")

	require.NoError(t, mgr.delete(t.Context(), "berg", true))
	_, err = os.Stat(config.SQLitePathForTree(tmpDir, "berg"))
	assert.True(t, os.IsNotExist(err))
}

func TestTreeManager_Delete_UnknownTree(t *testing.T) {
	mgr := &treeManager{basePath: t.TempDir()}

	err := mgr.delete(t.Context(), "missing", false)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestTreeManager_PersonCount_NoDatabase(t *testing.T) {
	mgr := &treeManager{basePath: t.TempDir()}

	count, err := mgr.personCount(t.Context(), "never-created")

	require.NoError(t, err)
	assert.Zero(t, count)
}
