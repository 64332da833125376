package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/genlib/internal/domain/entities"
)

func TestSanitizeTreeName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "simple lowercase", input: "andersson", expected: "andersson"},
		{name: "uppercase converted", input: "Andersson", expected: "andersson"},
		{name: "spaces to underscores", input: "my family", expected: "my_family"},
		{name: "hyphens to underscores", input: "berg-lind", expected: "berg_lind"},
		{name: "special characters removed", input: "berg@lind!", expected: "berglind"},
		{name: "consecutive underscores collapsed", input: "berg--lind", expected: "berg_lind"},
		{name: "leading trailing underscores trimmed", input: "-berg-", expected: "berg"},
		{name: "empty string returns default", input: "", expected: "default"},
		{name: "only special chars returns default", input: "!!!", expected: "default"},
		{name: "complex mixed input", input: "Carleson Line (Småland)", expected: "carleson_line_smland"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeTreeName(tt.input))
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "firstname_first", cfg.Naming.Format)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Empty(t, cfg.SQLite.Path)
	assert.NoError(t, cfg.Validate())
}

func TestPaths(t *testing.T) {
	base := "/home/user/genealogy"

	assert.Equal(t, "/home/user/genealogy/.genlib", ConfigDir(base))
	assert.Equal(t, "/home/user/genealogy/.genlib/config.yaml", ConfigFilePath(base))
	assert.Equal(t, "/home/user/genealogy/.genlib/trees.yaml", TreesFilePath(base))
	assert.Equal(t, "/home/user/genealogy/.genlib/trees/berg_lind", TreeDir(base, "Berg-Lind"))
	assert.Equal(t, "/home/user/genealogy/.genlib/trees/berg_lind/genlib.db", SQLitePathForTree(base, "Berg-Lind"))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "genlib init")
}

func TestLoad_DefaultFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteDefault(dir))
	assert.True(t, Exists(dir))

	cfg, err := Load(dir)
	require.NoError(t, err)

	format, err := cfg.DirNameFormat()
	require.NoError(t, err)
	assert.Equal(t, entities.DirNameFirstnameFirst, format)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteDefault(dir))

	t.Setenv("GENLIB_NAMING_FORMAT", "surname_first")
	t.Setenv("GENLIB_LOG_LEVEL", "debug")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "surname_first", cfg.Naming.Format)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_DefaultsFillMissingKeys(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(ConfigDir(dir), 0755))
	require.NoError(t, os.WriteFile(ConfigFilePath(dir), []byte("sqlite:\n  path: /tmp/x.db\n"), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.db", cfg.SQLite.Path)
	assert.Equal(t, "firstname_first", cfg.Naming.Format)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_InvalidNamingFormat(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(ConfigDir(dir), 0755))
	require.NoError(t, os.WriteFile(ConfigFilePath(dir), []byte("naming:\n  format: middle_first\n"), 0644))

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "middle_first")
}

func TestWriteDefault_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteDefault(dir))

	err := WriteDefault(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestWrite_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Naming.Format = "date_first"
	cfg.Log.Format = "json"

	require.NoError(t, Write(dir, cfg))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "date_first", loaded.Naming.Format)
	assert.Equal(t, "json", loaded.Log.Format)
}

func TestTreesConfig(t *testing.T) {
	dir := t.TempDir()

	trees, err := LoadTrees(dir)
	require.NoError(t, err)
	assert.Empty(t, trees.Trees)

	_, err = trees.Get("berg")
	assert.Error(t, err)

	trees.Add("berg", TreeEntry{Description: "Berg family"})
	trees.Add("lind", TreeEntry{})
	require.NoError(t, trees.Save(dir))

	_, err = os.Stat(filepath.Join(dir, ".genlib", "trees.yaml"))
	require.NoError(t, err)

	loaded, err := LoadTrees(dir)
	require.NoError(t, err)
	assert.True(t, loaded.Exists("berg"))
	assert.Equal(t, []string{"berg", "lind"}, loaded.Names())

	entry, err := loaded.Get("berg")
	require.NoError(t, err)
	assert.Equal(t, "Berg family", entry.Description)

	_, err = loaded.Get("holm")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "berg, lind")

	loaded.Remove("berg")
	assert.False(t, loaded.Exists("berg"))
}
