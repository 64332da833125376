package integration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ersonp/genlib/internal/application/handlers"
	"github.com/ersonp/genlib/internal/domain/ports"
	"github.com/ersonp/genlib/internal/domain/services"
	"github.com/ersonp/genlib/internal/infrastructure/config"
	"github.com/ersonp/genlib/internal/infrastructure/logging"
	"github.com/ersonp/genlib/internal/infrastructure/relationaldb/sqlite"
)

// library is an initialized genlib directory with one open tree.
type library struct {
	basePath      string
	repo          *sqlite.Repository
	imports       *handlers.ImportHandler
	persons       *handlers.PersonHandler
	relationships *handlers.RelationshipHandler
	lineage       *handlers.TreeHandler
}

func openStore(path string) (ports.RelationalDB, error) {
	repo, err := sqlite.NewRepository(config.SQLiteConfig{Path: path})
	if err != nil {
		return nil, err
	}
	return repo, nil
}

// setupLibrary initializes a library in a temp directory and opens its
// default tree the way the CLI does.
func setupLibrary(t *testing.T) *library {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	basePath := t.TempDir()
	result, err := handlers.NewInitHandler(openStore).Handle(t.Context(), basePath, config.DefaultTree)
	require.NoError(t, err)

	cfg, err := config.Load(basePath)
	require.NoError(t, err)
	naming, err := cfg.DirNameFormat()
	require.NoError(t, err)

	repo, err := sqlite.NewRepository(config.SQLiteConfig{Path: result.Tree.DatabasePath})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	require.NoError(t, repo.EnsureSchema(t.Context()))

	logger := logging.Discard()
	relationshipService := services.NewRelationshipService(repo, logger)

	return &library{
		basePath: basePath,
		repo:     repo,
		imports: handlers.NewImportHandler(
			services.NewGedcomImportService(repo, repo, naming, logger), repo, logger,
		),
		persons:       handlers.NewPersonHandler(services.NewPersonService(repo, repo, logger), relationshipService),
		relationships: handlers.NewRelationshipHandler(relationshipService),
		lineage:       handlers.NewTreeHandler(services.NewFamilyTreeService(repo)),
	}
}

func writeGedcom(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0644))
	return path
}
