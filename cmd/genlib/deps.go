package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ersonp/genlib/internal/application/handlers"
	"github.com/ersonp/genlib/internal/domain/ports"
	"github.com/ersonp/genlib/internal/domain/services"
	"github.com/ersonp/genlib/internal/infrastructure/config"
	"github.com/ersonp/genlib/internal/infrastructure/logging"
	"github.com/ersonp/genlib/internal/infrastructure/relationaldb/sqlite"
)

// Deps holds high-level dependencies for commands.
// Only handlers are exposed - services and repositories are internal.
type Deps struct {
	Config              *config.Config
	Trees               *config.TreesConfig
	ImportHandler       *handlers.ImportHandler
	PersonHandler       *handlers.PersonHandler
	RelationshipHandler *handlers.RelationshipHandler
	TreeHandler         *handlers.TreeHandler
}

// internalDeps holds all dependencies including low-level components.
type internalDeps struct {
	Deps
	relationalDB *sqlite.Repository
}

// withDeps loads config and builds dependencies, then calls the provided function.
// It handles cleanup automatically.
func withDeps(ctx context.Context, fn func(*Deps) error) error {
	return withInternalDeps(ctx, func(d *internalDeps) error {
		return fn(&d.Deps)
	})
}

// withInternalDeps provides access to all dependencies including the store.
func withInternalDeps(ctx context.Context, fn func(*internalDeps) error) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	trees, err := config.LoadTrees(cwd)
	if err != nil {
		return fmt.Errorf("loading trees: %w", err)
	}

	if globalTree == "" {
		return errors.New("tree is required (use --tree flag)")
	}
	if _, err := trees.Get(globalTree); err != nil {
		return err
	}

	logger := logging.NewLogger(cfg.Log)

	naming, err := cfg.DirNameFormat()
	if err != nil {
		return err
	}

	sqlitePath := cfg.SQLite.Path
	if sqlitePath == "" {
		sqlitePath = config.SQLitePathForTree(cwd, globalTree)
	}
	relationalDB, err := sqlite.NewRepository(config.SQLiteConfig{Path: sqlitePath})
	if err != nil {
		return fmt.Errorf("creating sqlite repository: %w", err)
	}
	defer relationalDB.Close()

	if err := relationalDB.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensuring sqlite schema: %w", err)
	}

	importService := services.NewGedcomImportService(relationalDB, relationalDB, naming, logger)
	personService := services.NewPersonService(relationalDB, relationalDB, logger)
	relationshipService := services.NewRelationshipService(relationalDB, logger)
	treeService := services.NewFamilyTreeService(relationalDB)

	deps := &internalDeps{
		Deps: Deps{
			Config:              cfg,
			Trees:               trees,
			ImportHandler:       handlers.NewImportHandler(importService, relationalDB, logger),
			PersonHandler:       handlers.NewPersonHandler(personService, relationshipService),
			RelationshipHandler: handlers.NewRelationshipHandler(relationshipService),
			TreeHandler:         handlers.NewTreeHandler(treeService),
		},
		relationalDB: relationalDB,
	}

	return fn(deps)
}

// withRelationalDB provides direct relational database access.
func withRelationalDB(ctx context.Context, fn func(ports.RelationalDB) error) error {
	return withInternalDeps(ctx, func(d *internalDeps) error {
		return fn(d.relationalDB)
	})
}

// openStore opens a tree database; it is the opener used by init and trees create.
func openStore(path string) (ports.RelationalDB, error) {
	repo, err := sqlite.NewRepository(config.SQLiteConfig{Path: path})
	if err != nil {
		return nil, err
	}
	return repo, nil
}
