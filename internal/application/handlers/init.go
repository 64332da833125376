// Package handlers contains application use case handlers.
package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/ersonp/genlib/internal/domain/ports"
	"github.com/ersonp/genlib/internal/infrastructure/config"
)

// StoreOpener opens the relational store at a database path.
type StoreOpener func(path string) (ports.RelationalDB, error)

// InitHandler handles configuration and family tree initialization.
type InitHandler struct {
	open StoreOpener
}

// NewInitHandler creates a new init handler.
func NewInitHandler(open StoreOpener) *InitHandler {
	return &InitHandler{open: open}
}

// InitResult contains the result of initialization.
type InitResult struct {
	ConfigPath string
	Tree       *TreeResult
}

// TreeResult describes a created family tree.
type TreeResult struct {
	Name         string
	DatabasePath string
}

// Handle writes the default configuration and creates the first tree.
func (h *InitHandler) Handle(ctx context.Context, basePath, treeName string) (*InitResult, error) {
	if config.Exists(basePath) {
		return nil, fmt.Errorf("genlib already initialized in %s", basePath)
	}

	if err := config.WriteDefault(basePath); err != nil {
		return nil, fmt.Errorf("writing default config: %w", err)
	}

	if _, err := config.Load(basePath); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	tree, err := h.HandleCreateTree(ctx, basePath, treeName, "")
	if err != nil {
		return nil, err
	}

	return &InitResult{
		ConfigPath: config.ConfigFilePath(basePath),
		Tree:       tree,
	}, nil
}

// HandleCreateTree registers a tree and creates its database schema.
func (h *InitHandler) HandleCreateTree(ctx context.Context, basePath, name, description string) (*TreeResult, error) {
	if name == "" {
		name = config.DefaultTree
	}

	trees, err := config.LoadTrees(basePath)
	if err != nil {
		return nil, fmt.Errorf("loading trees: %w", err)
	}
	if trees.Exists(name) {
		return nil, fmt.Errorf("tree %q already exists", name)
	}
	for _, existing := range trees.Names() {
		if config.SanitizeTreeName(existing) == config.SanitizeTreeName(name) {
			return nil, fmt.Errorf("tree %q already uses the directory of %q", existing, name)
		}
	}

	if err := os.MkdirAll(config.TreeDir(basePath, name), 0755); err != nil {
		return nil, fmt.Errorf("creating tree directory: %w", err)
	}

	dbPath := config.SQLitePathForTree(basePath, name)
	store, err := h.open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening tree database: %w", err)
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("creating tree schema: %w", err)
	}

	trees.Add(name, config.TreeEntry{Description: description})
	if err := trees.Save(basePath); err != nil {
		return nil, fmt.Errorf("saving trees: %w", err)
	}

	return &TreeResult{Name: name, DatabasePath: dbPath}, nil
}
