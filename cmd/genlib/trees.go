package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ersonp/genlib/internal/application/handlers"
	"github.com/ersonp/genlib/internal/infrastructure/config"
)

// treeManager handles per-tree database files.
type treeManager struct {
	basePath string
}

func newTreesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trees",
		Short: "Manage family trees",
		RunE:  runTreesList,
	}

	cmd.AddCommand(
		newTreesListCmd(),
		newTreesCreateCmd(),
		newTreesDeleteCmd(),
	)

	return cmd
}

func newTreesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all family trees",
		RunE:  runTreesList,
	}
}

func runTreesList(_ *cobra.Command, _ []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	trees, err := config.LoadTrees(cwd)
	if err != nil {
		return fmt.Errorf("loading trees: %w", err)
	}

	if len(trees.Trees) == 0 {
		fmt.Println("No family trees configured.")
		fmt.Println("Use 'genlib trees create NAME' to create one.")
		return nil
	}

	fmt.Printf("%-20s %-25s %s\n", "NAME", "DIRECTORY", "DESCRIPTION")
	fmt.Printf("%-20s %-25s %s\n", "----", "---------", "-----------")

	for _, name := range trees.Names() {
		fmt.Printf("%-20s %-25s %s\n", name, config.SanitizeTreeName(name), trees.Trees[name].Description)
	}

	return nil
}

func newTreesCreateCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a new family tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTreesCreate(cmd, args[0], description)
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Tree description")

	return cmd
}

func runTreesCreate(cmd *cobra.Command, name, description string) error {
	ctx := cmd.Context()

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	if !config.Exists(cwd) {
		if err := config.WriteDefault(cwd); err != nil {
			return fmt.Errorf("initializing config: %w", err)
		}
		fmt.Printf("Initialized genlib in %s\n", config.ConfigDir(cwd))
	}

	tree, err := handlers.NewInitHandler(openStore).HandleCreateTree(ctx, cwd, name, description)
	if err != nil {
		return err
	}

	fmt.Printf("Created tree %q at %s\n", tree.Name, tree.DatabasePath)

	return nil
}

func newTreesDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a family tree and its database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTreesDelete(cmd, args[0], force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Delete even if the tree contains persons")

	return cmd
}

func runTreesDelete(cmd *cobra.Command, name string, force bool) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	mgr := &treeManager{basePath: cwd}
	if err := mgr.delete(cmd.Context(), name, force); err != nil {
		return err
	}

	fmt.Printf("Deleted tree %q\n", name)

	return nil
}

// delete removes a tree's directory and its trees.yaml entry. A tree that
// still holds persons is kept unless force is set.
func (m *treeManager) delete(ctx context.Context, name string, force bool) error {
	trees, err := config.LoadTrees(m.basePath)
	if err != nil {
		return fmt.Errorf("loading trees: %w", err)
	}
	if !trees.Exists(name) {
		return fmt.Errorf("tree %q not found", name)
	}

	if !force {
		count, err := m.personCount(ctx, name)
		if err == nil && count > 0 {
			return fmt.Errorf("tree %q contains %d persons, use --force to delete", name, count)
		}
	}

	if err := os.RemoveAll(config.TreeDir(m.basePath, name)); err != nil {
		fmt.Printf("Warning: could not remove tree directory: %v\n", err)
	}

	trees.Remove(name)
	if err := trees.Save(m.basePath); err != nil {
		return fmt.Errorf("removing tree from config: %w", err)
	}

	return nil
}

// personCount returns how many persons a tree stores; a tree without a
// database file counts as empty.
func (m *treeManager) personCount(ctx context.Context, name string) (int, error) {
	path := config.SQLitePathForTree(m.basePath, name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return 0, nil
	}

	store, err := openStore(path)
	if err != nil {
		return 0, err
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		return 0, err
	}
	return store.CountPersons(ctx)
}
