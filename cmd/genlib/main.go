// Package main provides the entry point for the genlib CLI application.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ersonp/genlib/internal/infrastructure/config"
)

var (
	version    = "0.1.0-dev"
	globalTree string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	rootCmd := &cobra.Command{
		Use:           "genlib",
		Short:         "A local genealogy library with GEDCOM import",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&globalTree, "tree", "t", config.DefaultTree, "Family tree to operate on")

	rootCmd.AddCommand(
		newInitCmd(),
		newTreesCmd(),
		newImportCmd(),
		newPersonsCmd(),
		newRelateCmd(),
		newRelationsCmd(),
		newLineageCmd(),
		newHistoryCmd(),
	)

	return rootCmd.ExecuteContext(ctx)
}
