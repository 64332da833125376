package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/genlib/internal/application/handlers"
)

type relationsFlags struct {
	relType string
	format  string
}

func newRelationsCmd() *cobra.Command {
	var flags relationsFlags

	cmd := &cobra.Command{
		Use:   "relations <person-id>",
		Short: "List the relationships of a person",
		Long: `Shows every relationship of a person, each described as what the other
person is to them.

Examples:
  genlib relations 3
  genlib relations 3 --type child
  genlib relations 3 --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRelations(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.relType, "type", "", "Filter by relationship type")
	cmd.Flags().StringVar(&flags.format, "format", "table", "Output format: table, json")

	return cmd
}

func runRelations(cmd *cobra.Command, arg string, flags relationsFlags) error {
	if err := validateFormat(flags.format); err != nil {
		return err
	}
	personID, err := parseID("person", arg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	return withDeps(ctx, func(d *Deps) error {
		result, err := d.RelationshipHandler.HandleList(ctx, personID, handlers.ListOptions{Type: flags.relType})
		if err != nil {
			return err
		}

		if flags.format == "json" {
			return printJSON(result)
		}

		if len(result.Relationships) == 0 {
			fmt.Printf("No relationships found for person %d\n", personID)
			return nil
		}

		fmt.Printf("Relationships of person %d:\n", personID)
		printRelationshipViews(result.Relationships)
		return nil
	})
}
