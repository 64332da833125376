package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ersonp/genlib/internal/application/handlers"
)

func newRelateCmd() *cobra.Command {
	var notes string

	cmd := &cobra.Command{
		Use:   "relate <person-id> <type> <person-id>",
		Short: "Record how two persons are related",
		Long: `Records that the first person is <type> to the second. The reverse side is
stored automatically: "3 parent 7" also means 7 is child to 3.
A pair of persons can only be related once.

Valid relationship types:
  ` + strings.Join(handlers.ValidRelationTypes, ", ") + `
  (father/mother, son/daughter, husband/wife and brother/sister are accepted)

Examples:
  genlib relate 3 parent 7
  genlib relate 4 spouse 3 --notes "married 1921 in Mora"
  genlib relate delete 12
  genlib relate notes 12 "divorced 1930"`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRelate(cmd, args, notes)
		},
	}

	cmd.Flags().StringVar(&notes, "notes", "", "Notes to attach to the relationship")

	cmd.AddCommand(
		newRelateDeleteCmd(),
		newRelateNotesCmd(),
	)

	return cmd
}

func runRelate(cmd *cobra.Command, args []string, notes string) error {
	person1, err := parseID("person", args[0])
	if err != nil {
		return err
	}
	person2, err := parseID("person", args[2])
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	return withDeps(ctx, func(d *Deps) error {
		rel, err := d.RelationshipHandler.HandleCreate(ctx, person1, args[1], person2)
		if err != nil {
			return fmt.Errorf("creating relationship: %w", err)
		}

		if notes != "" {
			if err := d.RelationshipHandler.HandleUpdateNotes(ctx, rel.ID, notes); err != nil {
				return fmt.Errorf("saving notes: %w", err)
			}
		}

		fmt.Printf("Created relationship: %d\n", rel.ID)
		fmt.Printf("  %d is %s to %d\n", person1, rel.RelationshipFrom(person1), person2)
		fmt.Printf("  %d is %s to %d\n", person2, rel.RelationshipFrom(person2), person1)

		return nil
	})
}

func newRelateDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <relationship-id>",
		Short: "Delete a relationship",
		Args:  cobra.ExactArgs(1),
		RunE:  runRelateDelete,
	}
}

func runRelateDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID("relationship", args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	return withDeps(ctx, func(d *Deps) error {
		if err := d.RelationshipHandler.HandleDelete(ctx, id); err != nil {
			return fmt.Errorf("deleting relationship: %w", err)
		}

		fmt.Printf("Deleted relationship: %d\n", id)
		return nil
	})
}

func newRelateNotesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "notes <relationship-id> <text>",
		Short: "Replace the notes on a relationship",
		Args:  cobra.ExactArgs(2),
		RunE:  runRelateNotes,
	}
}

func runRelateNotes(cmd *cobra.Command, args []string) error {
	id, err := parseID("relationship", args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	return withDeps(ctx, func(d *Deps) error {
		if err := d.RelationshipHandler.HandleUpdateNotes(ctx, id, args[1]); err != nil {
			return err
		}

		fmt.Printf("Updated notes on relationship: %d\n", id)
		return nil
	})
}
