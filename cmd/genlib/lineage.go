package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ersonp/genlib/internal/application/handlers"
	"github.com/ersonp/genlib/internal/domain/services"
)

func newLineageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lineage",
		Short: "Walk ancestors, descendants and kinship paths",
	}

	cmd.AddCommand(
		newLineageWalkCmd("ancestors", "List the parents, grandparents and earlier generations of a person"),
		newLineageWalkCmd("descendants", "List the children, grandchildren and later generations of a person"),
		newLineagePathCmd(),
	)

	return cmd
}

func newLineageWalkCmd(direction, short string) *cobra.Command {
	var generations int

	cmd := &cobra.Command{
		Use:   direction + " <person-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLineageWalk(cmd, direction, args[0], generations)
		},
	}

	cmd.Flags().IntVarP(&generations, "generations", "g", 0, "Generations to walk (0 = all)")

	return cmd
}

func runLineageWalk(cmd *cobra.Command, direction, arg string, generations int) error {
	if generations < 0 {
		return errors.New("generations must not be negative")
	}
	personID, err := parseID("person", arg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	return withDeps(ctx, func(d *Deps) error {
		opts := handlers.LineageOptions{Generations: generations}

		var entries []services.TreeEntry
		if direction == "ancestors" {
			entries, err = d.TreeHandler.HandleAncestors(ctx, personID, opts)
		} else {
			entries, err = d.TreeHandler.HandleDescendants(ctx, personID, opts)
		}
		if err != nil {
			return err
		}

		if len(entries) == 0 {
			fmt.Printf("No %s recorded for person %d\n", direction, personID)
			return nil
		}

		for _, e := range entries {
			fmt.Printf("%s%s (#%d)\n", strings.Repeat("  ", e.Generation-1), e.Person.FullName(), e.Person.ID)
		}
		return nil
	})
}

func newLineagePathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path <from-person-id> <to-person-id>",
		Short: "Show the shortest chain of relationships between two persons",
		Args:  cobra.ExactArgs(2),
		RunE:  runLineagePath,
	}
}

func runLineagePath(cmd *cobra.Command, args []string) error {
	from, err := parseID("person", args[0])
	if err != nil {
		return err
	}
	to, err := parseID("person", args[1])
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	return withDeps(ctx, func(d *Deps) error {
		steps, err := d.TreeHandler.HandlePath(ctx, from, to)
		if err != nil {
			return err
		}

		fmt.Println(describePath(steps))
		return nil
	})
}

// describePath renders steps as "A -> parent B -> sibling C".
func describePath(steps []services.PathStep) string {
	parts := make([]string, 0, len(steps))
	for i, s := range steps {
		name := fmt.Sprintf("%s (#%d)", s.Person.FullName(), s.Person.ID)
		if i == 0 {
			parts = append(parts, name)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s", s.Type, name))
	}
	return strings.Join(parts, " -> ")
}
