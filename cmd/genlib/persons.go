package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ersonp/genlib/internal/application/handlers"
	"github.com/ersonp/genlib/internal/domain/entities"
)

type personsListFlags struct {
	name     string
	living   bool
	deceased bool
	limit    int
	offset   int
	format   string
}

func newPersonsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "persons",
		Aliases: []string{"people"},
		Short:   "List, show and delete persons",
	}

	cmd.AddCommand(
		newPersonsListCmd(),
		newPersonsShowCmd(),
		newPersonsDeleteCmd(),
	)

	return cmd
}

func newPersonsListCmd() *cobra.Command {
	var flags personsListFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List persons ordered by surname",
		Long: `Lists persons in the current tree, ordered by surname and firstname.

Examples:
  genlib persons list
  genlib persons list --name berg --living
  genlib persons list --limit 20 --offset 40 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPersonsList(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.name, "name", "n", "", "Filter by part of the first name or surname")
	cmd.Flags().BoolVar(&flags.living, "living", false, "Only living persons")
	cmd.Flags().BoolVar(&flags.deceased, "deceased", false, "Only deceased persons")
	cmd.Flags().IntVarP(&flags.limit, "limit", "l", DefaultPersonLimit, "Maximum persons to list")
	cmd.Flags().IntVar(&flags.offset, "offset", 0, "Persons to skip")
	cmd.Flags().StringVar(&flags.format, "format", "table", "Output format: table, json")

	return cmd
}

func runPersonsList(cmd *cobra.Command, flags personsListFlags) error {
	if err := validateFormat(flags.format); err != nil {
		return err
	}

	ctx := cmd.Context()

	return withDeps(ctx, func(d *Deps) error {
		result, err := d.PersonHandler.HandleList(ctx, handlers.PersonListOptions{
			Name:     flags.name,
			Living:   flags.living,
			Deceased: flags.deceased,
			Limit:    flags.limit,
			Offset:   flags.offset,
		})
		if err != nil {
			return fmt.Errorf("listing persons: %w", err)
		}

		if flags.format == "json" {
			return printJSON(result)
		}

		if len(result.Persons) == 0 {
			fmt.Println("No persons found.")
			return nil
		}

		fmt.Printf("%-6s %-30s %-11s %-11s %s\n", "ID", "NAME", "BORN", "DIED", "DIRECTORY")
		fmt.Printf("%-6s %-30s %-11s %-11s %s\n", "--", "----", "----", "----", "---------")
		for _, p := range result.Persons {
			fmt.Printf("%-6d %-30s %-11s %-11s %s\n",
				p.ID,
				truncate(p.FullName(), 30),
				formatDate(p.BirthDate),
				formatDate(p.DeathDate),
				p.DirectoryName,
			)
		}
		fmt.Printf("\nShowing %d of %d persons\n", len(result.Persons), result.Total)

		return nil
	})
}

func newPersonsShowCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <person-id>",
		Short: "Show a person and their relationships",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPersonsShow(cmd, args[0], format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", "Output format: table, json")

	return cmd
}

func runPersonsShow(cmd *cobra.Command, arg, format string) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	id, err := parseID("person", arg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	return withDeps(ctx, func(d *Deps) error {
		details, err := d.PersonHandler.HandleShow(ctx, id)
		if err != nil {
			return err
		}

		if format == "json" {
			return printJSON(details)
		}

		printPersonDetails(details)
		return nil
	})
}

func printPersonDetails(details *handlers.PersonDetails) {
	p := details.Person

	fmt.Printf("%s (#%d)\n", p.FullName(), p.ID)
	fmt.Println(strings.Repeat("-", 40))
	printField("Directory", p.DirectoryName)
	printField("Sex", p.Sex)
	printField("Born", joinNonEmpty(formatDate(p.BirthDate), p.BirthPlace))
	printField("Died", joinNonEmpty(formatDate(p.DeathDate), p.DeathPlace))
	if details.HasAge {
		printField("Age", fmt.Sprintf("%d", details.Age))
	}
	if p.Living {
		printField("Living", "yes")
	}
	printField("GEDCOM ID", p.GedcomID)
	printField("Notes", p.Notes)

	if len(details.Relationships) == 0 {
		fmt.Println("\nNo relationships.")
		return
	}

	fmt.Println("\nRelationships:")
	printRelationshipViews(details.Relationships)
}

func printField(label, value string) {
	if value == "" {
		return
	}
	fmt.Printf("%-10s %s\n", label+":", value)
}

func joinNonEmpty(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}

func printRelationshipViews(views []entities.RelationshipView) {
	for _, v := range views {
		line := fmt.Sprintf("  [%d] %-8s %s (#%d)", v.RelationshipID, v.Type, v.OtherPersonName, v.OtherPersonID)
		if v.Notes != "" {
			line += " - " + v.Notes
		}
		fmt.Println(line)
	}
}

func newPersonsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <person-id>",
		Short: "Delete a person and all their relationships",
		Args:  cobra.ExactArgs(1),
		RunE:  runPersonsDelete,
	}
}

func runPersonsDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID("person", args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	return withDeps(ctx, func(d *Deps) error {
		if err := d.PersonHandler.HandleDelete(ctx, id); err != nil {
			return err
		}

		fmt.Printf("Deleted person %d\n", id)
		return nil
	})
}
