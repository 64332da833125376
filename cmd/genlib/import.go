package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/genlib/internal/application/handlers"
	"github.com/ersonp/genlib/internal/domain/services"
)

type importFlags struct {
	format string
	dryRun bool
}

func newImportCmd() *cobra.Command {
	var flags importFlags

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import persons and relationships from a GEDCOM file",
		Long: `Imports individuals and families from a GEDCOM 5.5 file into the current tree.

Every individual becomes a person unless a person with the same directory
name is already stored. Families are expanded into spouse, parent/child and
sibling relationships. Re-importing the same file adds nothing new.

Examples:
  genlib import family.ged
  genlib import export.txt --format gedcom
  genlib import family.ged --dry-run --tree berg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "auto", "File format (gedcom, auto)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Preview without saving")

	return cmd
}

func runImport(cmd *cobra.Command, filePath string, flags importFlags) error {
	ctx := cmd.Context()

	return withDeps(ctx, func(d *Deps) error {
		opts := handlers.ImportOptions{
			Format: flags.format,
			DryRun: flags.dryRun,
		}

		fmt.Printf("Importing %s...\n", filePath)

		res, err := d.ImportHandler.Handle(ctx, filePath, opts)
		if res != nil && res.Preview != nil {
			printImportPreview(res.Preview)
		}
		if res != nil && res.Result != nil {
			printImportResult(res.Result)
		}
		if err != nil {
			return fmt.Errorf("importing file: %w", err)
		}

		return nil
	})
}

func printImportPreview(p *services.ImportPreview) {
	fmt.Println()
	fmt.Printf("Individuals: %d (%d new, %d already stored)\n", p.TotalIndividuals, p.NewPersons, p.ExistingPersons)
	fmt.Printf("Families:    %d (about %d relationships)\n", p.TotalFamilies, p.EstimatedRelations)

	if len(p.SamplePersons) > 0 {
		fmt.Println("\nFirst individuals:")
		for _, s := range p.SamplePersons {
			fmt.Printf("  %s%s\n", s.Name, lifespan(s.BirthYear, s.DeathYear))
		}
	}

	fmt.Println("\nDry run: nothing was saved.")
}

func printImportResult(r *services.ImportResult) {
	if len(r.Warnings) > 0 {
		fmt.Printf("\nWarnings (%d):\n", len(r.Warnings))
		for _, w := range r.Warnings {
			fmt.Printf("  %s\n", w)
		}
	}

	fmt.Println()
	fmt.Printf("Imported: %s\n", r.Summary())
	fmt.Printf("Run ID:   %s\n", r.RunID)
}

func lifespan(birth, death string) string {
	if birth == "" && death == "" {
		return ""
	}
	return fmt.Sprintf(" (%s-%s)", birth, death)
}
