package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/genlib/internal/domain/ports"
)

type historyFlags struct {
	action string
	limit  int
	format string
}

func newHistoryCmd() *cobra.Command {
	var flags historyFlags

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent imports and edits",
		Long: `Shows the audit log of the current tree, newest first.

Examples:
  genlib history
  genlib history --action gedcom_import --limit 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistory(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.action, "action", "", "Only show this action")
	cmd.Flags().IntVarP(&flags.limit, "limit", "l", DefaultHistoryLimit, "Maximum entries to show (0 = all)")
	cmd.Flags().StringVar(&flags.format, "format", "table", "Output format: table, json")

	return cmd
}

func runHistory(cmd *cobra.Command, flags historyFlags) error {
	if err := validateFormat(flags.format); err != nil {
		return err
	}

	ctx := cmd.Context()

	return withRelationalDB(ctx, func(db ports.RelationalDB) error {
		entries, err := db.FindAuditLogByAction(ctx, flags.action, flags.limit)
		if err != nil {
			return fmt.Errorf("reading history: %w", err)
		}

		if flags.format == "json" {
			return printJSON(entries)
		}

		if len(entries) == 0 {
			fmt.Println("No history recorded.")
			return nil
		}

		fmt.Printf("%-20s %-22s %-38s %s\n", "WHEN", "ACTION", "SUBJECT", "DETAILS")
		fmt.Printf("%-20s %-22s %-38s %s\n", "----", "------", "-------", "-------")
		for _, e := range entries {
			details := ""
			if len(e.Details) > 0 {
				data, err := json.Marshal(e.Details)
				if err == nil {
					details = truncate(string(data), 80)
				}
			}
			fmt.Printf("%-20s %-22s %-38s %s\n",
				e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				e.Action,
				e.Subject,
				details,
			)
		}
		return nil
	})
}
