package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"replaudio/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List locally journaled commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.History.Enabled {
				return history.ErrDisabled
			}
			return ctx.withHistory(func(store *history.Store) error {
				entries, err := store.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, entries)
				}
				if len(entries) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No journaled commands.")
					return nil
				}

				headers := []string{"#", "When", "Kind", "Source", "Payload"}
				rows := make([][]string, 0, len(entries))
				for _, entry := range entries {
					source := "-"
					if entry.SourceID.Valid {
						source = fmt.Sprintf("%d", entry.SourceID.Int64)
					}
					rows = append(rows, []string{
						fmt.Sprintf("%d", entry.ID),
						entry.CreatedAt.Local().Format("2006-01-02 15:04:05"),
						string(entry.Kind),
						source,
						entry.Payload,
					})
				}
				aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))
				return nil
			})
		},
	}
	historyCmd.Flags().IntVar(&limit, "limit", 20, "Maximum entries to list; 0 lists everything")
	historyCmd.Flags().BoolVar(&asJSON, "json", false, "Emit entries as JSON")

	historyCmd.AddCommand(newHistoryClearCommand(ctx))
	return historyCmd
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all journaled commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.History.Enabled {
				return history.ErrDisabled
			}
			return ctx.withHistory(func(store *history.Store) error {
				removed, err := store.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d entries\n", removed)
				return nil
			})
		},
	}
}
