package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon flags and active sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			snapshot, err := client.Status()
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, snapshot)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			fmt.Fprintln(out, renderFlagLine("Running", snapshot.Running, colorize))
			fmt.Fprintln(out, renderFlagLine("Disabled", !snapshot.Disabled, colorize))

			if len(snapshot.Sources) == 0 {
				fmt.Fprintln(out, "No active sources.")
				return nil
			}

			headers := []string{"ID", "Name", "Type", "Volume", "Paused", "Loop", "Remaining"}
			rows := make([][]string, 0, len(snapshot.Sources))
			for _, src := range snapshot.Sources {
				rows = append(rows, []string{
					fmt.Sprintf("%d", src.ID),
					src.Name,
					sourceTypeLabel(src.Type),
					fmt.Sprintf("%.2f", src.Volume),
					yesNo(src.Paused),
					loopLabel(src.Loop),
					formatMillis(src.Remaining),
				})
			}
			aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignRight, alignRight}
			fmt.Fprintln(out, renderTable(headers, rows, aligns))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the raw snapshot as JSON")
	return cmd
}

func renderFlagLine(label string, ok bool, colorize bool) string {
	kind := statusOK
	detail := "yes"
	if !ok {
		kind = statusWarn
		detail = "no"
	}
	if label == "Disabled" {
		// Inverted flag: ok means the daemon is NOT disabled.
		if ok {
			detail = "no"
		} else {
			detail = "yes"
		}
	}
	return renderStatusLine(label, kind, detail, colorize)
}

func loopLabel(loop int64) string {
	if loop < 0 {
		return "forever"
	}
	return fmt.Sprintf("%d", loop)
}

func formatMillis(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	return d.Truncate(100 * time.Millisecond).String()
}
