package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"replaudio/internal/audio"
	"replaudio/internal/history"
)

func newSourceCommand(ctx *commandContext) *cobra.Command {
	sourceCmd := &cobra.Command{
		Use:   "source",
		Short: "Inspect or update a playing source",
	}
	sourceCmd.AddCommand(newSourceShowCommand(ctx))
	sourceCmd.AddCommand(newSourceVolumeCommand(ctx))
	sourceCmd.AddCommand(newSourcePauseCommand(ctx, "pause", "Pause a source", true))
	sourceCmd.AddCommand(newSourcePauseCommand(ctx, "resume", "Resume a paused source", false))
	sourceCmd.AddCommand(newSourceLoopCommand(ctx))
	return sourceCmd
}

func newSourceShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show the current record for one source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseSourceID(args[0])
			if err != nil {
				return err
			}
			client, err := ctx.client()
			if err != nil {
				return err
			}
			status, err := client.FindByID(id)
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd, status)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Source #%d (%s)\n", status.ID, status.Name)
			fmt.Fprintf(out, "  Type:      %s\n", sourceTypeLabel(status.Type))
			fmt.Fprintf(out, "  Volume:    %.2f\n", status.Volume)
			fmt.Fprintf(out, "  Paused:    %s\n", yesNo(status.Paused))
			fmt.Fprintf(out, "  Loop:      %s\n", loopLabel(status.Loop))
			fmt.Fprintf(out, "  Duration:  %s\n", formatMillis(status.Duration))
			fmt.Fprintf(out, "  Remaining: %s\n", formatMillis(status.Remaining))
			fmt.Fprintf(out, "  Starts:    %s\n", status.StartTime)
			fmt.Fprintf(out, "  Ends:      %s\n", status.EndTime)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the record as JSON")
	return cmd
}

func newSourceVolumeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "volume <id> <value>",
		Short: "Set the playback volume of a source",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			volume, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid volume %q: %w", args[1], err)
			}
			return applyUpdate(cmd, ctx, args[0], func(update *audio.Update) {
				update.Volume = volume
			})
		},
	}
}

func newSourcePauseCommand(ctx *commandContext, use, short string, paused bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return applyUpdate(cmd, ctx, args[0], func(update *audio.Update) {
				update.Paused = paused
			})
		},
	}
}

func newSourceLoopCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "loop <id> <count>",
		Short: "Set the loop count of a source; 0 disables looping, negative loops forever",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid loop count %q: %w", args[1], err)
			}
			return applyUpdate(cmd, ctx, args[0], func(update *audio.Update) {
				update.Loop = count != 0
				update.LoopCount = count
			})
		},
	}
}

// applyUpdate reads the current record, applies one mutation on top of it,
// and sends the full update. Updates are fire-and-forget; the daemon
// applies them on its own schedule.
func applyUpdate(cmd *cobra.Command, ctx *commandContext, idArg string, mutate func(*audio.Update)) error {
	id, err := parseSourceID(idArg)
	if err != nil {
		return err
	}
	client, err := ctx.client()
	if err != nil {
		return err
	}
	status, err := client.FindByID(id)
	if err != nil {
		return err
	}

	update := audio.Update{
		Volume:    status.Volume,
		Paused:    status.Paused,
		Loop:      status.Loop != 0,
		LoopCount: status.Loop,
	}
	mutate(&update)

	if err := client.UpdateSource(id, update); err != nil {
		return err
	}
	if err := recordUpdate(cmd, ctx, id, update); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: history not recorded: %v\n", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Update sent for source #%d\n", id)
	return nil
}

func recordUpdate(cmd *cobra.Command, ctx *commandContext, id int64, update audio.Update) error {
	return ctx.withHistory(func(store *history.Store) error {
		if store == nil {
			return nil
		}
		payload, err := json.Marshal(map[string]any{
			"id":         id,
			"volume":     update.Volume,
			"paused":     update.Paused,
			"loop":       update.Loop,
			"loop_count": update.LoopCount,
		})
		if err != nil {
			return err
		}
		_, err = store.Record(cmd.Context(), history.KindUpdate, "",
			sql.NullInt64{Int64: id, Valid: true}, string(payload))
		return err
	})
}

func parseSourceID(value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid source id %q: %w", value, err)
	}
	return id, nil
}
