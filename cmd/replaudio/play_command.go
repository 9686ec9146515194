package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"replaudio/internal/audio"
	"replaudio/internal/history"
)

// playOptions are the shared playback parameters for both source kinds.
type playOptions struct {
	volume    float64
	loop      bool
	loopCount int64
	name      string
	asJSON    bool
}

func (o *playOptions) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&o.volume, "volume", 1.0, "Playback volume")
	cmd.Flags().BoolVar(&o.loop, "loop", false, "Loop the source")
	cmd.Flags().Int64Var(&o.loopCount, "loop-count", -1, "Times to loop; negative loops forever")
	cmd.Flags().StringVar(&o.name, "name", "", "Pin the provisional name (not recommended)")
	cmd.Flags().BoolVar(&o.asJSON, "json", false, "Emit the confirmed source as JSON")
}

func newPlayCommand(ctx *commandContext) *cobra.Command {
	playCmd := &cobra.Command{
		Use:   "play",
		Short: "Submit a source to the audio daemon",
	}
	playCmd.AddCommand(newPlayFileCommand(ctx))
	playCmd.AddCommand(newPlayToneCommand(ctx))
	return playCmd
}

func newPlayFileCommand(ctx *commandContext) *cobra.Command {
	var opts playOptions
	var formatFlag string

	cmd := &cobra.Command{
		Use:   "file <path>",
		Short: "Play an audio file (wav, aiff, mp3)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			format, err := resolveFormat(formatFlag, path)
			if err != nil {
				return err
			}

			client, err := ctx.client()
			if err != nil {
				return err
			}
			builder := client.File(format, path)
			return runBuild(cmd, ctx, builder, opts)
		},
	}
	cmd.Flags().StringVar(&formatFlag, "format", "", "File format; inferred from the extension when empty")
	opts.register(cmd)
	return cmd
}

func newPlayToneCommand(ctx *commandContext) *cobra.Command {
	var opts playOptions
	var waveFlag string
	var pitch float64
	var duration float64

	cmd := &cobra.Command{
		Use:   "tone",
		Short: "Play a synthesized tone",
		RunE: func(cmd *cobra.Command, args []string) error {
			wave, err := audio.ParseWaveform(waveFlag)
			if err != nil {
				return err
			}
			if pitch <= 0 {
				return fmt.Errorf("pitch must be positive, got %v", pitch)
			}
			if duration <= 0 {
				return fmt.Errorf("duration must be positive, got %v", duration)
			}

			client, err := ctx.client()
			if err != nil {
				return err
			}
			builder := client.Tone(wave, pitch, duration)
			return runBuild(cmd, ctx, builder, opts)
		},
	}
	cmd.Flags().StringVar(&waveFlag, "wave", "sine", "Waveform: sine, triangle, saw, square")
	cmd.Flags().Float64Var(&pitch, "pitch", 440, "Tone frequency in hertz")
	cmd.Flags().Float64Var(&duration, "duration", 1, "Tone length in seconds")
	opts.register(cmd)
	return cmd
}

func runBuild(cmd *cobra.Command, ctx *commandContext, builder *audio.Builder, opts playOptions) error {
	if opts.name != "" {
		builder.Name(opts.name)
	}
	builder.Volume(opts.volume).Loop(opts.loop).LoopCount(opts.loopCount)

	handle, err := builder.Build(cmd.Context())
	if err != nil {
		return err
	}

	status, statusErr := handle.Current()
	if recordErr := recordCreate(cmd, ctx, handle, status); recordErr != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: history not recorded: %v\n", recordErr)
	}

	if opts.asJSON {
		if statusErr != nil {
			return statusErr
		}
		return writeJSON(cmd, status)
	}

	name := opts.name
	if statusErr == nil {
		name = status.Name
	}
	fmt.Fprintln(cmd.OutOrStdout(), playbackLine(handle.Source(), handle.ID(), name))
	return nil
}

// playbackLine renders the play confirmation. The name is dropped when it is
// unknown, which happens when the source expired before the post-build
// lookup and none was pinned.
func playbackLine(source audio.Source, id int64, name string) string {
	line := fmt.Sprintf("Playing %s as source #%d", describeSource(source), id)
	if name != "" {
		line += fmt.Sprintf(" (%s)", name)
	}
	return line
}

func recordCreate(cmd *cobra.Command, ctx *commandContext, handle *audio.Handle, status *audio.SourceStatus) error {
	return ctx.withHistory(func(store *history.Store) error {
		if store == nil {
			return nil
		}
		name := ""
		payload := map[string]any{"id": handle.ID()}
		if status != nil {
			name = status.Name
			payload["name"] = status.Name
			payload["type"] = status.Type
			payload["volume"] = status.Volume
			payload["loop"] = status.Loop
		}
		encoded, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		_, err = store.Record(cmd.Context(), history.KindCreate, name,
			sql.NullInt64{Int64: handle.ID(), Valid: true}, string(encoded))
		return err
	})
}

func resolveFormat(flagValue, path string) (audio.FileFormat, error) {
	if flagValue != "" {
		return audio.ParseFileFormat(flagValue)
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return "", fmt.Errorf("no file extension on %q; pass --format", path)
	}
	format, err := audio.ParseFileFormat(ext)
	if err != nil {
		return "", fmt.Errorf("%w; pass --format to override", err)
	}
	return format, nil
}

func describeSource(source audio.Source) string {
	switch s := source.(type) {
	case audio.FileSource:
		return fmt.Sprintf("%s file %s", s.Format, filepath.Base(s.Path))
	case audio.ToneSource:
		return fmt.Sprintf("%s tone at %.1f Hz for %.1fs", s.Waveform, s.Pitch, s.Duration)
	}
	return "source"
}
