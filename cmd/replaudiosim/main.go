package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"replaudio/internal/config"
	"replaudio/internal/logging"
	"replaudio/internal/simulator"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configFlag string
	var channelFlag string
	var statusFlag string

	cmd := &cobra.Command{
		Use:           "replaudiosim",
		Short:         "Development stand-in for the host audio daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, _, err := config.Load(configFlag)
			if err != nil {
				return err
			}
			if channelFlag != "" {
				if cfg.Paths.CommandChannel, err = config.ExpandPath(channelFlag); err != nil {
					return err
				}
			}
			if statusFlag != "" {
				if cfg.Paths.StatusFile, err = config.ExpandPath(statusFlag); err != nil {
					return err
				}
			}

			logger, err := logging.NewFromConfig(cfg, "replaudiosim.log")
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			sim := simulator.New(cfg, logger)
			return sim.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	cmd.Flags().StringVar(&channelFlag, "channel", "", "Command channel path override")
	cmd.Flags().StringVar(&statusFlag, "status-file", "", "Status snapshot path override")
	return cmd
}
