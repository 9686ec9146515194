package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if c.Paths.CommandChannel == "" {
		return errors.New("paths.command_channel must be set")
	}
	if c.Paths.StatusFile == "" {
		return errors.New("paths.status_file must be set")
	}
	if c.Paths.CommandChannel == c.Paths.StatusFile {
		return errors.New("paths.command_channel and paths.status_file must differ")
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	if c.Protocol.ConfirmTimeoutMS <= 0 {
		return errors.New("protocol.confirm_timeout_ms must be positive")
	}
	if c.Protocol.PollIntervalMS <= 0 {
		return errors.New("protocol.poll_interval_ms must be positive")
	}
	if c.Protocol.PollIntervalMS >= c.Protocol.ConfirmTimeoutMS {
		return fmt.Errorf("protocol.poll_interval_ms (%d) must be below protocol.confirm_timeout_ms (%d)",
			c.Protocol.PollIntervalMS, c.Protocol.ConfirmTimeoutMS)
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	if c.Simulator.TickMS <= 0 {
		return errors.New("simulator.tick_ms must be positive")
	}
	if c.Simulator.FileDurationMS <= 0 {
		return errors.New("simulator.file_duration_ms must be positive")
	}
	return nil
}
