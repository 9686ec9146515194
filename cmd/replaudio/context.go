package main

import (
	"strings"
	"sync"

	"replaudio/internal/audio"
	"replaudio/internal/config"
	"replaudio/internal/history"
	"replaudio/internal/logging"
)

type commandContext struct {
	configFlag  *string
	channelFlag *string
	statusFlag  *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, channelFlag, statusFlag *string) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		channelFlag: channelFlag,
		statusFlag:  statusFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		// Overrides get the same expansion config file paths get.
		if channel := c.flagValue(c.channelFlag); channel != "" {
			expanded, expandErr := config.ExpandPath(channel)
			if expandErr != nil {
				c.configErr = expandErr
				return
			}
			cfg.Paths.CommandChannel = expanded
		}
		if status := c.flagValue(c.statusFlag); status != "" {
			expanded, expandErr := config.ExpandPath(status)
			if expandErr != nil {
				c.configErr = expandErr
				return
			}
			cfg.Paths.StatusFile = expanded
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) flagValue(flag *string) string {
	if flag == nil {
		return ""
	}
	return strings.TrimSpace(*flag)
}

// client builds an audio client from the resolved config. CLI invocations
// are short-lived, so command output logging stays quiet unless the log
// level says otherwise.
func (c *commandContext) client() (*audio.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		return nil, err
	}
	return audio.NewFromConfig(cfg, logger), nil
}

// withHistory runs fn with the command journal when journaling is enabled;
// otherwise fn receives nil and the caller skips recording.
func (c *commandContext) withHistory(fn func(*history.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	if !cfg.History.Enabled {
		return fn(nil)
	}
	store, err := history.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}
