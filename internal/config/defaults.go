package config

const (
	defaultCommandChannel   = "/tmp/audio"
	defaultStatusFile       = "/tmp/audioStatus.json"
	defaultLogDir           = "~/.local/share/replaudio/logs"
	defaultConfirmTimeoutMS = 2000
	defaultPollIntervalMS   = 10
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultSimTickMS        = 50
	defaultSimFileDuration  = 30000
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			CommandChannel: defaultCommandChannel,
			StatusFile:     defaultStatusFile,
			LogDir:         defaultLogDir,
		},
		Protocol: Protocol{
			ConfirmTimeoutMS: defaultConfirmTimeoutMS,
			PollIntervalMS:   defaultPollIntervalMS,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Simulator: Simulator{
			TickMS:         defaultSimTickMS,
			FileDurationMS: defaultSimFileDuration,
		},
	}
}
