package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the daemon interface files and the client's own log
// directory.
type Paths struct {
	// CommandChannel is the append-only file the daemon drains commands
	// from.
	CommandChannel string `toml:"command_channel"`
	// StatusFile is the daemon-owned status snapshot.
	StatusFile string `toml:"status_file"`
	LogDir     string `toml:"log_dir"`
}

// Protocol contains create-and-confirm timing.
type Protocol struct {
	// ConfirmTimeoutMS bounds how long a build waits for the daemon to
	// publish the new source.
	ConfirmTimeoutMS int `toml:"confirm_timeout_ms"`
	// PollIntervalMS is the fixed sleep between snapshot polls.
	PollIntervalMS int `toml:"poll_interval_ms"`
}

// History contains the local command journal settings.
type History struct {
	Enabled bool `toml:"enabled"`
}

// Logging contains log output settings.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Simulator contains settings for the development daemon simulator.
type Simulator struct {
	// TickMS is the simulator's processing interval.
	TickMS int `toml:"tick_ms"`
	// FileDurationMS stands in for real file lengths, since the simulator
	// never decodes audio.
	FileDurationMS int `toml:"file_duration_ms"`
}

// Config encapsulates all configuration values for replaudio.
type Config struct {
	Paths     Paths     `toml:"paths"`
	Protocol  Protocol  `toml:"protocol"`
	History   History   `toml:"history"`
	Logging   Logging   `toml:"logging"`
	Simulator Simulator `toml:"simulator"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/replaudio/config.toml")
}

// Load locates, parses, and validates a configuration file. A missing file
// is not an error; defaults apply. The returned config has all path fields
// expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("replaudio.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	for _, field := range []*string{
		&c.Paths.CommandChannel,
		&c.Paths.StatusFile,
		&c.Paths.LogDir,
	} {
		expanded, err := ExpandPath(strings.TrimSpace(*field))
		if err != nil {
			return err
		}
		*field = expanded
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	return nil
}

// EnsureDirectories creates the directories the client itself owns. The
// daemon interface files are never created here; their lifecycle belongs
// to the daemon.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Paths.LogDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.LogDir, err)
	}
	return nil
}

// ConfirmTimeout returns the create-and-confirm budget as a duration.
func (c *Config) ConfirmTimeout() time.Duration {
	return time.Duration(c.Protocol.ConfirmTimeoutMS) * time.Millisecond
}

// PollInterval returns the snapshot poll interval as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Protocol.PollIntervalMS) * time.Millisecond
}

// SimulatorTick returns the simulator processing interval as a duration.
func (c *Config) SimulatorTick() time.Duration {
	return time.Duration(c.Simulator.TickMS) * time.Millisecond
}

// HistoryDBPath returns the location of the command journal database.
func (c *Config) HistoryDBPath() string {
	return filepath.Join(c.Paths.LogDir, "history.db")
}

// ExpandPath resolves a leading ~ and returns a cleaned absolute path.
func ExpandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// CreateSample writes a sample configuration file to the specified
// location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
