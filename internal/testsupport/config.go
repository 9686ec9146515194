package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"replaudio/internal/config"
)

// NewConfig produces a config seeded with unique temp paths per test and a
// fast confirm budget. The command channel file is created empty so the
// append-only open in the client succeeds, mirroring a provisioned daemon.
func NewConfig(t testing.TB) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.CommandChannel = filepath.Join(base, "audio")
	cfg.Paths.StatusFile = filepath.Join(base, "audioStatus.json")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Protocol.ConfirmTimeoutMS = 500
	cfg.Protocol.PollIntervalMS = 5
	cfg.Simulator.TickMS = 10
	cfg.Simulator.FileDurationMS = 30000

	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}

	TouchChannel(t, cfg.Paths.CommandChannel)
	return &cfg
}

// TouchChannel creates an empty command channel file.
func TouchChannel(t testing.TB, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for channel: %v", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o666)
	if err != nil {
		t.Fatalf("create channel %s: %v", path, err)
	}
	if err := file.Close(); err != nil {
		t.Fatalf("close channel: %v", err)
	}
}
