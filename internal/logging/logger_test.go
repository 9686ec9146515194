package logging_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"replaudio/internal/config"
	"replaudio/internal/logging"
)

func TestConsoleFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	logger, err := logging.New(logging.Options{
		Level:       "debug",
		Format:      "console",
		OutputPaths: []string{path},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("source created",
		logging.Int64("id", 7),
		logging.String("note", "two words"))

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := string(raw)

	if !strings.Contains(line, "INFO") {
		t.Fatalf("missing level label: %q", line)
	}
	if !strings.Contains(line, "source created") {
		t.Fatalf("missing message: %q", line)
	}
	if !strings.Contains(line, "id=7") {
		t.Fatalf("missing attr: %q", line)
	}
	if !strings.Contains(line, `note="two words"`) {
		t.Fatalf("value with spaces must be quoted: %q", line)
	}
}

func TestConsoleGroupsFlatten(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	logger, err := logging.New(logging.Options{
		Level:       "info",
		Format:      "console",
		OutputPaths: []string{path},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.WithGroup("source").With(logging.Int64("id", 3)).Info("updated")

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(raw), "source.id=3") {
		t.Fatalf("group not flattened with dots: %q", raw)
	}
}

func TestLevelFiltering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	logger, err := logging.New(logging.Options{
		Level:       "warn",
		Format:      "console",
		OutputPaths: []string{path},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("quiet")
	logger.Warn("loud")

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := string(raw)
	if strings.Contains(line, "quiet") {
		t.Fatalf("info leaked past warn level: %q", line)
	}
	if !strings.Contains(line, "loud") {
		t.Fatalf("warn record missing: %q", line)
	}
}

func TestJSONFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	logger, err := logging.New(logging.Options{
		Level:       "info",
		Format:      "json",
		OutputPaths: []string{path},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("published", logging.String("path", "/tmp/audioStatus.json"))

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}

	var record map[string]any
	if err := json.Unmarshal(raw, &record); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, raw)
	}
	if record["msg"] != "published" {
		t.Fatalf("msg = %v", record["msg"])
	}
	if record["level"] != "info" {
		t.Fatalf("level = %v", record["level"])
	}
	if _, ok := record["ts"].(string); !ok {
		t.Fatalf("ts missing or not a string: %v", record["ts"])
	}
	if record["path"] != "/tmp/audioStatus.json" {
		t.Fatalf("path = %v", record["path"])
	}
}

func TestUnsupportedFormat(t *testing.T) {
	_, err := logging.New(logging.Options{Format: "xml"})
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Logging.Format = "json"

	logger, err := logging.NewFromConfig(&cfg, "replaudio.log")
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	logger.Info("hello")

	raw, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "replaudio.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(raw), "hello") {
		t.Fatalf("record missing from file: %q", raw)
	}
}

func TestNopLoggerIsSilent(t *testing.T) {
	logger := logging.NewNop()
	// Must not panic and must report everything as disabled.
	logger.Info("ignored")
	if logger.Enabled(nil, 0) {
		t.Fatal("nop logger must be disabled")
	}
}
