package testsupport

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"replaudio/internal/audio"
)

// WriteSnapshot marshals a snapshot to the given status path, the way the
// daemon would publish it.
func WriteSnapshot(t testing.TB, path string, snapshot audio.Snapshot) {
	t.Helper()
	payload, err := json.Marshal(&snapshot)
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write snapshot %s: %v", path, err)
	}
}

// ReadChannel returns the raw bytes currently sitting in the command
// channel.
func ReadChannel(t testing.TB, path string) []byte {
	t.Helper()
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read channel %s: %v", path, err)
	}
	return raw
}

// DecodeCommands decodes the concatenated JSON records in raw into
// generic maps, one per appended command.
func DecodeCommands(t testing.TB, raw []byte) []map[string]any {
	t.Helper()
	var commands []map[string]any
	decoder := json.NewDecoder(bytes.NewReader(raw))
	for decoder.More() {
		var cmd map[string]any
		if err := decoder.Decode(&cmd); err != nil {
			t.Fatalf("decode channel record: %v", err)
		}
		commands = append(commands, cmd)
	}
	return commands
}
