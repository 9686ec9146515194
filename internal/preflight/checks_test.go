package preflight_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"replaudio/internal/config"
	"replaudio/internal/preflight"
)

func TestCheckCommandChannel(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing", func(t *testing.T) {
		res := preflight.CheckCommandChannel(filepath.Join(dir, "absent"))
		if res.Passed {
			t.Fatal("missing channel must fail")
		}
		if !strings.Contains(res.Detail, "does not exist") {
			t.Fatalf("detail: %q", res.Detail)
		}
	})

	t.Run("directory", func(t *testing.T) {
		res := preflight.CheckCommandChannel(dir)
		if res.Passed {
			t.Fatal("directory must fail")
		}
	})

	t.Run("writable", func(t *testing.T) {
		path := filepath.Join(dir, "audio")
		if err := os.WriteFile(path, nil, 0o666); err != nil {
			t.Fatalf("create channel: %v", err)
		}
		res := preflight.CheckCommandChannel(path)
		if !res.Passed {
			t.Fatalf("writable channel must pass: %q", res.Detail)
		}
	})
}

func TestCheckStatusFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("unreadable", func(t *testing.T) {
		res := preflight.CheckStatusFile(filepath.Join(dir, "absent.json"))
		if res.Passed {
			t.Fatal("missing snapshot must fail")
		}
	})

	t.Run("malformed", func(t *testing.T) {
		path := filepath.Join(dir, "broken.json")
		if err := os.WriteFile(path, []byte("{nope"), 0o644); err != nil {
			t.Fatalf("write snapshot: %v", err)
		}
		res := preflight.CheckStatusFile(path)
		if res.Passed {
			t.Fatal("malformed snapshot must fail")
		}
		if !strings.Contains(res.Detail, "malformed") {
			t.Fatalf("detail: %q", res.Detail)
		}
	})

	t.Run("healthy", func(t *testing.T) {
		path := filepath.Join(dir, "ok.json")
		payload := `{"Running":true,"Disabled":false,"Sources":[{"ID":1,"Name":"n","Volume":1,"Paused":false,"Loop":0,"Duration":1000,"Remaining":500,"StartTime":"2026-08-29T10:00:00.000000000Z","EndTime":"2026-08-29T10:00:01.000000000Z"}]}`
		if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
			t.Fatalf("write snapshot: %v", err)
		}
		res := preflight.CheckStatusFile(path)
		if !res.Passed {
			t.Fatalf("valid snapshot must pass: %q", res.Detail)
		}
		if !strings.Contains(res.Detail, "1 sources") {
			t.Fatalf("detail: %q", res.Detail)
		}
	})

	t.Run("disabled daemon", func(t *testing.T) {
		path := filepath.Join(dir, "disabled.json")
		if err := os.WriteFile(path, []byte(`{"Running":false,"Disabled":true,"Sources":[]}`), 0o644); err != nil {
			t.Fatalf("write snapshot: %v", err)
		}
		res := preflight.CheckStatusFile(path)
		if res.Passed {
			t.Fatal("disabled daemon must fail the check")
		}
		if !strings.Contains(res.Detail, "daemon disabled") {
			t.Fatalf("detail: %q", res.Detail)
		}
	})
}

func TestCheckLogDir(t *testing.T) {
	t.Run("missing passes", func(t *testing.T) {
		res := preflight.CheckLogDir(filepath.Join(t.TempDir(), "to-create"))
		if !res.Passed {
			t.Fatalf("missing log dir is created later and must pass: %q", res.Detail)
		}
	})

	t.Run("file instead of dir", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "actually-a-file")
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			t.Fatalf("write file: %v", err)
		}
		res := preflight.CheckLogDir(path)
		if res.Passed {
			t.Fatal("regular file must fail")
		}
	})

	t.Run("usable", func(t *testing.T) {
		res := preflight.CheckLogDir(t.TempDir())
		if !res.Passed {
			t.Fatalf("writable dir must pass: %q", res.Detail)
		}
	})
}

func TestCheckAllCoversEverySurface(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.CommandChannel = filepath.Join(dir, "audio")
	cfg.Paths.StatusFile = filepath.Join(dir, "audioStatus.json")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")

	results := preflight.CheckAll(&cfg)
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	names := map[string]bool{}
	for _, res := range results {
		names[res.Name] = true
	}
	for _, want := range []string{"Command channel", "Status snapshot", "Log directory"} {
		if !names[want] {
			t.Fatalf("missing check %q in %v", want, names)
		}
	}
}
