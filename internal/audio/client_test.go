package audio_test

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"replaudio/internal/audio"
	"replaudio/internal/testsupport"
)

func newTestClient(t *testing.T) (*audio.Client, string, string) {
	t.Helper()
	dir := t.TempDir()
	channel := filepath.Join(dir, "audio")
	status := filepath.Join(dir, "audioStatus.json")
	testsupport.TouchChannel(t, channel)
	client := audio.New(audio.Options{
		ChannelPath:    channel,
		StatusPath:     status,
		ConfirmTimeout: 300 * time.Millisecond,
		PollInterval:   5 * time.Millisecond,
	})
	return client, channel, status
}

func TestBuildEncodesCreateCommand(t *testing.T) {
	client, channel, _ := newTestClient(t)

	_, err := client.Tone(audio.WaveSquare, 440, 2).
		Name("fixed_name").
		Volume(0.25).
		Loop(true).
		LoopCount(3).
		Build(context.Background())
	if !errors.Is(err, audio.ErrConfirmTimeout) {
		t.Fatalf("want confirm timeout with no daemon, got %v", err)
	}

	commands := testsupport.DecodeCommands(t, testsupport.ReadChannel(t, channel))
	if len(commands) != 1 {
		t.Fatalf("expected 1 command, got %d", len(commands))
	}
	cmd := commands[0]
	if cmd["Name"] != "fixed_name" || cmd["Type"] != "tone" {
		t.Fatalf("unexpected header fields: %v", cmd)
	}
	if cmd["Volume"] != 0.25 || cmd["DoesLoop"] != true || cmd["LoopCount"] != float64(3) {
		t.Fatalf("unexpected playback fields: %v", cmd)
	}
	args, ok := cmd["Args"].(map[string]any)
	if !ok {
		t.Fatalf("missing Args payload: %v", cmd)
	}
	if args["WaveType"] != float64(3) || args["Pitch"] != float64(440) || args["Seconds"] != float64(2) {
		t.Fatalf("unexpected tone args: %v", args)
	}
}

func TestBuildEncodesFileCommand(t *testing.T) {
	client, channel, _ := newTestClient(t)

	_, err := client.File(audio.FormatWav, "audio.wav").Build(context.Background())
	if !errors.Is(err, audio.ErrConfirmTimeout) {
		t.Fatalf("want confirm timeout with no daemon, got %v", err)
	}

	commands := testsupport.DecodeCommands(t, testsupport.ReadChannel(t, channel))
	if len(commands) != 1 {
		t.Fatalf("expected 1 command, got %d", len(commands))
	}
	cmd := commands[0]
	if cmd["Type"] != "wav" {
		t.Fatalf("file format must be the discriminator, got %v", cmd["Type"])
	}
	// Defaults: volume 1.0, no loop, infinite loop count.
	if cmd["Volume"] != 1.0 || cmd["DoesLoop"] != false || cmd["LoopCount"] != float64(-1) {
		t.Fatalf("unexpected defaults: %v", cmd)
	}
	args := cmd["Args"].(map[string]any)
	if args["Path"] != "audio.wav" {
		t.Fatalf("unexpected file args: %v", args)
	}
}

func TestBuildAppendsRatherThanOverwrites(t *testing.T) {
	client, channel, _ := newTestClient(t)

	ctx := context.Background()
	_, _ = client.Tone(audio.WaveSine, 220, 1).Build(ctx)
	_, _ = client.Tone(audio.WaveSaw, 330, 1).Build(ctx)

	commands := testsupport.DecodeCommands(t, testsupport.ReadChannel(t, channel))
	if len(commands) != 2 {
		t.Fatalf("expected both commands in the channel, got %d", len(commands))
	}
	if commands[0]["Name"] == commands[1]["Name"] {
		t.Fatalf("consecutive builds must draw distinct provisional names: %v", commands)
	}
}

func TestBuildMissingChannelIsIOError(t *testing.T) {
	client := audio.New(audio.Options{
		ChannelPath:    filepath.Join(t.TempDir(), "missing"),
		StatusPath:     filepath.Join(t.TempDir(), "audioStatus.json"),
		ConfirmTimeout: 100 * time.Millisecond,
	})

	_, err := client.Tone(audio.WaveSine, 440, 1).Build(context.Background())
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("want wrapped fs.ErrNotExist, got %v", err)
	}
	if errors.Is(err, audio.ErrConfirmTimeout) {
		t.Fatalf("channel failure must not report a timeout: %v", err)
	}
}

func TestBuildConfirmsOnceSnapshotAppears(t *testing.T) {
	client, channel, status := newTestClient(t)

	// Stand in for the daemon: once the command lands, publish a matching
	// snapshot entry.
	go func() {
		deadline := time.Now().Add(time.Second)
		for time.Now().Before(deadline) {
			raw, err := os.ReadFile(channel)
			if err != nil || len(raw) == 0 {
				time.Sleep(2 * time.Millisecond)
				continue
			}
			var cmd map[string]any
			if jsonErr := json.Unmarshal(raw, &cmd); jsonErr != nil {
				time.Sleep(2 * time.Millisecond)
				continue
			}
			name, _ := cmd["Name"].(string)
			snapshot := audio.Snapshot{
				Running: true,
				Sources: []audio.SourceStatus{{ID: 42, Name: name, Volume: 1, Duration: 2000, Remaining: 2000}},
			}
			payload, _ := json.Marshal(&snapshot)
			_ = os.WriteFile(status, payload, 0o644)
			return
		}
	}()

	start := time.Now()
	handle, err := client.Tone(audio.WaveSquare, 440, 2).Build(context.Background())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if handle.ID() != 42 {
		t.Fatalf("expected daemon-assigned id 42, got %d", handle.ID())
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("confirmation took %v, expected prompt success", elapsed)
	}
}

func TestBuildTimesOutWithinBudget(t *testing.T) {
	client, _, _ := newTestClient(t)

	start := time.Now()
	_, err := client.Tone(audio.WaveSine, 440, 1).Build(context.Background())
	elapsed := time.Since(start)

	if !errors.Is(err, audio.ErrConfirmTimeout) {
		t.Fatalf("want ErrConfirmTimeout, got %v", err)
	}
	if elapsed < 300*time.Millisecond {
		t.Fatalf("gave up after %v, before the budget elapsed", elapsed)
	}
	if elapsed > 1500*time.Millisecond {
		t.Fatalf("timeout took %v, well past the 300ms budget", elapsed)
	}
}

func TestBuildHonorsContextCancel(t *testing.T) {
	dir := t.TempDir()
	channel := filepath.Join(dir, "audio")
	testsupport.TouchChannel(t, channel)
	client := audio.New(audio.Options{
		ChannelPath:    channel,
		StatusPath:     filepath.Join(dir, "audioStatus.json"),
		ConfirmTimeout: 10 * time.Second,
		PollInterval:   5 * time.Millisecond,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := client.Tone(audio.WaveSine, 440, 1).Build(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("want context deadline, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Fatal("cancellation did not interrupt the poll loop")
	}
}
