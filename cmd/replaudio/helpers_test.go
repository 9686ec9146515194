package main

import (
	"bytes"
	"strings"
	"testing"

	"replaudio/internal/audio"
)

func TestResolveFormat(t *testing.T) {
	cases := []struct {
		name    string
		flag    string
		path    string
		want    audio.FileFormat
		wantErr string
	}{
		{name: "inferred from extension", path: "/music/track.wav", want: audio.FormatWav},
		{name: "extension case folded", path: "/music/TRACK.AIFF", want: audio.FormatAiff},
		{name: "flag wins over extension", flag: "mp3", path: "/music/track.wav", want: audio.FormatMp3},
		{name: "no extension", path: "/music/track", wantErr: "--format"},
		{name: "unsupported extension", path: "/music/track.ogg", wantErr: "--format"},
		{name: "unsupported flag", flag: "flac", path: "x.wav", wantErr: "unsupported"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := resolveFormat(tc.flag, tc.path)
			if tc.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
					t.Fatalf("err = %v, want mention of %q", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolveFormat: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestLoopLabel(t *testing.T) {
	if got := loopLabel(-1); got != "forever" {
		t.Fatalf("loopLabel(-1) = %q", got)
	}
	if got := loopLabel(0); got != "0" {
		t.Fatalf("loopLabel(0) = %q", got)
	}
	if got := loopLabel(3); got != "3" {
		t.Fatalf("loopLabel(3) = %q", got)
	}
}

func TestFormatMillis(t *testing.T) {
	cases := map[int64]string{
		0:      "0s",
		250:    "200ms",
		1_000:  "1s",
		61_500: "1m1.5s",
	}
	for ms, want := range cases {
		if got := formatMillis(ms); got != want {
			t.Fatalf("formatMillis(%d) = %q, want %q", ms, got, want)
		}
	}
}

func TestSourceTypeLabel(t *testing.T) {
	if got := sourceTypeLabel("wav"); got != "Wav" {
		t.Fatalf("got %q", got)
	}
	if got := sourceTypeLabel("tone"); got != "Tone" {
		t.Fatalf("got %q", got)
	}
	if got := sourceTypeLabel(""); got != "Unknown" {
		t.Fatalf("got %q", got)
	}
}

func TestParseSourceID(t *testing.T) {
	id, err := parseSourceID("42")
	if err != nil || id != 42 {
		t.Fatalf("got %d, %v", id, err)
	}
	if _, err := parseSourceID("nope"); err == nil {
		t.Fatal("expected error for non-numeric id")
	}
}

func TestDescribeSource(t *testing.T) {
	file := describeSource(audio.FileSource{Format: audio.FormatWav, Path: "/music/track.wav"})
	if file != "wav file track.wav" {
		t.Fatalf("file description %q", file)
	}
	tone := describeSource(audio.ToneSource{Waveform: audio.WaveSquare, Pitch: 440, Duration: 2})
	if tone != "square tone at 440.0 Hz for 2.0s" {
		t.Fatalf("tone description %q", tone)
	}
}

func TestPlaybackLine(t *testing.T) {
	tone := audio.ToneSource{Waveform: audio.WaveSine, Pitch: 440, Duration: 1}

	named := playbackLine(tone, 3, "go_audio_7")
	if named != "Playing sine tone at 440.0 Hz for 1.0s as source #3 (go_audio_7)" {
		t.Fatalf("line %q", named)
	}

	// An expired source with no pinned name has no name to print.
	anonymous := playbackLine(tone, 3, "")
	if anonymous != "Playing sine tone at 440.0 Hz for 1.0s as source #3" {
		t.Fatalf("line %q", anonymous)
	}
	if strings.Contains(anonymous, "()") {
		t.Fatalf("empty parenthetical leaked: %q", anonymous)
	}
}

func TestRenderStatusLine(t *testing.T) {
	line := renderStatusLine("Command channel", statusOK, "/tmp/audio (writable)", false)
	if !strings.Contains(line, "[OK]") || !strings.Contains(line, "Command channel:") {
		t.Fatalf("line %q", line)
	}

	colored := renderStatusLine("Check", statusError, "bad", true)
	if !strings.HasPrefix(colored, ansiRed) || !strings.HasSuffix(colored, ansiReset) {
		t.Fatalf("colored line %q", colored)
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(&bytes.Buffer{}) {
		t.Fatal("buffers are never terminals")
	}
}
