package audio

import "fmt"

// FileFormat identifies a supported audio file format. The string values
// double as the command discriminator the daemon expects.
type FileFormat string

const (
	FormatWav  FileFormat = "wav"
	FormatAiff FileFormat = "aiff"
	FormatMp3  FileFormat = "mp3"
)

// ParseFileFormat maps a user-supplied format name (or file extension) to a
// FileFormat.
func ParseFileFormat(value string) (FileFormat, error) {
	switch FileFormat(value) {
	case FormatWav, FormatAiff, FormatMp3:
		return FileFormat(value), nil
	}
	return "", fmt.Errorf("unsupported file format %q", value)
}

// Waveform identifies a tone shape. The numeric values are the daemon's wave
// type codes and must not change.
type Waveform int

const (
	WaveSine     Waveform = 0
	WaveTriangle Waveform = 1
	WaveSaw      Waveform = 2
	WaveSquare   Waveform = 3
)

// String returns the lowercase waveform name.
func (w Waveform) String() string {
	switch w {
	case WaveSine:
		return "sine"
	case WaveTriangle:
		return "triangle"
	case WaveSaw:
		return "saw"
	case WaveSquare:
		return "square"
	}
	return fmt.Sprintf("waveform(%d)", int(w))
}

// ParseWaveform maps a waveform name to its wave type code.
func ParseWaveform(value string) (Waveform, error) {
	switch value {
	case "sine":
		return WaveSine, nil
	case "triangle":
		return WaveTriangle, nil
	case "saw":
		return WaveSaw, nil
	case "square":
		return WaveSquare, nil
	}
	return 0, fmt.Errorf("unsupported waveform %q", value)
}

// Source describes what the daemon should play: an audio file or a
// synthesized tone. Implementations are the two variants below; the
// unexported methods keep the set closed.
type Source interface {
	// commandType returns the Type discriminator for the create command.
	commandType() string
	// commandArgs returns the variant-specific Args payload.
	commandArgs() any
}

// FileSource plays an audio file from disk.
type FileSource struct {
	Format FileFormat
	Path   string
}

func (s FileSource) commandType() string { return string(s.Format) }

func (s FileSource) commandArgs() any {
	return fileArgs{Path: s.Path}
}

// ToneSource plays a synthesized tone.
type ToneSource struct {
	Waveform Waveform
	// Pitch is the tone frequency in hertz.
	Pitch float64
	// Duration is the tone length in seconds.
	Duration float64
}

func (s ToneSource) commandType() string { return "tone" }

func (s ToneSource) commandArgs() any {
	return toneArgs{WaveType: int(s.Waveform), Pitch: s.Pitch, Seconds: s.Duration}
}
