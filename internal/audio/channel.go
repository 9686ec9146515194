package audio

import (
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Wire records for the command channel. Field names and discriminator
// values are what the daemon expects; do not rename.

type createCommand struct {
	Name      string  `json:"Name"`
	Type      string  `json:"Type"`
	Volume    float64 `json:"Volume"`
	DoesLoop  bool    `json:"DoesLoop"`
	LoopCount int64   `json:"LoopCount"`
	Args      any     `json:"Args"`
}

type updateCommand struct {
	ID        int64   `json:"ID"`
	Volume    float64 `json:"Volume"`
	Paused    bool    `json:"Paused"`
	DoesLoop  bool    `json:"DoesLoop"`
	LoopCount int64   `json:"LoopCount"`
}

type fileArgs struct {
	Path string `json:"Path"`
}

type toneArgs struct {
	WaveType int     `json:"WaveType"`
	Pitch    float64 `json:"Pitch"`
	Seconds  float64 `json:"Seconds"`
}

// appendCommand serializes one command record and appends it to the channel
// file. The channel is drained by the daemon; the client never truncates or
// rewrites it. The append happens under an exclusive flock on the channel so
// a drainer that reads-then-truncates under the same lock cannot discard a
// record landing between its two steps.
func appendCommand(path string, command any) error {
	payload, err := json.Marshal(command)
	if err != nil {
		return fmt.Errorf("encode command: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return fmt.Errorf("open command channel %s: %w", path, err)
	}
	defer file.Close()

	// Released on close.
	if err := unix.Flock(int(file.Fd()), unix.LOCK_EX); err != nil {
		return fmt.Errorf("lock command channel %s: %w", path, err)
	}
	if _, err := file.Write(payload); err != nil {
		return fmt.Errorf("write command channel %s: %w", path, err)
	}
	return nil
}
