package preflight

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"replaudio/internal/audio"
	"replaudio/internal/config"
)

// Result captures one environment check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// CheckCommandChannel verifies that the daemon's command channel exists and
// is writable. The client never creates the channel; a missing file means
// the daemon has not provisioned it.
func CheckCommandChannel(path string) Result {
	const name = "Command channel"

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist; is the audio daemon provisioned?)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is a directory)", path)}
	}
	if err := unix.Access(path, unix.W_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not writable: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (writable)", path)}
}

// CheckStatusFile verifies that the status snapshot exists, is readable,
// and parses as a valid document.
func CheckStatusFile(path string) Result {
	const name = "Status snapshot"

	if err := unix.Access(path, unix.R_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not readable: %v)", path, err)}
	}

	client := audio.New(audio.Options{StatusPath: path})
	snapshot, err := client.Status()
	if err != nil {
		if errors.Is(err, audio.ErrMalformedStatus) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: malformed document)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}

	detail := fmt.Sprintf("%s (%d sources", path, len(snapshot.Sources))
	if snapshot.Disabled {
		detail += ", daemon disabled"
	}
	detail += ")"
	return Result{Name: name, Passed: !snapshot.Disabled, Detail: detail}
}

// CheckLogDir verifies that the client's own log directory is usable.
func CheckLogDir(path string) Result {
	const name = "Log directory"

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckAll runs every environment check for the given config.
func CheckAll(cfg *config.Config) []Result {
	return []Result{
		CheckCommandChannel(cfg.Paths.CommandChannel),
		CheckStatusFile(cfg.Paths.StatusFile),
		CheckLogDir(cfg.Paths.LogDir),
	}
}
