package audio

import (
	"time"

	"replaudio/internal/logging"
)

// Handle is a reference to a live playback source, bound to the identity
// the daemon assigned during create-and-confirm. It has no destructor;
// queries fail with ErrNotFound once the daemon drops the record.
type Handle struct {
	client *Client
	id     int64
	source Source
}

// ID returns the daemon-assigned identity.
func (h *Handle) ID() int64 { return h.id }

// Source returns the descriptor the handle was built from.
func (h *Handle) Source() Source { return h.source }

// Current returns the full status record for the source.
func (h *Handle) Current() (*SourceStatus, error) {
	return h.client.FindByID(h.id)
}

// Name returns the source's name as published by the daemon.
func (h *Handle) Name() (string, error) {
	status, err := h.Current()
	if err != nil {
		return "", err
	}
	return status.Name, nil
}

// Volume returns the current playback volume.
func (h *Handle) Volume() (float64, error) {
	status, err := h.Current()
	if err != nil {
		return 0, err
	}
	return status.Volume, nil
}

// Duration returns the source's total length.
func (h *Handle) Duration() (time.Duration, error) {
	status, err := h.Current()
	if err != nil {
		return 0, err
	}
	return time.Duration(status.Duration) * time.Millisecond, nil
}

// Remaining returns the time left before the source finishes.
func (h *Handle) Remaining() (time.Duration, error) {
	status, err := h.Current()
	if err != nil {
		return 0, err
	}
	return time.Duration(status.Remaining) * time.Millisecond, nil
}

// Paused reports whether playback is paused.
func (h *Handle) Paused() (bool, error) {
	status, err := h.Current()
	if err != nil {
		return false, err
	}
	return status.Paused, nil
}

// LoopCount returns the source's remaining loop count. Negative means
// forever.
func (h *Handle) LoopCount() (int64, error) {
	status, err := h.Current()
	if err != nil {
		return 0, err
	}
	return status.Loop, nil
}

// StartTime returns when the source started playing.
func (h *Handle) StartTime() (time.Time, error) {
	status, err := h.Current()
	if err != nil {
		return time.Time{}, err
	}
	return status.Started()
}

// EndTime returns when the source is scheduled to finish.
func (h *Handle) EndTime() (time.Time, error) {
	status, err := h.Current()
	if err != nil {
		return time.Time{}, err
	}
	return status.Ended()
}

// Update mutates an existing source. All fields are sent, so callers that
// want to change only one should read the current record first and carry
// the rest over. Update represents the full mutable state of a source.
type Update struct {
	Volume    float64
	Paused    bool
	Loop      bool
	LoopCount int64
}

// Update appends an update command for the held identity. It is
// fire-and-forget: the daemon applies it on its own schedule and no
// confirmation round-trip happens, so an immediate re-query may still
// observe the old values.
func (h *Handle) Update(update Update) error {
	return h.client.appendUpdate(h.id, update)
}

func (c *Client) appendUpdate(id int64, update Update) error {
	command := updateCommand{
		ID:        id,
		Volume:    update.Volume,
		Paused:    update.Paused,
		DoesLoop:  update.Loop,
		LoopCount: update.LoopCount,
	}
	if err := appendCommand(c.channelPath, command); err != nil {
		return err
	}
	c.logger.Debug("update command sent", logging.Int64("id", id))
	return nil
}

// UpdateSource appends an update command for an arbitrary identity, for
// callers that address sources without holding a Handle.
func (c *Client) UpdateSource(id int64, update Update) error {
	return c.appendUpdate(id, update)
}
