package audio

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// timeLayout is the daemon's fixed fractional-seconds UTC timestamp format.
const timeLayout = "2006-01-02T15:04:05.999999999Z"

// Snapshot is the daemon-owned status document. The daemon may rewrite it
// wholesale between reads; there is no versioning.
type Snapshot struct {
	Running  bool           `json:"Running"`
	Disabled bool           `json:"Disabled"`
	Sources  []SourceStatus `json:"Sources"`
}

// SourceStatus is one per-source record inside a snapshot. IDs are unique
// within a single snapshot. Duration and Remaining are in milliseconds;
// timestamps are strings in the daemon's time format.
type SourceStatus struct {
	ID        int64   `json:"ID"`
	Name      string  `json:"Name"`
	Type      string  `json:"Type,omitempty"`
	Volume    float64 `json:"Volume"`
	Paused    bool    `json:"Paused"`
	Loop      int64   `json:"Loop"`
	Duration  int64   `json:"Duration"`
	Remaining int64   `json:"Remaining"`
	StartTime string  `json:"StartTime"`
	EndTime   string  `json:"EndTime"`
}

// Started parses the record's start timestamp.
func (s *SourceStatus) Started() (time.Time, error) {
	return parseTimestamp(s.StartTime)
}

// Ended parses the record's end timestamp.
func (s *SourceStatus) Ended() (time.Time, error) {
	return parseTimestamp(s.EndTime)
}

func parseTimestamp(value string) (time.Time, error) {
	ts, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadTimestamp, value)
	}
	return ts, nil
}

// Status reads and parses the snapshot fresh. A missing or unreadable file
// is an I/O error; a present but undecodable document wraps
// ErrMalformedStatus.
func (c *Client) Status() (*Snapshot, error) {
	raw, err := os.ReadFile(c.statusPath)
	if err != nil {
		return nil, fmt.Errorf("read status snapshot %s: %w", c.statusPath, err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedStatus, err)
	}
	return &snapshot, nil
}

// FindByID re-reads the snapshot and returns the first record with the
// given daemon-assigned identity, or ErrNotFound.
func (c *Client) FindByID(id int64) (*SourceStatus, error) {
	snapshot, err := c.Status()
	if err != nil {
		return nil, err
	}
	for i := range snapshot.Sources {
		if snapshot.Sources[i].ID == id {
			return &snapshot.Sources[i], nil
		}
	}
	return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
}

// FindByName re-reads the snapshot and returns the first record with the
// given provisional name, or ErrNotFound. When a name was reused the first
// match wins; that ambiguity is on the caller who reused the name.
func (c *Client) FindByName(name string) (*SourceStatus, error) {
	snapshot, err := c.Status()
	if err != nil {
		return nil, err
	}
	for i := range snapshot.Sources {
		if snapshot.Sources[i].Name == name {
			return &snapshot.Sources[i], nil
		}
	}
	return nil, fmt.Errorf("%w: name %q", ErrNotFound, name)
}

// Running reports the snapshot's top-level Running flag.
func (c *Client) Running() (bool, error) {
	snapshot, err := c.Status()
	if err != nil {
		return false, err
	}
	return snapshot.Running, nil
}

// Disabled reports the snapshot's top-level Disabled flag.
func (c *Client) Disabled() (bool, error) {
	snapshot, err := c.Status()
	if err != nil {
		return false, err
	}
	return snapshot.Disabled, nil
}
