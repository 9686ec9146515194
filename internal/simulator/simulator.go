package simulator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"golang.org/x/sys/unix"

	"replaudio/internal/audio"
	"replaudio/internal/config"
	"replaudio/internal/logging"
)

// Simulator stands in for the host audio daemon during development and
// testing. It drains the command channel, assigns identities, bookkeeps
// playback timing, and rewrites the status snapshot. It performs no audio
// work of any kind.
type Simulator struct {
	channelPath  string
	statusPath   string
	tick         time.Duration
	fileDuration time.Duration
	logger       *slog.Logger
	lock         *flock.Flock

	mu      sync.Mutex
	nextID  int64
	sources []*playingSource
}

type playingSource struct {
	status   audio.SourceStatus
	end      time.Time
	duration time.Duration
	lastSeen time.Time
}

// command is the union of the two wire records. A record carrying an ID
// addresses an existing source; one carrying a Type creates a new one.
type command struct {
	ID        *int64          `json:"ID"`
	Name      string          `json:"Name"`
	Type      string          `json:"Type"`
	Volume    float64         `json:"Volume"`
	Paused    bool            `json:"Paused"`
	DoesLoop  bool            `json:"DoesLoop"`
	LoopCount int64           `json:"LoopCount"`
	Args      json.RawMessage `json:"Args"`
}

type toneArgs struct {
	Seconds float64 `json:"Seconds"`
}

// New constructs a simulator from application configuration.
func New(cfg *config.Config, logger *slog.Logger) *Simulator {
	if logger == nil {
		logger = logging.NewNop()
	}
	runID := uuid.NewString()[:8]
	return &Simulator{
		channelPath:  cfg.Paths.CommandChannel,
		statusPath:   cfg.Paths.StatusFile,
		tick:         cfg.SimulatorTick(),
		fileDuration: time.Duration(cfg.Simulator.FileDurationMS) * time.Millisecond,
		logger:       logger.With(logging.String("run_id", runID)),
		lock:         flock.New(lockPath(cfg.Paths.StatusFile)),
		nextID:       1,
	}
}

func lockPath(statusPath string) string {
	return filepath.Join(filepath.Dir(statusPath), "replaudiosim.lock")
}

// Run provisions the interface files and processes commands until the
// context is canceled. Only one simulator may serve a given status path at
// a time.
func (s *Simulator) Run(ctx context.Context) error {
	locked, err := s.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire simulator lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another simulator already serves %s", s.statusPath)
	}
	defer func() {
		_ = s.lock.Unlock()
	}()

	if err := s.provisionChannel(); err != nil {
		return err
	}
	if err := s.publish(); err != nil {
		return err
	}
	s.logger.Info("simulator ready",
		logging.String("channel", s.channelPath),
		logging.String("status", s.statusPath))

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("simulator shutting down")
			return nil
		case <-ticker.C:
			if err := s.Step(); err != nil {
				s.logger.Warn("simulator step", logging.Error(err))
			}
		}
	}
}

// provisionChannel creates an empty command channel when missing. The real
// daemon owns this file; the simulator mimics that ownership.
func (s *Simulator) provisionChannel() error {
	file, err := os.OpenFile(s.channelPath, os.O_CREATE|os.O_WRONLY, 0o666)
	if err != nil {
		return fmt.Errorf("provision command channel %s: %w", s.channelPath, err)
	}
	return file.Close()
}

// Step drains pending commands, advances playback bookkeeping, and
// republishes the snapshot. Exported so tests can drive the simulator
// without the ticker.
func (s *Simulator) Step() error {
	commands, err := s.drain()
	if err != nil {
		return err
	}

	s.mu.Lock()
	now := time.Now().UTC()
	for _, cmd := range commands {
		s.apply(cmd, now)
	}
	s.advance(now)
	s.mu.Unlock()

	return s.publish()
}

// drain reads and truncates the command channel, returning the decoded
// records. Appended records are a stream of concatenated JSON objects. The
// read and the truncate happen on one fd under an exclusive flock; writers
// hold the same lock for the whole of an append, so no record can land in
// the window between the two and be destroyed unread.
func (s *Simulator) drain() ([]command, error) {
	file, err := os.OpenFile(s.channelPath, os.O_RDWR, 0)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open command channel: %w", err)
	}
	defer file.Close()

	if err := unix.Flock(int(file.Fd()), unix.LOCK_EX); err != nil {
		return nil, fmt.Errorf("lock command channel: %w", err)
	}

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read command channel: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	if err := file.Truncate(0); err != nil {
		return nil, fmt.Errorf("truncate command channel: %w", err)
	}

	var commands []command
	decoder := json.NewDecoder(bytes.NewReader(raw))
	for {
		var cmd command
		if err := decoder.Decode(&cmd); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			// A torn write poisons the rest of the stream; keep what
			// decoded so far.
			s.logger.Warn("discarding undecodable channel tail", logging.Error(err))
			break
		}
		commands = append(commands, cmd)
	}
	return commands, nil
}

func (s *Simulator) apply(cmd command, now time.Time) {
	switch {
	case cmd.ID != nil:
		s.applyUpdate(cmd, now)
	case cmd.Type != "":
		s.applyCreate(cmd, now)
	default:
		s.logger.Warn("skipping command with neither ID nor Type")
	}
}

func (s *Simulator) applyCreate(cmd command, now time.Time) {
	duration := s.fileDuration
	if cmd.Type == "tone" {
		var args toneArgs
		if err := json.Unmarshal(cmd.Args, &args); err == nil && args.Seconds > 0 {
			duration = time.Duration(args.Seconds * float64(time.Second))
		}
	}

	loop := int64(0)
	if cmd.DoesLoop {
		loop = cmd.LoopCount
	}

	src := &playingSource{
		status: audio.SourceStatus{
			ID:        s.nextID,
			Name:      cmd.Name,
			Type:      cmd.Type,
			Volume:    cmd.Volume,
			Loop:      loop,
			Duration:  duration.Milliseconds(),
			Remaining: duration.Milliseconds(),
			StartTime: formatTimestamp(now),
			EndTime:   formatTimestamp(now.Add(duration)),
		},
		end:      now.Add(duration),
		duration: duration,
		lastSeen: now,
	}
	s.nextID++
	s.sources = append(s.sources, src)
	s.logger.Info("source created",
		logging.Int64("id", src.status.ID),
		logging.String("name", cmd.Name),
		logging.String("type", cmd.Type))
}

func (s *Simulator) applyUpdate(cmd command, now time.Time) {
	for _, src := range s.sources {
		if src.status.ID != *cmd.ID {
			continue
		}
		src.status.Volume = cmd.Volume
		if cmd.Paused && !src.status.Paused {
			src.lastSeen = now
		}
		src.status.Paused = cmd.Paused
		if cmd.DoesLoop {
			src.status.Loop = cmd.LoopCount
		} else {
			src.status.Loop = 0
		}
		s.logger.Info("source updated", logging.Int64("id", src.status.ID))
		return
	}
	s.logger.Warn("update for unknown source", logging.Int64("id", *cmd.ID))
}

// advance moves playback clocks forward and drops finished sources.
func (s *Simulator) advance(now time.Time) {
	active := s.sources[:0]
	for _, src := range s.sources {
		if src.status.Paused {
			// Paused sources hold their remaining time; their end drifts
			// forward instead.
			src.end = src.end.Add(now.Sub(src.lastSeen))
			src.status.EndTime = formatTimestamp(src.end)
			src.lastSeen = now
			active = append(active, src)
			continue
		}
		src.lastSeen = now

		remaining := src.end.Sub(now)
		if remaining > 0 {
			src.status.Remaining = remaining.Milliseconds()
			active = append(active, src)
			continue
		}

		switch {
		case src.status.Loop < 0:
			// Loops forever; restart the clock.
			src.end = now.Add(src.duration)
			src.status.Remaining = src.duration.Milliseconds()
			src.status.StartTime = formatTimestamp(now)
			src.status.EndTime = formatTimestamp(src.end)
			active = append(active, src)
		case src.status.Loop > 0:
			src.status.Loop--
			src.end = now.Add(src.duration)
			src.status.Remaining = src.duration.Milliseconds()
			src.status.StartTime = formatTimestamp(now)
			src.status.EndTime = formatTimestamp(src.end)
			active = append(active, src)
		default:
			s.logger.Info("source finished", logging.Int64("id", src.status.ID))
		}
	}
	s.sources = active
}

// publish atomically rewrites the status snapshot.
func (s *Simulator) publish() error {
	s.mu.Lock()
	snapshot := audio.Snapshot{
		Running:  len(s.sources) > 0,
		Disabled: false,
		Sources:  make([]audio.SourceStatus, 0, len(s.sources)),
	}
	for _, src := range s.sources {
		snapshot.Sources = append(snapshot.Sources, src.status)
	}
	s.mu.Unlock()

	payload, err := json.Marshal(&snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	tmp := s.statusPath + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.statusPath); err != nil {
		return fmt.Errorf("swap snapshot: %w", err)
	}
	return nil
}

// formatTimestamp renders the daemon's fractional-seconds UTC format.
func formatTimestamp(ts time.Time) string {
	return ts.UTC().Format("2006-01-02T15:04:05.000000000Z")
}
