package audio

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"replaudio/internal/config"
	"replaudio/internal/logging"
)

const (
	// DefaultChannelPath is the host daemon's command channel.
	DefaultChannelPath = "/tmp/audio"
	// DefaultStatusPath is the host daemon's status snapshot.
	DefaultStatusPath = "/tmp/audioStatus.json"

	defaultConfirmTimeout = 2 * time.Second
	defaultPollInterval   = 10 * time.Millisecond
)

// Options configures a Client. Zero values fall back to the daemon's fixed
// paths and the protocol defaults.
type Options struct {
	ChannelPath    string
	StatusPath     string
	ConfirmTimeout time.Duration
	PollInterval   time.Duration
	Logger         *slog.Logger
}

// Client talks to the audio daemon through its command channel and status
// snapshot. It holds no connection and no cached state; it is safe for
// concurrent use.
type Client struct {
	channelPath    string
	statusPath     string
	confirmTimeout time.Duration
	pollInterval   time.Duration
	logger         *slog.Logger
}

// New constructs a Client, applying defaults for unset options.
func New(opts Options) *Client {
	if opts.ChannelPath == "" {
		opts.ChannelPath = DefaultChannelPath
	}
	if opts.StatusPath == "" {
		opts.StatusPath = DefaultStatusPath
	}
	if opts.ConfirmTimeout <= 0 {
		opts.ConfirmTimeout = defaultConfirmTimeout
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	return &Client{
		channelPath:    opts.ChannelPath,
		statusPath:     opts.StatusPath,
		confirmTimeout: opts.ConfirmTimeout,
		pollInterval:   opts.PollInterval,
		logger:         opts.Logger,
	}
}

// NewFromConfig constructs a Client from application configuration.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) *Client {
	return New(Options{
		ChannelPath:    cfg.Paths.CommandChannel,
		StatusPath:     cfg.Paths.StatusFile,
		ConfirmTimeout: cfg.ConfirmTimeout(),
		PollInterval:   cfg.PollInterval(),
		Logger:         logger,
	})
}

// ChannelPath returns the configured command channel path.
func (c *Client) ChannelPath() string { return c.channelPath }

// StatusPath returns the configured status snapshot path.
func (c *Client) StatusPath() string { return c.statusPath }

// Builder accumulates playback parameters for one source and issues the
// create command. Build may be called repeatedly to spawn independent
// sources from the same configuration; each call draws a fresh provisional
// name unless one was pinned with Name.
type Builder struct {
	client    *Client
	source    Source
	name      string
	volume    float64
	doesLoop  bool
	loopCount int64
}

// NewSource starts a builder for an arbitrary source descriptor with the
// protocol defaults: volume 1.0, no looping, infinite loop count once
// looping is enabled.
func (c *Client) NewSource(source Source) *Builder {
	return &Builder{
		client:    c,
		source:    source,
		volume:    1.0,
		loopCount: -1,
	}
}

// File starts a builder for an audio file source.
func (c *Client) File(format FileFormat, path string) *Builder {
	return c.NewSource(FileSource{Format: format, Path: path})
}

// Tone starts a builder for a synthesized tone. Pitch is in hertz, duration
// in seconds.
func (c *Client) Tone(wave Waveform, pitch, duration float64) *Builder {
	return c.NewSource(ToneSource{Waveform: wave, Pitch: pitch, Duration: duration})
}

// Name pins the provisional name instead of generating one per Build call.
// Reusing a fixed name across builds makes confirmation ambiguous — the
// resolver returns whichever matching record it sees first — so pinning is
// not recommended.
func (b *Builder) Name(name string) *Builder {
	b.name = name
	return b
}

// Volume sets the playback volume. The daemon is authoritative about the
// accepted range; the value is sent as-is. Default 1.0.
func (b *Builder) Volume(volume float64) *Builder {
	b.volume = volume
	return b
}

// Loop sets whether the source loops. Default false.
func (b *Builder) Loop(loop bool) *Builder {
	b.doesLoop = loop
	return b
}

// LoopCount sets how many times a looping source repeats. Negative means
// forever, which is the default.
func (b *Builder) LoopCount(count int64) *Builder {
	b.loopCount = count
	return b
}

// Build appends the create command to the channel and waits until the
// daemon publishes a matching status entry, then returns a Handle bound to
// the assigned identity. It fails with a wrapped I/O error when the channel
// cannot be written, and with ErrConfirmTimeout when the confirm budget
// elapses first. Transient snapshot read/parse failures during the wait are
// treated as not-yet-published and retried.
func (b *Builder) Build(ctx context.Context) (*Handle, error) {
	name := b.name
	if name == "" {
		name = nextProvisionalName()
	}

	command := createCommand{
		Name:      name,
		Type:      b.source.commandType(),
		Volume:    b.volume,
		DoesLoop:  b.doesLoop,
		LoopCount: b.loopCount,
		Args:      b.source.commandArgs(),
	}
	if err := appendCommand(b.client.channelPath, command); err != nil {
		return nil, err
	}
	b.client.logger.Debug("create command sent",
		logging.String("name", name),
		logging.String("type", command.Type))

	id, err := b.client.awaitAssignedID(ctx, name)
	if err != nil {
		return nil, err
	}
	b.client.logger.Debug("source confirmed",
		logging.String("name", name),
		logging.Int64("id", id))

	return &Handle{client: b.client, id: id, source: b.source}, nil
}

// awaitAssignedID polls the snapshot until a record carrying the
// provisional name appears. First success wins; there is no backoff beyond
// the fixed poll interval.
func (c *Client) awaitAssignedID(ctx context.Context, name string) (int64, error) {
	deadline := time.Now().Add(c.confirmTimeout)
	for {
		if status, err := c.FindByName(name); err == nil {
			return status.ID, nil
		}

		if !time.Now().Before(deadline) {
			return 0, fmt.Errorf("%w: no status entry for %q within %s",
				ErrConfirmTimeout, name, c.confirmTimeout)
		}
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
}
