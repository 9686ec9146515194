// Package logging builds the slog loggers used across replaudio: a
// single-line console handler for interactive use, a JSON handler for
// machine consumption, and a no-op logger for tests.
package logging
