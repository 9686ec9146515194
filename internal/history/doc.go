// Package history journals every command the CLI sends down the command
// channel. The daemon offers no way to ask "what did I send you", so the
// journal is the only local record of issued creates and updates.
package history
