// Package simulator implements a development stand-in for the host audio
// daemon. It speaks the same file protocol — draining the command channel
// and publishing status snapshots — so the client library and CLI can be
// exercised end to end on machines without the real service. It never
// touches audio hardware or decodes anything.
package simulator
