// Package audio is the client side of the host audio daemon protocol.
//
// The daemon is reachable through two files: a write-only command channel
// that the client appends serialized requests to, and a read-only status
// snapshot the daemon rewrites as playback progresses. The package owns the
// wire encoding of create/update commands, the fresh-read status resolver,
// and the create-and-confirm handshake that turns a submitted request into
// an addressable Handle.
//
// The client never caches: every query re-reads and re-parses the snapshot
// so results are always current against a daemon that may rewrite the file
// at any moment. Snapshot sizes are small, so the repeated full parse is an
// intentional simplicity-over-performance tradeoff.
package audio
