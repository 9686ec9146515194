// Package preflight checks that the daemon interface files and the client
// environment are usable before commands are issued. The doctor command
// renders these results.
package preflight
