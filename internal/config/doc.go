// Package config loads and validates the replaudio TOML configuration.
//
// Configuration covers the two daemon interface paths, the
// create-and-confirm timing budget, the local command journal, log output,
// and the development simulator. Missing files fall back to defaults so the
// CLI works against the stock daemon paths with no config at all.
package config
