package config

import (
	"os"
	"strings"
)

// RemoteSyncEnabled gates the entire remote half of the engine.
// With no REMOTE_REDIS_ADDRESS the app always runs local-only regardless.
//
// Set via env:
// - REMOTE_SYNC=false to force local-only even when an address is configured.
func RemoteSyncEnabled() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("REMOTE_SYNC")))
	if v == "" {
		return true
	}
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

// AutoResyncEnabled controls the delayed full-collection resync after a
// reconnect. Item-level queue replay is not affected by this flag.
//
// Set via env:
// - AUTO_RESYNC=false
func AutoResyncEnabled() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("AUTO_RESYNC")))
	if v == "" {
		return true
	}
	return v == "1" || v == "true" || v == "yes" || v == "y"
}
