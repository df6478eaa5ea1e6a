package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

func init() {
	// Load env from .env
	godotenv.Load()
}

// DataDir is where the local durable store keeps its SQLite file.
// Defaults to ./data so a fresh checkout works without any env.
func DataDir() string {
	dir := strings.TrimSpace(os.Getenv("GSTBILLING_DATA_DIR"))
	if dir == "" {
		dir = "data"
	}
	return dir
}

// LocalStorePath is the SQLite database file backing the local KV store.
func LocalStorePath() string {
	return filepath.Join(DataDir(), "gstbilling.db")
}

// RemoteRedisAddress returns the remote live store address, or "" when the
// app runs local-only (no remote configured).
func RemoteRedisAddress() string {
	return strings.TrimSpace(os.Getenv("REMOTE_REDIS_ADDRESS"))
}

func RemoteRedisPassword() string {
	return os.Getenv("REMOTE_REDIS_PASSWORD")
}

// ResyncDelay is how long after a reconnect the full-collection resync fires.
func ResyncDelay() time.Duration {
	if v := strings.TrimSpace(os.Getenv("RESYNC_DELAY_MS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return time.Duration(n) * time.Millisecond
		}
	}
	return 2500 * time.Millisecond
}

func FieldCryptKey() string {
	return strings.TrimSpace(os.Getenv("FIELD_CRYPT_KEY"))
}

func BackupBucket() string {
	return strings.TrimSpace(os.Getenv("GCS_BUCKET"))
}
