package storage

import (
	"errors"
	"time"
)

var (
	ErrClosed     = errors.New("storage closed")
	ErrInvalidKey = errors.New("invalid storage key")
)

// Record keys.
const (
	KeyReminders = "sentinel_reminders"
	KeySettings  = "sentinel_settings"
)

// Config configures storage.
//
// Driver values: "file", "sqlite" (or "sqlite3"), "memory".
// An empty driver means "file".
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 means default
}
