package storage

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"sentinel/pkg/logx"
)

// Store is the minimal persistence API used by the reminder and settings
// services.
type Store interface {
	Put(ctx context.Context, key string, value []byte) error
	// Get returns ok=false when the key has never been written.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open initializes the configured store.
func Open(cfg Config, log logx.Logger) (Store, error) {
	if log.IsZero() {
		log = logx.Nop()
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "file":
		return openFile(cfg, log)
	case "sqlite", "sqlite3":
		return openSQLite(cfg, log)
	case "memory", "none":
		log.Warn("memory storage selected; reminders will not survive a restart")
		return NewMemory(), nil
	default:
		return nil, errors.New("unknown storage driver: " + cfg.Driver)
	}
}

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,128}$`)

func checkKey(key string) error {
	if !keyPattern.MatchString(key) || strings.HasPrefix(key, ".") {
		return ErrInvalidKey
	}
	return nil
}
