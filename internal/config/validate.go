package config

import (
	"fmt"
	"strings"
)

// Validate rejects configs that cannot be applied. It runs on load and
// before every hot reload is committed.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Logging.Level)) {
	case "", "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unknown level %q", cfg.Logging.Level)
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Storage.Driver)) {
	case "", "file", "memory", "none":
	case "sqlite", "sqlite3":
		if _, err := ParseDurationField("storage.busy_timeout", cfg.Storage.BusyTimeout); err != nil {
			return err
		}
	default:
		return fmt.Errorf("storage.driver: unknown driver %q", cfg.Storage.Driver)
	}

	if n := cfg.Notifier; n != nil {
		if n.Workers < 0 || n.QueueSize < 0 || n.RatePerSec < 0 || n.RetryMax < 0 || n.DedupMaxEntries < 0 {
			return fmt.Errorf("notifier: numeric fields must be >= 0")
		}
		for path, raw := range map[string]string{
			"notifier.retry_base":      n.RetryBase,
			"notifier.retry_max_delay": n.RetryMaxDelay,
			"notifier.send_timeout":    n.SendTimeout,
			"notifier.dedup_window":    n.DedupWindow,
		} {
			if _, err := ParseDurationField(path, raw); err != nil {
				return err
			}
		}
	}

	if _, err := ParseDurationField("desktop.expire", cfg.Desktop.Expire); err != nil {
		return err
	}

	if t := cfg.Telegram; t.Enabled {
		if strings.TrimSpace(t.Token) == "" {
			return fmt.Errorf("telegram.token is required when telegram.enabled is true")
		}
		if len(t.OwnerUserIDs) == 0 && t.ChatID == 0 {
			return fmt.Errorf("telegram: set owner_user_ids or chat_id")
		}
		if _, err := ParseDurationField("telegram.poll_timeout", t.PollTimeout); err != nil {
			return err
		}
	}
	return nil
}
