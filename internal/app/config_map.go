package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"sentinel/internal/config"
	"sentinel/internal/launch"
	"sentinel/internal/notifier"
	"sentinel/internal/notifier/desktop"
	"sentinel/internal/storage"
	"sentinel/internal/transport/telegram"
	"sentinel/pkg/logx"
)

// dataDir is where the default file and sqlite stores live.
func dataDir() string {
	if d := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); d != "" {
		return filepath.Join(d, "sentinel")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "sentinel")
	}
	return "sentinel-data"
}

func mapLogConfig(cfg *config.Config) logx.Config {
	return logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	}
}

func mapStorageConfig(cfg *config.Config) (storage.Config, error) {
	sc := cfg.Storage
	driver := strings.ToLower(strings.TrimSpace(sc.Driver))
	path := strings.TrimSpace(sc.Path)
	switch driver {
	case "", "file":
		if path == "" {
			path = dataDir()
		}
		return storage.Config{Driver: "file", Path: path}, nil
	case "sqlite", "sqlite3":
		if path == "" {
			path = filepath.Join(dataDir(), "sentinel.db")
		}
		busy, err := config.ParseDurationOrDefault("storage.busy_timeout", sc.BusyTimeout, time.Second)
		if err != nil {
			return storage.Config{}, err
		}
		return storage.Config{Driver: "sqlite", Path: path, BusyTimeout: busy}, nil
	case "memory", "none":
		return storage.Config{Driver: "memory"}, nil
	default:
		return storage.Config{}, fmt.Errorf("unknown storage.driver: %s", sc.Driver)
	}
}

func mapNotifierConfig(cfg *config.Config) (notifier.Config, error) {
	nc := cfg.EffectiveNotifier()
	out := notifier.Config{
		Enabled:         nc.Enabled,
		Workers:         nc.Workers,
		QueueSize:       nc.QueueSize,
		RatePerSec:      nc.RatePerSec,
		RetryMax:        nc.RetryMax,
		DedupMaxEntries: nc.DedupMaxEntries,
	}
	var err error
	if out.RetryBase, err = config.ParseDurationField("notifier.retry_base", nc.RetryBase); err != nil {
		return notifier.Config{}, err
	}
	if out.RetryMaxDelay, err = config.ParseDurationField("notifier.retry_max_delay", nc.RetryMaxDelay); err != nil {
		return notifier.Config{}, err
	}
	if out.SendTimeout, err = config.ParseDurationField("notifier.send_timeout", nc.SendTimeout); err != nil {
		return notifier.Config{}, err
	}
	if out.DedupWindow, err = config.ParseDurationField("notifier.dedup_window", nc.DedupWindow); err != nil {
		return notifier.Config{}, err
	}
	return out, nil
}

func mapDesktopConfig(cfg *config.Config) (desktop.Config, error) {
	expire, err := config.ParseDurationField("desktop.expire", cfg.Desktop.Expire)
	if err != nil {
		return desktop.Config{}, err
	}
	return desktop.Config{AppName: cfg.Desktop.AppName, Icon: cfg.Desktop.Icon, Expire: expire}, nil
}

func mapTelegramConfig(cfg *config.Config) (telegram.Config, error) {
	t := cfg.Telegram
	poll, err := config.ParseDurationOrDefault("telegram.poll_timeout", t.PollTimeout, 10*time.Second)
	if err != nil {
		return telegram.Config{}, err
	}
	return telegram.Config{
		Token:        strings.TrimSpace(t.Token),
		OwnerUserIDs: append([]int64(nil), t.OwnerUserIDs...),
		ChatID:       t.ChatID,
		ThreadID:     t.ThreadID,
		PollTimeout:  poll,
	}, nil
}

func mapLaunchConfig(cfg *config.Config) launch.Config {
	l := cfg.Launch
	return launch.Config{
		UnitName: l.UnitName,
		UnitDir:  l.UnitDir,
		Exec:     l.Exec,
		Args:     append([]string(nil), l.Args...),
	}
}
