package config

// Config is the daemon configuration. Durations are Go duration strings
// ("500ms", "10s", "1m").
type Config struct {
	Logging      LoggingConfig      `json:"logging"`
	Storage      StorageConfig      `json:"storage"`
	Notifier     *NotifierConfig    `json:"notifier,omitempty"`
	Desktop      DesktopConfig      `json:"desktop"`
	Telegram     TelegramConfig     `json:"telegram"`
	Launch       LaunchConfig       `json:"launch"`
	Localization LocalizationConfig `json:"localization"`
}

type LoggingConfig struct {
	Level   string      `json:"level"`
	Console bool        `json:"console"`
	File    LoggingFile `json:"file"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// StorageConfig selects where reminders and settings are kept.
//
// Example:
//
//	storage: { driver: sqlite, path: ~/.local/share/sentinel/sentinel.db }
type StorageConfig struct {
	Driver      string `json:"driver"`
	Path        string `json:"path"`
	BusyTimeout string `json:"busy_timeout,omitempty"` // sqlite only
}

// NotifierConfig controls the async delivery pipeline. When the section is
// omitted the notifier runs with defaults.
type NotifierConfig struct {
	Enabled         bool   `json:"enabled"`
	Workers         int    `json:"workers"`
	QueueSize       int    `json:"queue_size"`
	RatePerSec      int    `json:"rate_per_sec"`
	RetryMax        int    `json:"retry_max"`
	RetryBase       string `json:"retry_base"`
	RetryMaxDelay   string `json:"retry_max_delay"`
	SendTimeout     string `json:"send_timeout,omitempty"`
	DedupWindow     string `json:"dedup_window"`
	DedupMaxEntries int    `json:"dedup_max_entries"`
}

// DesktopConfig controls the freedesktop notification sink.
type DesktopConfig struct {
	Enabled bool   `json:"enabled"`
	AppName string `json:"app_name,omitempty"`
	Icon    string `json:"icon,omitempty"`
	Expire  string `json:"expire,omitempty"`
}

// TelegramConfig enables the Telegram bot: reminders are also sent to
// ChatID and owners can manage reminders with commands.
type TelegramConfig struct {
	Enabled      bool    `json:"enabled"`
	Token        string  `json:"token"`
	OwnerUserIDs []int64 `json:"owner_user_ids"`
	ChatID       int64   `json:"chat_id"`
	ThreadID     int     `json:"thread_id,omitempty"`
	PollTimeout  string  `json:"poll_timeout"`
}

// LaunchConfig controls launch-at-login management through a systemd user
// unit. When disabled the launch-at-login setting is stored but not applied.
type LaunchConfig struct {
	Enabled  bool     `json:"enabled"`
	UnitName string   `json:"unit_name,omitempty"`
	UnitDir  string   `json:"unit_dir,omitempty"`
	Exec     string   `json:"exec,omitempty"`
	Args     []string `json:"args,omitempty"`
}

type LocalizationConfig struct {
	// Dir may hold <lang>.json files that replace the built-in tables.
	Dir string `json:"dir,omitempty"`
}

// Default is used when no config file exists.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info", Console: true},
		Storage: StorageConfig{Driver: "file"},
		Desktop: DesktopConfig{Enabled: true},
		Launch:  LaunchConfig{Enabled: true},
	}
}
