package config

import (
	"reflect"
	"sort"
	"strings"

	"sentinel/pkg/logx"
)

// defaultNotifier mirrors the runtime defaults so an omitted section and an
// explicit default section compare equal.
var defaultNotifier = NotifierConfig{
	Enabled:         true,
	Workers:         1,
	QueueSize:       64,
	RatePerSec:      2,
	RetryMax:        3,
	RetryBase:       "500ms",
	RetryMaxDelay:   "10s",
	SendTimeout:     "10s",
	DedupWindow:     "1m",
	DedupMaxEntries: 256,
}

// EffectiveNotifier returns the notifier section with defaults applied
// when it is omitted.
func (c *Config) EffectiveNotifier() NotifierConfig {
	if c == nil || c.Notifier == nil {
		return defaultNotifier
	}
	return *c.Notifier
}

// SummarizeConfigChange returns the sorted names of changed sections and
// log fields describing the new values. Secrets are reported only as
// "set/unset".
func SummarizeConfigChange(oldCfg, newCfg *Config) ([]string, []logx.Field) {
	if oldCfg == nil {
		oldCfg = &Config{}
	}
	if newCfg == nil {
		newCfg = &Config{}
	}
	changed := make([]string, 0, 7)
	attrs := make([]logx.Field, 0, 16)

	if oldCfg.Logging != newCfg.Logging {
		changed = append(changed, "logging")
		attrs = append(attrs,
			logx.String("logging.level", newCfg.Logging.Level),
			logx.Bool("logging.console", newCfg.Logging.Console),
			logx.Bool("logging.file_enabled", newCfg.Logging.File.Enabled),
		)
	}

	if oldCfg.Storage != newCfg.Storage {
		changed = append(changed, "storage")
		attrs = append(attrs,
			logx.String("storage.driver", strings.TrimSpace(newCfg.Storage.Driver)),
			logx.Bool("storage.path_set", strings.TrimSpace(newCfg.Storage.Path) != ""),
		)
	}

	if on, nn := oldCfg.EffectiveNotifier(), newCfg.EffectiveNotifier(); on != nn {
		changed = append(changed, "notifier")
		attrs = append(attrs,
			logx.Bool("notifier.enabled", nn.Enabled),
			logx.Int("notifier.rate_per_sec", nn.RatePerSec),
			logx.Int("notifier.retry_max", nn.RetryMax),
		)
	}

	if oldCfg.Desktop != newCfg.Desktop {
		changed = append(changed, "desktop")
		attrs = append(attrs, logx.Bool("desktop.enabled", newCfg.Desktop.Enabled))
	}

	ot, nt := oldCfg.Telegram, newCfg.Telegram
	if ot.Enabled != nt.Enabled || ot.Token != nt.Token || ot.ChatID != nt.ChatID ||
		ot.ThreadID != nt.ThreadID || strings.TrimSpace(ot.PollTimeout) != strings.TrimSpace(nt.PollTimeout) ||
		!reflect.DeepEqual(ot.OwnerUserIDs, nt.OwnerUserIDs) {
		changed = append(changed, "telegram")
		attrs = append(attrs,
			logx.Bool("telegram.enabled", nt.Enabled),
			logx.Bool("telegram.token_set", strings.TrimSpace(nt.Token) != ""),
			logx.Int("telegram.owner_count", len(nt.OwnerUserIDs)),
			logx.Bool("telegram.chat_set", nt.ChatID != 0),
		)
	}

	if !reflect.DeepEqual(oldCfg.Launch, newCfg.Launch) {
		changed = append(changed, "launch")
		attrs = append(attrs, logx.Bool("launch.enabled", newCfg.Launch.Enabled))
	}

	if oldCfg.Localization != newCfg.Localization {
		changed = append(changed, "localization")
		attrs = append(attrs, logx.Bool("localization.dir_set", strings.TrimSpace(newCfg.Localization.Dir) != ""))
	}

	sort.Strings(changed)
	return changed, attrs
}

// RequiresRestart reports which of the changed sections cannot be applied
// to a running daemon.
func RequiresRestart(changed []string) []string {
	var out []string
	for _, s := range changed {
		switch s {
		case "storage", "telegram", "launch", "localization":
			out = append(out, s)
		}
	}
	return out
}
