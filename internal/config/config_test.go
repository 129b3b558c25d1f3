package config

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestParseFormats(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		file string
		body string
		want func(*Config) bool
	}{
		{
			name: "yaml",
			file: "config.yaml",
			body: "logging:\n  level: debug\nstorage:\n  driver: sqlite\n  path: /tmp/s.db\n",
			want: func(c *Config) bool { return c.Logging.Level == "debug" && c.Storage.Driver == "sqlite" },
		},
		{
			name: "json",
			file: "config.json",
			body: `{"desktop":{"enabled":false},"telegram":{"owner_user_ids":[1,2]}}`,
			want: func(c *Config) bool { return !c.Desktop.Enabled && len(c.Telegram.OwnerUserIDs) == 2 },
		},
		{
			name: "empty yaml keeps defaults",
			file: "config.yml",
			body: "",
			want: func(c *Config) bool { return c.Logging.Level == "info" && c.Desktop.Enabled && c.Launch.Enabled },
		},
		{
			name: "omitted sections keep defaults",
			file: "config.yaml",
			body: "logging:\n  level: warn\n",
			want: func(c *Config) bool { return c.Storage.Driver == "file" && c.Notifier == nil },
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), tc.file)
			writeFile(t, path, tc.body)
			cfg, err := NewConfigManager(path).Parse()
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if !tc.want(cfg) {
				t.Fatalf("unexpected config: %+v", cfg)
			}
		})
	}
}

func TestParseRejects(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		file string
		body string
	}{
		{"unknown yaml key", "c.yaml", "logging:\n  colour: true\n"},
		{"unknown json key", "c.json", `{"scheduler":{}}`},
		{"trailing data", "c.json", `{} {}`},
		{"bad yaml", "c.yaml", "logging: [\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), tc.file)
			writeFile(t, path, tc.body)
			if _, err := NewConfigManager(path).Parse(); err == nil {
				t.Fatalf("expected parse error")
			}
		})
	}
}

func TestLoadMissingFileUsesDefault(t *testing.T) {
	t.Parallel()

	m := NewConfigManager(filepath.Join(t.TempDir(), "absent.yaml"))
	cfg, found, err := m.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if found {
		t.Fatalf("found = true for missing file")
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Fatalf("cfg = %+v, want defaults", cfg)
	}
	if m.Get() != cfg {
		t.Fatalf("Load did not commit")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "c.yaml")
	writeFile(t, path, "storage:\n  driver: redis\n")
	_, found, err := NewConfigManager(path).Load()
	if err == nil || !strings.Contains(err.Error(), "storage.driver") {
		t.Fatalf("err = %v, want storage.driver error", err)
	}
	if !found {
		t.Fatalf("found = false for existing file")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"sqlite timeout", func(c *Config) { c.Storage = StorageConfig{Driver: "sqlite", BusyTimeout: "soon"} }, "storage.busy_timeout"},
		{"negative workers", func(c *Config) { c.Notifier = &NotifierConfig{Workers: -1} }, "notifier"},
		{"bad retry base", func(c *Config) { c.Notifier = &NotifierConfig{RetryBase: "x"} }, "notifier.retry_base"},
		{"negative expire", func(c *Config) { c.Desktop.Expire = "-1s" }, "desktop.expire"},
		{"telegram token", func(c *Config) { c.Telegram = TelegramConfig{Enabled: true, ChatID: 1} }, "telegram.token"},
		{"telegram target", func(c *Config) { c.Telegram = TelegramConfig{Enabled: true, Token: "t"} }, "owner_user_ids"},
		{"telegram ok", func(c *Config) { c.Telegram = TelegramConfig{Enabled: true, Token: "t", ChatID: 5} }, ""},
		{"telegram disabled", func(c *Config) { c.Telegram = TelegramConfig{PollTimeout: "nope"} }, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tc.mutate(cfg)
			err := Validate(cfg)
			switch {
			case tc.wantErr == "" && err != nil:
				t.Fatalf("unexpected error: %v", err)
			case tc.wantErr != "" && (err == nil || !strings.Contains(err.Error(), tc.wantErr)):
				t.Fatalf("err = %v, want %q", err, tc.wantErr)
			}
		})
	}
}

func TestParseDurationOrDefault(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw     string
		want    time.Duration
		wantErr bool
	}{
		{"", time.Second, false},
		{"0s", time.Second, false},
		{"250ms", 250 * time.Millisecond, false},
		{" 2m ", 2 * time.Minute, false},
		{"-1s", 0, true},
		{"ten", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseDurationOrDefault("x", tc.raw, time.Second)
		if (err != nil) != tc.wantErr {
			t.Fatalf("%q: err = %v", tc.raw, err)
		}
		if !tc.wantErr && got != tc.want {
			t.Fatalf("%q: got %v want %v", tc.raw, got, tc.want)
		}
	}
}

func TestSummarizeConfigChange(t *testing.T) {
	t.Parallel()

	oldCfg := Default()
	newCfg := Default()
	if changed, _ := SummarizeConfigChange(oldCfg, newCfg); len(changed) != 0 {
		t.Fatalf("identical configs changed = %v", changed)
	}

	explicit := Default()
	nc := defaultNotifier
	explicit.Notifier = &nc
	if changed, _ := SummarizeConfigChange(oldCfg, explicit); len(changed) != 0 {
		t.Fatalf("explicit default notifier reported as change: %v", changed)
	}

	newCfg.Logging.Level = "debug"
	newCfg.Telegram.Token = "secret"
	newCfg.Launch.Args = []string{"run"}
	changed, attrs := SummarizeConfigChange(oldCfg, newCfg)
	want := []string{"launch", "logging", "telegram"}
	if !reflect.DeepEqual(changed, want) {
		t.Fatalf("changed = %v, want %v", changed, want)
	}
	if len(attrs) == 0 {
		t.Fatalf("expected attrs")
	}
	if got := RequiresRestart(changed); !reflect.DeepEqual(got, []string{"launch", "telegram"}) {
		t.Fatalf("RequiresRestart = %v", got)
	}
}

func TestWatchPublishesChanges(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "logging:\n  level: info\n")

	m := NewConfigManager(path)
	m.debounce = 20 * time.Millisecond
	if _, _, err := m.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	ch := m.Subscribe(1)
	defer m.Unsubscribe(ch)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = m.Watch(ctx)
	}()
	defer func() {
		cancel()
		<-done
	}()

	// The watcher starts asynchronously; keep rewriting until it notices.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case cfg := <-ch:
			if cfg.Logging.Level != "debug" {
				t.Fatalf("level = %q", cfg.Logging.Level)
			}
			if m.Get().Logging.Level != "debug" {
				t.Fatalf("published config not committed")
			}
			return
		case <-tick.C:
			writeFile(t, path, "logging:\n  level: debug\n")
		case <-deadline:
			t.Fatalf("no config published")
		}
	}
}

func TestWatchSkipsInvalid(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "logging:\n  level: info\n")
	m := NewConfigManager(path)
	if _, _, err := m.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	ch := m.Subscribe(1)

	writeFile(t, path, "logging:\n  level: shouting\n")
	m.reload(context.Background())
	select {
	case cfg := <-ch:
		t.Fatalf("invalid config published: %+v", cfg)
	default:
	}
	if m.Get().Logging.Level != "info" {
		t.Fatalf("invalid config committed")
	}

	writeFile(t, path, "logging:\n  level: info\n")
	m.reload(context.Background())
	select {
	case <-ch:
		t.Fatalf("unchanged config republished")
	default:
	}
}
