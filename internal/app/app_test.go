package app

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"sentinel/internal/config"
	"sentinel/internal/reminder"
)

const testConfig = `
logging:
  level: error
storage:
  driver: memory
desktop:
  enabled: false
launch:
  enabled: false
`

func newTestApp(t *testing.T) *App {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(testConfig), 0o600); err != nil {
		t.Fatal(err)
	}
	a, err := New(context.Background(), path, Options{Version: "test"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a
}

func TestAppLifecycle(t *testing.T) {
	t.Parallel()

	a := newTestApp(t)
	if got := len(a.Store().Reminders()); got != len(reminder.BuiltinKeys()) {
		t.Fatalf("seeded %d reminders, want %d", got, len(reminder.BuiltinKeys()))
	}
	if got := a.Notifier().Sinks(); !reflect.DeepEqual(got, []string{"log"}) {
		t.Fatalf("sinks = %v, want [log]", got)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := a.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	r := a.Store().Reminders()[0]
	a.Store().ToggleReminder(ctx, r.ID)
	if !a.Store().HasTimer(r.ID) {
		t.Fatalf("enabled reminder has no timer")
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()
	if err := a.Stop(stopCtx, StopAppStop); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if a.Store().ActiveTimerCount() != 0 {
		t.Fatalf("timers still armed after Stop")
	}
	select {
	case <-a.Done():
	default:
		t.Fatalf("Done not closed after Stop")
	}
}

func TestStartupNotification(t *testing.T) {
	t.Parallel()

	a := newTestApp(t)
	defer a.Close()

	n := a.startupNotification()
	if n.Title != "Sentinel is running." {
		t.Fatalf("title = %q", n.Title)
	}
	if !strings.HasPrefix(n.ID, "startup-") {
		t.Fatalf("id = %q", n.ID)
	}
	// Built-in reminders start disabled, so nothing is upcoming.
	if n.Body != a.Catalog().UI("sentinel_description") {
		t.Fatalf("body = %q", n.Body)
	}
}

func TestApplyConfigTogglesNotifier(t *testing.T) {
	t.Parallel()

	a := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := a.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer a.Stop(context.Background(), StopAppStop)

	oldCfg := a.Config().Get()
	next := *oldCfg
	next.Notifier = &config.NotifierConfig{Enabled: false}
	a.applyConfig(ctx, oldCfg, &next)
	if a.Notifier().Enabled() {
		t.Fatalf("notifier still enabled")
	}

	again := next
	again.Notifier = &config.NotifierConfig{Enabled: true}
	a.applyConfig(ctx, &next, &again)
	if !a.Notifier().Enabled() {
		t.Fatalf("notifier not re-enabled")
	}
}

func TestMapStorageConfig(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		in      config.StorageConfig
		driver  string
		path    string
		wantErr bool
	}{
		{"file explicit", config.StorageConfig{Driver: "file", Path: "/tmp/s"}, "file", "/tmp/s", false},
		{"sqlite explicit", config.StorageConfig{Driver: "SQLite3", Path: "/tmp/s.db"}, "sqlite", "/tmp/s.db", false},
		{"memory", config.StorageConfig{Driver: "none"}, "memory", "", false},
		{"bad timeout", config.StorageConfig{Driver: "sqlite", Path: "x", BusyTimeout: "later"}, "", "", true},
		{"unknown", config.StorageConfig{Driver: "redis"}, "", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := mapStorageConfig(&config.Config{Storage: tc.in})
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v", err)
			}
			if tc.wantErr {
				return
			}
			if got.Driver != tc.driver || got.Path != tc.path {
				t.Fatalf("got %+v", got)
			}
		})
	}

	got, err := mapStorageConfig(&config.Config{})
	if err != nil || got.Driver != "file" || got.Path == "" {
		t.Fatalf("default storage = %+v, %v", got, err)
	}
}

func TestMapNotifierConfig(t *testing.T) {
	t.Parallel()

	got, err := mapNotifierConfig(&config.Config{})
	if err != nil {
		t.Fatalf("defaults: %v", err)
	}
	if !got.Enabled || got.RetryBase != 500*time.Millisecond || got.DedupWindow != time.Minute {
		t.Fatalf("defaults = %+v", got)
	}

	_, err = mapNotifierConfig(&config.Config{Notifier: &config.NotifierConfig{SendTimeout: "fast"}})
	if err == nil {
		t.Fatalf("expected duration error")
	}
}

func TestMapTelegramAndLaunch(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		Telegram: config.TelegramConfig{Token: " t ", OwnerUserIDs: []int64{1}, ChatID: -5},
		Launch:   config.LaunchConfig{UnitName: "x", Args: []string{"run", "--config", "/etc/s.yaml"}},
	}
	tc, err := mapTelegramConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if tc.Token != "t" || tc.PollTimeout != 10*time.Second || tc.ChatID != -5 {
		t.Fatalf("telegram = %+v", tc)
	}
	lc := mapLaunchConfig(cfg)
	if lc.UnitName != "x" || len(lc.Args) != 3 {
		t.Fatalf("launch = %+v", lc)
	}
}
