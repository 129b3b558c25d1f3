// Package settings persists the application preferences and keeps the
// launch-at-login registration in step with them.
package settings

import (
	"context"
	"sync"

	"sentinel/internal/i18n"
	"sentinel/internal/launch"
	"sentinel/internal/storage"
	"sentinel/pkg/logx"
)

// AppSettings is the persisted preference record.
type AppSettings struct {
	Language        i18n.Language `json:"language"`
	LaunchAtLogin   bool          `json:"launchAtLogin"`
	StartMinimized  bool          `json:"startMinimized"`
	IsMasterEnabled bool          `json:"isMasterEnabled"`
}

func Defaults() AppSettings {
	return AppSettings{
		Language:        i18n.English,
		LaunchAtLogin:   true,
		StartMinimized:  true,
		IsMasterEnabled: true,
	}
}

// Manager owns AppSettings. Every setter persists immediately; write
// failures are logged and the in-memory value is kept.
type Manager struct {
	log      logx.Logger
	st       storage.Store
	launcher launch.Launcher

	mu sync.Mutex
	s  AppSettings
}

// Load reads the settings record. A missing or unreadable record yields
// Defaults, and a partial one is filled in from them.
func Load(ctx context.Context, st storage.Store, launcher launch.Launcher, log logx.Logger) *Manager {
	if log.IsZero() {
		log = logx.Nop()
	}
	if launcher == nil {
		launcher = launch.Noop{}
	}
	m := &Manager{log: log, st: st, launcher: launcher, s: Defaults()}

	// Keys absent from the record keep their default.
	s := Defaults()
	found, err := storage.LoadJSON(ctx, st, storage.KeySettings, &s)
	switch {
	case err != nil:
		log.Warn("settings record unreadable; using defaults", logx.Err(err))
	case found:
		if !s.Language.Valid() {
			if l, ok := i18n.ParseLanguage(string(s.Language)); ok {
				s.Language = l
			} else {
				log.Warn("unknown language in settings; using en", logx.String("lang", string(s.Language)))
				s.Language = i18n.English
			}
		}
		m.s = s
	}
	return m
}

func (m *Manager) Get() AppSettings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.s
}

// SetLaunchAtLogin updates the setting and the OS registration. Turning it
// off also clears StartMinimized. A registration failure is logged and the
// setting is kept.
func (m *Manager) SetLaunchAtLogin(ctx context.Context, on bool) {
	m.mu.Lock()
	m.s.LaunchAtLogin = on
	if !on {
		m.s.StartMinimized = false
	}
	m.saveLocked(ctx)
	m.mu.Unlock()

	m.updateRegistration(ctx, on)
}

func (m *Manager) SetStartMinimized(ctx context.Context, on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s.StartMinimized = on
	m.saveLocked(ctx)
}

func (m *Manager) SetLanguage(ctx context.Context, lang i18n.Language) {
	if !lang.Valid() {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s.Language = lang
	m.saveLocked(ctx)
}

func (m *Manager) SetMasterEnabled(ctx context.Context, on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s.IsMasterEnabled = on
	m.saveLocked(ctx)
}

// SyncLaunchAtLogin reconciles the setting with the OS at startup: an
// enabled registration turns the setting on, and a missing registration is
// created when the setting asks for one.
func (m *Manager) SyncLaunchAtLogin(ctx context.Context) {
	status, err := m.launcher.Status(ctx)
	if err != nil {
		m.log.Warn("launch-at-login status unavailable", logx.Err(err))
		return
	}
	m.log.Debug("launch-at-login status", logx.String("status", status.String()))

	m.mu.Lock()
	want := m.s.LaunchAtLogin
	switch {
	case status == launch.StatusEnabled && !want:
		m.s.LaunchAtLogin = true
		m.saveLocked(ctx)
		m.mu.Unlock()
	case status == launch.StatusNotRegistered && want:
		m.mu.Unlock()
		m.updateRegistration(ctx, true)
	default:
		m.mu.Unlock()
	}
}

func (m *Manager) updateRegistration(ctx context.Context, on bool) {
	var err error
	if on {
		err = m.launcher.Register(ctx)
	} else {
		err = m.launcher.Unregister(ctx)
	}
	if err != nil {
		m.log.Warn("launch-at-login update failed", logx.Bool("enabled", on), logx.Err(err))
	}
}

func (m *Manager) saveLocked(ctx context.Context) {
	if err := storage.SaveJSON(ctx, m.st, storage.KeySettings, m.s); err != nil {
		m.log.Error("persist settings failed", logx.Err(err))
	}
}
