//go:build linux

package launch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/coreos/go-systemd/v22/dbus"
)

// Systemd manages a systemd user unit through the session bus.
type Systemd struct {
	cfg Config
}

func New(cfg Config) (Launcher, error) {
	c, err := cfg.Normalize()
	if err != nil {
		return nil, err
	}
	return &Systemd{cfg: c}, nil
}

func (s *Systemd) connect(ctx context.Context) (*dbus.Conn, error) {
	conn, err := dbus.NewUserConnectionContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("connect to systemd user manager: %w", err)
	}
	return conn, nil
}

func (s *Systemd) Register(ctx context.Context) error {
	body, err := RenderUnit(s.cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.cfg.UnitDir, 0o755); err != nil {
		return fmt.Errorf("create unit dir: %w", err)
	}
	if err := os.WriteFile(s.cfg.UnitPath(), body, 0o644); err != nil {
		return fmt.Errorf("write unit: %w", err)
	}

	conn, err := s.connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := conn.ReloadContext(ctx); err != nil {
		return fmt.Errorf("reload user manager: %w", err)
	}
	if _, _, err := conn.EnableUnitFilesContext(ctx, []string{s.cfg.UnitName}, false, true); err != nil {
		return fmt.Errorf("enable %s: %w", s.cfg.UnitName, err)
	}
	return nil
}

func (s *Systemd) Unregister(ctx context.Context) error {
	conn, err := s.connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.DisableUnitFilesContext(ctx, []string{s.cfg.UnitName}, false); err != nil && !isNoSuchUnit(err) {
		return fmt.Errorf("disable %s: %w", s.cfg.UnitName, err)
	}
	if err := os.Remove(s.cfg.UnitPath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove unit: %w", err)
	}
	if err := conn.ReloadContext(ctx); err != nil {
		return fmt.Errorf("reload user manager: %w", err)
	}
	return nil
}

func (s *Systemd) Status(ctx context.Context) (Status, error) {
	if _, err := os.Stat(s.cfg.UnitPath()); errors.Is(err, os.ErrNotExist) {
		return StatusNotRegistered, nil
	}

	conn, err := s.connect(ctx)
	if err != nil {
		return StatusUnknown, err
	}
	defer conn.Close()

	states, err := conn.ListUnitFilesByPatternsContext(ctx, nil, []string{s.cfg.UnitName})
	if err != nil {
		return StatusUnknown, fmt.Errorf("list unit files: %w", err)
	}
	for _, st := range states {
		if st.Path == s.cfg.UnitName || strings.HasSuffix(st.Path, "/"+s.cfg.UnitName) {
			if st.Type == "enabled" {
				return StatusEnabled, nil
			}
			return StatusDisabled, nil
		}
	}
	return StatusNotRegistered, nil
}

func isNoSuchUnit(err error) bool {
	es := err.Error()
	return strings.Contains(es, "NoSuchUnit") || strings.Contains(es, "not-found")
}
