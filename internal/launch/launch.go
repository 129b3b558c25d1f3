// Package launch registers sentinel to start with the user session.
//
// On Linux this is a systemd user unit managed over D-Bus. Other platforms
// get a launcher that reports StatusUnsupported.
package launch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

var ErrUnsupported = errors.New("launch: unsupported platform")

type Status int

const (
	StatusUnknown Status = iota
	StatusNotRegistered
	StatusEnabled
	// StatusDisabled means the unit file exists but is not enabled.
	StatusDisabled
	StatusUnsupported
)

func (s Status) String() string {
	switch s {
	case StatusNotRegistered:
		return "not_registered"
	case StatusEnabled:
		return "enabled"
	case StatusDisabled:
		return "disabled"
	case StatusUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// Launcher registers the application to launch at login.
type Launcher interface {
	Register(ctx context.Context) error
	Unregister(ctx context.Context) error
	Status(ctx context.Context) (Status, error)
}

// Config describes the user unit.
type Config struct {
	UnitName string   `json:"unit_name"`
	UnitDir  string   `json:"unit_dir"`
	Exec     string   `json:"exec"`
	Args     []string `json:"args"`
}

const DefaultUnitName = "sentinel.service"

// Normalize fills empty fields: the unit name, the per-user unit directory
// and the current executable.
func (c Config) Normalize() (Config, error) {
	c.UnitName = strings.TrimSpace(c.UnitName)
	if c.UnitName == "" {
		c.UnitName = DefaultUnitName
	}
	if !strings.HasSuffix(c.UnitName, ".service") {
		c.UnitName += ".service"
	}
	if strings.TrimSpace(c.UnitDir) == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return c, fmt.Errorf("resolve unit dir: %w", err)
		}
		c.UnitDir = filepath.Join(base, "systemd", "user")
	}
	if strings.TrimSpace(c.Exec) == "" {
		exe, err := os.Executable()
		if err != nil {
			return c, fmt.Errorf("resolve executable: %w", err)
		}
		c.Exec = exe
	}
	if len(c.Args) == 0 {
		c.Args = []string{"run"}
	}
	return c, nil
}

func (c Config) UnitPath() string {
	return filepath.Join(c.UnitDir, c.UnitName)
}

var unitTmpl = template.Must(template.New("unit").Parse(`[Unit]
Description=Sentinel micro-break reminders
After=graphical-session.target
PartOf=graphical-session.target

[Service]
Type=simple
ExecStart={{.ExecStart}}
Restart=on-failure
RestartSec=5

[Install]
WantedBy=default.target
`))

// RenderUnit returns the unit file text for c.
func RenderUnit(c Config) ([]byte, error) {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, quoteArg(c.Exec))
	for _, a := range c.Args {
		parts = append(parts, quoteArg(a))
	}
	var buf bytes.Buffer
	if err := unitTmpl.Execute(&buf, struct{ ExecStart string }{strings.Join(parts, " ")}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func quoteArg(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\"\\'") {
		return s
	}
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

// Noop is used when launch-at-login management is switched off in config.
type Noop struct{}

func (Noop) Register(context.Context) error   { return ErrUnsupported }
func (Noop) Unregister(context.Context) error { return ErrUnsupported }
func (Noop) Status(context.Context) (Status, error) {
	return StatusUnsupported, nil
}
