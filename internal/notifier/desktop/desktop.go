// Package desktop delivers notifications through the freedesktop.org
// notification service on the session bus.
package desktop

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"

	"sentinel/internal/notifier"
)

const (
	busName    = "org.freedesktop.Notifications"
	objectPath = dbus.ObjectPath("/org/freedesktop/Notifications")
	iface      = "org.freedesktop.Notifications"
)

type Config struct {
	AppName string
	Icon    string
	// Expire is the display timeout; zero lets the server decide.
	Expire time.Duration
}

// Sink is a notifier.Sink backed by org.freedesktop.Notifications.
// The bus connection is opened lazily and reopened after a failure.
type Sink struct {
	cfg Config

	mu   sync.Mutex
	conn *dbus.Conn
}

var _ notifier.Sink = (*Sink)(nil)
var _ notifier.Authorizer = (*Sink)(nil)

func New(cfg Config) *Sink {
	if cfg.AppName == "" {
		cfg.AppName = "Sentinel"
	}
	return &Sink{cfg: cfg}
}

func (s *Sink) Name() string { return "desktop" }

func (s *Sink) object(ctx context.Context) (dbus.BusObject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil || !s.conn.Connected() {
		conn, err := dbus.ConnectSessionBus(dbus.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("connect session bus: %w", err)
		}
		s.conn = conn
	}
	return s.conn.Object(busName, objectPath), nil
}

func (s *Sink) reset() {
	s.mu.Lock()
	if s.conn != nil {
		_ = s.conn.Close()
		s.conn = nil
	}
	s.mu.Unlock()
}

// Authorize reports whether a notification server is running. There is no
// consent prompt on this bus, so a reachable server means delivery works.
func (s *Sink) Authorize(ctx context.Context) (bool, error) {
	obj, err := s.object(ctx)
	if err != nil {
		return false, err
	}
	var caps []string
	if err := obj.CallWithContext(ctx, iface+".GetCapabilities", 0).Store(&caps); err != nil {
		s.reset()
		return false, nil
	}
	return true, nil
}

func (s *Sink) Deliver(ctx context.Context, n notifier.Notification) error {
	obj, err := s.object(ctx)
	if err != nil {
		return err
	}
	expire := int32(-1)
	if s.cfg.Expire > 0 {
		expire = int32(s.cfg.Expire / time.Millisecond)
	}
	hints := map[string]dbus.Variant{
		"category":      dbus.MakeVariant("reminder"),
		"desktop-entry": dbus.MakeVariant("sentinel"),
	}
	var id uint32
	call := obj.CallWithContext(ctx, iface+".Notify", 0,
		s.cfg.AppName, uint32(0), s.cfg.Icon, n.Title, n.Body, []string{}, hints, expire)
	if err := call.Store(&id); err != nil {
		s.reset()
		return fmt.Errorf("notify: %w", err)
	}
	return nil
}

// Close releases the bus connection.
func (s *Sink) Close() error {
	s.reset()
	return nil
}
