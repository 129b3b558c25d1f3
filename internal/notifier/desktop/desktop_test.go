package desktop

import "testing"

func TestNewDefaults(t *testing.T) {
	t.Parallel()
	s := New(Config{})
	if s.cfg.AppName != "Sentinel" {
		t.Fatalf("AppName = %q", s.cfg.AppName)
	}
	if s.Name() != "desktop" {
		t.Fatalf("Name = %q", s.Name())
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close without connection: %v", err)
	}
}
