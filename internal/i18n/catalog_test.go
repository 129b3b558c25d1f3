package i18n

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"sentinel/pkg/logx"
)

var builtinKeys = []string{
	"breathe", "check_fingers", "fix_posture", "have_water",
	"relax_arms", "relax_eyes", "stretch_legs",
}

var requiredUI = []string{
	"settings", "add_reminder", "delete", "close", "update", "language",
	"launch_at_login", "start_minimized", "minutes", "new_reminder", "done", "interval",
}

func newCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := New(English, "", logx.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestLocalesShareKeySet(t *testing.T) {
	t.Parallel()
	c := newCatalog(t)
	if err := c.CheckParity(); err != nil {
		t.Fatal(err)
	}

	enRem, enUI := c.Keys(English)
	if !reflect.DeepEqual(enRem, builtinKeys) {
		t.Fatalf("reminder keys = %v, want %v", enRem, builtinKeys)
	}
	for _, l := range Languages() {
		rem, ui := c.Keys(l)
		if !reflect.DeepEqual(rem, enRem) || !reflect.DeepEqual(ui, enUI) {
			t.Errorf("%s key set differs from en", l)
		}
		for _, k := range requiredUI {
			if _, ok := c.data[l].UI[k]; !ok {
				t.Errorf("%s missing ui key %q", l, k)
			}
		}
	}
}

func TestKnownTranslations(t *testing.T) {
	t.Parallel()
	c := newCatalog(t)
	tests := []struct {
		lang Language
		key  string
		want string
	}{
		{English, "relax_eyes", "Relax your eyes"},
		{Spanish, "relax_eyes", "Relaja tus ojos"},
		{French, "relax_eyes", "Repose tes yeux"},
		{English, "have_water", "Have some water"},
		{Spanish, "have_water", "Toma un poco de agua"},
		{French, "have_water", "Bois un peu d'eau"},
		{English, "fix_posture", "Fix your posture"},
		{Spanish, "fix_posture", "Corrige tu postura"},
		{French, "fix_posture", "Corrige ta posture"},
		{English, "breathe", "Breathe for a moment"},
		{Spanish, "breathe", "Respira unos segundos"},
		{French, "breathe", "Respire quelques secondes"},
	}
	for _, tt := range tests {
		r, ok := c.ReminderIn(tt.lang, tt.key)
		if !ok || r.Title != tt.want {
			t.Errorf("ReminderIn(%s, %s) = %q, %v; want %q", tt.lang, tt.key, r.Title, ok, tt.want)
		}
		if r.Description == "" {
			t.Errorf("ReminderIn(%s, %s) has empty description", tt.lang, tt.key)
		}
	}
}

func TestUIFallsBackToKey(t *testing.T) {
	t.Parallel()
	c := newCatalog(t)
	if got := c.UI("no_such_key"); got != "no_such_key" {
		t.Fatalf("UI fallback = %q", got)
	}
	if _, ok := c.Reminder("no_such_key"); ok {
		t.Fatal("unknown reminder key resolved")
	}
}

func TestSetLanguage(t *testing.T) {
	t.Parallel()
	c := newCatalog(t)
	if got := c.UI("settings"); got != "Settings" {
		t.Fatalf("en settings = %q", got)
	}
	if !c.SetLanguage(Spanish) {
		t.Fatal("SetLanguage(es) rejected")
	}
	if got := c.UI("settings"); got != "Ajustes" {
		t.Fatalf("es settings = %q", got)
	}
	r, _ := c.Reminder("relax_eyes")
	if r.Title != "Relaja tus ojos" {
		t.Fatalf("es relax_eyes = %q", r.Title)
	}
	if c.SetLanguage("de") {
		t.Fatal("SetLanguage(de) accepted")
	}
	if c.Language() != Spanish {
		t.Fatalf("language = %s after rejected switch", c.Language())
	}
}

func TestOverrideDir(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	body := `{"reminders":{"breathe":{"title":"Breathe!","description":"in, out"}},"ui":{"settings":"Prefs"}}`
	if err := os.WriteFile(filepath.Join(dir, "en.json"), []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	c, err := New(English, dir, logx.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if got := c.UI("settings"); got != "Prefs" {
		t.Fatalf("override ui = %q", got)
	}
	if r, _ := c.Reminder("breathe"); r.Title != "Breathe!" {
		t.Fatalf("override reminder = %q", r.Title)
	}
	if r, _ := c.ReminderIn(French, "breathe"); r.Title != "Respire quelques secondes" {
		t.Fatalf("fr should stay embedded, got %q", r.Title)
	}
	if err := c.CheckParity(); err == nil {
		t.Fatal("partial override should break parity")
	}
}

func TestParseLanguage(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want Language
		ok   bool
	}{
		{"en", English, true},
		{"es", Spanish, true},
		{"fr", French, true},
		{"es-MX", Spanish, true},
		{"fr_CA.UTF-8", French, true},
		{"en_US", English, true},
		{"", "", false},
		{"!!", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseLanguage(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseLanguage(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
