package i18n

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"sentinel/pkg/logx"
)

//go:embed locales/*.json
var localesFS embed.FS

// LocalizedReminder is the text of one built-in reminder in one language.
type LocalizedReminder struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Data is the content of one locale file.
type Data struct {
	Reminders map[string]LocalizedReminder `json:"reminders"`
	UI        map[string]string            `json:"ui"`
}

// Catalog serves UI strings and built-in reminder text for the active
// language. It is safe for concurrent use.
type Catalog struct {
	mu   sync.RWMutex
	lang Language
	data map[Language]*Data
}

// New loads the embedded locales. When dir is non-empty, any <lang>.json in
// it replaces the embedded table for that language.
func New(lang Language, dir string, log logx.Logger) (*Catalog, error) {
	if log.IsZero() {
		log = logx.Nop()
	}
	if !lang.Valid() {
		lang = English
	}
	c := &Catalog{lang: lang, data: make(map[Language]*Data, len(supported))}
	for _, l := range supported {
		b, err := localesFS.ReadFile("locales/" + string(l) + ".json")
		if err != nil {
			return nil, fmt.Errorf("embedded locale %s: %w", l, err)
		}
		d, err := decode(b)
		if err != nil {
			return nil, fmt.Errorf("embedded locale %s: %w", l, err)
		}
		c.data[l] = d
	}

	dir = strings.TrimSpace(dir)
	if dir == "" {
		return c, nil
	}
	for _, l := range supported {
		p := filepath.Join(dir, string(l)+".json")
		b, err := os.ReadFile(p)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read locale override: %w", err)
		}
		d, err := decode(b)
		if err != nil {
			return nil, fmt.Errorf("locale override %s: %w", p, err)
		}
		c.data[l] = d
		log.Info("locale override loaded", logx.String("lang", string(l)), logx.String("path", p))
	}
	return c, nil
}

func decode(b []byte) (*Data, error) {
	var d Data
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, err
	}
	if d.Reminders == nil {
		d.Reminders = map[string]LocalizedReminder{}
	}
	if d.UI == nil {
		d.UI = map[string]string{}
	}
	return &d, nil
}

func (c *Catalog) Language() Language {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lang
}

// SetLanguage switches the active language. Unsupported values are ignored
// and reported with false.
func (c *Catalog) SetLanguage(lang Language) bool {
	if !lang.Valid() {
		return false
	}
	c.mu.Lock()
	c.lang = lang
	c.mu.Unlock()
	return true
}

// UI returns the UI string for key in the active language, or key itself.
func (c *Catalog) UI(key string) string {
	c.mu.RLock()
	d := c.data[c.lang]
	c.mu.RUnlock()
	if d != nil {
		if s, ok := d.UI[key]; ok {
			return s
		}
	}
	return key
}

// Reminder resolves a built-in reminder key in the active language.
func (c *Catalog) Reminder(key string) (LocalizedReminder, bool) {
	return c.ReminderIn(c.Language(), key)
}

func (c *Catalog) ReminderIn(lang Language, key string) (LocalizedReminder, bool) {
	c.mu.RLock()
	d := c.data[lang]
	c.mu.RUnlock()
	if d == nil {
		return LocalizedReminder{}, false
	}
	r, ok := d.Reminders[key]
	return r, ok
}

// CheckParity reports every key that is present in some language but
// missing from another.
func (c *Catalog) CheckParity() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	reminderKeys := map[string]struct{}{}
	uiKeys := map[string]struct{}{}
	for _, d := range c.data {
		for k := range d.Reminders {
			reminderKeys[k] = struct{}{}
		}
		for k := range d.UI {
			uiKeys[k] = struct{}{}
		}
	}

	var missing []string
	for _, l := range supported {
		d := c.data[l]
		for k := range reminderKeys {
			if _, ok := d.Reminders[k]; !ok {
				missing = append(missing, string(l)+": reminders."+k)
			}
		}
		for k := range uiKeys {
			if _, ok := d.UI[k]; !ok {
				missing = append(missing, string(l)+": ui."+k)
			}
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("locale keys missing: %s", strings.Join(missing, ", "))
}

// Keys returns the sorted reminder and UI keys of lang.
func (c *Catalog) Keys(lang Language) (reminders, ui []string) {
	c.mu.RLock()
	d := c.data[lang]
	c.mu.RUnlock()
	if d == nil {
		return nil, nil
	}
	for k := range d.Reminders {
		reminders = append(reminders, k)
	}
	for k := range d.UI {
		ui = append(ui, k)
	}
	sort.Strings(reminders)
	sort.Strings(ui)
	return reminders, ui
}
