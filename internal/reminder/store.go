package reminder

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"sentinel/internal/eventbus"
	"sentinel/internal/i18n"
	"sentinel/internal/notifier"
	"sentinel/internal/settings"
	"sentinel/internal/storage"
	"sentinel/pkg/logx"
)

// Localizer resolves UI strings and built-in reminder text.
type Localizer interface {
	UI(key string) string
	Reminder(key string) (i18n.LocalizedReminder, bool)
	SetLanguage(lang i18n.Language) bool
	Language() i18n.Language
}

// Settings is the part of settings.Manager the store drives.
type Settings interface {
	Get() settings.AppSettings
	SetMasterEnabled(ctx context.Context, on bool)
	SetLanguage(ctx context.Context, lang i18n.Language)
}

type Notifier interface {
	Notify(ctx context.Context, n notifier.Notification) error
}

type Deps struct {
	Storage   storage.Store
	Localizer Localizer
	Settings  Settings
	Notifier  Notifier
	Bus       eventbus.Bus
	Clock     Clock
	Log       logx.Logger
}

// Event is the Data of reminder.* bus events.
type Event struct {
	ID              string `json:"id,omitempty"`
	Title           string `json:"title,omitempty"`
	IntervalMinutes int    `json:"intervalMinutes,omitempty"`
	Enabled         bool   `json:"enabled"`
	Language        string `json:"language,omitempty"`
}

// Store owns the ordered reminder list and the master switch.
type Store struct {
	log      logx.Logger
	st       storage.Store
	loc      Localizer
	settings Settings
	notif    Notifier
	bus      eventbus.Bus
	clock    Clock

	mu        sync.Mutex
	reminders []Reminder
	master    bool
	engine    *Engine
	runCtx    context.Context
	cancelRun context.CancelFunc
}

// NewStore loads the persisted reminders, seeding and persisting the
// built-in set when the record is missing or unreadable. Timers are not
// armed until Start.
func NewStore(ctx context.Context, d Deps) *Store {
	if d.Log.IsZero() {
		d.Log = logx.Nop()
	}
	if d.Bus == nil {
		d.Bus = eventbus.Nop{}
	}
	if d.Clock == nil {
		d.Clock = SystemClock()
	}
	s := &Store{
		log:      d.Log,
		st:       d.Storage,
		loc:      d.Localizer,
		settings: d.Settings,
		notif:    d.Notifier,
		bus:      d.Bus,
		clock:    d.Clock,
		master:   d.Settings.Get().IsMasterEnabled,
		runCtx:   context.Background(),
	}
	s.engine = newEngine(d.Clock, s.handleFire)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked(ctx)
	return s
}

func (s *Store) loadLocked(ctx context.Context) {
	var raw []json.RawMessage
	found, err := storage.LoadJSON(ctx, s.st, storage.KeyReminders, &raw)
	var saved []Reminder
	if err == nil && found {
		saved = make([]Reminder, 0, len(raw))
		for _, m := range raw {
			r, derr := decodeStored(m)
			if derr != nil {
				err = derr
				break
			}
			saved = append(saved, r)
		}
	}
	if err != nil {
		s.log.Warn("reminder record unreadable; seeding defaults", logx.Err(err))
		found = false
	}
	if !found {
		s.reminders = seedDefaults(s.loc)
		s.log.Info("seeded default reminders", logx.Int("count", len(s.reminders)), logx.String("lang", string(s.loc.Language())))
		s.saveLocked(ctx)
		return
	}

	seen := make(map[string]struct{}, len(saved))
	out := make([]Reminder, 0, len(saved))
	for _, r := range saved {
		if r.ID == "" {
			s.log.Warn("dropping reminder without id", logx.String("title", r.Title))
			continue
		}
		if _, dup := seen[r.ID]; dup {
			s.log.Warn("dropping duplicate reminder id", logx.String("id", r.ID))
			continue
		}
		seen[r.ID] = struct{}{}
		if r.Type != TypeDefault && r.Type != TypeCustom {
			r.Type = TypeCustom
		}
		r.IntervalMinutes = ClampEditable(r.IntervalMinutes)
		out = append(out, r)
	}
	s.reminders = out
	s.log.Debug("reminders loaded", logx.Int("count", len(out)))
}

// Start arms a timer for every enabled reminder when the master switch is
// on. Timer callbacks deliver under ctx.
func (s *Store) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelRun != nil {
		return
	}
	s.runCtx, s.cancelRun = context.WithCancel(ctx)
	if s.master {
		s.startAllLocked()
	}
	s.log.Info("reminders started", logx.Bool("master", s.master), logx.Int("timers", s.engine.len()))
}

// Stop cancels every timer. Persisted state is untouched.
func (s *Store) Stop(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.stopAll()
	if s.cancelRun != nil {
		s.cancelRun()
		s.cancelRun = nil
	}
}

// AddReminder inserts a new disabled custom reminder at the front.
func (s *Store) AddReminder(ctx context.Context) Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := NewCustom(s.loc.UI("new_reminder"), "", DefaultInterval)
	s.reminders = append([]Reminder{r}, s.reminders...)
	s.saveLocked(ctx)
	s.publish(eventbus.ReminderAdded, eventOf(r))
	return r
}

// DeleteReminder stops the reminder's timer and removes it. Unknown ids are
// ignored.
func (s *Store) DeleteReminder(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return
	}
	r := s.reminders[i]
	s.engine.stop(id)
	s.reminders = append(s.reminders[:i], s.reminders[i+1:]...)
	s.saveLocked(ctx)
	s.publish(eventbus.ReminderDeleted, eventOf(r))
}

// UpdateReminder replaces the stored reminder with the same ID. The
// interval is clamped to the editable range; editing the text of a default
// reminder marks it modified; an interval change on a running reminder
// restarts its timer.
func (s *Store) UpdateReminder(ctx context.Context, updated Reminder) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(updated.ID)
	if i < 0 {
		return
	}
	old := s.reminders[i]
	next := updated
	// Enabled state and type only change through ToggleReminder and the
	// constructors.
	next.IsEnabled = old.IsEnabled
	next.Type = old.Type
	next.IntervalMinutes = ClampEditable(next.IntervalMinutes)
	if next.Type == TypeDefault && (old.Title != updated.Title || old.Description != updated.Description) {
		next.IsModified = true
	}
	if old.IsModified {
		next.IsModified = true
	}
	if next.Type == TypeDefault && next.LocalizationKey == "" {
		next.LocalizationKey = old.LocalizationKey
	}
	s.reminders[i] = next

	if old.IntervalMinutes != next.IntervalMinutes && next.IsEnabled && s.master {
		s.engine.start(next.ID, next.IntervalMinutes)
	}
	s.saveLocked(ctx)
	s.publish(eventbus.ReminderUpdated, eventOf(next))
}

// ToggleReminder flips IsEnabled and starts or stops the timer to match.
func (s *Store) ToggleReminder(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return
	}
	s.reminders[i].IsEnabled = !s.reminders[i].IsEnabled
	r := s.reminders[i]
	if r.IsEnabled && s.master {
		s.engine.start(r.ID, r.IntervalMinutes)
	} else {
		s.engine.stop(r.ID)
	}
	s.saveLocked(ctx)
	s.publish(eventbus.ReminderToggled, eventOf(r))
}

// SetMasterEnabled switches every timer on or off. Turning it on starts a
// fresh period for each enabled reminder; turning it off discards all fire
// state. The flag is persisted in the settings record.
func (s *Store) SetMasterEnabled(ctx context.Context, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if on != s.master {
		s.master = on
		if on {
			s.startAllLocked()
		} else {
			s.engine.stopAll()
		}
		s.publish(eventbus.MasterChanged, Event{Enabled: on})
	}
	s.settings.SetMasterEnabled(ctx, on)
}

// ChangeLanguage switches the active language and re-localizes every
// default reminder the user has not edited.
func (s *Store) ChangeLanguage(ctx context.Context, lang i18n.Language) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loc.SetLanguage(lang) {
		s.log.Warn("unsupported language", logx.String("lang", string(lang)))
		return
	}
	changed := 0
	for i := range s.reminders {
		r := &s.reminders[i]
		if r.Type != TypeDefault || r.IsModified || r.LocalizationKey == "" {
			continue
		}
		l, ok := s.loc.Reminder(r.LocalizationKey)
		if !ok {
			continue
		}
		r.Title, r.Description = l.Title, l.Description
		changed++
	}
	s.saveLocked(ctx)
	s.settings.SetLanguage(ctx, lang)
	s.log.Info("language changed", logx.String("lang", string(lang)), logx.Int("relocalized", changed))
	s.publish(eventbus.LanguageChanged, Event{Language: string(lang)})
}

// Reminders returns a copy of the list in display order.
func (s *Store) Reminders() []Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Reminder(nil), s.reminders...)
}

func (s *Store) Reminder(id string) (Reminder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.reminders[i], true
	}
	return Reminder{}, false
}

func (s *Store) MasterEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.master
}

// Upcoming returns the reminders about to fire together with the soonest
// one.
func (s *Store) Upcoming() []Upcoming {
	s.mu.Lock()
	defer s.mu.Unlock()
	return upcoming(s.reminders, s.engine, s.master, s.clock.Now())
}

// NextFireAt reports when id fires next, if its timer is running.
func (s *Store) NextFireAt(id string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.nextFireAt(id)
}

func (s *Store) ActiveTimerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.len()
}

func (s *Store) HasTimer(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.engine.nextFireAt(id)
	return ok
}

// handleFire runs on the timer's goroutine.
func (s *Store) handleFire(ent *timerEntry) {
	s.mu.Lock()
	if !s.engine.owns(ent) {
		s.mu.Unlock()
		return
	}
	i := s.indexLocked(ent.id)
	if i < 0 {
		s.engine.stop(ent.id)
		s.mu.Unlock()
		return
	}
	r := s.reminders[i]
	now := s.clock.Now()
	n := notifier.Notification{
		ID:    notificationID(r.ID, now),
		Title: r.Title,
		Body:  r.Description,
	}
	s.engine.rearm(ent, r.IntervalMinutes)
	ctx := s.runCtx
	s.mu.Unlock()

	s.log.Debug("reminder fired", logx.String("id", r.ID), logx.String("title", r.Title))
	s.publish(eventbus.ReminderFired, eventOf(r))
	if s.notif == nil {
		return
	}
	if err := s.notif.Notify(ctx, n); err != nil {
		s.log.Debug("notification not queued", logx.String("id", n.ID), logx.Err(err))
	}
}

func notificationID(id string, at time.Time) string {
	return id + "-" + strconv.FormatInt(at.Unix(), 10)
}

func (s *Store) startAllLocked() {
	for _, r := range s.reminders {
		if r.IsEnabled {
			s.engine.start(r.ID, r.IntervalMinutes)
		}
	}
}

func (s *Store) indexLocked(id string) int {
	for i := range s.reminders {
		if s.reminders[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) saveLocked(ctx context.Context) {
	if err := storage.SaveJSON(ctx, s.st, storage.KeyReminders, s.reminders); err != nil {
		s.log.Error("persist reminders failed", logx.Err(err))
	}
}

func (s *Store) publish(typ string, ev Event) {
	s.bus.Publish(eventbus.Event{Type: typ, Time: s.clock.Now(), Data: ev})
}

func eventOf(r Reminder) Event {
	return Event{ID: r.ID, Title: r.Title, IntervalMinutes: r.IntervalMinutes, Enabled: r.IsEnabled}
}
