package telegram

import (
	"context"
	"strings"
	"testing"

	"sentinel/internal/i18n"
	"sentinel/internal/notifier"
	"sentinel/internal/reminder"
	"sentinel/pkg/logx"
)

type fakeController struct {
	reminders []reminder.Reminder
	upcoming  []reminder.Upcoming
	master    bool
	lang      i18n.Language
	timers    int
}

func (f *fakeController) Reminders() []reminder.Reminder {
	return append([]reminder.Reminder(nil), f.reminders...)
}
func (f *fakeController) Upcoming() []reminder.Upcoming { return f.upcoming }
func (f *fakeController) AddReminder(context.Context) reminder.Reminder {
	r := reminder.NewCustom("New reminder", "", reminder.DefaultInterval)
	f.reminders = append([]reminder.Reminder{r}, f.reminders...)
	return r
}
func (f *fakeController) UpdateReminder(_ context.Context, r reminder.Reminder) {
	for i := range f.reminders {
		if f.reminders[i].ID == r.ID {
			f.reminders[i] = r
		}
	}
}
func (f *fakeController) ToggleReminder(_ context.Context, id string) {
	for i := range f.reminders {
		if f.reminders[i].ID == id {
			f.reminders[i].IsEnabled = !f.reminders[i].IsEnabled
		}
	}
}
func (f *fakeController) DeleteReminder(_ context.Context, id string) {
	for i := range f.reminders {
		if f.reminders[i].ID == id {
			f.reminders = append(f.reminders[:i], f.reminders[i+1:]...)
			return
		}
	}
}
func (f *fakeController) SetMasterEnabled(_ context.Context, on bool)       { f.master = on }
func (f *fakeController) MasterEnabled() bool                               { return f.master }
func (f *fakeController) ChangeLanguage(_ context.Context, l i18n.Language) { f.lang = l }
func (f *fakeController) ActiveTimerCount() int                             { return f.timers }

func newCommands(t *testing.T) (*Commands, *fakeController) {
	t.Helper()
	cat, err := i18n.New(i18n.English, "", logx.Nop())
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	ctrl := &fakeController{
		master: true,
		reminders: []reminder.Reminder{
			{ID: "a", Title: "Relax your eyes", IntervalMinutes: 20, IsEnabled: true, Type: reminder.TypeDefault},
			{ID: "b", Title: "Stretch", IntervalMinutes: 45, Type: reminder.TypeCustom},
		},
	}
	return NewCommands(ctrl, cat), ctrl
}

func TestParseCommand(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		name string
		args string
		ok   bool
	}{
		{"/list", "list", "", true},
		{"  /Toggle 2 ", "toggle", "2", true},
		{"/rename@sentinel_bot 1 Eyes off screen", "rename", "1 Eyes off screen", true},
		{"hello", "", "", false},
		{"/", "", "", false},
	}
	for _, tc := range cases {
		name, args, ok := ParseCommand(tc.in)
		if name != tc.name || args != tc.args || ok != tc.ok {
			t.Fatalf("ParseCommand(%q) = %q,%q,%v", tc.in, name, args, ok)
		}
	}
}

func TestHandleList(t *testing.T) {
	t.Parallel()

	c, _ := newCommands(t)
	got := c.Handle(context.Background(), "list", "")
	want := "1. [on] Relax your eyes (20 min)\n2. [off] Stretch (45 min)"
	if got != want {
		t.Fatalf("list =\n%s\nwant\n%s", got, want)
	}
}

func TestHandleMutations(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		cmd   string
		args  string
		reply string
		check func(*fakeController) bool
	}{
		{"toggle", "toggle", "2", "Reminder updated.", func(f *fakeController) bool { return f.reminders[1].IsEnabled }},
		{"interval", "interval", "1 15", "Reminder updated.", func(f *fakeController) bool { return f.reminders[0].IntervalMinutes == 15 }},
		{"interval not a number", "interval", "1 soon", "Invalid argument.", func(f *fakeController) bool { return f.reminders[0].IntervalMinutes == 20 }},
		{"rename", "rename", "2 Walk around", "Reminder updated.", func(f *fakeController) bool { return f.reminders[1].Title == "Walk around" }},
		{"rename empty", "rename", "2", "Invalid argument.", func(f *fakeController) bool { return f.reminders[1].Title == "Stretch" }},
		{"describe", "describe", "1 Look away", "Reminder updated.", func(f *fakeController) bool { return f.reminders[0].Description == "Look away" }},
		{"delete", "delete", "1", "Reminder deleted.", func(f *fakeController) bool { return len(f.reminders) == 1 && f.reminders[0].ID == "b" }},
		{"out of range", "delete", "3", "No reminder at that position.", func(f *fakeController) bool { return len(f.reminders) == 2 }},
		{"zero position", "toggle", "0", "No reminder at that position.", func(f *fakeController) bool { return !f.reminders[1].IsEnabled }},
		{"add", "add", "", "Reminder added.", func(f *fakeController) bool { return len(f.reminders) == 3 && f.reminders[0].Title == "New reminder" }},
		{"add titled", "add", "Hydrate", "Reminder added.", func(f *fakeController) bool { return f.reminders[0].Title == "Hydrate" }},
		{"master off", "master", "off", "Reminders are paused.", func(f *fakeController) bool { return !f.master }},
		{"master bad", "master", "maybe", "Invalid argument.", func(f *fakeController) bool { return f.master }},
		{"lang", "lang", "fr", "Language changed.", func(f *fakeController) bool { return f.lang == i18n.French }},
		{"lang bad", "lang", "klingon", "Invalid argument.", func(f *fakeController) bool { return f.lang == "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			c, ctrl := newCommands(t)
			if got := c.Handle(context.Background(), tc.cmd, tc.args); got != tc.reply {
				t.Fatalf("reply = %q, want %q", got, tc.reply)
			}
			if !tc.check(ctrl) {
				t.Fatalf("state check failed: %+v", ctrl)
			}
		})
	}
}

func TestHandleUpcoming(t *testing.T) {
	t.Parallel()

	c, ctrl := newCommands(t)
	if got := c.Handle(context.Background(), "upcoming", ""); got != "Nothing scheduled right now." {
		t.Fatalf("empty upcoming = %q", got)
	}
	ctrl.upcoming = []reminder.Upcoming{
		{ID: "a", Title: "Relax your eyes", MinutesLeft: 1},
		{ID: "b", Title: "Stretch", MinutesLeft: 3},
	}
	got := c.Handle(context.Background(), "upcoming", "")
	want := "Next reminders\n• Relax your eyes: less than 1 min\n• Stretch: 3 min"
	if got != want {
		t.Fatalf("upcoming =\n%s\nwant\n%s", got, want)
	}
}

func TestHandleStatusAndHelp(t *testing.T) {
	t.Parallel()

	c, ctrl := newCommands(t)
	ctrl.timers = 4
	c.AuthStatus = func() notifier.Status { return notifier.StatusAuthorized }
	c.Version = "1.2.3"
	got := c.Handle(context.Background(), "status", "")
	for _, want := range []string{"Reminders are on.", "Active timers: 4", "Language: English", "Notifications: Authorized", "Version: 1.2.3"} {
		if !strings.Contains(got, want) {
			t.Fatalf("status %q missing %q", got, want)
		}
	}

	help := c.Handle(context.Background(), "nonsense", "")
	if !strings.Contains(help, "/toggle N") || !strings.HasPrefix(help, "Gentle reminders") {
		t.Fatalf("help = %q", help)
	}
}
