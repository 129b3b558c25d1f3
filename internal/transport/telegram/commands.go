package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"sentinel/internal/i18n"
	"sentinel/internal/notifier"
	"sentinel/internal/reminder"
)

// Controller is the part of reminder.Store the commands drive.
type Controller interface {
	Reminders() []reminder.Reminder
	Upcoming() []reminder.Upcoming
	AddReminder(ctx context.Context) reminder.Reminder
	UpdateReminder(ctx context.Context, r reminder.Reminder)
	ToggleReminder(ctx context.Context, id string)
	DeleteReminder(ctx context.Context, id string)
	SetMasterEnabled(ctx context.Context, on bool)
	MasterEnabled() bool
	ChangeLanguage(ctx context.Context, lang i18n.Language)
	ActiveTimerCount() int
}

type Localizer interface {
	UI(key string) string
	Language() i18n.Language
}

// Command is one entry of the bot menu.
type Command struct {
	Name  string
	Usage string
	// DescKey is the UI key of the menu description.
	DescKey string
}

// Commands maps chat commands onto the reminder store. Replies are plain
// text in the active language.
type Commands struct {
	ctrl Controller
	loc  Localizer
	// AuthStatus, when set, is reported by /status.
	AuthStatus func() notifier.Status
	Version    string
}

func NewCommands(ctrl Controller, loc Localizer) *Commands {
	return &Commands{ctrl: ctrl, loc: loc}
}

var commandList = []Command{
	{Name: "list", Usage: "/list", DescKey: "settings"},
	{Name: "upcoming", Usage: "/upcoming", DescKey: "next_reminders"},
	{Name: "add", Usage: "/add [title]", DescKey: "add_reminder"},
	{Name: "toggle", Usage: "/toggle N", DescKey: "edit_reminder"},
	{Name: "interval", Usage: "/interval N minutes", DescKey: "interval"},
	{Name: "rename", Usage: "/rename N title", DescKey: "title_placeholder"},
	{Name: "describe", Usage: "/describe N text", DescKey: "description_placeholder"},
	{Name: "delete", Usage: "/delete N", DescKey: "delete"},
	{Name: "master", Usage: "/master on|off", DescKey: "notifications"},
	{Name: "lang", Usage: "/lang en|es|fr", DescKey: "language"},
	{Name: "status", Usage: "/status", DescKey: "active_timers"},
}

// List returns the command menu in display order.
func (c *Commands) List() []Command {
	out := make([]Command, len(commandList))
	copy(out, commandList)
	return out
}

// ParseCommand splits "/name@bot args" into the lowercased name and the
// raw argument text. ok is false for text that is not a command.
func ParseCommand(text string) (name, args string, ok bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", "", false
	}
	head, rest, _ := strings.Cut(text[1:], " ")
	head, _, _ = strings.Cut(head, "@")
	if head == "" {
		return "", "", false
	}
	return strings.ToLower(head), strings.TrimSpace(rest), true
}

// Handle runs one command and returns the reply. Unknown commands get the
// usage text.
func (c *Commands) Handle(ctx context.Context, name, args string) string {
	switch name {
	case "start", "help":
		return c.help()
	case "list":
		return c.list()
	case "upcoming":
		return c.upcoming()
	case "add":
		return c.add(ctx, args)
	case "toggle":
		return c.withReminder(args, func(r reminder.Reminder, _ string) string {
			c.ctrl.ToggleReminder(ctx, r.ID)
			return c.ui("reminder_updated")
		})
	case "interval":
		return c.withReminder(args, func(r reminder.Reminder, rest string) string {
			m, err := strconv.Atoi(strings.TrimSpace(rest))
			if err != nil {
				return c.ui("invalid_argument")
			}
			r.IntervalMinutes = m
			c.ctrl.UpdateReminder(ctx, r)
			return c.ui("reminder_updated")
		})
	case "rename":
		return c.withReminder(args, func(r reminder.Reminder, rest string) string {
			if rest == "" {
				return c.ui("invalid_argument")
			}
			r.Title = rest
			c.ctrl.UpdateReminder(ctx, r)
			return c.ui("reminder_updated")
		})
	case "describe":
		return c.withReminder(args, func(r reminder.Reminder, rest string) string {
			r.Description = rest
			c.ctrl.UpdateReminder(ctx, r)
			return c.ui("reminder_updated")
		})
	case "delete":
		return c.withReminder(args, func(r reminder.Reminder, _ string) string {
			c.ctrl.DeleteReminder(ctx, r.ID)
			return c.ui("reminder_deleted")
		})
	case "master":
		return c.master(ctx, args)
	case "lang":
		lang, ok := i18n.ParseLanguage(args)
		if !ok {
			return c.ui("invalid_argument")
		}
		c.ctrl.ChangeLanguage(ctx, lang)
		return c.ui("language_changed")
	case "status":
		return c.status()
	default:
		return c.help()
	}
}

func (c *Commands) ui(key string) string { return c.loc.UI(key) }

func (c *Commands) help() string {
	var b strings.Builder
	b.WriteString(c.ui("sentinel_description"))
	b.WriteString("\n")
	for _, cmd := range commandList {
		fmt.Fprintf(&b, "\n%s  %s", cmd.Usage, c.ui(cmd.DescKey))
	}
	return b.String()
}

func (c *Commands) list() string {
	rs := c.ctrl.Reminders()
	if len(rs) == 0 {
		return c.ui("no_reminders")
	}
	var b strings.Builder
	for i, r := range rs {
		if i > 0 {
			b.WriteString("\n")
		}
		state := c.ui("disabled")
		if r.IsEnabled {
			state = c.ui("enabled")
		}
		fmt.Fprintf(&b, "%d. [%s] %s (%d %s)", i+1, state, r.Title, r.IntervalMinutes, c.ui("minutes"))
	}
	return b.String()
}

func (c *Commands) upcoming() string {
	items := c.ctrl.Upcoming()
	if len(items) == 0 {
		return c.ui("no_upcoming")
	}
	var b strings.Builder
	b.WriteString(c.ui("next_reminders"))
	for _, u := range items {
		fmt.Fprintf(&b, "\n• %s: %s", u.Title, c.minutesText(u.MinutesLeft))
	}
	return b.String()
}

func (c *Commands) minutesText(m int) string {
	if m <= 1 {
		return fmt.Sprintf("%s 1 %s", c.ui("less_than"), c.ui("minutes"))
	}
	return fmt.Sprintf("%d %s", m, c.ui("minutes"))
}

func (c *Commands) add(ctx context.Context, title string) string {
	r := c.ctrl.AddReminder(ctx)
	if title != "" {
		r.Title = title
		c.ctrl.UpdateReminder(ctx, r)
	}
	return c.ui("reminder_added")
}

// withReminder resolves the leading 1-based position in args and calls fn
// with the reminder and the remaining text.
func (c *Commands) withReminder(args string, fn func(r reminder.Reminder, rest string) string) string {
	head, rest, _ := strings.Cut(strings.TrimSpace(args), " ")
	n, err := strconv.Atoi(head)
	if err != nil {
		return c.ui("invalid_argument")
	}
	rs := c.ctrl.Reminders()
	if n < 1 || n > len(rs) {
		return c.ui("unknown_reminder")
	}
	return fn(rs[n-1], strings.TrimSpace(rest))
}

func (c *Commands) master(ctx context.Context, args string) string {
	switch strings.ToLower(strings.TrimSpace(args)) {
	case "on", "1", "true":
		c.ctrl.SetMasterEnabled(ctx, true)
	case "off", "0", "false":
		c.ctrl.SetMasterEnabled(ctx, false)
	case "":
	default:
		return c.ui("invalid_argument")
	}
	if c.ctrl.MasterEnabled() {
		return c.ui("master_on")
	}
	return c.ui("master_off")
}

func (c *Commands) status() string {
	var b strings.Builder
	if c.ctrl.MasterEnabled() {
		b.WriteString(c.ui("master_on"))
	} else {
		b.WriteString(c.ui("master_off"))
	}
	fmt.Fprintf(&b, "\n%s: %d", c.ui("active_timers"), c.ctrl.ActiveTimerCount())
	fmt.Fprintf(&b, "\n%s: %s", c.ui("language"), c.loc.Language().DisplayName())
	if c.AuthStatus != nil {
		fmt.Fprintf(&b, "\n%s: %s", c.ui("notifications"), c.ui(c.AuthStatus().String()))
	}
	if c.Version != "" {
		fmt.Fprintf(&b, "\n%s: %s", c.ui("version"), c.Version)
	}
	return b.String()
}
