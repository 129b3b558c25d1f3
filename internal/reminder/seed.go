package reminder

// builtin lists the seeded reminders in display order.
var builtin = []struct {
	key      string
	interval int
}{
	{"relax_eyes", 20},
	{"check_fingers", 30},
	{"relax_arms", 25},
	{"stretch_legs", 45},
	{"fix_posture", 15},
	{"have_water", 30},
	{"breathe", 20},
}

// BuiltinKeys returns the localization keys of the seeded reminders.
func BuiltinKeys() []string {
	out := make([]string, len(builtin))
	for i, b := range builtin {
		out[i] = b.key
	}
	return out
}

func seedDefaults(loc Localizer) []Reminder {
	out := make([]Reminder, 0, len(builtin))
	for _, b := range builtin {
		title, desc := b.key, ""
		if l, ok := loc.Reminder(b.key); ok {
			title, desc = l.Title, l.Description
		}
		out = append(out, NewDefault(b.key, title, desc, b.interval))
	}
	return out
}
