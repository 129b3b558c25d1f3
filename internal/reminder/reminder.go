package reminder

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

type Type string

const (
	TypeDefault Type = "default"
	TypeCustom  Type = "custom"
)

// Interval bounds in minutes. Constructors accept up to MaxInterval; edits
// and loaded records are held to MaxEditableInterval.
const (
	MinInterval         = 1
	MaxInterval         = 120
	MaxEditableInterval = 60
	DefaultInterval     = 30
)

type Reminder struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	IntervalMinutes int    `json:"intervalMinutes"`
	IsEnabled       bool   `json:"isEnabled"`
	Type            Type   `json:"type"`
	// IsModified is set once the user edits the title or description of a
	// default reminder and is never cleared.
	IsModified      bool   `json:"isModified"`
	LocalizationKey string `json:"localizationKey,omitempty"`
}

// storedKeys are the fields every persisted reminder must carry. A record
// without one of them is unreadable rather than zero-filled.
var storedKeys = []string{"id", "title", "description", "intervalMinutes", "isEnabled", "type", "isModified"}

func decodeStored(raw json.RawMessage) (Reminder, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Reminder{}, err
	}
	for _, k := range storedKeys {
		if _, ok := fields[k]; !ok {
			return Reminder{}, fmt.Errorf("reminder record missing %q", k)
		}
	}
	var r Reminder
	if err := json.Unmarshal(raw, &r); err != nil {
		return Reminder{}, err
	}
	return r, nil
}

// NewCustom returns a disabled user reminder with a fresh ID.
func NewCustom(title, description string, intervalMinutes int) Reminder {
	return Reminder{
		ID:              uuid.NewString(),
		Title:           title,
		Description:     description,
		IntervalMinutes: clamp(intervalMinutes, MaxInterval),
		Type:            TypeCustom,
	}
}

// NewDefault returns a disabled built-in reminder bound to key.
func NewDefault(key, title, description string, intervalMinutes int) Reminder {
	return Reminder{
		ID:              uuid.NewString(),
		Title:           title,
		Description:     description,
		IntervalMinutes: clamp(intervalMinutes, MaxInterval),
		Type:            TypeDefault,
		LocalizationKey: key,
	}
}

// ClampEditable holds x to the bounds used for edits and loaded records.
func ClampEditable(x int) int { return clamp(x, MaxEditableInterval) }

func clamp(x, hi int) int {
	if x < MinInterval {
		return MinInterval
	}
	if x > hi {
		return hi
	}
	return x
}
