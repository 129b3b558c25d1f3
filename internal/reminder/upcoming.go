package reminder

import (
	"math"
	"sort"
	"time"
)

const (
	upcomingWindow = 180 * time.Second
	upcomingLimit  = 6
)

// Upcoming is one entry of the "next reminders" projection.
type Upcoming struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	At          time.Time `json:"at"`
	MinutesLeft int       `json:"minutesLeft"`
}

// upcoming groups the running reminders that fire within upcomingWindow of
// the soonest one.
func upcoming(reminders []Reminder, e *Engine, master bool, now time.Time) []Upcoming {
	if !master {
		return nil
	}
	var items []Upcoming
	for _, r := range reminders {
		if !r.IsEnabled {
			continue
		}
		next, ok := e.nextFireAt(r.ID)
		if !ok {
			continue
		}
		items = append(items, Upcoming{ID: r.ID, Title: r.Title, At: next})
	}
	if len(items) == 0 {
		return nil
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].At.Before(items[j].At) })

	threshold := items[0].At.Add(upcomingWindow)
	out := items[:0]
	for _, it := range items {
		if it.At.After(threshold) {
			continue
		}
		if len(out) == upcomingLimit {
			break
		}
		it.MinutesLeft = minutesLeft(it.At.Sub(now))
		out = append(out, it)
	}
	return out
}

func minutesLeft(d time.Duration) int {
	m := int(math.Ceil(d.Minutes()))
	if m < 1 {
		return 1
	}
	return m
}
