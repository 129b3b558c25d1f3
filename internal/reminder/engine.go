package reminder

import (
	"time"

	"github.com/robfig/cron/v3"
)

// timerEntry is one running reminder. A callback holding an entry that is
// no longer in the table lost a race with stop and must do nothing.
type timerEntry struct {
	id       string
	schedule cron.Schedule
	next     time.Time
	timer    Timer
}

// Engine keeps one repeating timer per running reminder. It is not safe for
// concurrent use; Store serializes every call.
type Engine struct {
	clock   Clock
	entries map[string]*timerEntry
	fire    func(*timerEntry)
}

func newEngine(clock Clock, fire func(*timerEntry)) *Engine {
	return &Engine{clock: clock, entries: map[string]*timerEntry{}, fire: fire}
}

// start arms id to fire every intervalMinutes from now, replacing any
// running timer.
func (e *Engine) start(id string, intervalMinutes int) {
	e.stop(id)
	ent := &timerEntry{id: id}
	e.entries[id] = ent
	e.arm(ent, intervalMinutes)
}

// rearm schedules the next firing of a running entry from now using the
// reminder's current interval.
func (e *Engine) rearm(ent *timerEntry, intervalMinutes int) {
	if e.entries[ent.id] != ent {
		return
	}
	e.arm(ent, intervalMinutes)
}

func (e *Engine) arm(ent *timerEntry, intervalMinutes int) {
	now := e.clock.Now()
	ent.schedule = cron.Every(time.Duration(intervalMinutes) * time.Minute)
	// cron rounds to whole seconds; put the fraction back so the period
	// is exact.
	ent.next = ent.schedule.Next(now).Add(time.Duration(now.Nanosecond()))
	ent.timer = e.clock.AfterFunc(ent.next.Sub(now), func() { e.fire(ent) })
}

func (e *Engine) stop(id string) {
	ent, ok := e.entries[id]
	if !ok {
		return
	}
	if ent.timer != nil {
		ent.timer.Stop()
	}
	delete(e.entries, id)
}

func (e *Engine) stopAll() {
	for id := range e.entries {
		e.stop(id)
	}
}

func (e *Engine) owns(ent *timerEntry) bool {
	return e.entries[ent.id] == ent
}

func (e *Engine) nextFireAt(id string) (time.Time, bool) {
	ent, ok := e.entries[id]
	if !ok {
		return time.Time{}, false
	}
	return ent.next, true
}

func (e *Engine) len() int { return len(e.entries) }
