// Package reminder owns the reminder collection and its schedule.
//
// Store is the single entry point: every mutation and every timer callback
// runs under Store's mutex, persists before returning, and keeps the
// Engine's timer table consistent with isEnabled and the master switch.
// The timer table is never persisted; Start rebuilds it, so each interval
// counts from zero after a restart.
package reminder
