// Package telegram is the remote surface of sentinel: a notification sink
// that forwards reminders to a chat, and an owner-only command set for
// managing reminders from Telegram.
package telegram
