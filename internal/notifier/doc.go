// Package notifier delivers reminder notifications.
//
// Notify only enqueues; a small worker pool drains the queue and fans each
// notification out to every configured Sink (desktop, Telegram, log) with a
// shared rate limit, per-sink retry with jittered backoff, and short-window
// dedup on the notification id. A failing sink never blocks the caller.
//
// # History
//
// The service keeps a small in-memory history of delivered notifications
// for the status surfaces.
package notifier
