package notifier

import (
	"context"
	"time"
)

// Notification is one reminder firing. ID is unique per firing.
type Notification struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Sink delivers a notification somewhere a human will see it.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, n Notification) error
}

// Authorizer is implemented by sinks that need the user's (or the
// platform's) consent before they can deliver.
type Authorizer interface {
	Authorize(ctx context.Context) (bool, error)
}

// Status is the notification authorization state.
type Status int

const (
	StatusNotDetermined Status = iota
	StatusAuthorized
	StatusDenied
)

func (s Status) String() string {
	switch s {
	case StatusAuthorized:
		return "authorized"
	case StatusDenied:
		return "denied"
	default:
		return "not_determined"
	}
}

// Config controls the async delivery pipeline.
type Config struct {
	Enabled         bool
	Workers         int
	QueueSize       int
	RatePerSec      int
	RetryMax        int
	RetryBase       time.Duration
	RetryMaxDelay   time.Duration
	SendTimeout     time.Duration
	DedupWindow     time.Duration
	DedupMaxEntries int
}

type HistoryItem struct {
	At    time.Time `json:"at"`
	ID    string    `json:"id"`
	Title string    `json:"title"`
	Sinks []string  `json:"sinks"`
}

// NotificationEvent is the Data of notify.* bus events.
type NotificationEvent struct {
	ID    string    `json:"id"`
	Sink  string    `json:"sink,omitempty"`
	At    time.Time `json:"at"`
	Error string    `json:"error,omitempty"`
}
