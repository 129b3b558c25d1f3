package notifier

import (
	"context"

	"sentinel/pkg/logx"
)

// LogSink writes notifications to the application log. It is the fallback
// when no other sink is configured.
type LogSink struct {
	Log logx.Logger
}

func (LogSink) Name() string { return "log" }

func (s LogSink) Deliver(_ context.Context, n Notification) error {
	s.Log.Info("reminder", logx.String("id", n.ID), logx.String("title", n.Title), logx.String("body", n.Body))
	return nil
}
