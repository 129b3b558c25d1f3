package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sentinel/internal/app"
)

type RunCmd struct {
	LogLevel    string        `help:"Override logging.level." name:"log-level"`
	StopTimeout time.Duration `help:"Upper bound for graceful shutdown." default:"8s"`
}

func (c *RunCmd) Run(ctx *Context) error {
	sigCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := app.New(sigCtx, ctx.ConfigPath, app.Options{Version: ctx.Version, LogLevel: c.LogLevel})
	if err != nil {
		return err
	}
	if err := a.Start(sigCtx); err != nil {
		_ = a.Close()
		return fmt.Errorf("start: %w", err)
	}

	reason := app.StopSignal
	select {
	case <-sigCtx.Done():
	case <-a.Done():
		if a.Err() != nil {
			reason = app.StopFatalError
		}
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), c.StopTimeout)
	defer stopCancel()
	_ = a.Stop(stopCtx, reason)
	if reason == app.StopFatalError {
		return a.Err()
	}
	return nil
}
