// Package cli holds the sentinel subcommands. Each command is a kong
// command struct with a Run(*Context) method.
package cli

import (
	"context"
	"io"
	"os"

	"sentinel/internal/app"
)

type Context struct {
	ConfigPath string
	Version    string
	Out        io.Writer
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// openQuiet builds the app for one-shot commands: no Telegram, and only
// errors on the log.
func (c *Context) openQuiet(ctx context.Context) (*app.App, error) {
	return app.New(ctx, c.ConfigPath, app.Options{Version: c.Version, LogLevel: "error", Offline: true})
}
