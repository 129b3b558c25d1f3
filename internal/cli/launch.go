package cli

import (
	"context"
	"fmt"
)

// LaunchCmd shows or changes the launch-at-login setting.
type LaunchCmd struct {
	State string `arg:"" optional:"" enum:"on,off,status" default:"status" help:"on, off or status."`
}

func (c *LaunchCmd) Run(ctx *Context) error {
	bg := context.Background()
	a, err := ctx.openQuiet(bg)
	if err != nil {
		return err
	}
	defer a.Close()

	sm := a.Settings()
	switch c.State {
	case "on":
		sm.SetLaunchAtLogin(bg, true)
	case "off":
		sm.SetLaunchAtLogin(bg, false)
	}
	s := sm.Get()
	fmt.Fprintf(ctx.out(), "launchAtLogin=%t startMinimized=%t\n", s.LaunchAtLogin, s.StartMinimized)
	return nil
}
