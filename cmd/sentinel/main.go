package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"sentinel/internal/cli"
)

// version is set with -ldflags "-X main.version=...".
var version = "dev"

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path (YAML or JSON)." type:"path" default:"~/.config/sentinel/config.yaml"`

	Run     cli.RunCmd     `cmd:"" help:"Run the reminder daemon." default:"1"`
	List    cli.ListCmd    `cmd:"" help:"List stored reminders."`
	Launch  cli.LaunchCmd  `cmd:"" help:"Show or change launch at login."`
	Locales cli.LocalesCmd `cmd:"" help:"Check that every language has the same keys."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("sentinel"),
		kong.Description("Gentle reminders to take micro-breaks while you work"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{"version": version},
	)

	err := ctx.Run(&cli.Context{ConfigPath: CLI.Config, Version: version})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
