package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
)

type ListCmd struct {
	ShowIDs bool `help:"Show reminder IDs." name:"show-ids"`
}

func (c *ListCmd) Run(ctx *Context) error {
	a, err := ctx.openQuiet(context.Background())
	if err != nil {
		return err
	}
	defer a.Close()

	loc := a.Catalog()
	rs := a.Store().Reminders()
	if len(rs) == 0 {
		fmt.Fprintln(ctx.out(), loc.UI("no_reminders"))
		return nil
	}

	master := loc.UI("master_off")
	if a.Store().MasterEnabled() {
		master = loc.UI("master_on")
	}
	fmt.Fprintln(ctx.out(), master)

	w := tabwriter.NewWriter(ctx.out(), 0, 4, 2, ' ', 0)
	for i, r := range rs {
		state := loc.UI("disabled")
		if r.IsEnabled {
			state = loc.UI("enabled")
		}
		line := fmt.Sprintf("%d.\t[%s]\t%s\t%d %s\t%s", i+1, state, r.Title, r.IntervalMinutes, loc.UI("minutes"), r.Type)
		if c.ShowIDs {
			line += "\t" + r.ID
		}
		fmt.Fprintln(w, line)
	}
	return w.Flush()
}
