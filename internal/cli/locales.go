package cli

import (
	"fmt"

	"sentinel/internal/i18n"
	"sentinel/pkg/logx"
)

type LocalesCmd struct {
	Dir string `help:"Directory with <lang>.json overrides to check." type:"path"`
}

func (c *LocalesCmd) Run(ctx *Context) error {
	cat, err := i18n.New(i18n.English, c.Dir, logx.Nop())
	if err != nil {
		return err
	}
	if err := cat.CheckParity(); err != nil {
		return err
	}
	for _, lang := range i18n.Languages() {
		rem, ui := cat.Keys(lang)
		fmt.Fprintf(ctx.out(), "%s\t%s\t%d reminders\t%d ui keys\n", lang, lang.DisplayName(), len(rem), len(ui))
	}
	return nil
}
