package telegram

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	tele "gopkg.in/telebot.v4"

	"sentinel/internal/notifier"
	"sentinel/internal/runtime/supervisor"
	"sentinel/pkg/logx"
)

type Config struct {
	Token        string
	OwnerUserIDs []int64
	// ChatID receives reminders. Zero sends to every owner's private chat.
	ChatID      int64
	ThreadID    int
	PollTimeout time.Duration
}

// Bot is both a notifier.Sink and the command surface.
type Bot struct {
	cfg     Config
	log     logx.Logger
	bot     *tele.Bot
	cmds    *Commands
	handler HandlerFunc

	runMu sync.Mutex
	sup   *supervisor.Supervisor
}

var _ notifier.Sink = (*Bot)(nil)

func New(cfg Config, cmds *Commands, log logx.Logger) (*Bot, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("telegram token is empty")
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 10 * time.Second
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	tb, err := tele.NewBot(tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: cfg.PollTimeout},
	})
	if err != nil {
		return nil, err
	}
	b := &Bot{cfg: cfg, log: log, bot: tb, cmds: cmds}
	b.handler = b.buildHandler()
	tb.Handle(tele.OnText, b.onText)
	return b, nil
}

// Attach sets the command set. It must be called before Start.
func (b *Bot) Attach(cmds *Commands) {
	b.runMu.Lock()
	b.cmds = cmds
	b.runMu.Unlock()
}

func (b *Bot) buildHandler() HandlerFunc {
	h := func(ctx context.Context, req *Request) (string, error) {
		b.runMu.Lock()
		cmds := b.cmds
		b.runMu.Unlock()
		if cmds == nil {
			return "", nil
		}
		return cmds.Handle(ctx, req.Command, req.Args), nil
	}
	return Chain(h,
		MWPanicRecover(b.log),
		MWRequestLog(b.log),
		MWOwnerOnly(b.cfg.OwnerUserIDs, b.cfg.ChatID, b.log),
		MWTimeout(10*time.Second),
	)
}

func (b *Bot) onText(c tele.Context) error {
	m := c.Message()
	if m == nil || m.Sender == nil || m.Chat == nil {
		return nil
	}
	name, args, ok := ParseCommand(m.Text)
	if !ok {
		return nil
	}
	b.runMu.Lock()
	ctx := context.Background()
	if b.sup != nil {
		ctx = b.sup.Context()
	}
	b.runMu.Unlock()

	reply, err := b.handler(ctx, &Request{
		ChatID:   m.Chat.ID,
		ThreadID: m.ThreadID,
		FromID:   m.Sender.ID,
		Command:  name,
		Args:     args,
	})
	if err != nil || reply == "" {
		return err
	}
	return b.send(ctx, m.Chat.ID, m.ThreadID, reply)
}

func (b *Bot) Name() string { return "telegram" }

// Deliver sends the reminder text to the configured chat.
func (b *Bot) Deliver(ctx context.Context, n notifier.Notification) error {
	text := n.Title
	if strings.TrimSpace(n.Body) != "" {
		text += "\n" + n.Body
	}
	if b.cfg.ChatID != 0 {
		return b.send(ctx, b.cfg.ChatID, b.cfg.ThreadID, text)
	}
	var errs []error
	for _, id := range b.cfg.OwnerUserIDs {
		if err := b.send(ctx, id, 0, text); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (b *Bot) send(ctx context.Context, chatID int64, threadID int, text string) error {
	chat := &tele.Chat{ID: chatID}
	for _, chunk := range splitText(text, textLimit) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := b.bot.Send(chat, chunk, &tele.SendOptions{ThreadID: threadID}); err != nil {
			return err
		}
	}
	return nil
}

// Start registers the command menu and begins long polling.
func (b *Bot) Start(ctx context.Context) {
	b.runMu.Lock()
	defer b.runMu.Unlock()
	if b.sup != nil {
		return
	}
	b.sup = supervisor.New(ctx,
		supervisor.WithLogger(b.log.With(logx.String("comp", "telegram"))),
		supervisor.WithCancelOnError(false),
	)

	if b.cmds != nil {
		menu := make([]tele.Command, 0, len(commandList))
		for _, c := range b.cmds.List() {
			menu = append(menu, tele.Command{Text: c.Name, Description: b.cmds.ui(c.DescKey)})
		}
		b.sup.Go0("telegram.menu", func(context.Context) {
			if err := b.bot.SetCommands(menu); err != nil {
				b.log.Warn("set bot commands failed", logx.Err(err))
			}
		})
	}

	b.sup.Go0("telegram.stop_on_cancel", func(c context.Context) {
		<-c.Done()
		// Stop blocks until the poll loop acknowledges.
		go b.bot.Stop()
	})

	b.sup.GoRestart("telegram.poll", func(context.Context) error {
		b.log.Info("polling started")
		b.bot.Start()
		b.log.Info("polling stopped")
		return nil
	},
		supervisor.WithRestartBackoff(500*time.Millisecond, 10*time.Second),
		supervisor.WithStopOnCleanExit(false),
	)
}

// Stop ends polling, waiting at most two seconds or until ctx is done.
func (b *Bot) Stop(ctx context.Context) {
	b.runMu.Lock()
	sup := b.sup
	b.sup = nil
	b.runMu.Unlock()
	if sup == nil {
		return
	}

	wctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := sup.Stop(wctx); err != nil && !errors.Is(err, context.Canceled) {
		b.log.Warn("telegram stop", logx.Err(err))
	}
}
