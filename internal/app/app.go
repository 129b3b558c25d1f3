package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sentinel/internal/config"
	"sentinel/internal/eventbus"
	"sentinel/internal/i18n"
	"sentinel/internal/launch"
	"sentinel/internal/notifier"
	"sentinel/internal/notifier/desktop"
	"sentinel/internal/reminder"
	"sentinel/internal/runtime/supervisor"
	"sentinel/internal/settings"
	"sentinel/internal/storage"
	"sentinel/internal/transport/telegram"
	"sentinel/pkg/logx"
)

// Options tune New for the different entry points.
type Options struct {
	Version string
	// LogLevel overrides logging.level from the config file.
	LogLevel string
	// Offline skips the Telegram bot, which needs the network to start.
	Offline bool
}

type App struct {
	cfgm *config.ConfigManager
	sup  *supervisor.Supervisor
	opts Options

	log  logx.Logger
	logs *logx.Service
	bus  eventbus.Bus
	st   storage.Store

	settings *settings.Manager
	catalog  *i18n.Catalog
	notif    *notifier.Service
	desktop  *desktop.Sink
	bot      *telegram.Bot
	store    *reminder.Store
}

// New loads the config and builds every component. Nothing runs until
// Start.
func New(ctx context.Context, cfgPath string, opts Options) (*App, error) {
	cfgm := config.NewConfigManager(cfgPath)
	cfg, found, err := cfgm.Load()
	if err != nil {
		return nil, err
	}

	logCfg := mapLogConfig(cfg)
	if opts.LogLevel != "" {
		logCfg.Level = opts.LogLevel
	}
	logSvc, log := logx.New(logCfg)
	appLog := log.With(logx.String("comp", "app"))
	if !found {
		appLog.Info("config file not found; using defaults", logx.String("path", cfgPath))
	}

	bus := eventbus.New()

	sc, err := mapStorageConfig(cfg)
	if err != nil {
		return nil, err
	}
	st, err := storage.Open(sc, log.With(logx.String("comp", "storage")))
	if err != nil {
		return nil, err
	}
	appLog.Info("storage opened", logx.String("driver", sc.Driver), logx.String("path", sc.Path))

	var launcher launch.Launcher = launch.Noop{}
	if cfg.Launch.Enabled {
		l, err := launch.New(mapLaunchConfig(cfg))
		if err != nil {
			appLog.Warn("launch at login unavailable", logx.Err(err))
		} else {
			launcher = l
		}
	}
	sm := settings.Load(ctx, st, launcher, log.With(logx.String("comp", "settings")))

	catalog, err := i18n.New(sm.Get().Language, cfg.Localization.Dir, log.With(logx.String("comp", "i18n")))
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	a := &App{
		cfgm:     cfgm,
		opts:     opts,
		log:      appLog,
		logs:     logSvc,
		bus:      bus,
		st:       st,
		settings: sm,
		catalog:  catalog,
	}

	var sinks []notifier.Sink
	if cfg.Desktop.Enabled {
		dc, err := mapDesktopConfig(cfg)
		if err != nil {
			_ = st.Close()
			return nil, err
		}
		a.desktop = desktop.New(dc)
		sinks = append(sinks, a.desktop)
	}
	if cfg.Telegram.Enabled && !opts.Offline {
		tc, err := mapTelegramConfig(cfg)
		if err != nil {
			_ = st.Close()
			return nil, err
		}
		bot, err := telegram.New(tc, nil, log.With(logx.String("comp", "telegram")))
		if err != nil {
			_ = st.Close()
			return nil, fmt.Errorf("telegram: %w", err)
		}
		a.bot = bot
		sinks = append(sinks, bot)
	}
	if len(sinks) == 0 {
		sinks = append(sinks, notifier.LogSink{Log: log.With(logx.String("comp", "notify.log"))})
	}

	ncfg, err := mapNotifierConfig(cfg)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	a.notif = notifier.New(ncfg, log.With(logx.String("comp", "notifier")), bus, sinks...)

	a.store = reminder.NewStore(ctx, reminder.Deps{
		Storage:   st,
		Localizer: catalog,
		Settings:  sm,
		Notifier:  a.notif,
		Bus:       bus,
		Log:       log.With(logx.String("comp", "reminders")),
	})

	if a.bot != nil {
		cmds := telegram.NewCommands(a.store, catalog)
		cmds.AuthStatus = a.notif.AuthorizationStatus
		cmds.Version = opts.Version
		a.bot.Attach(cmds)
	}
	return a, nil
}

func (a *App) Store() *reminder.Store        { return a.store }
func (a *App) Settings() *settings.Manager   { return a.settings }
func (a *App) Catalog() *i18n.Catalog        { return a.catalog }
func (a *App) Notifier() *notifier.Service   { return a.notif }
func (a *App) Bus() eventbus.Bus             { return a.bus }
func (a *App) Config() *config.ConfigManager { return a.cfgm }
func (a *App) Logger() logx.Logger           { return a.log }

// Done is closed when the app context is canceled (fatal error or Stop).
func (a *App) Done() <-chan struct{} {
	if a.sup == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return a.sup.Context().Done()
}

func (a *App) Err() error {
	if a.sup == nil {
		return nil
	}
	return a.sup.Err()
}

func (a *App) Start(ctx context.Context) error {
	a.sup = supervisor.New(ctx, supervisor.WithLogger(a.log), supervisor.WithCancelOnError(true))
	runCtx := a.sup.Context()

	a.cfgm.SetLogger(a.log.With(logx.String("comp", "config")))
	a.cfgm.SetValidator(func(_ context.Context, cfg *config.Config) error {
		if err := config.Validate(cfg); err != nil {
			return err
		}
		if _, err := mapNotifierConfig(cfg); err != nil {
			return err
		}
		_, err := mapStorageConfig(cfg)
		return err
	})

	a.settings.SyncLaunchAtLogin(runCtx)

	a.notif.Start(runCtx)
	a.store.Start(runCtx)
	if a.bot != nil {
		a.bot.Start(runCtx)
	}

	s := a.settings.Get()
	a.sup.Go0("notify.permission", func(c context.Context) {
		granted := a.notif.RequestPermission(c)
		a.log.Info("notification permission", logx.Bool("granted", granted),
			logx.String("status", a.notif.AuthorizationStatus().String()))
		if s.StartMinimized {
			return
		}
		if err := a.notif.Notify(c, a.startupNotification()); err != nil {
			a.log.Debug("startup notification not sent", logx.Err(err))
		}
	})

	events, unsub := a.bus.Subscribe(128)
	a.sup.Go0("eventbus.log", func(c context.Context) {
		defer unsub()
		for {
			select {
			case <-c.Done():
				return
			case e, ok := <-events:
				if !ok {
					return
				}
				a.log.Debug("event", logx.String("type", e.Type), logx.Time("time", e.Time))
			}
		}
	})

	sub := a.cfgm.Subscribe(8)
	a.sup.Go0("config.reload", func(c context.Context) {
		defer a.cfgm.Unsubscribe(sub)
		last := a.cfgm.Get()
		for {
			select {
			case <-c.Done():
				return
			case newCfg, ok := <-sub:
				if !ok {
					return
				}
				// Coalesce bursts.
			drain:
				for {
					select {
					case newer := <-sub:
						if newer != nil {
							newCfg = newer
						}
					default:
						break drain
					}
				}
				a.applyConfig(c, last, newCfg)
				last = newCfg
			}
		}
	})

	a.sup.Go("config.watch", func(c context.Context) error {
		return a.cfgm.Watch(c)
	})

	a.log.Info("app started",
		logx.Bool("master", a.store.MasterEnabled()),
		logx.Int("timers", a.store.ActiveTimerCount()),
		logx.Bool("start_minimized", s.StartMinimized),
		logx.Strs("sinks", a.notif.Sinks()),
	)
	return nil
}

// startupNotification summarizes what will fire next.
func (a *App) startupNotification() notifier.Notification {
	body := a.catalog.UI("sentinel_description")
	if items := a.store.Upcoming(); len(items) > 0 {
		parts := make([]string, 0, len(items))
		for _, u := range items {
			parts = append(parts, fmt.Sprintf("%s (%d %s)", u.Title, u.MinutesLeft, a.catalog.UI("minutes")))
		}
		body = a.catalog.UI("next_reminders") + ": " + strings.Join(parts, ", ")
	}
	return notifier.Notification{
		ID:    fmt.Sprintf("startup-%d", time.Now().Unix()),
		Title: a.catalog.UI("started"),
		Body:  body,
	}
}

// applyConfig applies the live-reloadable sections and warns about the
// rest.
func (a *App) applyConfig(ctx context.Context, oldCfg, newCfg *config.Config) {
	sections, attrs := config.SummarizeConfigChange(oldCfg, newCfg)
	if len(sections) == 0 {
		a.log.Info("config reloaded (no changes)")
		return
	}
	if restart := config.RequiresRestart(sections); len(restart) > 0 {
		a.log.Warn("config changed; restart required for changes to take effect",
			logx.String("sections", strings.Join(restart, ",")))
	}

	logCfg := mapLogConfig(newCfg)
	if a.opts.LogLevel != "" {
		logCfg.Level = a.opts.LogLevel
	}
	a.logs.Apply(logCfg)

	prev := a.notif.Enabled()
	ncfg, err := mapNotifierConfig(newCfg)
	if err != nil {
		a.log.Warn("invalid notifier config; keeping previous", logx.Err(err))
	} else {
		a.notif.Apply(ncfg)
		switch {
		case prev && !ncfg.Enabled:
			a.log.Info("notifier disabled via config")
			stopCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			a.notif.Stop(stopCtx)
			cancel()
		case !prev && ncfg.Enabled:
			a.log.Info("notifier enabled via config")
			a.notif.Start(ctx)
		}
	}

	fields := append([]logx.Field{logx.String("changed", strings.Join(sections, ","))}, attrs...)
	a.log.Info("config reloaded", fields...)
}

// Close releases resources of an App that was never started.
func (a *App) Close() error {
	if a.desktop != nil {
		_ = a.desktop.Close()
	}
	err := a.st.Close()
	_ = a.logs.Close()
	return err
}

func (a *App) Stop(ctx context.Context, reason StopReason) error {
	if a.sup == nil {
		return a.Close()
	}
	a.log.Info("stopping", logx.String("reason", string(reason)))
	a.sup.Cancel()

	// step bounds one shutdown step; it never extends the caller's deadline.
	step := func(name string, max time.Duration, fn func(context.Context) error) {
		start := time.Now()
		if dl, ok := ctx.Deadline(); ok {
			if rem := time.Until(dl); rem < max {
				max = rem
			}
		}
		if max <= 0 {
			a.log.Warn("stop step skipped (deadline reached)", logx.String("name", name))
			return
		}
		stepCtx, cancel := context.WithTimeout(ctx, max)
		defer cancel()

		done := make(chan error, 1)
		go func() {
			defer func() {
				if r := recover(); r != nil {
					done <- fmt.Errorf("panic in stop step %s: %v", name, r)
				}
			}()
			done <- fn(stepCtx)
		}()

		select {
		case err := <-done:
			if err != nil {
				a.log.Warn("stop step error", logx.String("name", name), logx.Err(err))
			}
			a.log.Debug("stop step end", logx.String("name", name), logx.Duration("took", time.Since(start)))
		case <-stepCtx.Done():
			a.log.Warn("stop step deadline reached (continuing)",
				logx.String("name", name), logx.Duration("elapsed", time.Since(start)))
		}
	}

	step("reminders", time.Second, func(c context.Context) error { a.store.Stop(c); return nil })
	step("telegram", 2*time.Second, func(c context.Context) error {
		if a.bot != nil {
			a.bot.Stop(c)
		}
		return nil
	})
	step("notifier", 2*time.Second, func(c context.Context) error { a.notif.Stop(c); return nil })
	step("desktop", time.Second, func(context.Context) error {
		if a.desktop != nil {
			return a.desktop.Close()
		}
		return nil
	})
	step("storage", time.Second, func(context.Context) error { return a.st.Close() })
	step("supervisor", 2*time.Second, func(c context.Context) error { return a.sup.Wait(c) })

	a.log.Info("stopped")
	return a.logs.Close()
}
