// Package app wires configuration, logging, the feed pipeline and the
// schedule loop into one runnable unit. main stays thin; everything
// that needs teardown lives here.
package app

import (
	"context"
	"os"
	"sync"

	"github.com/Yash-Rathee/Blog-Notification/internal/config"
	"github.com/Yash-Rathee/Blog-Notification/internal/feed"
	"github.com/Yash-Rathee/Blog-Notification/internal/notify"
	"github.com/Yash-Rathee/Blog-Notification/internal/seen"
	"github.com/Yash-Rathee/Blog-Notification/internal/telegram"
	"github.com/Yash-Rathee/Blog-Notification/internal/watch"
	"github.com/Yash-Rathee/Blog-Notification/pkg/logx"
)

const defaultConfigPath = "blognotify.yaml"

// App owns the long-lived pieces: the config manager (nil when running
// from environment variables alone), the logging service, the seen
// store and the notify pipeline built on top of it.
type App struct {
	mgr  *config.Manager
	logs *logx.Service
	root logx.Logger
	log  logx.Logger

	store seen.Store

	mu      sync.Mutex
	cfg     *config.Config
	fetcher *feed.Fetcher
	sender  *telegram.Sender
	runner  *notify.Runner

	watch *watch.Service
}

// New builds the application from the config file at cfgPath. An empty
// cfgPath falls back to ./blognotify.yaml when that file exists, and to
// environment variables alone otherwise. An explicit path that cannot
// be read is an error.
func New(cfgPath string) (*App, error) {
	if cfgPath == "" {
		if _, err := os.Stat(defaultConfigPath); err == nil {
			cfgPath = defaultConfigPath
		}
	}

	var (
		mgr *config.Manager
		cfg *config.Config
		err error
	)
	if cfgPath != "" {
		mgr = config.NewManager(cfgPath)
		cfg, err = mgr.Load()
		if err != nil {
			return nil, err
		}
	} else {
		cfg = config.FromEnv()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logs, root := logx.New(mapLoggingConfig(cfg))
	a := &App{
		mgr:  mgr,
		logs: logs,
		root: root,
		log:  root.With(logx.String("comp", "app")),
		cfg:  cfg,
	}

	if err := a.openStore(cfg); err != nil {
		_ = logs.Close()
		return nil, err
	}
	if err := a.applyPipeline(cfg); err != nil {
		_ = a.store.Close()
		_ = logs.Close()
		return nil, err
	}

	if cfgPath != "" {
		a.log.Info("config loaded", logx.String("path", cfgPath))
	} else {
		a.log.Info("no config file, using environment variables")
	}
	return a, nil
}

// compLog hands out a component-scoped logger. logx swaps the sink on
// Apply, so derived loggers stay valid across logging reloads.
func (a *App) compLog(name string) logx.Logger {
	return a.root.With(logx.String("comp", name))
}

func (a *App) openStore(cfg *config.Config) error {
	scfg, err := mapStateConfig(cfg)
	if err != nil {
		return err
	}
	store, err := seen.Open(scfg, a.compLog("state"))
	if err != nil {
		return err
	}
	a.store = store
	return nil
}

// applyPipeline rebuilds the fetcher, sender and runner from cfg and
// swaps them in. The seen store is kept; changing the state section
// needs a restart.
func (a *App) applyPipeline(cfg *config.Config) error {
	fcfg, err := mapFeedConfig(cfg)
	if err != nil {
		return err
	}
	tcfg, err := mapTelegramConfig(cfg)
	if err != nil {
		return err
	}

	fetcher := feed.NewFetcher(fcfg, a.compLog("feed"))
	sender, err := telegram.New(tcfg, a.compLog("telegram"))
	if err != nil {
		return err
	}
	runner := notify.New(notify.Config{FeedURL: cfg.Feed.URL}, fetcher, a.store, sender, a.compLog("notify"))

	a.mu.Lock()
	a.cfg = cfg
	a.fetcher = fetcher
	a.sender = sender
	a.runner = runner
	a.mu.Unlock()
	return nil
}

// RunOnce performs a single fetch/notify/persist cycle.
func (a *App) RunOnce(ctx context.Context) (notify.Report, error) {
	a.mu.Lock()
	runner := a.runner
	a.mu.Unlock()

	rep, err := runner.Run(ctx)
	if err != nil {
		return rep, err
	}
	a.log.Info("run complete",
		logx.Int("fetched", rep.Fetched),
		logx.Int("new", rep.New),
		logx.Int("sent", rep.Sent),
		logx.Duration("took", rep.Took))
	return rep, nil
}

// StartWatch runs the notifier on the configured schedule until ctx is
// cancelled. When a config file is in use it is watched for changes and
// most sections apply without a restart.
func (a *App) StartWatch(ctx context.Context) error {
	a.watch = watch.New(a.runJob, a.compLog("watch"))

	if a.mgr != nil {
		a.mgr.SetLogger(a.compLog("config"))
		a.mgr.SetValidator(func(cfg *config.Config) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			_, err := watch.ParseSchedule(cfg.Schedule())
			return err
		})
		go func() { _ = a.mgr.Watch(ctx) }()
		go a.reloadLoop(ctx)
	}

	return a.watch.Start(ctx, a.schedule())
}

// Stop shuts the schedule loop down and releases the store and logger.
func (a *App) Stop(ctx context.Context) error {
	if a.watch != nil {
		if err := a.watch.Stop(ctx); err != nil {
			a.log.Warn("watch stop", logx.Err(err))
		}
	}
	var firstErr error
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			firstErr = err
		}
	}
	if a.logs != nil {
		if err := a.logs.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Log exposes the app logger so main can report fatal errors through
// the same sink.
func (a *App) Log() logx.Logger { return a.log }

func (a *App) runJob(ctx context.Context) error {
	_, err := a.RunOnce(ctx)
	return err
}

func (a *App) schedule() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg.Schedule()
}
