package app

import (
	"context"
	"slices"
	"strings"

	"github.com/Yash-Rathee/Blog-Notification/internal/config"
	"github.com/Yash-Rathee/Blog-Notification/pkg/logx"
)

// reloadLoop consumes validated configs from the manager and applies
// them to the running services. Bursts are coalesced so only the
// newest config is applied.
func (a *App) reloadLoop(ctx context.Context) {
	sub := a.mgr.Subscribe(8)
	defer a.mgr.Unsubscribe(sub)

	last := a.mgr.Get()
	for {
		var cfg *config.Config
		select {
		case <-ctx.Done():
			return
		case c, ok := <-sub:
			if !ok {
				return
			}
			cfg = c
		}
	drain:
		for {
			select {
			case c, ok := <-sub:
				if !ok {
					break drain
				}
				if c != nil {
					cfg = c
				}
			default:
				break drain
			}
		}
		if cfg == nil {
			continue
		}

		changed, attrs := config.SummarizeChange(last, cfg)
		if len(changed) == 0 {
			a.log.Debug("config reloaded with no effective changes")
			last = cfg
			continue
		}
		fields := append([]logx.Field{logx.String("changed", strings.Join(changed, ","))}, attrs...)
		a.log.Info("applying config changes", fields...)
		last = cfg
		a.applyReload(ctx, cfg, changed)
	}
}

func (a *App) applyReload(ctx context.Context, cfg *config.Config, changed []string) {
	if slices.Contains(changed, "logging") {
		a.logs.Apply(mapLoggingConfig(cfg))
	}
	if slices.Contains(changed, "state") {
		a.log.Warn("state config changed; restart required for it to take effect")
	}
	if slices.Contains(changed, "feed") || slices.Contains(changed, "telegram") {
		if err := a.applyPipeline(cfg); err != nil {
			a.log.Warn("new pipeline config rejected, keeping previous", logx.Err(err))
		}
	} else {
		a.mu.Lock()
		a.cfg = cfg
		a.mu.Unlock()
	}
	if slices.Contains(changed, "watch") {
		if err := a.watch.Apply(ctx, cfg.Schedule()); err != nil {
			a.log.Warn("new schedule rejected, keeping previous", logx.Err(err))
		}
	}
}
