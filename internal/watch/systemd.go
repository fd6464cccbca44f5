package watch

import (
	"context"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"

	"github.com/Yash-Rathee/Blog-Notification/pkg/logx"
)

// notifyReady reports readiness for Type=notify units. Outside systemd
// (no NOTIFY_SOCKET) it is a no-op.
func notifyReady(log logx.Logger) {
	sent, err := daemon.SdNotify(false, daemon.SdNotifyReady)
	if err != nil {
		log.Debug("sd_notify ready failed", logx.Err(err))
		return
	}
	if sent {
		log.Debug("sd_notify ready sent")
	}
}

func notifyStopping(log logx.Logger) {
	if _, err := daemon.SdNotify(false, daemon.SdNotifyStopping); err != nil {
		log.Debug("sd_notify stopping failed", logx.Err(err))
	}
}

// runWatchdog feeds the systemd watchdog at half the configured
// interval. It returns immediately when no watchdog is armed.
func runWatchdog(ctx context.Context, log logx.Logger) {
	interval, err := daemon.SdWatchdogEnabled(false)
	if err != nil {
		log.Debug("watchdog detection failed", logx.Err(err))
		return
	}
	if interval <= 0 {
		return
	}

	t := time.NewTicker(interval / 2)
	defer t.Stop()
	log.Debug("watchdog heartbeat started", logx.Duration("interval", interval/2))
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if _, err := daemon.SdNotify(false, daemon.SdNotifyWatchdog); err != nil {
				log.Warn("watchdog notify failed", logx.Err(err))
			}
		}
	}
}
