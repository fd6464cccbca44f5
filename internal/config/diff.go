package config

import (
	"strings"

	"github.com/Yash-Rathee/Blog-Notification/pkg/logx"
)

// SummarizeChange returns the sections that differ between two configs
// plus safe structured attrs for logging. Secrets (the bot token) are
// reported as present/absent, never by value.
func SummarizeChange(oldCfg, newCfg *Config) ([]string, []logx.Field) {
	if oldCfg == nil {
		oldCfg = &Config{}
	}
	if newCfg == nil {
		newCfg = &Config{}
	}

	changed := make([]string, 0, 5)
	attrs := make([]logx.Field, 0, 10)

	if strings.TrimSpace(oldCfg.Feed.URL) != strings.TrimSpace(newCfg.Feed.URL) ||
		strings.TrimSpace(oldCfg.Feed.Timeout) != strings.TrimSpace(newCfg.Feed.Timeout) ||
		strings.TrimSpace(oldCfg.Feed.UserAgent) != strings.TrimSpace(newCfg.Feed.UserAgent) {
		changed = append(changed, "feed")
		attrs = append(attrs,
			logx.String("feed.url", strings.TrimSpace(newCfg.Feed.URL)),
			logx.String("feed.timeout", strings.TrimSpace(newCfg.Feed.Timeout)),
		)
	}

	if strings.TrimSpace(oldCfg.Telegram.Token) != strings.TrimSpace(newCfg.Telegram.Token) ||
		strings.TrimSpace(oldCfg.Telegram.Chat) != strings.TrimSpace(newCfg.Telegram.Chat) ||
		oldCfg.Telegram.MessagesPerSec != newCfg.Telegram.MessagesPerSec ||
		oldCfg.Telegram.DisablePreview != newCfg.Telegram.DisablePreview ||
		strings.TrimSpace(oldCfg.Telegram.Timeout) != strings.TrimSpace(newCfg.Telegram.Timeout) {
		changed = append(changed, "telegram")
		attrs = append(attrs,
			logx.Bool("telegram.token_set", strings.TrimSpace(newCfg.Telegram.Token) != ""),
			logx.String("telegram.chat", strings.TrimSpace(newCfg.Telegram.Chat)),
		)
	}

	if strings.TrimSpace(oldCfg.State.Driver) != strings.TrimSpace(newCfg.State.Driver) ||
		strings.TrimSpace(oldCfg.State.Path) != strings.TrimSpace(newCfg.State.Path) ||
		strings.TrimSpace(oldCfg.State.BusyTimeout) != strings.TrimSpace(newCfg.State.BusyTimeout) {
		changed = append(changed, "state")
		attrs = append(attrs,
			logx.String("state.driver", strings.TrimSpace(newCfg.State.Driver)),
			logx.String("state.path", newCfg.StatePath()),
		)
	}

	if oldCfg.Logging.Level != newCfg.Logging.Level ||
		oldCfg.ConsoleEnabled() != newCfg.ConsoleEnabled() ||
		oldCfg.Logging.File.Enabled != newCfg.Logging.File.Enabled ||
		strings.TrimSpace(oldCfg.Logging.File.Path) != strings.TrimSpace(newCfg.Logging.File.Path) {
		changed = append(changed, "logging")
		attrs = append(attrs,
			logx.String("logging.level", newCfg.Logging.Level),
			logx.Bool("logging.console", newCfg.ConsoleEnabled()),
			logx.Bool("logging.file_enabled", newCfg.Logging.File.Enabled),
		)
	}

	if oldCfg.Schedule() != newCfg.Schedule() {
		changed = append(changed, "watch")
		attrs = append(attrs, logx.String("watch.schedule", newCfg.Schedule()))
	}

	return changed, attrs
}
