package app

import (
	"time"

	"github.com/Yash-Rathee/Blog-Notification/internal/config"
	"github.com/Yash-Rathee/Blog-Notification/internal/feed"
	"github.com/Yash-Rathee/Blog-Notification/internal/seen"
	"github.com/Yash-Rathee/Blog-Notification/internal/telegram"
	"github.com/Yash-Rathee/Blog-Notification/pkg/logx"
)

const (
	defaultFeedTimeout = 15 * time.Second
	defaultSendTimeout = 30 * time.Second
	defaultBusyTimeout = 1 * time.Second
)

func mapFeedConfig(cfg *config.Config) (feed.Config, error) {
	timeout, err := config.ParseDurationOrDefault("feed.timeout", cfg.Feed.Timeout, defaultFeedTimeout)
	if err != nil {
		return feed.Config{}, err
	}
	return feed.Config{
		Timeout:   timeout,
		UserAgent: cfg.Feed.UserAgent,
	}, nil
}

func mapTelegramConfig(cfg *config.Config) (telegram.Config, error) {
	timeout, err := config.ParseDurationOrDefault("telegram.timeout", cfg.Telegram.Timeout, defaultSendTimeout)
	if err != nil {
		return telegram.Config{}, err
	}
	return telegram.Config{
		Token:          cfg.Telegram.Token,
		Chat:           cfg.Telegram.Chat,
		MessagesPerSec: cfg.Telegram.MessagesPerSec,
		DisablePreview: cfg.Telegram.DisablePreview,
		Timeout:        timeout,
	}, nil
}

func mapStateConfig(cfg *config.Config) (seen.Config, error) {
	busy, err := config.ParseDurationOrDefault("state.busy_timeout", cfg.State.BusyTimeout, defaultBusyTimeout)
	if err != nil {
		return seen.Config{}, err
	}
	return seen.Config{
		Driver:      cfg.State.Driver,
		Path:        cfg.StatePath(),
		BusyTimeout: busy,
	}, nil
}

func mapLoggingConfig(cfg *config.Config) logx.Config {
	return logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.ConsoleEnabled(),
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	}
}
