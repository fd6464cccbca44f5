package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
)

// Config is the full notifier configuration.
//
// It can be loaded from a YAML or JSON file, from environment variables,
// or both (environment wins). All durations are Go duration strings
// (e.g. "500ms", "15s", "30m").
type Config struct {
	Feed     FeedConfig     `json:"feed"`
	Telegram TelegramConfig `json:"telegram"`
	State    StateConfig    `json:"state"`
	Logging  LoggingConfig  `json:"logging"`
	Watch    WatchConfig    `json:"watch,omitempty"`
}

type FeedConfig struct {
	URL string `json:"url"`
	// Timeout bounds the whole fetch (connect + read). Default "15s".
	Timeout   string `json:"timeout,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
}

// TelegramConfig holds delivery settings.
//
// Chat accepts a numeric chat ID or a public "@channel" name.
type TelegramConfig struct {
	Token          string  `json:"token"`
	Chat           string  `json:"chat"`
	MessagesPerSec float64 `json:"messages_per_sec,omitempty"`
	DisablePreview bool    `json:"disable_preview,omitempty"`
	Timeout        string  `json:"timeout,omitempty"`
}

// StateConfig controls seen-set persistence.
//
// Driver values: "file" (default) or "sqlite".
type StateConfig struct {
	Driver      string `json:"driver,omitempty"`
	Path        string `json:"path,omitempty"`
	BusyTimeout string `json:"busy_timeout,omitempty"` // sqlite only
}

type LoggingConfig struct {
	Level string `json:"level"`
	// Console is a pointer so "omitted" (default true) is distinguishable
	// from an explicit false.
	Console *bool       `json:"console,omitempty"`
	File    LoggingFile `json:"file"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// WatchConfig controls scheduled mode (-watch).
//
// Schedule accepts a Go duration ("30m"), an "interval:30m" form, or a
// cron expression ("cron:*/30 * * * *" or a bare 5-field spec).
type WatchConfig struct {
	Schedule string `json:"schedule,omitempty"`
}

const (
	defaultStatePath = "./seen_items.json"
	defaultSchedule  = "30m"
)

// Default returns the configuration used when a section is omitted.
func Default() *Config {
	return &Config{
		State:   StateConfig{Driver: "file", Path: defaultStatePath},
		Logging: LoggingConfig{Level: "info"},
		Watch:   WatchConfig{Schedule: defaultSchedule},
	}
}

// FromEnv returns the default configuration with environment overrides
// applied. It is used when no config file is given.
func FromEnv() *Config {
	cfg := Default()
	applyEnv(cfg)
	return cfg
}

// applyEnv overlays the well-known environment variables. Environment
// always wins over file values so tokens can stay out of config files.
func applyEnv(cfg *Config) {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.Token = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.Chat = v
	}
	if v := os.Getenv("RSS_URL"); v != "" {
		cfg.Feed.URL = v
	}
	if v := os.Getenv("STATE_FILE"); v != "" {
		cfg.State.Path = v
	}
}

// ConsoleEnabled resolves the Console pointer (nil means true).
func (c *Config) ConsoleEnabled() bool {
	return c.Logging.Console == nil || *c.Logging.Console
}

// Schedule returns the watch schedule, falling back to the default.
func (c *Config) Schedule() string {
	if s := strings.TrimSpace(c.Watch.Schedule); s != "" {
		return s
	}
	return defaultSchedule
}

// StatePath returns the state file path, falling back to the default.
func (c *Config) StatePath() string {
	if p := strings.TrimSpace(c.State.Path); p != "" {
		return p
	}
	return defaultStatePath
}

// Validate checks everything a run needs up front, so a bad config
// fails at startup instead of mid-run.
func (c *Config) Validate() error {
	feedURL := strings.TrimSpace(c.Feed.URL)
	if feedURL == "" {
		return errors.New("feed.url is required (or set RSS_URL)")
	}
	u, err := url.Parse(feedURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("feed.url %q is not an http(s) URL", feedURL)
	}

	if strings.TrimSpace(c.Telegram.Token) == "" {
		return errors.New("telegram.token is required (or set TELEGRAM_BOT_TOKEN)")
	}
	if strings.TrimSpace(c.Telegram.Chat) == "" {
		return errors.New("telegram.chat is required (or set TELEGRAM_CHAT_ID)")
	}
	if c.Telegram.MessagesPerSec < 0 {
		return errors.New("telegram.messages_per_sec must be >= 0")
	}

	switch d := strings.ToLower(strings.TrimSpace(c.State.Driver)); d {
	case "", "file", "sqlite", "sqlite3":
	default:
		return fmt.Errorf("state.driver %q is not supported", d)
	}

	for _, f := range []struct{ path, raw string }{
		{"feed.timeout", c.Feed.Timeout},
		{"telegram.timeout", c.Telegram.Timeout},
		{"state.busy_timeout", c.State.BusyTimeout},
	} {
		if _, err := ParseDurationField(f.path, f.raw); err != nil {
			return err
		}
	}
	return nil
}
