// Package telegram delivers rendered notifications to a single chat.
//
// The sender is outbound-only: no poller, no update handlers. Messages
// over Telegram's length limit are split on newline boundaries and sent
// as consecutive chunks, throttled by a shared rate limiter.
package telegram

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
	tele "gopkg.in/telebot.v4"

	"github.com/Yash-Rathee/Blog-Notification/pkg/logx"
)

const textLimit = 4000

// Config configures the sender.
//
// Chat accepts a numeric chat ID ("-1001234567890") or a public channel
// name ("@mychannel"), exactly as Telegram's sendMessage does.
type Config struct {
	Token          string
	Chat           string
	MessagesPerSec float64
	DisablePreview bool
	Timeout        time.Duration
}

// recipient satisfies tele.Recipient for both ID and @name chats.
type recipient string

func (r recipient) Recipient() string { return string(r) }

type Sender struct {
	bot     *tele.Bot
	to      recipient
	limiter *rate.Limiter
	preview bool
	log     logx.Logger
}

// New validates the token against the Bot API (getMe) and returns a
// ready sender.
func New(cfg Config, log logx.Logger) (*Sender, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("telegram token is empty")
	}
	chat := strings.TrimSpace(cfg.Chat)
	if chat == "" {
		return nil, errors.New("telegram chat is empty")
	}
	if log.IsZero() {
		log = logx.Nop()
	}

	perSec := cfg.MessagesPerSec
	if perSec <= 0 {
		perSec = 1
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	b, err := tele.NewBot(tele.Settings{
		Token:  cfg.Token,
		Client: &http.Client{Timeout: timeout},
	})
	if err != nil {
		return nil, err
	}

	return &Sender{
		bot:     b,
		to:      recipient(chat),
		limiter: rate.NewLimiter(rate.Limit(perSec), 1),
		preview: !cfg.DisablePreview,
		log:     log,
	}, nil
}

// Send delivers one HTML message, splitting it into multiple Telegram
// messages when it exceeds the length limit. It blocks on the rate
// limiter between chunks and returns the first delivery error.
func (s *Sender) Send(ctx context.Context, html string) error {
	for _, chunk := range splitText(html, textLimit) {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
		opt := &tele.SendOptions{
			ParseMode:             tele.ModeHTML,
			DisableWebPagePreview: !s.preview,
		}
		if _, err := s.bot.Send(s.to, chunk, opt); err != nil {
			return err
		}
	}
	return nil
}

// splitText splits long messages into chunks that are safe to send to
// Telegram. It prefers newline boundaries and avoids cutting inside an
// HTML tag.
func splitText(s string, limit int) []string {
	if limit <= 0 {
		limit = textLimit
	}
	rs := []rune(s)
	if len(rs) <= limit {
		return []string{s}
	}

	out := make([]string, 0, (len(rs)+limit-1)/limit)
	start := 0
	for start < len(rs) {
		end := start + limit
		if end > len(rs) {
			end = len(rs)
		}

		// Prefer splitting on a newline near the end of the window.
		if end < len(rs) {
			cut := -1
			for i := end - 1; i > start; i-- {
				if rs[i] == '\n' {
					if i-start >= limit/3 {
						cut = i + 1
						break
					}
				}
			}
			if cut != -1 {
				end = cut
			}
		}

		// Don't leave a dangling "<b" at the chunk boundary.
		if end < len(rs) {
			lastOpen := -1
			lastClose := -1
			for i := start; i < end; i++ {
				if rs[i] == '<' {
					lastOpen = i
				} else if rs[i] == '>' {
					lastClose = i
				}
			}
			if lastOpen > lastClose && lastOpen > start+1 {
				end = lastOpen
			}
		}

		chunk := strings.TrimRight(string(rs[start:end]), "\n")
		if chunk != "" {
			out = append(out, chunk)
		}

		start = end
		for start < len(rs) && rs[start] == '\n' {
			start++
		}
	}
	return out
}
