package feed

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/Yash-Rathee/Blog-Notification/pkg/logx"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultUserAgent = "blognotify/1.0 (+https://github.com/Yash-Rathee/Blog-Notification)"
)

// Config configures the fetcher.
//
// Timeout bounds the whole fetch (connect + read). UserAgent is sent on every
// request; some feed hosts reject the Go default.
type Config struct {
	Timeout   time.Duration
	UserAgent string
}

// Fetcher downloads and parses one feed per call. Safe for reuse across runs.
type Fetcher struct {
	parser *gofeed.Parser
	client *http.Client
	ua     string
	log    logx.Logger
}

func NewFetcher(cfg Config, log logx.Logger) *Fetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ua := strings.TrimSpace(cfg.UserAgent)
	if ua == "" {
		ua = defaultUserAgent
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Fetcher{
		parser: gofeed.NewParser(),
		client: &http.Client{Timeout: timeout},
		ua:     ua,
		log:    log,
	}
}

// Fetch downloads url and returns its items in feed order (as returned by the
// source; not guaranteed chronological). Items without a usable identity are
// dropped here with a warning. Any transport, HTTP, or parse failure is
// returned as an error; no items are produced in that case.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("feed: build request: %w", err)
	}
	req.Header.Set("User-Agent", f.ua)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed: fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed: fetch %s: HTTP %d", url, resp.StatusCode)
	}

	parsed, err := f.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("feed: parse %s: %w", url, err)
	}

	items := make([]Item, 0, len(parsed.Items))
	for _, gi := range parsed.Items {
		if gi == nil {
			continue
		}
		it := convertItem(gi)
		if _, err := Identity(it); err != nil {
			f.log.Warn("skipping item without identity", logx.String("title", it.Title))
			continue
		}
		items = append(items, it)
	}
	return items, nil
}

func convertItem(gi *gofeed.Item) Item {
	summary := gi.Description
	if summary == "" {
		summary = gi.Content
	}

	var published time.Time
	if gi.PublishedParsed != nil {
		published = *gi.PublishedParsed
	} else if gi.UpdatedParsed != nil {
		published = *gi.UpdatedParsed
	}

	return Item{
		GUID:      gi.GUID,
		Title:     strings.TrimSpace(gi.Title),
		Link:      strings.TrimSpace(gi.Link),
		Summary:   stripHTML(summary),
		Published: published,
	}
}

var (
	tagRe   = regexp.MustCompile(`<[^>]*>`)
	spaceRe = regexp.MustCompile(`\s+`)

	entityReplacer = strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
		"&apos;", "'",
	)
)

// stripHTML reduces feed-provided rich text to a single plain-text line.
func stripHTML(s string) string {
	s = tagRe.ReplaceAllString(s, "")
	s = entityReplacer.Replace(s)
	s = spaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
