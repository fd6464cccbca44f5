package notify

import (
	"strings"

	"github.com/Yash-Rathee/Blog-Notification/internal/feed"
	"github.com/Yash-Rathee/Blog-Notification/pkg/tghtml"
)

const (
	summaryMaxRunes = 300
	publishedLayout = "Mon, 02 Jan 2006 15:04 MST"
)

// RenderItem builds the Telegram HTML body announcing one feed item:
// bold title, italic publish date, trimmed summary, and a link anchor.
// Blank fields are omitted rather than rendered empty.
func RenderItem(it feed.Item) string {
	title := strings.TrimSpace(it.Title)
	if title == "" {
		title = "(untitled)"
	}

	parts := []tghtml.H{tghtml.B(title)}
	if !it.Published.IsZero() {
		parts = append(parts, tghtml.I(it.Published.Format(publishedLayout)))
	}
	if s := strings.TrimSpace(it.Summary); s != "" {
		parts = append(parts, tghtml.Esc(tghtml.TruncRunes(s, summaryMaxRunes)))
	}
	if it.Link != "" {
		parts = append(parts, tghtml.Link("🔗 Open post", it.Link))
	}
	return string(tghtml.JoinH("\n\n", parts...))
}
