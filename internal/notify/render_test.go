package notify

import (
	"strings"
	"testing"
	"time"

	"github.com/Yash-Rathee/Blog-Notification/internal/feed"
)

func TestRenderItemFull(t *testing.T) {
	t.Parallel()
	it := feed.Item{
		Title:     "Hello <World>",
		Link:      "https://blog.example.com/p?a=1&b=2",
		Summary:   "A short summary.",
		Published: time.Date(2025, 6, 2, 10, 30, 0, 0, time.UTC),
	}
	got := RenderItem(it)
	want := "<b>Hello &lt;World&gt;</b>\n\n" +
		"<i>Mon, 02 Jun 2025 10:30 UTC</i>\n\n" +
		"A short summary.\n\n" +
		`<a href="https://blog.example.com/p?a=1&amp;b=2">🔗 Open post</a>`
	if got != want {
		t.Fatalf("RenderItem =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderItemOmitsBlankParts(t *testing.T) {
	t.Parallel()
	got := RenderItem(feed.Item{Title: "Only title"})
	if got != "<b>Only title</b>" {
		t.Fatalf("RenderItem = %q", got)
	}
	if strings.Contains(got, "\n\n\n") {
		t.Fatalf("blank parts left gaps: %q", got)
	}
}

func TestRenderItemUntitled(t *testing.T) {
	t.Parallel()
	got := RenderItem(feed.Item{Link: "https://x.example/p"})
	if !strings.HasPrefix(got, "<b>(untitled)</b>") {
		t.Fatalf("RenderItem = %q, want untitled placeholder", got)
	}
}

func TestRenderItemTruncatesSummary(t *testing.T) {
	t.Parallel()
	it := feed.Item{Title: "T", Summary: strings.Repeat("ы", 500)}
	got := RenderItem(it)
	if strings.Count(got, "ы") != summaryMaxRunes {
		t.Fatalf("summary runes = %d, want %d", strings.Count(got, "ы"), summaryMaxRunes)
	}
	if !strings.Contains(got, "…") {
		t.Fatalf("truncated summary missing ellipsis: %q", got)
	}
}

func TestRenderItemEscapesSummaryMarkup(t *testing.T) {
	t.Parallel()
	got := RenderItem(feed.Item{Title: "T", Summary: `x < y & "z"`})
	if !strings.Contains(got, "x &lt; y &amp; &#34;z&#34;") {
		t.Fatalf("summary not escaped: %q", got)
	}
}
