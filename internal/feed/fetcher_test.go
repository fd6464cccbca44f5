package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Yash-Rathee/Blog-Notification/pkg/logx"
)

const rssFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Example Blog</title>
  <link>https://blog.example.com</link>
  <item>
    <guid>urn:post:42</guid>
    <title>Hello, world</title>
    <link>https://blog.example.com/hello</link>
    <description>&lt;p&gt;First &lt;b&gt;post&lt;/b&gt;.&lt;/p&gt;</description>
    <pubDate>Mon, 02 Jun 2025 10:30:00 GMT</pubDate>
  </item>
  <item>
    <title>No GUID here</title>
    <link>https://blog.example.com/second</link>
    <description>Second post.</description>
  </item>
</channel>
</rss>`

func newTestFetcher(t *testing.T) *Fetcher {
	t.Helper()
	return NewFetcher(Config{Timeout: 5 * time.Second}, logx.Nop())
}

func TestFetchParsesRSS(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(rssFixture))
	}))
	defer srv.Close()

	items, err := newTestFetcher(t).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}

	first := items[0]
	if first.GUID != "urn:post:42" {
		t.Errorf("GUID = %q, want urn:post:42", first.GUID)
	}
	if first.Title != "Hello, world" {
		t.Errorf("Title = %q", first.Title)
	}
	if first.Link != "https://blog.example.com/hello" {
		t.Errorf("Link = %q", first.Link)
	}
	if first.Summary != "First post." {
		t.Errorf("Summary = %q, want HTML stripped", first.Summary)
	}
	want := time.Date(2025, 6, 2, 10, 30, 0, 0, time.UTC)
	if !first.Published.Equal(want) {
		t.Errorf("Published = %v, want %v", first.Published, want)
	}

	if items[1].GUID != "" || items[1].Link == "" {
		t.Errorf("second item = %+v, want link-only identity", items[1])
	}
}

func TestFetchSetsUserAgent(t *testing.T) {
	t.Parallel()
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(rssFixture))
	}))
	defer srv.Close()

	if _, err := newTestFetcher(t).Fetch(context.Background(), srv.URL); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !strings.HasPrefix(gotUA, "blognotify/") {
		t.Fatalf("User-Agent = %q, want blognotify prefix", gotUA)
	}
}

func TestFetchRejectsNon200(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	_, err := newTestFetcher(t).Fetch(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected error for HTTP 410")
	}
	if !strings.Contains(err.Error(), "410") {
		t.Fatalf("err = %v, want status code mentioned", err)
	}
}

func TestFetchRejectsMalformedFeed(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("this is not a feed"))
	}))
	defer srv.Close()

	if _, err := newTestFetcher(t).Fetch(context.Background(), srv.URL); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestFetchSkipsItemsWithoutIdentity(t *testing.T) {
	t.Parallel()
	const fixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Sparse</title>
  <item><title>Kept</title></item>
  <item></item>
</channel>
</rss>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(fixture))
	}))
	defer srv.Close()

	items, err := newTestFetcher(t).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1 (empty item skipped)", len(items))
	}
	if items[0].Title != "Kept" {
		t.Fatalf("Title = %q, want Kept", items[0].Title)
	}
}

func TestFetchContextCancellation(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newTestFetcher(t).Fetch(ctx, srv.URL); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}
