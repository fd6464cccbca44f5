package notify

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Yash-Rathee/Blog-Notification/internal/feed"
	"github.com/Yash-Rathee/Blog-Notification/internal/seen"
	"github.com/Yash-Rathee/Blog-Notification/pkg/logx"
)

type fakeFetcher struct {
	items []feed.Item
	err   error
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) ([]feed.Item, error) {
	return f.items, f.err
}

type fakeSender struct {
	sent         []string
	failContains string
}

func (s *fakeSender) Send(_ context.Context, html string) error {
	if s.failContains != "" && strings.Contains(html, s.failContains) {
		return errors.New("telegram unreachable")
	}
	s.sent = append(s.sent, html)
	return nil
}

type failSaveStore struct {
	seen.Store
}

func (failSaveStore) Save(context.Context, seen.Set) error {
	return errors.New("disk full")
}

func testStore(t *testing.T) seen.Store {
	t.Helper()
	st, err := seen.Open(seen.Config{Path: filepath.Join(t.TempDir(), "seen.json")}, logx.Nop())
	if err != nil {
		t.Fatalf("seen.Open: %v", err)
	}
	return st
}

func testItems() []feed.Item {
	return []feed.Item{
		{GUID: "p1", Title: "One", Link: "https://x.example/1"},
		{GUID: "p2", Title: "Two", Link: "https://x.example/2"},
		{GUID: "p3", Title: "Three", Link: "https://x.example/3"},
	}
}

func newTestRunner(f Fetcher, st seen.Store, snd Sender) *Runner {
	return New(Config{FeedURL: "https://x.example/feed"}, f, st, snd, logx.Nop())
}

func TestSelectNew(t *testing.T) {
	items := []feed.Item{
		{GUID: "a", Title: "A"},
		{GUID: "b", Title: "B"},
		{GUID: "a", Title: "A again"},
		{Title: ""}, // no identity
		{GUID: "c", Title: "C"},
	}
	set := seen.NewSet("b")

	fresh := SelectNew(set, items)
	if len(fresh) != 2 {
		t.Fatalf("len(fresh) = %d, want 2", len(fresh))
	}
	if fresh[0].GUID != "a" || fresh[1].GUID != "c" {
		t.Fatalf("fresh order = %q, %q; want a, c", fresh[0].GUID, fresh[1].GUID)
	}
	if set.Len() != 1 {
		t.Fatalf("SelectNew mutated its input set: %v", set.Sorted())
	}
}

func TestRunFirstTime(t *testing.T) {
	st := testStore(t)
	snd := &fakeSender{}
	r := newTestRunner(&fakeFetcher{items: testItems()}, st, snd)

	rep, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rep.Fetched != 3 || rep.New != 3 || rep.Sent != 3 || rep.Failed != 0 {
		t.Fatalf("report = %+v", rep)
	}
	if len(snd.sent) != 3 {
		t.Fatalf("sent %d messages, want 3", len(snd.sent))
	}
	// Feed order, not alphabetical.
	if !strings.Contains(snd.sent[0], "One") || !strings.Contains(snd.sent[2], "Three") {
		t.Fatalf("messages out of feed order: %v", snd.sent)
	}

	got, err := st.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, id := range []string{"p1", "p2", "p3"} {
		if !got.Has(id) {
			t.Fatalf("persisted set missing %q: %v", id, got.Sorted())
		}
	}
}

func TestRunSteadyState(t *testing.T) {
	st := testStore(t)
	snd := &fakeSender{}
	r := newTestRunner(&fakeFetcher{items: testItems()}, st, snd)
	ctx := context.Background()

	if _, err := r.Run(ctx); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	rep, err := r.Run(ctx)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if rep.New != 0 || rep.Sent != 0 {
		t.Fatalf("steady-state report = %+v, want nothing new", rep)
	}
	if len(snd.sent) != 3 {
		t.Fatalf("second run re-sent items: %d messages total", len(snd.sent))
	}
}

func TestRunPicksUpOnlyNewItems(t *testing.T) {
	st := testStore(t)
	snd := &fakeSender{}
	f := &fakeFetcher{items: testItems()[:1]}
	r := newTestRunner(f, st, snd)
	ctx := context.Background()

	if _, err := r.Run(ctx); err != nil {
		t.Fatalf("first Run: %v", err)
	}

	f.items = testItems() // two more appeared
	rep, err := r.Run(ctx)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if rep.New != 2 || rep.Sent != 2 {
		t.Fatalf("report = %+v, want 2 new", rep)
	}
	if len(snd.sent) != 3 {
		t.Fatalf("total sent = %d, want 3", len(snd.sent))
	}
}

func TestRunSendFailureIsRetriedNextRun(t *testing.T) {
	st := testStore(t)
	snd := &fakeSender{failContains: "Two"}
	r := newTestRunner(&fakeFetcher{items: testItems()}, st, snd)
	ctx := context.Background()

	rep, err := r.Run(ctx)
	if !errors.Is(err, ErrDeliver) {
		t.Fatalf("err = %v, want ErrDeliver", err)
	}
	if rep.Sent != 2 || rep.Failed != 1 {
		t.Fatalf("report = %+v, want 2 sent 1 failed", rep)
	}

	got, err := st.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Has("p2") {
		t.Fatalf("failed item must not be persisted as seen")
	}
	if !got.Has("p1") || !got.Has("p3") {
		t.Fatalf("delivered items missing from persisted set: %v", got.Sorted())
	}

	// Telegram recovers; only the failed item goes out.
	snd.failContains = ""
	rep, err = r.Run(ctx)
	if err != nil {
		t.Fatalf("retry Run: %v", err)
	}
	if rep.Sent != 1 {
		t.Fatalf("retry report = %+v, want exactly 1 sent", rep)
	}
	if !strings.Contains(snd.sent[len(snd.sent)-1], "Two") {
		t.Fatalf("retry sent the wrong item: %q", snd.sent[len(snd.sent)-1])
	}
}

func TestRunFetchFailureLeavesStateUntouched(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	if err := st.Save(ctx, seen.NewSet("keep")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	snd := &fakeSender{}
	r := newTestRunner(&fakeFetcher{err: errors.New("HTTP 503")}, st, snd)

	_, err := r.Run(ctx)
	if !errors.Is(err, ErrFetch) {
		t.Fatalf("err = %v, want ErrFetch", err)
	}
	if len(snd.sent) != 0 {
		t.Fatalf("messages sent despite fetch failure")
	}
	got, err := st.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Len() != 1 || !got.Has("keep") {
		t.Fatalf("state changed after failed fetch: %v", got.Sorted())
	}
}

func TestRunPersistFailureReported(t *testing.T) {
	st := failSaveStore{Store: testStore(t)}
	snd := &fakeSender{}
	r := newTestRunner(&fakeFetcher{items: testItems()[:1]}, st, snd)

	rep, err := r.Run(context.Background())
	if !errors.Is(err, ErrPersist) {
		t.Fatalf("err = %v, want ErrPersist", err)
	}
	if rep.Sent != 1 {
		t.Fatalf("report = %+v, message went out before the save failed", rep)
	}
}

func TestRunEmptyFeedStillPersists(t *testing.T) {
	st := testStore(t)
	snd := &fakeSender{}
	r := newTestRunner(&fakeFetcher{}, st, snd)

	rep, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rep.Fetched != 0 || rep.Sent != 0 {
		t.Fatalf("report = %+v", rep)
	}
	got, err := st.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Len() != 0 {
		t.Fatalf("expected empty persisted set, got %v", got.Sorted())
	}
}
