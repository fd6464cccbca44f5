package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Yash-Rathee/Blog-Notification/internal/feed"
	"github.com/Yash-Rathee/Blog-Notification/internal/seen"
	"github.com/Yash-Rathee/Blog-Notification/pkg/logx"
)

var (
	ErrFetch   = errors.New("notify: fetch failed")
	ErrDeliver = errors.New("notify: delivery failed")
	ErrPersist = errors.New("notify: persistence failed")
)

// Fetcher retrieves and parses the feed.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]feed.Item, error)
}

// Sender delivers one already-rendered HTML message.
type Sender interface {
	Send(ctx context.Context, html string) error
}

// SelectNew returns the items whose identity is absent from set, in feed
// order. Duplicate identities within one batch yield only the first item.
// Neither argument is mutated.
func SelectNew(set seen.Set, items []feed.Item) []feed.Item {
	fresh := make([]feed.Item, 0, len(items))
	inBatch := seen.NewSet()
	for _, it := range items {
		id, err := feed.Identity(it)
		if err != nil {
			continue
		}
		if set.Has(id) || inBatch.Has(id) {
			continue
		}
		inBatch.Add(id)
		fresh = append(fresh, it)
	}
	return fresh
}

// Config configures a notifier run.
type Config struct {
	FeedURL string
}

// Report summarizes one run for logging and exit-code decisions.
type Report struct {
	Fetched int
	New     int
	Sent    int
	Failed  int
	Took    time.Duration
}

// Runner executes notifier runs. It owns no goroutines; Run does all
// its work on the calling goroutine and returns when the run is done.
type Runner struct {
	cfg     Config
	fetcher Fetcher
	store   seen.Store
	sender  Sender
	log     logx.Logger
}

func New(cfg Config, f Fetcher, store seen.Store, sender Sender, log logx.Logger) *Runner {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Runner{cfg: cfg, fetcher: f, store: store, sender: sender, log: log}
}

// Run performs one fetch-select-send-persist cycle.
//
// A fetch or load failure aborts before any message goes out and leaves
// the stored set untouched. Send failures are logged and skipped so one
// bad item cannot block the rest of the batch; the failed item stays
// outside the seen-set and is retried next run. The updated set is
// persisted at the end of every run that got as far as selection.
func (r *Runner) Run(ctx context.Context) (Report, error) {
	start := time.Now()
	var rep Report

	loaded, err := r.store.Load(ctx)
	if err != nil {
		return rep, fmt.Errorf("%w: %w", ErrPersist, err)
	}

	items, err := r.fetcher.Fetch(ctx, r.cfg.FeedURL)
	if err != nil {
		return rep, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	rep.Fetched = len(items)

	fresh := SelectNew(loaded, items)
	rep.New = len(fresh)
	r.log.Info("feed checked",
		logx.String("url", r.cfg.FeedURL),
		logx.Int("items", rep.Fetched),
		logx.Int("new", rep.New))

	working := loaded.Clone()
	for _, it := range fresh {
		id, err := feed.Identity(it)
		if err != nil {
			continue
		}
		if err := r.sender.Send(ctx, RenderItem(it)); err != nil {
			rep.Failed++
			r.log.Error("send failed",
				logx.String("id", id),
				logx.String("title", it.Title),
				logx.Err(err))
			if ctx.Err() != nil {
				break
			}
			continue
		}
		working.Add(id)
		rep.Sent++
		r.log.Info("announced",
			logx.String("id", id),
			logx.String("title", it.Title))
	}

	if err := r.store.Save(ctx, working); err != nil {
		rep.Took = time.Since(start)
		return rep, fmt.Errorf("%w: %w", ErrPersist, err)
	}

	rep.Took = time.Since(start)
	if rep.Failed > 0 {
		return rep, fmt.Errorf("%w: %d of %d new items", ErrDeliver, rep.Failed, rep.New)
	}
	return rep, nil
}
