package watch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/robfig/cron/v3"

	"github.com/Yash-Rathee/Blog-Notification/pkg/logx"
)

// RunFunc is one notifier run. It must respect ctx cancellation.
type RunFunc func(ctx context.Context) error

// Service triggers the job per its schedule. One run at a time: a tick
// that fires while the previous run is still going is skipped with a
// warning rather than queued behind it.
type Service struct {
	log logx.Logger
	job RunFunc

	parser cron.Parser

	mu       sync.Mutex
	c        *cron.Cron
	schedule string

	running atomic.Bool
}

func New(job RunFunc, log logx.Logger) *Service {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Service{
		log: log,
		job: job,
		parser: cron.NewParser(
			cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
		),
	}
}

// cronSpec normalizes a schedule string into a robfig/cron spec.
func cronSpec(schedule string) (string, error) {
	ps, err := ParseSchedule(schedule)
	if err != nil {
		return "", err
	}
	if ps.Kind == SpecInterval {
		return "@every " + ps.Every.String(), nil
	}
	return ps.Cron, nil
}

// Start validates the schedule, fires the job once right away, and then
// keeps triggering it until ctx is done. Under systemd it also reports
// readiness and starts the watchdog heartbeat.
func (s *Service) Start(ctx context.Context, schedule string) error {
	spec, err := cronSpec(schedule)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.c != nil {
		s.mu.Unlock()
		return errors.New("watch already started")
	}
	c := cron.New(cron.WithParser(s.parser))
	if _, err := c.AddFunc(spec, func() { s.tick(ctx) }); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("schedule %q: %w", schedule, err)
	}
	s.c = c
	s.schedule = schedule
	c.Start()
	s.mu.Unlock()

	s.log.Info("watch started", logx.String("schedule", schedule))
	notifyReady(s.log)
	go runWatchdog(ctx, s.log)
	go s.tick(ctx)
	return nil
}

// Apply swaps in a new schedule on config reload. An invalid schedule
// is rejected and the old one stays active. The in-flight run, if any,
// is left alone; the running guard covers the handover.
func (s *Service) Apply(ctx context.Context, schedule string) error {
	s.mu.Lock()
	if s.c == nil || schedule == s.schedule {
		s.mu.Unlock()
		return nil
	}
	spec, err := cronSpec(schedule)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	c := cron.New(cron.WithParser(s.parser))
	if _, err := c.AddFunc(spec, func() { s.tick(ctx) }); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("schedule %q: %w", schedule, err)
	}
	old := s.c
	s.c = c
	s.schedule = schedule
	c.Start()
	s.mu.Unlock()

	old.Stop()
	s.log.Info("schedule applied", logx.String("schedule", schedule))
	return nil
}

// Stop halts scheduling and waits for an in-flight cron run, bounded by
// ctx.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	c := s.c
	s.c = nil
	s.mu.Unlock()
	if c == nil {
		return nil
	}

	notifyStopping(s.log)
	select {
	case <-c.Stop().Done():
		s.log.Info("watch stopped")
		return nil
	case <-ctx.Done():
		s.log.Warn("watch stop grace elapsed", logx.Err(ctx.Err()))
		return ctx.Err()
	}
}

func (s *Service) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if !s.running.CompareAndSwap(false, true) {
		s.log.Warn("previous run still in progress, skipping tick")
		return
	}
	defer s.running.Store(false)

	if err := s.job(ctx); err != nil {
		s.log.Error("scheduled run failed", logx.Err(err))
	}
}
