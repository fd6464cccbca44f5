// Package watch runs the notifier on a schedule.
//
// A schedule is either a cron expression or a fixed interval (see
// ParseSchedule). The job runs once at startup and then on every tick;
// ticks that arrive while a run is still in progress are skipped, never
// queued. When running under systemd the service reports readiness and
// feeds the watchdog.
package watch
