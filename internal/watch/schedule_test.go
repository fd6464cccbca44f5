package watch

import (
	"testing"
	"time"
)

func TestParseScheduleVariants(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		raw      string
		kind     SpecKind
		source   string
		duration time.Duration
	}{
		{name: "cron", raw: "*/30 * * * *", kind: SpecCron, source: "cron"},
		{name: "prefixed cron", raw: "cron:0 9 * * *", kind: SpecCron, source: "cron"},
		{name: "descriptor", raw: "@hourly", kind: SpecCron, source: "cron"},
		{name: "duration", raw: "30m", kind: SpecInterval, source: "duration", duration: 30 * time.Minute},
		{name: "prefixed interval", raw: "interval:45s", kind: SpecInterval, source: "duration", duration: 45 * time.Second},
		{name: "hhmm", raw: "02:30", kind: SpecInterval, source: "hhmm", duration: 150 * time.Minute},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSchedule(tt.raw)
			if err != nil {
				t.Fatalf("ParseSchedule(%q) error: %v", tt.raw, err)
			}
			if got.Kind != tt.kind {
				t.Fatalf("Kind = %v, want %v", got.Kind, tt.kind)
			}
			if got.Source != tt.source {
				t.Fatalf("Source = %s, want %s", got.Source, tt.source)
			}
			if tt.kind == SpecInterval && got.Every != tt.duration {
				t.Fatalf("Every = %v, want %v", got.Every, tt.duration)
			}
		})
	}
}

func TestParseScheduleInvalid(t *testing.T) {
	t.Parallel()
	for _, raw := range []string{"", "not-a-schedule", "interval:", "cron:", "0s", "-10m", "24:60"} {
		if _, err := ParseSchedule(raw); err == nil {
			t.Errorf("ParseSchedule(%q) accepted invalid input", raw)
		}
	}
}

func TestCronSpecNormalization(t *testing.T) {
	t.Parallel()
	spec, err := cronSpec("15m")
	if err != nil {
		t.Fatalf("cronSpec: %v", err)
	}
	if spec != "@every 15m0s" {
		t.Fatalf("spec = %q", spec)
	}

	spec, err = cronSpec("*/5 * * * *")
	if err != nil {
		t.Fatalf("cronSpec: %v", err)
	}
	if spec != "*/5 * * * *" {
		t.Fatalf("spec = %q", spec)
	}
}
