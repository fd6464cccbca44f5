package seen

import "time"

// Config configures seen-set persistence.
//
// Driver values:
//   - "file": sorted JSON array on disk (default)
//   - "sqlite": SQLite database file (optional build tag)
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 means default
}
