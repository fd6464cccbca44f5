package seen

import (
	"context"
	"errors"
	"strings"

	"github.com/Yash-Rathee/Blog-Notification/pkg/logx"
)

// Store is the persistence API used by the notifier run.
//
// Load returns the full membership; a missing backing file yields an
// empty set, not an error. Save replaces the persisted membership with
// the given set.
type Store interface {
	Load(ctx context.Context) (Set, error)
	Save(ctx context.Context, set Set) error
	Close() error
}

// Open initializes the configured store.
func Open(cfg Config, log logx.Logger) (Store, error) {
	if log.IsZero() {
		log = logx.Nop()
	}

	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	switch driver {
	case "", "file":
		return openFile(cfg, log)
	case "sqlite", "sqlite3":
		return openSQLite(cfg, log)
	default:
		return nil, errors.New("unknown state driver: " + driver)
	}
}
