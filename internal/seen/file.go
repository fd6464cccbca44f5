package seen

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Yash-Rathee/Blog-Notification/pkg/logx"
)

// fileStore keeps the seen-set as a sorted JSON array on disk.
//
// The file is rewritten in full on every save: first to <path>.tmp, then
// renamed over the target, so a crash mid-write never leaves a truncated
// state file behind.
type fileStore struct {
	path string
	log  logx.Logger
}

func openFile(cfg Config, log logx.Logger) (Store, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, errors.New("state.path is required for file driver")
	}
	return &fileStore{path: path, log: log}, nil
}

func (s *fileStore) Load(ctx context.Context) (Set, error) {
	_ = ctx
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewSet(), nil
	}
	if err != nil {
		return nil, err
	}

	var ids []string
	if err := json.Unmarshal(b, &ids); err != nil {
		// A mangled state file must not wedge the notifier forever.
		// Start over; old items will be re-announced once.
		s.log.Warn("state file unreadable, starting with empty set",
			logx.String("path", s.path), logx.Err(err))
		return NewSet(), nil
	}
	return NewSet(ids...), nil
}

func (s *fileStore) Save(ctx context.Context, set Set) error {
	_ = ctx
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	b, err := json.MarshalIndent(set.Sorted(), "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *fileStore) Close() error { return nil }
