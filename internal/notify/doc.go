// Package notify implements a single notifier run: fetch the feed,
// select items not yet announced, deliver one message per new item,
// and persist the updated seen-set.
//
// Selection is pure (SelectNew); all side effects live in Runner.Run.
// A failed delivery never marks its item as seen, so the next run
// retries it. Items delivered before a failure stay delivered and are
// persisted even when the run as a whole reports an error.
package notify
