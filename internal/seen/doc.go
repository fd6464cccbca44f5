// Package seen persists the set of feed item identifiers that have
// already been announced, so restarts never re-notify old posts.
//
// It currently supports:
//   - "file": a sorted JSON array, rewritten atomically on save
//   - "sqlite": a SQLite database file (optional build tag)
package seen
