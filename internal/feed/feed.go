// Package feed fetches an RSS/Atom feed and derives stable item identifiers.
package feed

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"
)

// ErrNoIdentity means an item carries nothing an identifier could be derived
// from. Such items are skipped, never notified.
var ErrNoIdentity = errors.New("feed: item has no usable identity")

// Item is one feed entry, immutable once read.
type Item struct {
	GUID      string
	Title     string
	Link      string
	Summary   string    // plain text: HTML stripped, whitespace collapsed
	Published time.Time // zero when the feed gives no usable date
}

// Identity derives the identifier used to dedup notifications across runs.
//
// Preference order: the feed-native GUID, then the item link, then a content
// hash of title|published|summary. The derivation is deterministic: the same
// item yields the same identifier on every run.
func Identity(it Item) (string, error) {
	if it.GUID != "" {
		return it.GUID, nil
	}
	if it.Link != "" {
		return it.Link, nil
	}

	published := ""
	if !it.Published.IsZero() {
		published = it.Published.UTC().Format(time.RFC3339)
	}
	if it.Title == "" && published == "" && it.Summary == "" {
		return "", ErrNoIdentity
	}
	sum := sha256.Sum256([]byte(it.Title + "|" + published + "|" + it.Summary))
	return hex.EncodeToString(sum[:]), nil
}
