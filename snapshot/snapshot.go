// Package snapshot defines the captured-page value and its cheap change
// detection. A Snapshot is the raw fetched text at a point in time; its
// Fingerprint is the SHA-256 of the exact bytes and is the only thing the
// detector ever compares — identifying *what* changed is the diff's job.
package snapshot

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// Snapshot is the raw page content captured by one fetch. Immutable.
type Snapshot struct {
	Raw         string    `json:"raw"`
	Fingerprint string    `json:"fingerprint"` // SHA-256 hex of Raw
	FetchedAt   time.Time `json:"fetched_at"`
}

// Capture wraps raw content into a Snapshot, computing its fingerprint.
func Capture(raw string) Snapshot {
	return Snapshot{
		Raw:         raw,
		Fingerprint: Fingerprint(raw),
		FetchedAt:   time.Now(),
	}
}

// Fingerprint returns the SHA-256 hex digest of the raw content's UTF-8
// bytes. Full 64-character digest, no salt, no truncation — stable across
// runs and platforms for identical bytes.
func Fingerprint(raw string) string {
	h := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%x", h)
}

// Change classifies the outcome of comparing two fingerprints.
type Change int

const (
	// FirstRun means no previous fingerprint exists.
	FirstRun Change = iota
	// Changed means the fingerprints differ.
	Changed
	// Unchanged means the fingerprints are equal.
	Unchanged
)

func (c Change) String() string {
	switch c {
	case FirstRun:
		return "first_run"
	case Changed:
		return "changed"
	case Unchanged:
		return "unchanged"
	default:
		return "unknown"
	}
}

// Detect compares a previous fingerprint against the current one.
// An empty prev signals that no state has ever been persisted.
// O(1) in content size: only the fixed-length digests are read.
func Detect(prev, cur string) Change {
	switch {
	case prev == "":
		return FirstRun
	case prev != cur:
		return Changed
	default:
		return Unchanged
	}
}
