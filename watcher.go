// Package pagewatch checks a single web page for content changes and posts
// a human-readable notification — including a bounded summary of what
// changed — to a chat webhook.
//
// One Check is one run: fetch → fingerprint compare → (maybe) diff →
// persist → notify, strictly sequential. The process is one-shot; an
// external scheduler (cron, CI) decides how often it runs.
package pagewatch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hazyhaar/pagewatch/internal/fetcher"
	"github.com/hazyhaar/pagewatch/internal/sink"
	"github.com/hazyhaar/pagewatch/internal/state"
	"github.com/hazyhaar/pagewatch/normalize"
	"github.com/hazyhaar/pagewatch/snapshot"
	"github.com/hazyhaar/pagewatch/textdiff"
)

// Watcher orchestrates one change-detection run.
type Watcher struct {
	cfg    *Config
	fetch  *fetcher.Fetcher
	store  state.Store
	sink   sink.Sink
	comp   *Composer
	logger *slog.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// WithFetcher replaces the default fetcher (tests inject short timeouts).
func WithFetcher(f *fetcher.Fetcher) Option {
	return func(w *Watcher) { w.fetch = f }
}

// New creates a Watcher over an opened state store and a notification sink.
func New(cfg *Config, store state.Store, snk sink.Sink, opts ...Option) *Watcher {
	w := &Watcher{
		cfg:    cfg,
		store:  store,
		sink:   snk,
		comp:   NewComposer(cfg.URL, cfg.ExcerptLines),
		logger: slog.Default(),
	}
	for _, o := range opts {
		o(w)
	}
	if w.fetch == nil {
		w.fetch = fetcher.New(
			fetcher.WithTimeout(cfg.FetchTimeout.Std()),
			fetcher.WithUserAgent(cfg.UserAgent),
			fetcher.WithLogger(w.logger),
		)
	}
	return w
}

// Check performs one run. A fetch or persistence failure is fatal: the
// error propagates, nothing is written, nothing is sent. A notification
// failure is logged and swallowed — the run still succeeds.
func (w *Watcher) Check(ctx context.Context) error {
	prev, err := w.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("pagewatch: load state: %w", err)
	}

	raw, err := w.fetch.Fetch(ctx, w.cfg.URL)
	if err != nil {
		return fmt.Errorf("pagewatch: fetch: %w", err)
	}
	cur := snapshot.Capture(raw)

	change := snapshot.Detect(prev.Fingerprint, cur.Fingerprint)
	log := w.logger.With("url", w.cfg.URL, "change", change.String())

	var msg string
	switch change {
	case snapshot.FirstRun:
		if err := w.persist(ctx, cur); err != nil {
			return err
		}
		msg = w.comp.Started(cur.Raw)
		log.Info("pagewatch: monitoring started", "fingerprint", cur.Fingerprint)

	case snapshot.Changed:
		var sum *textdiff.Summary
		if prev.Snapshot == "" {
			// Fingerprint survived a previous run but the snapshot did
			// not: degrade to a bare notification.
			log.Warn("pagewatch: previous snapshot missing, skipping diff")
		} else {
			sum = textdiff.Summarize(
				normalize.Lines(prev.Snapshot),
				normalize.Lines(cur.Raw),
				w.cfg.MaxDiffLines,
			)
		}
		if err := w.persist(ctx, cur); err != nil {
			return err
		}
		msg = w.comp.Updated(sum)
		log.Info("pagewatch: content changed",
			"old_fingerprint", prev.Fingerprint, "new_fingerprint", cur.Fingerprint)

	case snapshot.Unchanged:
		// State is already current; nothing to persist.
		msg = w.comp.Unchanged()
		log.Info("pagewatch: no changes")
	}

	if err := w.sink.Send(ctx, msg); err != nil {
		log.Error("pagewatch: notification send failed", "error", err)
	} else {
		log.Debug("pagewatch: notification sent")
	}
	return nil
}

func (w *Watcher) persist(ctx context.Context, cur snapshot.Snapshot) error {
	st := state.State{Fingerprint: cur.Fingerprint, Snapshot: cur.Raw}
	if err := w.store.Save(ctx, st); err != nil {
		return fmt.Errorf("pagewatch: save state: %w", err)
	}
	return nil
}
