package pagewatch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hazyhaar/pagewatch/internal/state"
	"github.com/hazyhaar/pagewatch/snapshot"
)

// recordingSink captures sent messages; err makes every send fail.
type recordingSink struct {
	msgs []string
	err  error
}

func (r *recordingSink) Send(_ context.Context, m string) error {
	if r.err != nil {
		return r.err
	}
	r.msgs = append(r.msgs, m)
	return nil
}

// failingStore errors on Load to exercise the fatal-state path.
type failingStore struct{}

func (failingStore) Load(context.Context) (state.State, error) {
	return state.State{}, errors.New("disk on fire")
}
func (failingStore) Save(context.Context, state.State) error { return errors.New("disk on fire") }
func (failingStore) Close() error                            { return nil }

func pageServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			http.Error(w, "nope", status)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(url string) *Config {
	cfg := &Config{URL: url}
	cfg.ApplyDefaults()
	return cfg
}

func TestCheck_FirstRun(t *testing.T) {
	srv := pageServer(t, http.StatusOK, "<html><body>Hello</body></html>")
	store := state.NewMemory()
	snk := &recordingSink{}

	w := New(testConfig(srv.URL), store, snk)
	if err := w.Check(context.Background()); err != nil {
		t.Fatalf("check: %v", err)
	}

	if store.Saves != 1 {
		t.Errorf("saves: got %d, want 1", store.Saves)
	}
	st, _ := store.Load(context.Background())
	if st.Fingerprint == "" || st.Snapshot == "" {
		t.Errorf("state not persisted: %+v", st)
	}
	if len(snk.msgs) != 1 || !strings.Contains(snk.msgs[0], "monitoring started") {
		t.Errorf("messages: %v", snk.msgs)
	}
}

func TestCheck_FetchFailureIsFatal(t *testing.T) {
	srv := pageServer(t, http.StatusInternalServerError, "")
	store := state.NewMemory()
	snk := &recordingSink{}

	w := New(testConfig(srv.URL), store, snk)
	if err := w.Check(context.Background()); err == nil {
		t.Fatal("expected error on fetch failure")
	}

	if store.Saves != 0 {
		t.Errorf("no state may be persisted on fetch failure, got %d saves", store.Saves)
	}
	if len(snk.msgs) != 0 {
		t.Errorf("no notification may be attempted on fetch failure, got %v", snk.msgs)
	}
}

func TestCheck_ChangedWithDiff(t *testing.T) {
	oldRaw := "<html><body><p>Week 1  Intro</p><p>Old item here</p></body></html>"
	newRaw := "<html><body><p>Week 1  Intro</p><p>New item here</p></body></html>"

	srv := pageServer(t, http.StatusOK, newRaw)
	store := state.NewMemory()
	store.Save(context.Background(), state.State{
		Fingerprint: snapshot.Fingerprint(oldRaw),
		Snapshot:    oldRaw,
	})
	store.Saves = 0
	snk := &recordingSink{}

	w := New(testConfig(srv.URL), store, snk)
	if err := w.Check(context.Background()); err != nil {
		t.Fatalf("check: %v", err)
	}

	if len(snk.msgs) != 1 {
		t.Fatalf("messages: %v", snk.msgs)
	}
	msg := snk.msgs[0]
	if !strings.Contains(msg, "Page updated") {
		t.Errorf("missing updated template: %q", msg)
	}
	if !strings.Contains(msg, "➖ Old item here") || !strings.Contains(msg, "➕ New item here") {
		t.Errorf("missing diff lines: %q", msg)
	}

	st, _ := store.Load(context.Background())
	if st.Fingerprint != snapshot.Fingerprint(newRaw) {
		t.Error("new fingerprint not persisted")
	}
	if st.Snapshot != newRaw {
		t.Error("new snapshot not persisted")
	}
}

func TestCheck_ChangedWithoutPreviousSnapshot(t *testing.T) {
	srv := pageServer(t, http.StatusOK, "<html><body>fresh</body></html>")
	store := state.NewMemory()
	store.Save(context.Background(), state.State{Fingerprint: "stale-fingerprint"})
	snk := &recordingSink{}

	w := New(testConfig(srv.URL), store, snk)
	if err := w.Check(context.Background()); err != nil {
		t.Fatalf("check: %v", err)
	}

	if len(snk.msgs) != 1 {
		t.Fatalf("messages: %v", snk.msgs)
	}
	msg := snk.msgs[0]
	if !strings.Contains(msg, "Page updated") {
		t.Errorf("missing updated template: %q", msg)
	}
	if strings.Contains(msg, "➕") || strings.Contains(msg, "➖") {
		t.Errorf("diff should be skipped without a previous snapshot: %q", msg)
	}
}

func TestCheck_Unchanged(t *testing.T) {
	raw := "<html><body>steady</body></html>"
	srv := pageServer(t, http.StatusOK, raw)
	store := state.NewMemory()
	store.Save(context.Background(), state.State{
		Fingerprint: snapshot.Fingerprint(raw),
		Snapshot:    raw,
	})
	store.Saves = 0
	snk := &recordingSink{}

	w := New(testConfig(srv.URL), store, snk)
	if err := w.Check(context.Background()); err != nil {
		t.Fatalf("check: %v", err)
	}

	if store.Saves != 0 {
		t.Errorf("unchanged run must not write state, got %d saves", store.Saves)
	}
	if len(snk.msgs) != 1 || !strings.Contains(snk.msgs[0], "no changes detected") {
		t.Errorf("messages: %v", snk.msgs)
	}
}

func TestCheck_NotifyFailureIsSwallowed(t *testing.T) {
	srv := pageServer(t, http.StatusOK, "<html><body>Hello</body></html>")
	store := state.NewMemory()
	snk := &recordingSink{err: errors.New("webhook down")}

	w := New(testConfig(srv.URL), store, snk)
	if err := w.Check(context.Background()); err != nil {
		t.Fatalf("notify failure must not fail the run: %v", err)
	}
	if store.Saves != 1 {
		t.Errorf("state must still be persisted, got %d saves", store.Saves)
	}
}

func TestCheck_StateLoadFailureIsFatal(t *testing.T) {
	srv := pageServer(t, http.StatusOK, "body")
	snk := &recordingSink{}

	w := New(testConfig(srv.URL), failingStore{}, snk)
	if err := w.Check(context.Background()); err == nil {
		t.Fatal("expected error from failing store")
	}
	if len(snk.msgs) != 0 {
		t.Errorf("no notification on aborted run, got %v", snk.msgs)
	}
}
