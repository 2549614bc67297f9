package batch

import (
	"sort"
	"sync"
)

// Tracker is the set of names still loading. Done closes exactly when
// the set becomes empty; a name leaves the set when it settles, whether
// it loaded or failed.
type Tracker struct {
	mu          sync.Mutex
	total       int
	outstanding map[string]struct{}
	failed      map[string]error
	done        chan struct{}
}

// NewTracker tracks names. Duplicates count once. An empty tracker is
// done immediately.
func NewTracker(names []string) *Tracker {
	t := &Tracker{
		outstanding: make(map[string]struct{}, len(names)),
		failed:      make(map[string]error),
		done:        make(chan struct{}),
	}
	for _, n := range names {
		t.outstanding[n] = struct{}{}
	}
	t.total = len(t.outstanding)
	if t.total == 0 {
		close(t.done)
	}
	return t
}

// Settle removes name from the outstanding set, recording err if non-nil.
// It reports whether name was outstanding.
func (t *Tracker) Settle(name string, err error) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.outstanding[name]; !ok {
		return false
	}
	delete(t.outstanding, name)
	if err != nil {
		t.failed[name] = err
	}
	if len(t.outstanding) == 0 {
		close(t.done)
	}
	return true
}

// Done is closed once every name has settled.
func (t *Tracker) Done() <-chan struct{} { return t.done }

// FullyLoaded reports whether every name has settled.
func (t *Tracker) FullyLoaded() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// Progress returns the settled and total counts.
func (t *Tracker) Progress() (settled, total int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total - len(t.outstanding), t.total
}

// Outstanding returns the names still loading, sorted.
func (t *Tracker) Outstanding() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, 0, len(t.outstanding))
	for n := range t.outstanding {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Failed returns the names that settled with an error.
func (t *Tracker) Failed() map[string]error {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]error, len(t.failed))
	for n, err := range t.failed {
		out[n] = err
	}
	return out
}
