package snapshot

import (
	"context"
	"sync"
	"time"

	"github.com/PabloGalante/sipcall/internal/observability"
)

// Snapshot is the full list a screen renders after a refresh.
type Snapshot[T any] struct {
	Items     []T
	FetchedAt time.Time

	// Stale is set when the fetch failed and Items is the last known list
	// (empty if there never was one). Warning carries the failure.
	Stale   bool
	Warning error
}

// Fetcher loads the full list from the store.
type Fetcher[T any] func(ctx context.Context) ([]T, error)

// Refresher replaces a view's list wholesale on every focus event and fans the
// result out to subscribers. There is no incremental merge: the newest
// successful fetch wins.
type Refresher[T any] struct {
	name  string
	fetch Fetcher[T]
	now   func() time.Time

	mu   sync.Mutex
	last Snapshot[T]
	subs map[int]chan Snapshot[T]
	next int
}

func NewRefresher[T any](name string, fetch Fetcher[T]) *Refresher[T] {
	return &Refresher[T]{
		name:  name,
		fetch: fetch,
		now:   time.Now,
		subs:  make(map[int]chan Snapshot[T]),
	}
}

// Refresh fetches a new snapshot. Read failures degrade to the last known
// items with Stale set instead of returning an error.
func (r *Refresher[T]) Refresh(ctx context.Context) Snapshot[T] {
	items, err := r.fetch(ctx)

	r.mu.Lock()
	var snap Snapshot[T]
	if err != nil {
		observability.LoggerFromContext(ctx).Warn("refresh failed, serving last known snapshot",
			"view", r.name,
			"error", err,
		)
		snap = Snapshot[T]{
			Items:     r.last.Items,
			FetchedAt: r.last.FetchedAt,
			Stale:     true,
			Warning:   err,
		}
		if snap.Items == nil {
			snap.Items = []T{}
		}
	} else {
		snap = Snapshot[T]{Items: items, FetchedAt: r.now()}
		r.last = snap
	}

	for _, ch := range r.subs {
		// drop the older pending snapshot so a slow subscriber only sees the latest
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
	r.mu.Unlock()

	return snap
}

// Last returns the most recent successful snapshot without fetching.
func (r *Refresher[T]) Last() Snapshot[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// Subscribe returns a channel that receives every refreshed snapshot. Only the
// latest undelivered snapshot is kept. cancel closes the channel.
func (r *Refresher[T]) Subscribe() (<-chan Snapshot[T], func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.next
	r.next++
	ch := make(chan Snapshot[T], 1)
	r.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			delete(r.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}
