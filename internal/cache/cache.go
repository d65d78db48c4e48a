// internal/cache/cache.go
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL bounds how long a snapshot is considered fresh. A stale
// snapshot is still returned immediately; the refetch happens in the
// background.
const DefaultTTL = 5 * time.Minute

// Snapshot is the read result for one cache key: last-known rows, a
// first-load flag and the error of the most recent fetch attempt.
type Snapshot[T any] struct {
	Data      []T
	Loading   bool
	Err       error
	FetchedAt time.Time
}

// Fetcher loads the authoritative row list for one filter key from the
// collection store.
type Fetcher[T any] func(ctx context.Context, key string) ([]T, error)

// Collection memoizes list results for one named collection, keyed by
// filter. Reads never block: they return the last-known snapshot and
// trigger a background refetch when the entry is stale. At most one fetch
// per key is in flight.
type Collection[T any] struct {
	name    string
	fetch   Fetcher[T]
	ttl     time.Duration
	log     *logrus.Logger
	backing *Backing

	mu      sync.Mutex
	entries map[string]*entry[T]
	subs    map[string][]func(Snapshot[T])
	group   singleflight.Group
}

type entry[T any] struct {
	snap  Snapshot[T]
	stale bool
	// gen is bumped by every invalidation. A fetch that started under an
	// older gen is discarded on completion: its rows predate the write
	// that triggered the invalidation.
	gen uint64
}

// Option configures a Collection.
type Option[T any] func(*Collection[T])

// WithTTL overrides the freshness window.
func WithTTL[T any](ttl time.Duration) Option[T] {
	return func(c *Collection[T]) { c.ttl = ttl }
}

// WithBacking mirrors snapshots to an external store so a restarted
// instance can serve a warm list before the first remote fetch lands.
func WithBacking[T any](b *Backing) Option[T] {
	return func(c *Collection[T]) { c.backing = b }
}

func NewCollection[T any](name string, fetch Fetcher[T], log *logrus.Logger, opts ...Option[T]) *Collection[T] {
	c := &Collection[T]{
		name:    name,
		fetch:   fetch,
		ttl:     DefaultTTL,
		log:     log,
		entries: make(map[string]*entry[T]),
		subs:    make(map[string][]func(Snapshot[T])),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Read returns the current snapshot for key without blocking. A missing
// or stale entry schedules a background refetch; the caller still gets
// whatever data was known at call time.
func (c *Collection[T]) Read(key string) Snapshot[T] {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		e = &entry[T]{snap: Snapshot[T]{Loading: true}}
		c.entries[key] = e
		snap := e.snap
		c.mu.Unlock()
		go c.refresh(key, true)
		return snap
	}
	snap := e.snap
	needsRefresh := e.stale || time.Since(e.snap.FetchedAt) >= c.ttl
	c.mu.Unlock()

	if needsRefresh {
		go c.refresh(key, false)
	}
	return snap
}

// Invalidate marks key stale and schedules an immediate refetch. It does
// not block the caller. Bumping the generation discards any fetch that
// is already in flight, so the refetch observes the state written before
// the invalidation.
func (c *Collection[T]) Invalidate(key string) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		e.stale = true
		e.gen++
	}
	c.mu.Unlock()
	go c.refresh(key, false)
}

// InvalidateAll marks every cached key of the collection stale and
// refetches each one. Mutations use this: a write anywhere in the
// collection must be visible to every filtered view of it.
func (c *Collection[T]) InvalidateAll() {
	c.mu.Lock()
	keys := make([]string, 0, len(c.entries))
	for key, e := range c.entries {
		e.stale = true
		e.gen++
		keys = append(keys, key)
	}
	c.mu.Unlock()

	for _, key := range keys {
		go c.refresh(key, false)
	}
}

// Subscribe registers fn to run on every new snapshot published for key.
// Callbacks run outside the cache lock, one at a time per publication.
func (c *Collection[T]) Subscribe(key string, fn func(Snapshot[T])) {
	c.mu.Lock()
	c.subs[key] = append(c.subs[key], fn)
	c.mu.Unlock()
}

// refresh fetches key until the published result reflects every
// invalidation issued so far. A joined fetch whose result was discarded
// for being pre-invalidation leaves the entry stale, and the loop runs
// the fetch again.
func (c *Collection[T]) refresh(key string, warm bool) {
	for {
		c.group.Do(key, func() (interface{}, error) {
			ctx := context.Background()
			gen := c.beginFetch(key)

			// Cold start: serve the mirrored snapshot while the remote
			// fetch is on its way. Best effort only.
			if warm && c.backing != nil {
				var rows []T
				if err := c.backing.GetArray(ctx, c.backingKey(key), &rows); err == nil && rows != nil {
					c.publish(key, Snapshot[T]{Data: rows, Loading: true, FetchedAt: time.Now()}, gen, false)
				}
			}

			rows, err := c.fetch(ctx, key)
			if err != nil {
				c.log.WithFields(logrus.Fields{
					"collection": c.name,
					"key":        key,
				}).WithError(err).Warn("cache refetch failed")
				c.publishError(key, err, gen)
				return nil, err
			}

			c.publish(key, Snapshot[T]{Data: rows, FetchedAt: time.Now()}, gen, true)

			if c.backing != nil {
				if err := c.backing.SetArray(ctx, c.backingKey(key), rows); err != nil {
					c.log.WithField("collection", c.name).WithError(err).Debug("snapshot mirror write failed")
				}
			}
			return nil, nil
		})

		if !c.staleNow(key) {
			return
		}
		warm = false
	}
}

// beginFetch records the generation the fetch runs under, creating the
// entry when the key has never been read.
func (c *Collection[T]) beginFetch(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		e = &entry[T]{snap: Snapshot[T]{Loading: true}}
		c.entries[key] = e
	}
	return e.gen
}

func (c *Collection[T]) staleNow(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	return ok && e.stale
}

func (c *Collection[T]) publish(key string, snap Snapshot[T], gen uint64, fresh bool) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok || e.gen != gen {
		// An invalidation landed after this fetch started; the rows no
		// longer reflect the remote state and are dropped. The refresh
		// loop reruns the fetch.
		c.mu.Unlock()
		return
	}
	e.snap = snap
	if fresh {
		e.stale = false
	}
	subs := append([]func(Snapshot[T]){}, c.subs[key]...)
	c.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

// publishError keeps the last-known rows and records the failure. The
// fetch timestamp moves forward so a failing remote is not hammered on
// every read.
func (c *Collection[T]) publishError(key string, err error, gen uint64) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok || e.gen != gen {
		c.mu.Unlock()
		return
	}
	e.snap.Err = err
	e.snap.Loading = false
	e.snap.FetchedAt = time.Now()
	e.stale = false
	snap := e.snap
	subs := append([]func(Snapshot[T]){}, c.subs[key]...)
	c.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

func (c *Collection[T]) backingKey(key string) string {
	if key == "" {
		return c.name
	}
	return c.name + ":" + key
}
