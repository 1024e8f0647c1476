package syncer

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"slices"
	"sync"

	"barbercash/backend/internal/store"
)

type State string

const (
	Detached    State = "DETACHED"
	Subscribing State = "SUBSCRIBING"
	Live        State = "LIVE"
)

// Spec describes one synchronized collection.
type Spec[T any] struct {
	// Name is the remote collection name.
	Name string
	// CacheKey is the durable cache key holding the whole collection.
	CacheKey string
	ID       func(T) string
	// Defaults seeds the collection when the cache holds nothing for it.
	Defaults func() []T
	// Ingest rewrites records read from the cache or a remote snapshot. A
	// true result marks the record for a push back to the remote store.
	Ingest func(T) (T, bool)
	// KeepOnEmpty keeps the local records when a snapshot arrives empty and
	// pushes them up instead.
	KeepOnEmpty bool
}

// Collection is the canonical in-memory copy of one entity collection. Reads
// go through accessors; every write is mirrored to the durable cache and,
// while attached, pushed to the remote store.
type Collection[T any] struct {
	spec Spec[T]
	sync *Synchronizer

	mu          sync.RWMutex
	items       []T
	state       State
	gen         uint64
	unsubscribe store.Unsubscribe
}

type CollectionStatus struct {
	Name  string `json:"name"`
	State State  `json:"state"`
	Count int    `json:"count"`
}

type member interface {
	name() string
	load(ctx context.Context) error
	attach(ctx context.Context) error
	detach()
	pushAll(ctx context.Context) (pushed int, failed int, err error)
	status() CollectionStatus
}

// Register adds a collection to the synchronizer. Collections must be
// registered before Load.
func Register[T any](s *Synchronizer, spec Spec[T]) *Collection[T] {
	c := &Collection[T]{spec: spec, sync: s, state: Detached, items: []T{}}
	s.register(c)
	return c
}

func (c *Collection[T]) name() string {
	return c.spec.Name
}

func (c *Collection[T]) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Collection[T]) All() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.items)
}

func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Collection[T]) Get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.indexLocked(id); i >= 0 {
		return c.items[i], true
	}
	var zero T
	return zero, false
}

// Find returns the first record matching fn.
func (c *Collection[T]) Find(fn func(T) bool) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := slices.IndexFunc(c.items, fn); i >= 0 {
		return c.items[i], true
	}
	var zero T
	return zero, false
}

// Upsert replaces the record with the same id or appends a new one.
func (c *Collection[T]) Upsert(ctx context.Context, item T) {
	id := c.spec.ID(item)

	c.mu.Lock()
	if i := c.indexLocked(id); i >= 0 {
		c.items[i] = item
	} else {
		c.items = append(c.items, item)
	}
	c.persistLocked(ctx)
	attached := c.state != Detached
	c.mu.Unlock()

	if attached {
		c.sync.enqueuePut(c.spec.Name, id, item)
	}
}

// Delete removes the record and reports whether it existed.
func (c *Collection[T]) Delete(ctx context.Context, id string) bool {
	c.mu.Lock()
	i := c.indexLocked(id)
	if i < 0 {
		c.mu.Unlock()
		return false
	}
	c.items = slices.Delete(c.items, i, i+1)
	c.persistLocked(ctx)
	attached := c.state != Detached
	c.mu.Unlock()

	if attached {
		c.sync.enqueueRemove(c.spec.Name, id)
	}
	return true
}

func (c *Collection[T]) indexLocked(id string) int {
	return slices.IndexFunc(c.items, func(item T) bool {
		return c.spec.ID(item) == id
	})
}

func (c *Collection[T]) persistLocked(ctx context.Context) {
	data, err := json.Marshal(c.items)
	if err != nil {
		log.Printf("[syncer] WARN: encode %s for cache: %v", c.spec.CacheKey, err)
		return
	}
	if err := c.sync.cache.Set(ctx, c.spec.CacheKey, data); err != nil {
		log.Printf("[syncer] WARN: write cache %s: %v", c.spec.CacheKey, err)
		c.sync.notices.Errorf("local cache write failed for %s", c.spec.Name)
	}
}

func (c *Collection[T]) load(ctx context.Context) error {
	raw, ok, err := c.sync.cache.Get(ctx, c.spec.CacheKey)
	if err != nil {
		return fmt.Errorf("read cache %s: %w", c.spec.CacheKey, err)
	}

	var items []T
	if ok {
		if err := json.Unmarshal(raw, &items); err != nil {
			log.Printf("[syncer] WARN: discarding unreadable cache %s: %v", c.spec.CacheKey, err)
			ok = false
		}
	}
	if !ok {
		items = nil
		if c.spec.Defaults != nil {
			items = c.spec.Defaults()
		}
	}
	if items == nil {
		items = []T{}
	}
	items, _ = c.ingest(items)

	c.mu.Lock()
	c.items = items
	c.persistLocked(ctx)
	c.mu.Unlock()
	return nil
}

func (c *Collection[T]) ingest(items []T) ([]T, []T) {
	if c.spec.Ingest == nil {
		return items, nil
	}
	var changed []T
	for i, item := range items {
		next, dirty := c.spec.Ingest(item)
		items[i] = next
		if dirty {
			changed = append(changed, next)
		}
	}
	return items, changed
}

func (c *Collection[T]) attach(ctx context.Context) error {
	c.mu.Lock()
	if c.state != Detached {
		c.mu.Unlock()
		return nil
	}
	c.gen++
	gen := c.gen
	c.state = Subscribing
	c.mu.Unlock()

	unsubscribe, err := c.sync.remote.Subscribe(ctx, c.spec.Name,
		func(docs []store.Document) { c.applySnapshot(gen, docs) },
		func(err error) { c.fail(gen, err) },
	)

	c.mu.Lock()
	if err != nil {
		if c.gen == gen {
			c.state = Detached
		}
		c.mu.Unlock()
		return fmt.Errorf("%w: %s: %w", ErrRemoteSubscription, c.spec.Name, err)
	}
	if c.gen != gen {
		c.mu.Unlock()
		if unsubscribe != nil {
			unsubscribe()
		}
		return nil
	}
	c.unsubscribe = unsubscribe
	c.mu.Unlock()
	return nil
}

func (c *Collection[T]) detach() {
	c.mu.Lock()
	c.gen++
	c.state = Detached
	unsubscribe := c.unsubscribe
	c.unsubscribe = nil
	c.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

// applySnapshot replaces the whole collection with a remote snapshot. A
// snapshot from a superseded subscription is dropped.
func (c *Collection[T]) applySnapshot(gen uint64, docs []store.Document) {
	items := make([]T, 0, len(docs))
	for _, doc := range docs {
		var item T
		if err := json.Unmarshal(doc.Payload, &item); err != nil {
			log.Printf("[syncer] WARN: skipping unreadable %s/%s: %v", c.spec.Name, doc.ID, err)
			continue
		}
		items = append(items, item)
	}
	items, changed := c.ingest(items)

	c.mu.Lock()
	if c.gen != gen || c.state == Detached {
		c.mu.Unlock()
		return
	}
	if len(items) == 0 && c.spec.KeepOnEmpty && len(c.items) > 0 {
		changed = slices.Clone(c.items)
		items = c.items
	}
	c.items = items
	c.state = Live
	c.persistLocked(c.sync.ctx)
	c.mu.Unlock()

	for _, item := range changed {
		c.sync.enqueuePut(c.spec.Name, c.spec.ID(item), item)
	}
}

func (c *Collection[T]) fail(gen uint64, err error) {
	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		return
	}
	c.gen++
	c.state = Detached
	unsubscribe := c.unsubscribe
	c.unsubscribe = nil
	c.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	log.Printf("[syncer] WARN: %s subscription dropped, keeping local copy: %v", c.spec.Name, err)
	c.sync.notices.Errorf("sync stopped for %s: %v", c.spec.Name, err)
}

func (c *Collection[T]) pushAll(ctx context.Context) (int, int, error) {
	items := c.All()
	pushed, failed := 0, 0
	var firstErr error
	for _, item := range items {
		id := c.spec.ID(item)
		payload, err := json.Marshal(item)
		if err == nil {
			err = c.sync.remote.Put(ctx, c.spec.Name, id, payload)
		}
		if err != nil {
			failed++
			if firstErr == nil {
				firstErr = &PushError{Collection: c.spec.Name, ID: id, Err: err}
			}
			continue
		}
		pushed++
	}
	return pushed, failed, firstErr
}

func (c *Collection[T]) status() CollectionStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return CollectionStatus{Name: c.spec.Name, State: c.state, Count: len(c.items)}
}
