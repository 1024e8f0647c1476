package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"barbercash/backend/internal/store"
)

// Store is an in-process RemoteStore. Snapshots are delivered synchronously
// on the goroutine that caused the change, after the store lock is released.
type Store struct {
	mu          sync.RWMutex
	collections map[string]*collection
	subs        map[string]map[int]*subscription
	nextSubID   int
	writeErr    error
	subErr      error
}

type collection struct {
	order []string
	docs  map[string]json.RawMessage
}

type subscription struct {
	onChange func([]store.Document)
	onError  func(error)
}

func New() *Store {
	return &Store{
		collections: make(map[string]*collection),
		subs:        make(map[string]map[int]*subscription),
	}
}

func (s *Store) Subscribe(_ context.Context, name string, onChange func([]store.Document), onError func(error)) (store.Unsubscribe, error) {
	if onChange == nil {
		return nil, fmt.Errorf("subscribe %s: nil change handler", name)
	}

	s.mu.Lock()
	if s.subErr != nil {
		err := s.subErr
		s.mu.Unlock()
		return nil, err
	}
	id := s.nextSubID
	s.nextSubID++
	if s.subs[name] == nil {
		s.subs[name] = make(map[int]*subscription)
	}
	s.subs[name][id] = &subscription{onChange: onChange, onError: onError}
	snapshot := s.snapshotLocked(name)
	s.mu.Unlock()

	onChange(snapshot)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs[name], id)
			s.mu.Unlock()
		})
	}, nil
}

func (s *Store) Put(_ context.Context, name string, id string, payload json.RawMessage) error {
	if id == "" {
		return fmt.Errorf("put %s: empty id", name)
	}

	s.mu.Lock()
	if s.writeErr != nil {
		err := s.writeErr
		s.mu.Unlock()
		return err
	}
	c := s.collectionLocked(name)
	if _, exists := c.docs[id]; !exists {
		c.order = append(c.order, id)
	}
	c.docs[id] = slices.Clone(payload)
	snapshot, handlers := s.fanoutLocked(name)
	s.mu.Unlock()

	notify(handlers, snapshot)
	return nil
}

func (s *Store) Remove(_ context.Context, name string, id string) error {
	s.mu.Lock()
	if s.writeErr != nil {
		err := s.writeErr
		s.mu.Unlock()
		return err
	}
	c := s.collectionLocked(name)
	if _, exists := c.docs[id]; exists {
		delete(c.docs, id)
		c.order = slices.DeleteFunc(c.order, func(v string) bool { return v == id })
	}
	snapshot, handlers := s.fanoutLocked(name)
	s.mu.Unlock()

	notify(handlers, snapshot)
	return nil
}

// Documents returns the current contents of a collection.
func (s *Store) Documents(name string) []store.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked(name)
}

// FailWrites makes every following Put and Remove return err. A nil err
// restores normal operation.
func (s *Store) FailWrites(err error) {
	s.mu.Lock()
	s.writeErr = err
	s.mu.Unlock()
}

// FailSubscribe makes every following Subscribe return err.
func (s *Store) FailSubscribe(err error) {
	s.mu.Lock()
	s.subErr = err
	s.mu.Unlock()
}

// Break drops every subscription on the collection, reporting err to each.
func (s *Store) Break(name string, err error) {
	s.mu.Lock()
	subs := s.subs[name]
	delete(s.subs, name)
	s.mu.Unlock()

	for _, sub := range subs {
		if sub.onError != nil {
			sub.onError(err)
		}
	}
}

// Subscribers reports how many live subscriptions a collection has.
func (s *Store) Subscribers(name string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs[name])
}

func (s *Store) collectionLocked(name string) *collection {
	c, ok := s.collections[name]
	if !ok {
		c = &collection{docs: make(map[string]json.RawMessage)}
		s.collections[name] = c
	}
	return c
}

func (s *Store) snapshotLocked(name string) []store.Document {
	c, ok := s.collections[name]
	if !ok {
		return []store.Document{}
	}
	out := make([]store.Document, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, store.Document{ID: id, Payload: slices.Clone(c.docs[id])})
	}
	return out
}

func (s *Store) fanoutLocked(name string) ([]store.Document, []func([]store.Document)) {
	subs := s.subs[name]
	if len(subs) == 0 {
		return nil, nil
	}
	handlers := make([]func([]store.Document), 0, len(subs))
	for _, sub := range subs {
		handlers = append(handlers, sub.onChange)
	}
	return s.snapshotLocked(name), handlers
}

func notify(handlers []func([]store.Document), snapshot []store.Document) {
	for _, handler := range handlers {
		handler(cloneDocuments(snapshot))
	}
}

func cloneDocuments(src []store.Document) []store.Document {
	out := make([]store.Document, len(src))
	for i, doc := range src {
		out[i] = store.Document{ID: doc.ID, Payload: slices.Clone(doc.Payload)}
	}
	return out
}
