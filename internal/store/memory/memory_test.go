package memory

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"barbercash/backend/internal/store"
)

func TestSubscribeDeliversSnapshotImmediatelyAndOnChange(t *testing.T) {
	s := New()
	ctx := context.Background()
	if err := s.Put(ctx, store.CollectionProducts, "p1", json.RawMessage(`{"id":"p1"}`)); err != nil {
		t.Fatalf("put: %v", err)
	}

	var snapshots [][]store.Document
	unsubscribe, err := s.Subscribe(ctx, store.CollectionProducts, func(docs []store.Document) {
		snapshots = append(snapshots, docs)
	}, nil)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if len(snapshots) != 1 || len(snapshots[0]) != 1 {
		t.Fatalf("expected initial snapshot with one document, got %+v", snapshots)
	}

	if err := s.Put(ctx, store.CollectionProducts, "p2", json.RawMessage(`{"id":"p2"}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Remove(ctx, store.CollectionProducts, "p1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(snapshots) != 3 {
		t.Fatalf("expected 3 snapshots, got %d", len(snapshots))
	}
	last := snapshots[2]
	if len(last) != 1 || last[0].ID != "p2" {
		t.Fatalf("expected only p2 after remove, got %+v", last)
	}

	unsubscribe()
	unsubscribe()
	if s.Subscribers(store.CollectionProducts) != 0 {
		t.Fatalf("expected no subscribers after unsubscribe")
	}
}

func TestFailWritesAndBreak(t *testing.T) {
	s := New()
	ctx := context.Background()
	boom := errors.New("offline")

	s.FailWrites(boom)
	if err := s.Put(ctx, store.CollectionUsers, "u1", json.RawMessage(`{}`)); !errors.Is(err, boom) {
		t.Fatalf("expected injected error, got %v", err)
	}
	s.FailWrites(nil)

	var got error
	_, err := s.Subscribe(ctx, store.CollectionUsers, func([]store.Document) {}, func(err error) { got = err })
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	s.Break(store.CollectionUsers, boom)
	if !errors.Is(got, boom) {
		t.Fatalf("expected subscription error, got %v", got)
	}
}
