package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"barbercash/backend/internal/store"
)

func TestSubscribeReceivesWritesThroughChangeFeed(t *testing.T) {
	databaseURL := os.Getenv("BARBERCASH_TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("set BARBERCASH_TEST_DATABASE_URL to run postgres integration test")
	}

	ctx := context.Background()
	s, err := New(ctx, databaseURL)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})

	collection := fmt.Sprintf("it_products_%d", time.Now().UnixNano())
	t.Cleanup(func() {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM documents WHERE collection = $1`, collection)
	})

	var mu sync.Mutex
	var latest []store.Document
	updates := make(chan struct{}, 16)
	unsubscribe, err := s.Subscribe(ctx, collection, func(docs []store.Document) {
		mu.Lock()
		latest = docs
		mu.Unlock()
		updates <- struct{}{}
	}, func(err error) {
		t.Errorf("unexpected subscription error: %v", err)
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer unsubscribe()

	<-updates
	mu.Lock()
	initial := len(latest)
	mu.Unlock()
	if initial != 0 {
		t.Fatalf("expected empty initial snapshot, got %d documents", initial)
	}

	if err := s.Put(ctx, collection, "p1", json.RawMessage(`{"id":"p1","stock":3}`)); err != nil {
		t.Fatalf("put: %v", err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case <-updates:
			mu.Lock()
			n := len(latest)
			mu.Unlock()
			if n == 1 {
				unsubscribe()
				unsubscribe()
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for change notification")
		}
	}
}
