package store

import (
	"context"
	"encoding/json"
	"errors"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrStockExhausted = errors.New("stock exhausted")
	ErrConflict       = errors.New("already exists")
)

// Remote collection names.
const (
	CollectionUsers        = "users"
	CollectionTransactions = "transactions"
	CollectionProducts     = "products"
	CollectionCatalog      = "service_config"
	CollectionCardFees     = "card_fees"
	CollectionAppointments = "appointments"
)

// Document is one record of a remote collection.
type Document struct {
	ID      string          `json:"id"`
	Payload json.RawMessage `json:"payload"`
}

// Unsubscribe stops a subscription. Calling it more than once is a no-op.
type Unsubscribe func()

// RemoteStore is the shared document store. A subscription delivers the
// complete collection on every change, including once right after it is
// established. onError reports a broken subscription; no further snapshots
// follow it.
type RemoteStore interface {
	Subscribe(ctx context.Context, collection string, onChange func([]Document), onError func(error)) (Unsubscribe, error)
	Put(ctx context.Context, collection string, id string, payload json.RawMessage) error
	Remove(ctx context.Context, collection string, id string) error
}

// LocalCache is the process-local durable key/value mirror.
type LocalCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}
