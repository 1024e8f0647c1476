package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"barbercash/backend/internal/store"
)

const notifyChannel = "barbercash_documents"

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	collection TEXT NOT NULL,
	id TEXT NOT NULL,
	payload JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (collection, id)
);

CREATE OR REPLACE FUNCTION barbercash_notify_document() RETURNS trigger AS $$
BEGIN
	PERFORM pg_notify('barbercash_documents', COALESCE(NEW.collection, OLD.collection));
	RETURN NULL;
END;
$$ LANGUAGE plpgsql;

CREATE OR REPLACE TRIGGER documents_notify
	AFTER INSERT OR UPDATE OR DELETE ON documents
	FOR EACH ROW EXECUTE FUNCTION barbercash_notify_document();
`

// Store keeps every collection in one documents table. Writers go through
// the pooled database/sql handle; a dedicated pgx connection LISTENs for the
// trigger notifications and reloads the full collection for subscribers.
type Store struct {
	db          *sql.DB
	databaseURL string

	mu        sync.Mutex
	subs      map[string]map[int]*subscription
	nextSubID int
	listening bool
	stop      context.CancelFunc
	done      chan struct{}

	// deliverMu keeps snapshots for one store in delivery order.
	deliverMu sync.Mutex
}

type subscription struct {
	onChange func([]store.Document)
	onError  func(error)
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(4)
	db.SetMaxOpenConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return &Store{
		db:          db,
		databaseURL: databaseURL,
		subs:        make(map[string]map[int]*subscription),
	}, nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	stop, done := s.stop, s.done
	s.listening = false
	s.stop = nil
	s.mu.Unlock()

	if stop != nil {
		stop()
		<-done
	}
	return s.db.Close()
}

func (s *Store) Put(ctx context.Context, collection string, id string, payload json.RawMessage) error {
	if id == "" {
		return fmt.Errorf("put %s: empty id", collection)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (collection, id, payload, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
		ON CONFLICT (collection, id)
		DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()
	`, collection, id, string(payload))
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, collection string, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE collection = $1 AND id = $2`, collection, id)
	if err != nil {
		return fmt.Errorf("remove %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *Store) Subscribe(ctx context.Context, collection string, onChange func([]store.Document), onError func(error)) (store.Unsubscribe, error) {
	if onChange == nil {
		return nil, fmt.Errorf("subscribe %s: nil change handler", collection)
	}
	if err := s.ensureListener(); err != nil {
		return nil, err
	}

	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	snapshot, err := s.load(ctx, collection)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	if s.subs[collection] == nil {
		s.subs[collection] = make(map[int]*subscription)
	}
	s.subs[collection][id] = &subscription{onChange: onChange, onError: onError}
	s.mu.Unlock()

	onChange(snapshot)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs[collection], id)
			s.mu.Unlock()
		})
	}, nil
}

func (s *Store) load(ctx context.Context, collection string) ([]store.Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, payload
		FROM documents
		WHERE collection = $1
		ORDER BY created_at, id
	`, collection)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", collection, err)
	}
	defer rows.Close()

	docs := make([]store.Document, 0, 64)
	for rows.Next() {
		var id string
		var payload []byte
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, err
		}
		docs = append(docs, store.Document{ID: id, Payload: json.RawMessage(payload)})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *Store) ensureListener() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listening {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	conn, err := pgx.Connect(ctx, s.databaseURL)
	if err != nil {
		cancel()
		return fmt.Errorf("listen connect: %w", err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+notifyChannel); err != nil {
		_ = conn.Close(context.Background())
		cancel()
		return fmt.Errorf("listen: %w", err)
	}

	s.listening = true
	s.stop = cancel
	s.done = make(chan struct{})
	go s.listen(ctx, conn, s.done)
	return nil
}

func (s *Store) listen(ctx context.Context, conn *pgx.Conn, done chan struct{}) {
	defer close(done)
	defer func() {
		_ = conn.Close(context.Background())
	}()

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.fail(err)
			return
		}
		s.refresh(ctx, notification)
	}
}

func (s *Store) refresh(ctx context.Context, notification *pgconn.Notification) {
	collection := notification.Payload

	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	s.mu.Lock()
	handlers := make([]func([]store.Document), 0, len(s.subs[collection]))
	for _, sub := range s.subs[collection] {
		handlers = append(handlers, sub.onChange)
	}
	s.mu.Unlock()
	if len(handlers) == 0 {
		return
	}

	snapshot, err := s.load(ctx, collection)
	if err != nil {
		log.Printf("[postgres] WARN: reload %s after notify pid=%d: %v", collection, notification.PID, err)
		return
	}
	for _, handler := range handlers {
		handler(snapshot)
	}
}

// fail ends every subscription after the listener connection broke. A later
// Subscribe starts a new listener.
func (s *Store) fail(err error) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		err = fmt.Errorf("change feed closed (%s): %w", pgErr.Code, err)
	} else {
		err = fmt.Errorf("change feed closed: %w", err)
	}

	s.mu.Lock()
	subs := s.subs
	s.subs = make(map[string]map[int]*subscription)
	s.listening = false
	if s.stop != nil {
		s.stop()
		s.stop = nil
	}
	s.mu.Unlock()

	for _, byID := range subs {
		for _, sub := range byID {
			if sub.onError != nil {
				sub.onError(err)
			}
		}
	}
}
