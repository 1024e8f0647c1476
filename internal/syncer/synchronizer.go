package syncer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"slices"
	"sync"
	"time"

	"barbercash/backend/internal/store"
)

const (
	syncFlagKey           = "barber_sync_enabled"
	connectionTestCollect = "connection_test"
)

// Synchronizer mirrors registered collections between the durable local
// cache and the remote store. It is the only writer of collection state.
type Synchronizer struct {
	remote  store.RemoteStore
	cache   store.LocalCache
	notices *NoticeFeed

	ctx    context.Context
	cancel context.CancelFunc
	queue  *pushQueue

	mu        sync.Mutex
	members   []member
	onFailure []func(*PushError)
	enabled   bool
	resume    bool
	closed    bool
}

type Status struct {
	Enabled       bool               `json:"enabled"`
	PendingPushes int                `json:"pending_pushes"`
	Collections   []CollectionStatus `json:"collections"`
}

type CollectionReport struct {
	Name   string `json:"name"`
	Pushed int    `json:"pushed"`
	Failed int    `json:"failed"`
	Error  string `json:"error,omitempty"`
}

type Report struct {
	OK          bool               `json:"ok"`
	Pushed      int                `json:"pushed"`
	Failed      int                `json:"failed"`
	Collections []CollectionReport `json:"collections"`
}

func New(remote store.RemoteStore, cache store.LocalCache, notices *NoticeFeed) *Synchronizer {
	if notices == nil {
		notices = NewNoticeFeed(0)
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Synchronizer{
		remote:  remote,
		cache:   cache,
		notices: notices,
		ctx:     ctx,
		cancel:  cancel,
		queue:   newPushQueue(),
	}
	go s.queue.run(s.execute)
	return s
}

func (s *Synchronizer) Notices() *NoticeFeed {
	return s.notices
}

// OnPushFailure registers fn to run on the push worker after a failed push.
func (s *Synchronizer) OnPushFailure(fn func(*PushError)) {
	s.mu.Lock()
	s.onFailure = append(s.onFailure, fn)
	s.mu.Unlock()
}

func (s *Synchronizer) register(m member) {
	s.mu.Lock()
	s.members = append(s.members, m)
	s.mu.Unlock()
}

func (s *Synchronizer) snapshotMembers() []member {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.members)
}

// Load seeds every collection from the durable cache, falling back to its
// defaults, and reads the persisted sync flag. It never touches the remote
// store.
func (s *Synchronizer) Load(ctx context.Context) error {
	for _, m := range s.snapshotMembers() {
		if err := m.load(ctx); err != nil {
			return err
		}
	}

	raw, ok, err := s.cache.Get(ctx, syncFlagKey)
	if err != nil {
		return fmt.Errorf("read cache %s: %w", syncFlagKey, err)
	}
	var flag bool
	if ok {
		if err := json.Unmarshal(raw, &flag); err != nil {
			log.Printf("[syncer] WARN: ignoring unreadable %s: %v", syncFlagKey, err)
		}
	}
	s.mu.Lock()
	s.resume = flag
	s.mu.Unlock()
	return nil
}

// Resume enables sync when it was enabled before the last shutdown.
func (s *Synchronizer) Resume(ctx context.Context) error {
	s.mu.Lock()
	resume := s.resume
	s.mu.Unlock()
	if !resume {
		return nil
	}
	return s.Enable(ctx)
}

// Enable subscribes every collection. Remote snapshots then replace local
// state. Collections whose subscription fails stay detached and are listed
// in the returned error.
func (s *Synchronizer) Enable(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return errors.New("synchronizer closed")
	}
	s.enabled = true
	s.mu.Unlock()
	s.persistFlag(ctx, true)

	var errs []error
	for _, m := range s.snapshotMembers() {
		if err := m.attach(ctx); err != nil {
			log.Printf("[syncer] WARN: %v", err)
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		s.notices.Errorf("sync enabled with %d collection(s) offline", len(errs))
		return errors.Join(errs...)
	}
	s.notices.Infof("sync enabled")
	return nil
}

// Disable unsubscribes every collection. Local state stays as it is and
// further writes are no longer pushed.
func (s *Synchronizer) Disable(ctx context.Context) {
	s.mu.Lock()
	s.enabled = false
	s.mu.Unlock()
	s.persistFlag(ctx, false)

	for _, m := range s.snapshotMembers() {
		m.detach()
	}
	s.notices.Infof("sync disabled")
}

func (s *Synchronizer) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// ForceSync pushes every record of every collection, one at a time, and
// reports the aggregate outcome.
func (s *Synchronizer) ForceSync(ctx context.Context) Report {
	report := Report{OK: true}
	for _, m := range s.snapshotMembers() {
		pushed, failed, err := m.pushAll(ctx)
		entry := CollectionReport{Name: m.name(), Pushed: pushed, Failed: failed}
		if err != nil {
			entry.Error = err.Error()
			report.OK = false
			log.Printf("[syncer] WARN: force sync %s: %d failed, first: %v", m.name(), failed, err)
		}
		report.Pushed += pushed
		report.Failed += failed
		report.Collections = append(report.Collections, entry)
	}

	if report.OK {
		s.notices.Infof("force sync pushed %d record(s)", report.Pushed)
	} else {
		s.notices.Errorf("force sync finished with %d failure(s)", report.Failed)
	}
	return report
}

// TestConnection writes and deletes a probe document.
func (s *Synchronizer) TestConnection(ctx context.Context) error {
	payload, _ := json.Marshal(map[string]string{"at": time.Now().UTC().Format(time.RFC3339)})
	if err := s.remote.Put(ctx, connectionTestCollect, "probe", payload); err != nil {
		return fmt.Errorf("connection test: %w", err)
	}
	if err := s.remote.Remove(ctx, connectionTestCollect, "probe"); err != nil {
		return fmt.Errorf("connection test cleanup: %w", err)
	}
	return nil
}

// Flush waits until every push queued so far has finished.
func (s *Synchronizer) Flush(ctx context.Context) error {
	select {
	case <-s.queue.idle():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Synchronizer) Status() Status {
	status := Status{Enabled: s.Enabled(), PendingPushes: s.queue.size()}
	for _, m := range s.snapshotMembers() {
		status.Collections = append(status.Collections, m.status())
	}
	return status
}

// Close detaches every collection and drains the push queue. The persisted
// sync flag is left untouched so the next start can resume.
func (s *Synchronizer) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	for _, m := range s.snapshotMembers() {
		m.detach()
	}
	s.queue.close()
	<-s.queue.done
	s.cancel()
	return nil
}

func (s *Synchronizer) enqueuePut(collection string, id string, item any) {
	payload, err := json.Marshal(item)
	if err != nil {
		log.Printf("[syncer] WARN: encode %s/%s: %v", collection, id, err)
		return
	}
	s.queue.enqueue(pushOp{collection: collection, id: id, payload: payload})
}

func (s *Synchronizer) enqueueRemove(collection string, id string) {
	s.queue.enqueue(pushOp{collection: collection, id: id, remove: true})
}

func (s *Synchronizer) execute(op pushOp) {
	var err error
	if op.remove {
		err = s.remote.Remove(s.ctx, op.collection, op.id)
	} else {
		err = s.remote.Put(s.ctx, op.collection, op.id, op.payload)
	}
	if err == nil {
		return
	}

	pushErr := &PushError{Collection: op.collection, ID: op.id, Remove: op.remove, Err: err}
	log.Printf("[syncer] WARN: %v", pushErr)
	s.notices.Errorf("could not push %s/%s to the cloud; the change is kept locally", op.collection, op.id)

	s.mu.Lock()
	handlers := slices.Clone(s.onFailure)
	s.mu.Unlock()
	for _, fn := range handlers {
		fn(pushErr)
	}
}

func (s *Synchronizer) persistFlag(ctx context.Context, enabled bool) {
	data, _ := json.Marshal(enabled)
	if err := s.cache.Set(ctx, syncFlagKey, data); err != nil {
		log.Printf("[syncer] WARN: write cache %s: %v", syncFlagKey, err)
	}
}
