package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"barbercash/backend/internal/domain"
	"barbercash/backend/internal/store"
	"barbercash/backend/internal/syncer"
)

var (
	ErrForbidden            = errors.New("admin role required")
	ErrSelfDelete           = errors.New("cannot delete the signed-in account")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrAppointmentCancelled = errors.New("appointment is cancelled")
	ErrAppointmentCompleted = errors.New("appointment is already completed")
)

type actorContextKey struct{}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

type Options struct {
	MonthlyGoalCents int64
	// Now overrides the clock used for default dates and timestamps.
	Now func() time.Time
}

// Service is the single entry point for every mutating action. Actions run
// one at a time; reads go straight to the ledger collections.
type Service struct {
	ledger  *syncer.Ledger
	sync    *syncer.Synchronizer
	notices *syncer.NoticeFeed

	goalCents int64
	now       func() time.Time

	mu sync.Mutex
}

func New(ledger *syncer.Ledger, synchronizer *syncer.Synchronizer, opts Options) *Service {
	if opts.MonthlyGoalCents <= 0 {
		opts.MonthlyGoalCents = domain.DefaultMonthlyGoalCents
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Service{
		ledger:    ledger,
		sync:      synchronizer,
		notices:   synchronizer.Notices(),
		goalCents: opts.MonthlyGoalCents,
		now:       opts.Now,
	}
	synchronizer.OnPushFailure(s.reconcilePushFailure)
	return s
}

func (s *Service) Notices() *syncer.NoticeFeed {
	return s.notices
}

func (s *Service) today() string {
	return domain.FormatDate(s.now())
}

// done posts the transient status line for a successful action.
func (s *Service) done(message string) string {
	s.notices.Post(syncer.LevelInfo, message)
	return message
}

func (s *Service) requireAdmin(ctx context.Context) error {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return ErrForbidden
	}
	return nil
}

func (s *Service) logAudit(ctx context.Context, action string, entityType string, entityID string, detail string) {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		actor = domain.Actor{Username: "system", Role: "system"}
	}
	log.Printf("[audit] actor=%s role=%s action=%s entity=%s/%s %s", actor.Username, actor.Role, action, entityType, entityID, detail)
}

// reconcilePushFailure flags product sales whose ledger entry never reached
// the remote store while the stock decrement stands locally.
func (s *Service) reconcilePushFailure(pushErr *syncer.PushError) {
	if pushErr.Collection != store.CollectionTransactions || pushErr.Remove {
		return
	}
	tx, ok := s.ledger.Transactions.Get(pushErr.ID)
	if !ok || !strings.HasPrefix(tx.Source, domain.ProductSource("")) {
		return
	}
	log.Printf("[service] WARN: sale %s (%s) not in remote store, stock already decremented: %v", tx.ID, tx.Description, pushErr.Err)
	s.notices.Errorf("sale of %s was not saved to the cloud; stock was already decremented locally, please reconcile", tx.Description)
}
