package syncer

import (
	"barbercash/backend/internal/domain"
	"barbercash/backend/internal/store"
)

// Ledger holds the six synchronized collections of the shop.
type Ledger struct {
	Users        *Collection[domain.User]
	Transactions *Collection[domain.Transaction]
	Products     *Collection[domain.Product]
	Catalog      *Collection[domain.ServiceCatalogEntry]
	CardFees     *Collection[domain.CardFeeSchedule]
	Appointments *Collection[domain.Appointment]
}

// Seed supplies first-run content and the user record rewrite hook.
type Seed struct {
	Users       func() []domain.User
	Catalog     func() []domain.ServiceCatalogEntry
	CardFees    domain.CardFeeSchedule
	UpgradeUser func(domain.User) (domain.User, bool)
}

func NewLedger(s *Synchronizer, seed Seed) *Ledger {
	return &Ledger{
		Users: Register(s, Spec[domain.User]{
			Name:        store.CollectionUsers,
			CacheKey:    "barber_users",
			ID:          func(u domain.User) string { return u.ID },
			Defaults:    seed.Users,
			Ingest:      seed.UpgradeUser,
			KeepOnEmpty: true,
		}),
		Transactions: Register(s, Spec[domain.Transaction]{
			Name:     store.CollectionTransactions,
			CacheKey: "barber_transactions",
			ID:       func(t domain.Transaction) string { return t.ID },
		}),
		Products: Register(s, Spec[domain.Product]{
			Name:     store.CollectionProducts,
			CacheKey: "barber_products",
			ID:       func(p domain.Product) string { return p.ID },
		}),
		Catalog: Register(s, Spec[domain.ServiceCatalogEntry]{
			Name:     store.CollectionCatalog,
			CacheKey: "barber_service_config",
			ID:       func(e domain.ServiceCatalogEntry) string { return e.Name },
			Defaults: seed.Catalog,
		}),
		CardFees: Register(s, Spec[domain.CardFeeSchedule]{
			Name:     store.CollectionCardFees,
			CacheKey: "barber_card_fees",
			ID:       func(domain.CardFeeSchedule) string { return domain.CardFeeScheduleID },
			Defaults: func() []domain.CardFeeSchedule { return []domain.CardFeeSchedule{seed.CardFees} },
		}),
		Appointments: Register(s, Spec[domain.Appointment]{
			Name:     store.CollectionAppointments,
			CacheKey: "barber_appointments",
			ID:       func(a domain.Appointment) string { return a.ID },
		}),
	}
}

// Fees returns the current card fee schedule.
func (l *Ledger) Fees() domain.CardFeeSchedule {
	fees, _ := l.CardFees.Get(domain.CardFeeScheduleID)
	return fees
}
