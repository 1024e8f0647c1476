package domain

// DefaultCatalog is the service list a fresh install starts with.
func DefaultCatalog() []ServiceCatalogEntry {
	return []ServiceCatalogEntry{
		{Name: "CORTE DE CABELO", PriceCents: 4500},
		{Name: "BARBA", PriceCents: 3500},
		{Name: "COMBO", PriceCents: 7500},
	}
}

const DefaultMonthlyGoalCents int64 = 500000
