package service

import (
	"barbercash/backend/internal/analytics"
	"barbercash/backend/internal/domain"
)

type Dashboard struct {
	Period            analytics.Period          `json:"period"`
	Summary           analytics.Summary         `json:"summary"`
	Goal              analytics.GoalProgress    `json:"goal"`
	Top               analytics.TopItems        `json:"top"`
	ByPaymentMethod   []analytics.MethodTotal   `json:"by_payment_method"`
	IncomeCategories  []analytics.CategoryTotal `json:"income_categories"`
	ExpenseCategories []analytics.CategoryTotal `json:"expense_categories"`
}

func (s *Service) CurrentPeriod() analytics.Period {
	return analytics.PeriodOf(s.now())
}

func (s *Service) Summary(period analytics.Period) analytics.Summary {
	return analytics.Summarize(s.ledger.Transactions.All(), period)
}

func (s *Service) Top(period analytics.Period, n int) analytics.TopItems {
	return analytics.Top(s.ledger.Transactions.All(), period, n)
}

func (s *Service) CashFlow(filter analytics.CashFlowFilter) (analytics.CashFlowReport, error) {
	return analytics.CashFlow(s.ledger.Transactions.All(), filter)
}

func (s *Service) MonthlyGoalCents() int64 {
	return s.goalCents
}

// Dashboard computes every monthly figure from a single read of the ledger.
func (s *Service) Dashboard(period analytics.Period) Dashboard {
	txs := s.ledger.Transactions.All()
	summary := analytics.Summarize(txs, period)
	return Dashboard{
		Period:            period,
		Summary:           summary,
		Goal:              analytics.Goal(summary, s.goalCents),
		Top:               analytics.Top(txs, period, analytics.DefaultTopN),
		ByPaymentMethod:   analytics.ByPaymentMethod(txs, period),
		IncomeCategories:  analytics.ByCategory(txs, period, domain.KindIncome),
		ExpenseCategories: analytics.ByCategory(txs, period, domain.KindExpense),
	}
}
