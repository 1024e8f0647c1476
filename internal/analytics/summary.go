package analytics

import (
	"time"

	"barbercash/backend/internal/domain"
)

// Period selects one calendar month.
type Period struct {
	Month time.Month `json:"month"`
	Year  int        `json:"year"`
}

func PeriodOf(t time.Time) Period {
	return Period{Month: t.Month(), Year: t.Year()}
}

func (p Period) Contains(date string) bool {
	day, err := domain.ParseDate(date)
	if err != nil {
		return false
	}
	return day.Month() == p.Month && day.Year() == p.Year
}

type Summary struct {
	Period            Period `json:"period"`
	TotalIncomeCents  int64  `json:"total_income_cents"`
	TotalExpenseCents int64  `json:"total_expense_cents"`
	BalanceCents      int64  `json:"balance_cents"`
	MonthIncomeCents  int64  `json:"month_income_cents"`
	MonthExpenseCents int64  `json:"month_expense_cents"`
	MonthBalanceCents int64  `json:"month_balance_cents"`
}

// Summarize folds the whole log into the all-time balance and the income and
// expense split of the given month.
func Summarize(txs []domain.Transaction, period Period) Summary {
	summary := Summary{Period: period}
	for _, tx := range txs {
		inMonth := period.Contains(tx.Date)
		switch tx.Kind {
		case domain.KindIncome:
			summary.TotalIncomeCents += tx.AmountCents
			if inMonth {
				summary.MonthIncomeCents += tx.AmountCents
			}
		case domain.KindExpense:
			summary.TotalExpenseCents += tx.AmountCents
			if inMonth {
				summary.MonthExpenseCents += tx.AmountCents
			}
		}
	}
	summary.BalanceCents = summary.TotalIncomeCents - summary.TotalExpenseCents
	summary.MonthBalanceCents = summary.MonthIncomeCents - summary.MonthExpenseCents
	return summary
}

type GoalProgress struct {
	GoalCents      int64   `json:"goal_cents"`
	AchievedCents  int64   `json:"achieved_cents"`
	RemainingCents int64   `json:"remaining_cents"`
	Percent        float64 `json:"percent"`
}

// Goal reports month income against a monthly target; Percent is capped at 100.
func Goal(summary Summary, goalCents int64) GoalProgress {
	progress := GoalProgress{GoalCents: goalCents, AchievedCents: summary.MonthIncomeCents}
	if goalCents <= 0 {
		return progress
	}
	progress.RemainingCents = goalCents - summary.MonthIncomeCents
	if progress.RemainingCents < 0 {
		progress.RemainingCents = 0
	}
	progress.Percent = float64(summary.MonthIncomeCents) / float64(goalCents) * 100
	if progress.Percent > 100 {
		progress.Percent = 100
	}
	return progress
}
