package analytics

import (
	"errors"
	"testing"
	"time"

	"barbercash/backend/internal/domain"
)

func tx(id string, date string, kind domain.TransactionKind, cents int64, description string, category string) domain.Transaction {
	return domain.Transaction{
		ID:            id,
		Description:   description,
		AmountCents:   cents,
		Kind:          kind,
		Category:      category,
		Date:          date,
		PaymentMethod: domain.PaymentCash,
	}
}

func sampleLog() []domain.Transaction {
	return []domain.Transaction{
		tx("a", "2024-01-15", domain.KindIncome, 10000, "CORTE", domain.CategoryHaircut),
		tx("b", "2024-01-20", domain.KindExpense, 3000, "ALUGUEL", "DESPESA FIXA"),
		tx("c", "2024-02-01", domain.KindIncome, 5000, "BARBA", domain.CategoryBeard),
	}
}

func TestSummarizeSplitsByMonth(t *testing.T) {
	log := sampleLog()

	jan := Summarize(log, Period{Month: time.January, Year: 2024})
	if jan.MonthIncomeCents != 10000 || jan.MonthExpenseCents != 3000 {
		t.Fatalf("january: expected 10000/3000, got %d/%d", jan.MonthIncomeCents, jan.MonthExpenseCents)
	}
	if jan.BalanceCents != 12000 {
		t.Fatalf("expected all-time balance 12000, got %d", jan.BalanceCents)
	}

	feb := Summarize(log, Period{Month: time.February, Year: 2024})
	if feb.MonthIncomeCents != 5000 || feb.MonthExpenseCents != 0 {
		t.Fatalf("february: expected 5000/0, got %d/%d", feb.MonthIncomeCents, feb.MonthExpenseCents)
	}
	if feb.BalanceCents != 12000 || feb.MonthBalanceCents != 5000 {
		t.Fatalf("unexpected february balances %+v", feb)
	}
}

func TestSummarizeMonthBoundaryDates(t *testing.T) {
	log := []domain.Transaction{
		tx("a", "2024-01-31", domain.KindIncome, 100, "X", "Y"),
		tx("b", "2024-02-01", domain.KindIncome, 200, "X", "Y"),
		tx("c", "2023-01-15", domain.KindIncome, 400, "X", "Y"),
	}
	jan := Summarize(log, Period{Month: time.January, Year: 2024})
	if jan.MonthIncomeCents != 100 {
		t.Fatalf("expected only 2024-01-31 in january, got %d", jan.MonthIncomeCents)
	}
}

func TestCashFlowRangeSortedDescending(t *testing.T) {
	report, err := CashFlow(sampleLog(), CashFlowFilter{From: "2024-01-01", To: "2024-01-31"})
	if err != nil {
		t.Fatalf("cash flow: %v", err)
	}
	if len(report.Transactions) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(report.Transactions))
	}
	if report.Transactions[0].Date != "2024-01-20" || report.Transactions[1].Date != "2024-01-15" {
		t.Fatalf("expected descending dates, got %s then %s", report.Transactions[0].Date, report.Transactions[1].Date)
	}
	if report.IncomeCents != 10000 || report.ExpenseCents != 3000 || report.NetCents != 7000 {
		t.Fatalf("unexpected sums %+v", report)
	}
}

func TestCashFlowQueryIsCaseInsensitive(t *testing.T) {
	report, err := CashFlow(sampleLog(), CashFlowFilter{Query: "barb"})
	if err != nil {
		t.Fatalf("cash flow: %v", err)
	}
	if len(report.Transactions) != 1 || report.Transactions[0].ID != "c" {
		t.Fatalf("expected only the BARBA entry, got %+v", report.Transactions)
	}
}

func TestCashFlowQueryKeepsSurroundingSpaces(t *testing.T) {
	log := []domain.Transaction{
		tx("a", "2024-01-15", domain.KindIncome, 4500, "CORTE DE CABELO", domain.CategoryHaircut),
		tx("b", "2024-01-16", domain.KindIncome, 3500, "BARBA", domain.CategoryBeard),
	}
	report, err := CashFlow(log, CashFlowFilter{Query: " de "})
	if err != nil {
		t.Fatalf("cash flow: %v", err)
	}
	if len(report.Transactions) != 1 || report.Transactions[0].ID != "a" {
		t.Fatalf("expected only the entry containing \" de \", got %+v", report.Transactions)
	}
	report, err = CashFlow(log, CashFlowFilter{Query: "BARBA "})
	if err != nil {
		t.Fatalf("cash flow: %v", err)
	}
	if len(report.Transactions) != 0 {
		t.Fatalf("expected trailing space to be matched literally, got %+v", report.Transactions)
	}
}

func TestCashFlowRejectsMalformedBounds(t *testing.T) {
	cases := []struct {
		filter CashFlowFilter
		field  string
	}{
		{CashFlowFilter{From: "2024-1-1", To: "2024-1-31"}, "from"},
		{CashFlowFilter{From: "garbage"}, "from"},
		{CashFlowFilter{From: "2024-01-01", To: "31/01/2024"}, "to"},
	}
	for _, tc := range cases {
		_, err := CashFlow(sampleLog(), tc.filter)
		var verr *domain.ValidationError
		if !errors.As(err, &verr) || verr.Field != tc.field {
			t.Fatalf("%+v: expected validation error on %s, got %v", tc.filter, tc.field, err)
		}
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("%+v: expected ErrValidation, got %v", tc.filter, err)
		}
	}
}

func TestTopServicesOrderedByCount(t *testing.T) {
	log := []domain.Transaction{
		tx("1", "2024-03-02", domain.KindIncome, 4500, "CORTE", domain.CategoryHaircut),
		tx("2", "2024-03-03", domain.KindIncome, 3500, "BARBA", domain.CategoryBeard),
		tx("3", "2024-03-04", domain.KindIncome, 4500, "corte", domain.CategoryHaircut),
		tx("4", "2024-03-04", domain.KindIncome, 2500, "POMADA", domain.CategoryProducts),
		tx("5", "2024-03-05", domain.KindExpense, 2500, "CORTE", "X"),
	}
	top := Top(log, Period{Month: time.March, Year: 2024}, 3)

	if len(top.Services) != 2 {
		t.Fatalf("expected 2 services, got %+v", top.Services)
	}
	if top.Services[0].Name != "CORTE" || top.Services[0].Count != 2 {
		t.Fatalf("expected CORTE x2 first, got %+v", top.Services[0])
	}
	if top.Services[1].Name != "BARBA" || top.Services[1].Count != 1 {
		t.Fatalf("expected BARBA x1 second, got %+v", top.Services[1])
	}
	if len(top.Products) != 1 || top.Products[0].Name != "POMADA" {
		t.Fatalf("expected POMADA among products, got %+v", top.Products)
	}
}

func TestTopBreaksTiesByFirstSeen(t *testing.T) {
	log := []domain.Transaction{
		tx("1", "2024-03-01", domain.KindIncome, 100, "ZULU", "S"),
		tx("2", "2024-03-01", domain.KindIncome, 100, "ALFA", "S"),
		tx("3", "2024-03-01", domain.KindIncome, 100, "MIKE", "S"),
		tx("4", "2024-03-01", domain.KindIncome, 100, "BRAVO", "S"),
	}
	top := Top(log, Period{Month: time.March, Year: 2024}, 0)
	if len(top.Services) != DefaultTopN {
		t.Fatalf("expected %d entries, got %d", DefaultTopN, len(top.Services))
	}
	want := []string{"ZULU", "ALFA", "MIKE"}
	for i, name := range want {
		if top.Services[i].Name != name {
			t.Fatalf("position %d: expected %s, got %s", i, name, top.Services[i].Name)
		}
	}
}

func TestBreakdownsAndGoal(t *testing.T) {
	log := sampleLog()
	log[0].PaymentMethod = domain.PaymentPix
	period := Period{Month: time.January, Year: 2024}

	methods := ByPaymentMethod(log, period)
	if len(methods) != 1 || methods[0].Method != domain.PaymentPix || methods[0].TotalCents != 10000 {
		t.Fatalf("unexpected method breakdown %+v", methods)
	}

	expenses := ByCategory(log, period, domain.KindExpense)
	if len(expenses) != 1 || expenses[0].Category != "DESPESA FIXA" {
		t.Fatalf("unexpected category breakdown %+v", expenses)
	}

	goal := Goal(Summarize(log, period), 40000)
	if goal.Percent != 25 || goal.RemainingCents != 30000 {
		t.Fatalf("unexpected goal progress %+v", goal)
	}
	if capped := Goal(Summarize(log, period), 5000); capped.Percent != 100 || capped.RemainingCents != 0 {
		t.Fatalf("expected capped goal, got %+v", capped)
	}
}
