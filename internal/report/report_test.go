package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"barbercash/backend/internal/analytics"
	"barbercash/backend/internal/domain"
)

func sampleHistory(t *testing.T) HistoryReport {
	t.Helper()
	txs := []domain.Transaction{
		{ID: "t2", Description: "ALUGUEL", AmountCents: 120000, Kind: domain.KindExpense, Category: "FIXO", Date: "2024-03-05", PaymentMethod: domain.PaymentPix},
		{ID: "t1", Description: "CORTE DE CABELO", AmountCents: 4500, Kind: domain.KindIncome, Category: domain.CategoryHaircut, Date: "2024-03-02", PaymentMethod: domain.PaymentCash},
	}
	flow, err := analytics.CashFlow(txs, analytics.CashFlowFilter{From: "2024-03-01", To: "2024-03-31"})
	if err != nil {
		t.Fatalf("cash flow: %v", err)
	}
	return HistoryReport{
		CashFlow:    flow,
		GeneratedAt: time.Date(2024, time.April, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestMonthlyPDF(t *testing.T) {
	var buf bytes.Buffer
	err := MonthlyPDF(&buf, MonthlyReport{
		Period:  analytics.Period{Month: time.March, Year: 2024},
		Summary: analytics.Summary{MonthIncomeCents: 4500, MonthExpenseCents: 120000, MonthBalanceCents: -115500},
		Top: analytics.TopItems{
			Services: []analytics.RankedItem{{Name: "CORTE DE CABELO", Count: 1, TotalCents: 4500}},
		},
		GeneratedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("monthly pdf: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatalf("expected a PDF document")
	}
}

func TestHistoryPDFPaginatesLongListings(t *testing.T) {
	history := sampleHistory(t)
	for i := 0; i < 120; i++ {
		history.CashFlow.Transactions = append(history.CashFlow.Transactions, history.CashFlow.Transactions[1])
	}
	var buf bytes.Buffer
	if err := HistoryPDF(&buf, history); err != nil {
		t.Fatalf("history pdf: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatalf("expected a PDF document")
	}
}

func TestHistoryXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := HistoryXLSX(&buf, sampleHistory(t)); err != nil {
		t.Fatalf("history xlsx: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(historySheet)
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) < 3 {
		t.Fatalf("expected header and two rows, got %d", len(rows))
	}
	if rows[0][0] != "DATA" {
		t.Fatalf("unexpected header: %v", rows[0])
	}
	if rows[1][0] != "05/03/2024" || rows[1][4] != "SAÍDA" {
		t.Fatalf("expected newest entry first, got %v", rows[1])
	}
	value, err := f.GetCellValue(historySheet, "F3", excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatalf("read amount: %v", err)
	}
	if value != "45" {
		t.Fatalf("expected numeric amount 45, got %q", value)
	}
}

func TestHistoryCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := HistoryCSV(&buf, sampleHistory(t)); err != nil {
		t.Fatalf("history csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), buf.String())
	}
	if lines[1] != "2024-03-05,ALUGUEL,FIXO,PIX,EXPENSE,-1200.00" {
		t.Fatalf("unexpected expense row: %q", lines[1])
	}
	if lines[2] != "2024-03-02,CORTE DE CABELO,CORTE DE CABELO,CASH,INCOME,45.00" {
		t.Fatalf("unexpected income row: %q", lines[2])
	}
}

func TestFilenames(t *testing.T) {
	if got := MonthlyFilename(analytics.Period{Month: time.March, Year: 2024}); got != "Relatorio_BarberCash_MARÇO_2024.pdf" {
		t.Fatalf("unexpected monthly filename %q", got)
	}
	if got := HistoryFilename(analytics.CashFlowFilter{From: "2024-03-01"}, "csv"); got != "Fluxo_Caixa_BarberCash_2024-03-01_a_hoje.csv" {
		t.Fatalf("unexpected history filename %q", got)
	}
}
