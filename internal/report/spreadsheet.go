package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"barbercash/backend/internal/domain"
	"barbercash/backend/internal/pricing"
)

const historySheet = "Fluxo de Caixa"

var historyHeaders = []string{"DATA", "DESCRIÇÃO", "CATEGORIA", "PAGAMENTO", "TIPO", "VALOR"}

func signedCents(tx domain.Transaction) int64 {
	if tx.Kind == domain.KindExpense {
		return -tx.AmountCents
	}
	return tx.AmountCents
}

// HistoryXLSX writes the cash flow listing as a workbook. Amounts are numeric
// cells in reais so the sheet can be summed.
func HistoryXLSX(w io.Writer, r HistoryReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", historySheet); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"0EA5E9"}},
	})
	if err != nil {
		return err
	}
	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return err
	}

	header := make([]any, len(historyHeaders))
	for i, h := range historyHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(historySheet, "A1", &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(historySheet, "A1", "F1", headerStyle); err != nil {
		return err
	}

	row := 2
	for _, tx := range r.CashFlow.Transactions {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		values := []any{
			displayDate(tx.Date),
			tx.Description,
			tx.Category,
			string(tx.PaymentMethod),
			kindLabel(tx.Kind),
			float64(signedCents(tx)) / 100,
		}
		if err := f.SetSheetRow(historySheet, cell, &values); err != nil {
			return err
		}
		row++
	}

	row++
	totals := [][2]any{
		{"TOTAL ENTRADAS", float64(r.CashFlow.IncomeCents) / 100},
		{"TOTAL SAÍDAS", float64(r.CashFlow.ExpenseCents) / 100},
		{"SALDO NO PERÍODO", float64(r.CashFlow.NetCents) / 100},
	}
	for _, total := range totals {
		label, _ := excelize.CoordinatesToCellName(5, row)
		value, _ := excelize.CoordinatesToCellName(6, row)
		if err := f.SetCellValue(historySheet, label, total[0]); err != nil {
			return err
		}
		if err := f.SetCellValue(historySheet, value, total[1]); err != nil {
			return err
		}
		row++
	}

	last, _ := excelize.CoordinatesToCellName(6, row)
	if err := f.SetCellStyle(historySheet, "F2", last, amountStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(historySheet, "B", "C", 28); err != nil {
		return err
	}
	if err := f.SetColWidth(historySheet, "E", "E", 18); err != nil {
		return err
	}

	return f.Write(w)
}

// HistoryCSV writes the cash flow listing as comma separated values.
func HistoryCSV(w io.Writer, r HistoryReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "description", "category", "payment_method", "kind", "amount"}); err != nil {
		return err
	}
	for _, tx := range r.CashFlow.Transactions {
		record := []string{
			tx.Date,
			tx.Description,
			tx.Category,
			string(tx.PaymentMethod),
			string(tx.Kind),
			signedAmount(tx),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %s: %w", tx.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func signedAmount(tx domain.Transaction) string {
	cents := signedCents(tx)
	if cents < 0 {
		return "-" + pricing.FormatCents(-cents)
	}
	return pricing.FormatCents(cents)
}
