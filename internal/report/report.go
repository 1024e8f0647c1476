// Package report renders analytics results as downloadable documents.
package report

import (
	"fmt"
	"strings"
	"time"

	"barbercash/backend/internal/analytics"
	"barbercash/backend/internal/domain"
	"barbercash/backend/internal/pricing"
)

const DefaultShopName = "BARBERCASH"

var monthNames = [...]string{
	"JANEIRO", "FEVEREIRO", "MARÇO", "ABRIL", "MAIO", "JUNHO",
	"JULHO", "AGOSTO", "SETEMBRO", "OUTUBRO", "NOVEMBRO", "DEZEMBRO",
}

type MonthlyReport struct {
	ShopName    string
	Period      analytics.Period
	Summary     analytics.Summary
	Top         analytics.TopItems
	GeneratedAt time.Time
}

type HistoryReport struct {
	ShopName    string
	CashFlow    analytics.CashFlowReport
	GeneratedAt time.Time
}

func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthNames[m-1]
}

func MonthlyFilename(period analytics.Period) string {
	return fmt.Sprintf("Relatorio_BarberCash_%s_%d.pdf", MonthName(period.Month), period.Year)
}

// HistoryFilename names a cash flow export; ext is given without the dot.
func HistoryFilename(filter analytics.CashFlowFilter, ext string) string {
	from, to := filter.From, filter.To
	if from == "" {
		from = "inicio"
	}
	if to == "" {
		to = "hoje"
	}
	return fmt.Sprintf("Fluxo_Caixa_BarberCash_%s_a_%s.%s", from, to, ext)
}

func money(cents int64) string {
	if cents < 0 {
		return "-R$ " + pricing.FormatCents(-cents)
	}
	return "R$ " + pricing.FormatCents(cents)
}

func signedMoney(tx domain.Transaction) string {
	if tx.Kind == domain.KindExpense {
		return money(-tx.AmountCents)
	}
	return money(tx.AmountCents)
}

func kindLabel(kind domain.TransactionKind) string {
	if kind == domain.KindExpense {
		return "SAÍDA"
	}
	return "ENTRADA"
}

// displayDate turns YYYY-MM-DD into DD/MM/YYYY.
func displayDate(date string) string {
	parts := strings.Split(date, "-")
	if len(parts) != 3 {
		return date
	}
	return parts[2] + "/" + parts[1] + "/" + parts[0]
}

func shopName(name string) string {
	if strings.TrimSpace(name) == "" {
		return DefaultShopName
	}
	return strings.ToUpper(name)
}
