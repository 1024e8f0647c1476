package report

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"barbercash/backend/internal/analytics"
)

const (
	pageWidth  = 210.0
	leftMargin = 15.0
	rowLimitY  = 270.0
)

type rgb struct{ r, g, b int }

var (
	colorNavy  = rgb{2, 6, 23}
	colorSky   = rgb{14, 165, 233}
	colorSlate = rgb{51, 65, 85}
	colorAmber = rgb{249, 115, 22}
	colorMuted = rgb{100, 116, 139}
)

type document struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

func newDocument(title string, subtitle string, footer string) *document {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(leftMargin, 15, leftMargin)
	pdf.SetAutoPageBreak(false, 20)
	pdf.AliasNbPages("")
	d := &document{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(colorMuted.r, colorMuted.g, colorMuted.b)
		pdf.CellFormat(0, 5, d.tr(footer), "", 0, "L", false, 0, "")
		pdf.SetX(leftMargin)
		pdf.CellFormat(0, 5, fmt.Sprintf("%d/{nb}", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFillColor(colorNavy.r, colorNavy.g, colorNavy.b)
	pdf.Rect(0, 0, pageWidth, 40, "F")
	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetTextColor(255, 255, 255)
	pdf.Text(leftMargin, 25, d.tr(title))
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(colorSky.r, colorSky.g, colorSky.b)
	pdf.Text(leftMargin, 33, d.tr(subtitle))
	pdf.SetY(48)
	return d
}

func (d *document) heading(text string) {
	d.pdf.Ln(4)
	d.pdf.SetFont("Helvetica", "B", 14)
	d.pdf.SetTextColor(0, 0, 0)
	d.pdf.CellFormat(0, 8, d.tr(text), "", 1, "L", false, 0, "")
	d.pdf.Ln(2)
}

func (d *document) tableHeader(widths []float64, headers []string, fill rgb) {
	d.pdf.SetFont("Helvetica", "B", 9)
	d.pdf.SetFillColor(fill.r, fill.g, fill.b)
	d.pdf.SetTextColor(255, 255, 255)
	for i, header := range headers {
		d.pdf.CellFormat(widths[i], 8, d.tr(header), "1", 0, "C", true, 0, "")
	}
	d.pdf.Ln(-1)
}

// table draws rows and repeats the header on every new page.
func (d *document) table(widths []float64, headers []string, aligns []string, rows [][]string, fill rgb) {
	d.tableHeader(widths, headers, fill)
	d.pdf.SetFont("Helvetica", "", 9)
	d.pdf.SetTextColor(0, 0, 0)

	shade := false
	for _, row := range rows {
		if d.pdf.GetY() > rowLimitY {
			d.pdf.AddPage()
			d.tableHeader(widths, headers, fill)
			d.pdf.SetFont("Helvetica", "", 9)
			d.pdf.SetTextColor(0, 0, 0)
			shade = false
		}
		if shade {
			d.pdf.SetFillColor(241, 245, 249)
		} else {
			d.pdf.SetFillColor(255, 255, 255)
		}
		shade = !shade
		for i, cell := range row {
			d.pdf.CellFormat(widths[i], 7, d.tr(truncate(cell, widths[i])), "1", 0, aligns[i], true, 0, "")
		}
		d.pdf.Ln(-1)
	}
}

func (d *document) write(w io.Writer) error {
	if err := d.pdf.Error(); err != nil {
		return err
	}
	return d.pdf.Output(w)
}

// truncate keeps a cell on one line; roughly two characters fit per mm at 9pt.
func truncate(text string, width float64) string {
	limit := int(width * 0.55)
	runes := []rune(text)
	if limit < 4 || len(runes) <= limit {
		return text
	}
	return string(runes[:limit-3]) + "..."
}

func rankedRows(items []analytics.RankedItem) [][]string {
	if len(items) == 0 {
		return [][]string{{"SEM DADOS", "0", money(0)}}
	}
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{item.Name, fmt.Sprintf("%d", item.Count), money(item.TotalCents)})
	}
	return rows
}

// MonthlyPDF writes the monthly performance report.
func MonthlyPDF(w io.Writer, r MonthlyReport) error {
	d := newDocument(
		shopName(r.ShopName),
		fmt.Sprintf("RELATÓRIO DE PERFORMANCE - %s / %d", MonthName(r.Period.Month), r.Period.Year),
		"Gerado em: "+r.GeneratedAt.Format("02/01/2006 15:04")+" - BarberCash Pro",
	)

	d.heading("RESUMO DO PERÍODO")
	d.table([]float64{110, 70}, []string{"CATEGORIA", "VALOR"}, []string{"L", "R"}, [][]string{
		{"ENTRADAS", money(r.Summary.MonthIncomeCents)},
		{"SAÍDAS", money(r.Summary.MonthExpenseCents)},
		{"SALDO LÍQUIDO", money(r.Summary.MonthBalanceCents)},
	}, colorSky)

	rankWidths := []float64{100, 35, 45}
	rankAligns := []string{"L", "C", "R"}

	d.heading("SERVIÇOS MAIS REALIZADOS")
	d.table(rankWidths, []string{"SERVIÇO", "QUANTIDADE", "TOTAL"}, rankAligns, rankedRows(r.Top.Services), colorSlate)

	d.heading("PRODUTOS MAIS VENDIDOS")
	d.table(rankWidths, []string{"PRODUTO", "QUANTIDADE", "TOTAL"}, rankAligns, rankedRows(r.Top.Products), colorAmber)

	return d.write(w)
}

// HistoryPDF writes the cash flow listing with its totals.
func HistoryPDF(w io.Writer, r HistoryReport) error {
	flow := r.CashFlow
	d := newDocument(
		shopName(r.ShopName),
		fmt.Sprintf("FLUXO DE CAIXA: %s ATÉ %s", displayDate(flow.Filter.From), displayDate(flow.Filter.To)),
		"Gerado em: "+r.GeneratedAt.Format("02/01/2006 15:04")+" - BarberCash Pro",
	)

	rows := make([][]string, 0, len(flow.Transactions))
	for _, tx := range flow.Transactions {
		rows = append(rows, []string{
			displayDate(tx.Date),
			tx.Description,
			tx.Category,
			string(tx.PaymentMethod),
			kindLabel(tx.Kind),
			signedMoney(tx),
		})
	}
	d.table(
		[]float64{22, 52, 34, 26, 18, 28},
		[]string{"DATA", "DESCRIÇÃO", "CATEGORIA", "PAG.", "TIPO", "VALOR"},
		[]string{"C", "L", "L", "C", "C", "R"},
		rows, colorSky,
	)

	if d.pdf.GetY() > rowLimitY-25 {
		d.pdf.AddPage()
	}
	d.pdf.Ln(8)
	d.pdf.SetTextColor(0, 0, 0)
	d.pdf.SetFont("Helvetica", "", 10)
	d.pdf.CellFormat(0, 7, d.tr("TOTAL ENTRADAS: "+money(flow.IncomeCents)), "", 1, "L", false, 0, "")
	d.pdf.CellFormat(0, 7, d.tr("TOTAL SAÍDAS: "+money(flow.ExpenseCents)), "", 1, "L", false, 0, "")
	d.pdf.SetFont("Helvetica", "B", 10)
	d.pdf.CellFormat(0, 7, d.tr("SALDO NO PERÍODO: "+money(flow.NetCents)), "", 1, "L", false, 0, "")

	return d.write(w)
}
