package httpapi

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"barbercash/backend/internal/analytics"
	"barbercash/backend/internal/report"
)

// parsePeriod reads month (1-12) and year, defaulting to the current month.
func (a *API) parsePeriod(r *http.Request) (analytics.Period, error) {
	period := analytics.PeriodOf(a.now())
	query := r.URL.Query()
	if raw := strings.TrimSpace(query.Get("month")); raw != "" {
		month, err := strconv.Atoi(raw)
		if err != nil || month < 1 || month > 12 {
			return analytics.Period{}, errors.New("month must be between 1 and 12")
		}
		period.Month = time.Month(month)
	}
	if raw := strings.TrimSpace(query.Get("year")); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil || year < 1 {
			return analytics.Period{}, errors.New("year must be a positive number")
		}
		period.Year = year
	}
	return period, nil
}

func (a *API) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	period, err := a.parsePeriod(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	dashboard := a.service.Dashboard(period)
	if raw := r.URL.Query().Get("top"); raw != "" {
		dashboard.Top = a.service.Top(period, parsePositiveLimit(raw, analytics.DefaultTopN, 50))
	}
	writeJSON(w, http.StatusOK, dashboard)
}

func (a *API) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	period, err := a.parsePeriod(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	dashboard := a.service.Dashboard(period)
	var buf bytes.Buffer
	err = report.MonthlyPDF(&buf, report.MonthlyReport{
		ShopName:    a.shopName,
		Period:      period,
		Summary:     dashboard.Summary,
		Top:         dashboard.Top,
		GeneratedAt: a.now(),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("render monthly report: %w", err))
		return
	}
	writeAttachment(w, "application/pdf", report.MonthlyFilename(period), buf.Bytes())
}

func (a *API) handleCashFlowExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	query := r.URL.Query()
	flow, flowErr := a.service.CashFlow(analytics.CashFlowFilter{
		From:  query.Get("from"),
		To:    query.Get("to"),
		Query: query.Get("q"),
	})
	if flowErr != nil {
		writeServiceError(w, flowErr)
		return
	}
	history := report.HistoryReport{ShopName: a.shopName, CashFlow: flow, GeneratedAt: a.now()}

	var (
		buf         bytes.Buffer
		err         error
		contentType string
		ext         string
	)
	switch format := strings.ToLower(strings.TrimSpace(query.Get("format"))); format {
	case "", "pdf":
		contentType, ext = "application/pdf", "pdf"
		err = report.HistoryPDF(&buf, history)
	case "xlsx":
		contentType, ext = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "xlsx"
		err = report.HistoryXLSX(&buf, history)
	case "csv":
		contentType, ext = "text/csv; charset=utf-8", "csv"
		err = report.HistoryCSV(&buf, history)
	default:
		writeError(w, http.StatusBadRequest, fmt.Errorf("unsupported format %q", format))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("render cash flow %s: %w", ext, err))
		return
	}
	writeAttachment(w, contentType, report.HistoryFilename(flow.Filter, ext), buf.Bytes())
}

func (a *API) handleNotices(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	var since int64
	if raw := strings.TrimSpace(r.URL.Query().Get("since")); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, errors.New("since must be a non-negative sequence number"))
			return
		}
		since = parsed
	}
	writeJSON(w, http.StatusOK, map[string]any{"notices": a.service.Notices().Since(since)})
}

func writeAttachment(w http.ResponseWriter, contentType string, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
