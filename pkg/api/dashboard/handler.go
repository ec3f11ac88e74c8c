// Package dashboard exposes the aggregation core over HTTP for the web UI
// and the exporters.
package dashboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"strategic_dashboard/pkg/core/aggregate"
	"strategic_dashboard/pkg/core/dataset"
	"strategic_dashboard/pkg/core/report"
	"strategic_dashboard/pkg/core/session"
)

var sess *session.Session

// InitHandler wires the handlers to a session.
func InitHandler(s *session.Session) {
	sess = s
}

func cors(w http.ResponseWriter, r *http.Request) bool {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return true
	}
	return false
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		fmt.Printf("[API] encode response: %v\n", err)
	}
}

func yearParam(r *http.Request) int {
	y, _ := strconv.Atoi(r.URL.Query().Get("year"))
	return y
}

// HandleMetrics serves the tile metrics for one year
// (GET /api/dashboard/metrics?year=2025).
func HandleMetrics(w http.ResponseWriter, r *http.Request) {
	if cors(w, r) {
		return
	}
	writeJSON(w, sess.Metrics(yearParam(r)))
}

// HandleLines serves the per-line summary table, descending by compliance
// (GET /api/dashboard/lines?year=2025&order=name).
func HandleLines(w http.ResponseWriter, r *http.Request) {
	if cors(w, r) {
		return
	}
	year := yearParam(r)
	if year == 0 {
		year = sess.Dataset().MaxYear()
	}
	res, err := sess.Aggregate(year, dataset.DefaultOptions(year))
	if err != nil {
		writeAggregateError(w, err)
		return
	}
	order := report.SortByCompliance
	if r.URL.Query().Get("order") == "name" {
		order = report.SortByName
	}
	writeJSON(w, report.LineTable(res.Lines, order))
}

// HandleCascade serves the 4-level drill-down hierarchy
// (GET /api/dashboard/cascade?year=2025&level=2, level optional).
func HandleCascade(w http.ResponseWriter, r *http.Request) {
	if cors(w, r) {
		return
	}
	year := yearParam(r)
	if year == 0 {
		year = sess.Dataset().MaxYear()
	}
	res, err := sess.Aggregate(year, dataset.DefaultOptions(year))
	if err != nil {
		writeAggregateError(w, err)
		return
	}
	if lvl, err := strconv.Atoi(r.URL.Query().Get("level")); err == nil && lvl >= 1 && lvl <= 4 {
		writeJSON(w, report.ByLevel(res.Cascade)[lvl])
		return
	}
	writeJSON(w, res.Cascade)
}

// HandleLineDetail serves one line's objective/indicator breakdown
// (GET /api/dashboard/line?year=2025&line=Calidad).
func HandleLineDetail(w http.ResponseWriter, r *http.Request) {
	if cors(w, r) {
		return
	}
	line := r.URL.Query().Get("line")
	if line == "" {
		http.Error(w, "line parameter required", http.StatusBadRequest)
		return
	}
	year := yearParam(r)
	if year == 0 {
		year = sess.Dataset().MaxYear()
	}
	opts := dataset.DefaultOptions(year)
	opts.Line = line
	records := dataset.Apply(sess.Dataset(), opts)
	writeJSON(w, report.Detail(records, line))
}

// HandleHistory serves an indicator's closed-record series
// (GET /api/dashboard/history?indicator=...).
func HandleHistory(w http.ResponseWriter, r *http.Request) {
	if cors(w, r) {
		return
	}
	indicator := r.URL.Query().Get("indicator")
	if indicator == "" {
		http.Error(w, "indicator parameter required", http.StatusBadRequest)
		return
	}
	writeJSON(w, sess.History(indicator))
}

// HandleYears serves the selectable reporting years present in the snapshot.
func HandleYears(w http.ResponseWriter, r *http.Request) {
	if cors(w, r) {
		return
	}
	writeJSON(w, sess.Dataset().Years())
}

// HandleRefresh reloads the snapshot and invalidates cached aggregates
// (POST /api/dashboard/refresh).
func HandleRefresh(w http.ResponseWriter, r *http.Request) {
	if cors(w, r) {
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "POST required", http.StatusMethodNotAllowed)
		return
	}
	if err := sess.Reload(); err != nil {
		http.Error(w, fmt.Sprintf("reload failed: %v", err), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, map[string]string{"version": sess.Dataset().Version})
}

// HandleExport streams the xlsx report for one year
// (GET /api/dashboard/export?year=2025).
func HandleExport(w http.ResponseWriter, r *http.Request) {
	if cors(w, r) {
		return
	}
	rep, err := sess.Report(yearParam(r))
	if err != nil {
		writeAggregateError(w, err)
		return
	}
	data, err := report.ExportExcel(rep)
	if err != nil {
		http.Error(w, fmt.Sprintf("export failed: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="informe_estrategico.xlsx"`)
	w.Write(data)
}

// writeAggregateError maps aggregation failures: an empty result is a valid
// no-data state for the UI, anything else is a server fault.
func writeAggregateError(w http.ResponseWriter, err error) {
	if errors.Is(err, aggregate.ErrEmptyInput) || errors.Is(err, aggregate.ErrMissingGroups) {
		writeJSON(w, []interface{}{})
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
