// Package aggregate rolls indicator-level compliance up the strategic
// hierarchy: indicator -> objective -> line -> overall, plus the 4-level
// cascade used by drill-down views. Every roll-up is an unweighted mean of
// the immediate children, never a row-weighted mean: an objective with two
// indicators weighs the same as a sibling with twenty.
package aggregate

import (
	"errors"
	"sort"

	"strategic_dashboard/pkg/core/dataset"
	"strategic_dashboard/pkg/models"
)

var (
	// ErrEmptyInput is returned when no records survive filtering.
	ErrEmptyInput = errors.New("no records to aggregate")
	// ErrMissingGroups is returned when the grouping columns are entirely
	// absent, leaving nothing to roll up under.
	ErrMissingGroups = errors.New("grouping columns absent from input")
)

// GoalNone is the synthetic level-3 bucket for indicators without an
// institutional goal, so no indicator is orphaned from the cascade.
const GoalNone = "N/D"

// LineSummary is one row of the per-line dashboard table.
type LineSummary struct {
	Line       string  `json:"linea"`
	Compliance float64 `json:"cumplimiento"`
	Indicators int     `json:"total_indicadores"`
	Color      string  `json:"color"`
}

// CascadeNode is one row of the 4-level hierarchy. Levels: 1 line,
// 2 objective, 3 institutional goal, 4 indicator. Labels above the node's
// level identify its ancestry; labels below it are empty.
type CascadeNode struct {
	Level      int     `json:"nivel"`
	Line       string  `json:"linea"`
	Objective  string  `json:"objetivo"`
	GoalID     string  `json:"meta_pdi"`
	Indicator  string  `json:"indicador"`
	Compliance float64 `json:"cumplimiento"`
	Indicators int     `json:"total_indicadores"`
}

// Result carries everything one aggregation pass produces.
type Result struct {
	Overall    float64       `json:"cumplimiento_general"`
	Lines      []LineSummary `json:"lineas"`
	Cascade    []CascadeNode `json:"cascada"`
	Indicators int           `json:"total_indicadores"`
}

// group is one (labelKey -> member rows) bucket with its display label.
type group struct {
	label string
	rows  []*models.IndicatorRecord
}

// Aggregate rolls a filtered record set up the hierarchy. Records with nil
// compliance never contribute to any mean; a line or objective left with no
// qualifying indicator is omitted from its level, not emitted as 0%.
func Aggregate(records []models.IndicatorRecord) (*Result, error) {
	qualified := make([]*models.IndicatorRecord, 0, len(records))
	for i := range records {
		if records[i].Compliance != nil {
			qualified = append(qualified, &records[i])
		}
	}
	if len(qualified) == 0 {
		return nil, ErrEmptyInput
	}

	grouped := false
	for _, r := range qualified {
		if r.Line != "" && r.Objective != "" {
			grouped = true
			break
		}
	}
	if !grouped {
		return nil, ErrMissingGroups
	}

	lines := groupBy(qualified, func(r *models.IndicatorRecord) string { return r.Line })

	var summaries []LineSummary
	var overallSum float64
	for _, ln := range lines {
		objectives := groupBy(ln.rows, func(r *models.IndicatorRecord) string { return r.Objective })
		var objSum float64
		var objCount int
		for _, obj := range objectives {
			if c, ok := meanOfIndicators(obj.rows); ok {
				objSum += c
				objCount++
			}
		}
		if objCount == 0 {
			continue // no data is absence, not failure
		}
		lineCompliance := objSum / float64(objCount)
		overallSum += lineCompliance
		summaries = append(summaries, LineSummary{
			Line:       ln.label,
			Compliance: lineCompliance,
			Indicators: countIndicators(ln.rows),
			Color:      models.LineColor(ln.label),
		})
	}
	if len(summaries) == 0 {
		return nil, ErrEmptyInput
	}

	// Dashboard order: best-performing line first.
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].Compliance > summaries[j].Compliance
	})

	return &Result{
		Overall:    overallSum / float64(len(summaries)),
		Lines:      summaries,
		Cascade:    buildCascade(qualified),
		Indicators: countIndicators(qualified),
	}, nil
}

// meanOfIndicators reduces a bucket to the unweighted mean of its member
// indicators' compliance. Each indicator is itself reduced to the mean of
// its rows first, so a semiannual indicator with two sub-period rows still
// counts once.
func meanOfIndicators(rows []*models.IndicatorRecord) (float64, bool) {
	indicators := groupBy(rows, func(r *models.IndicatorRecord) string { return r.Indicator })
	var sum float64
	var n int
	for _, ind := range indicators {
		if c, ok := meanOfRows(ind.rows); ok {
			sum += c
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// meanOfRows averages the compliance of an indicator's own rows.
func meanOfRows(rows []*models.IndicatorRecord) (float64, bool) {
	var sum float64
	var n int
	for _, r := range rows {
		if r.Compliance != nil {
			sum += *r.Compliance
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// groupBy buckets rows by the trim/fold-normalized key of a label, keeping
// the first display form seen. Buckets come back sorted by display label.
func groupBy(rows []*models.IndicatorRecord, key func(*models.IndicatorRecord) string) []group {
	byKey := map[string]*group{}
	for _, r := range rows {
		label := key(r)
		if label == "" {
			continue
		}
		k := dataset.LabelKey(label)
		g, ok := byKey[k]
		if !ok {
			g = &group{label: label}
			byKey[k] = g
		}
		g.rows = append(g.rows, r)
	}
	out := make([]group, 0, len(byKey))
	for _, g := range byKey {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].label < out[j].label })
	return out
}

func countIndicators(rows []*models.IndicatorRecord) int {
	seen := map[string]bool{}
	for _, r := range rows {
		if r.Indicator != "" {
			seen[dataset.LabelKey(r.Indicator)] = true
		}
	}
	return len(seen)
}
