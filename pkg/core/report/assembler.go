// Package report reshapes aggregation output into the row/column structures
// the rendering and export layers consume. Pure reshaping: no value computed
// here that the aggregator did not already produce.
package report

import (
	"sort"

	"strategic_dashboard/pkg/core/aggregate"
	"strategic_dashboard/pkg/core/compliance"
	"strategic_dashboard/pkg/core/dataset"
	"strategic_dashboard/pkg/core/metrics"
	"strategic_dashboard/pkg/models"
)

// SortOrder controls row ordering in assembled tables. The aggregator's
// descending-by-compliance order is preserved by default.
type SortOrder int

const (
	SortByCompliance SortOrder = iota // descending, aggregator order
	SortByName                        // alphabetical
)

// LineRow is one row of the line-vs-compliance table.
type LineRow struct {
	Line       string  `json:"linea"`
	Indicators int     `json:"indicadores"`
	Compliance float64 `json:"cumplimiento"`
	Status     string  `json:"estado"`
	Color      string  `json:"color"`
}

// IndicatorRow is one row of the per-objective indicator detail table.
type IndicatorRow struct {
	Indicator  string   `json:"indicador"`
	Target     *float64 `json:"meta,omitempty"`
	Actual     *float64 `json:"ejecucion,omitempty"`
	Compliance *float64 `json:"cumplimiento,omitempty"`
	Status     string   `json:"estado"`
	Color      string   `json:"color"`
}

// ObjectiveBlock groups the indicator detail rows under one objective.
type ObjectiveBlock struct {
	Objective  string         `json:"objetivo"`
	Indicators []IndicatorRow `json:"indicadores"`
}

// LineDetail is one strategic line's full drill-down.
type LineDetail struct {
	Line       string           `json:"linea"`
	Color      string           `json:"color"`
	Objectives []ObjectiveBlock `json:"objetivos"`
}

// Report bundles everything an exporter needs for one (dataset, year) pass.
type Report struct {
	Snapshot *metrics.Snapshot               `json:"metricas"`
	Lines    []LineRow                       `json:"lineas"`
	Cascade  []aggregate.CascadeNode         `json:"cascada"`
	ByLevel  map[int][]aggregate.CascadeNode `json:"cascada_por_nivel"`
}

// LineTable shapes line summaries into display rows, preserving the
// aggregator's descending order unless the caller asks for alphabetical.
func LineTable(lines []aggregate.LineSummary, order SortOrder) []LineRow {
	rows := make([]LineRow, len(lines))
	for i, l := range lines {
		c := l.Compliance
		rows[i] = LineRow{
			Line:       l.Line,
			Indicators: l.Indicators,
			Compliance: l.Compliance,
			Status:     compliance.StatusLabel(&c),
			Color:      l.Color,
		}
	}
	if order == SortByName {
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Line < rows[j].Line })
	}
	return rows
}

// Detail builds the per-line indicator drill-down from a filtered record
// set: objectives sorted, one row per indicator row in the set.
func Detail(records []models.IndicatorRecord, line string) LineDetail {
	detail := LineDetail{Line: line, Color: models.LineColor(line)}
	for _, objective := range dataset.Objectives(records, line) {
		block := ObjectiveBlock{Objective: objective}
		objKey := dataset.LabelKey(objective)
		lineKey := dataset.LabelKey(line)
		for i := range records {
			r := &records[i]
			if dataset.LabelKey(r.Line) != lineKey || dataset.LabelKey(r.Objective) != objKey {
				continue
			}
			block.Indicators = append(block.Indicators, IndicatorRow{
				Indicator:  r.Indicator,
				Target:     r.Target,
				Actual:     r.Actual,
				Compliance: r.Compliance,
				Status:     compliance.StatusLabel(r.Compliance),
				Color:      compliance.StatusColor(r.Compliance),
			})
		}
		sort.SliceStable(block.Indicators, func(i, j int) bool {
			return block.Indicators[i].Indicator < block.Indicators[j].Indicator
		})
		if len(block.Indicators) > 0 {
			detail.Objectives = append(detail.Objectives, block)
		}
	}
	return detail
}

// ByLevel keys cascade nodes by their level for hierarchical exporters.
func ByLevel(cascade []aggregate.CascadeNode) map[int][]aggregate.CascadeNode {
	out := make(map[int][]aggregate.CascadeNode, 4)
	for _, n := range cascade {
		out[n.Level] = append(out[n.Level], n)
	}
	return out
}

// Assemble produces the full report structure for one aggregation pass.
func Assemble(snap *metrics.Snapshot, res *aggregate.Result) *Report {
	return &Report{
		Snapshot: snap,
		Lines:    LineTable(res.Lines, SortByCompliance),
		Cascade:  res.Cascade,
		ByLevel:  ByLevel(res.Cascade),
	}
}
