package dataset

import "strategic_dashboard/pkg/models"

// DefaultReportingYears is the plan's reporting window. The first plan year
// is a baseline measurement and never enters aggregates.
var DefaultReportingYears = []int{2022, 2023, 2024, 2025, 2026}

// Options is the standard filter chain shared by every aggregation entry
// point. Zero values switch a predicate off; predicates whose backing column
// is absent from the snapshot schema short-circuit to a no-op. The chain is
// idempotent and order-independent: every predicate is a pure membership
// test on one record.
type Options struct {
	Year              int                // 0 = all years
	AllowedYears      []int              // nil = no window
	Source            models.SourceType  // "" = any source
	Kind              models.RecordKind  // "" = any kind
	Line              string             // "" = all lines
	Objective         string             // "" = all objectives
	ExcludeStandBy    bool
	RequireCompliance bool
}

// DefaultOptions is the chain the dashboard applies everywhere: one year,
// Avance snapshots, plan indicators only, stand-by and null-compliance rows
// excluded.
func DefaultOptions(year int) Options {
	return Options{
		Year:              year,
		AllowedYears:      DefaultReportingYears,
		Source:            models.SourceAvance,
		Kind:              models.KindIndicator,
		ExcludeStandBy:    true,
		RequireCompliance: true,
	}
}

// Apply runs the filter chain against a snapshot and returns the qualifying
// records as a new slice. The snapshot is never mutated.
func Apply(ds *models.Dataset, opts Options) []models.IndicatorRecord {
	out := make([]models.IndicatorRecord, 0, len(ds.Records))
	for i := range ds.Records {
		if Match(&ds.Records[i], ds.Schema, opts) {
			out = append(out, ds.Records[i])
		}
	}
	return out
}

// Match evaluates the full predicate set against one record.
func Match(r *models.IndicatorRecord, schema models.Schema, opts Options) bool {
	if schema.HasYear {
		if opts.Year != 0 && (r.Year == nil || *r.Year != opts.Year) {
			return false
		}
		if len(opts.AllowedYears) > 0 {
			if r.Year == nil || !containsYear(opts.AllowedYears, *r.Year) {
				return false
			}
		}
	}
	if opts.Source != "" && schema.HasSource && r.Source != opts.Source {
		return false
	}
	if opts.Kind != "" && schema.HasKind && r.Kind != opts.Kind {
		return false
	}
	if opts.Line != "" && LabelKey(r.Line) != LabelKey(opts.Line) {
		return false
	}
	if opts.Objective != "" && LabelKey(r.Objective) != LabelKey(opts.Objective) {
		return false
	}
	if opts.ExcludeStandBy && schema.HasStatus && r.IsStandBy() {
		return false
	}
	if opts.RequireCompliance && schema.HasCompliance && r.Compliance == nil {
		return false
	}
	return true
}

func containsYear(years []int, y int) bool {
	for _, v := range years {
		if v == y {
			return true
		}
	}
	return false
}
