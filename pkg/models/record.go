package models

import (
	"sort"
	"strings"
)

// SourceType distinguishes in-progress snapshots from closed-period records.
// Values match the workbook's "Fuente" column verbatim.
type SourceType string

const (
	SourceAvance SourceType = "Avance" // in-progress snapshot
	SourceCierre SourceType = "Cierre" // closed/final record
)

// RecordKind separates plan indicators from strategic projects.
// The workbook encodes this as a 0/1 "Proyectos" flag; the loader maps it here.
type RecordKind string

const (
	KindIndicator RecordKind = "Indicador"
	KindProject   RecordKind = "Proyecto"
)

// Direction states whether higher or lower actuals are favorable ("Sentido").
type Direction string

const (
	DirectionIncreasing Direction = "Creciente"
	DirectionDecreasing Direction = "Decreciente"
)

// IndicatorRecord is one observation of one indicator in one reporting period.
// Optional workbook cells are pointers; nil means the cell was empty or
// unparseable. Records are immutable once produced by the loader.
type IndicatorRecord struct {
	Indicator  string     `json:"indicador"`
	Line       string     `json:"linea"`
	Objective  string     `json:"objetivo"`
	GoalID     string     `json:"meta_pdi,omitempty"` // institutional goal, may be empty
	Year       *int       `json:"ano,omitempty"`
	Semester   *int       `json:"semestre,omitempty"` // 1 or 2, semiannual indicators only
	Target     *float64   `json:"meta,omitempty"`
	Actual     *float64   `json:"ejecucion,omitempty"`
	Compliance *float64   `json:"cumplimiento,omitempty"` // 0-100 scale after load normalization
	Source     SourceType `json:"fuente,omitempty"`
	Kind       RecordKind `json:"tipo,omitempty"`
	Direction  Direction  `json:"sentido,omitempty"`
	StatusText string     `json:"estado,omitempty"`
}

// IsStandBy reports whether the record is explicitly paused: status text of
// "stand by" (trimmed, case-insensitive) with a zero or absent actual value.
func (r *IndicatorRecord) IsStandBy() bool {
	if strings.ToLower(strings.TrimSpace(r.StatusText)) != "stand by" {
		return false
	}
	return r.Actual == nil || *r.Actual == 0
}

// IndicatorMeta carries the per-indicator metadata from the Base_Indicadores
// sheet: update frequency, directionality, measurement units and the
// institutional goal the indicator rolls up to.
type IndicatorMeta struct {
	Indicator   string    `json:"indicador"`
	Periodicity string    `json:"periodicidad"` // "Anual" or "Semestral"
	Direction   Direction `json:"sentido"`
	GoalID      string    `json:"meta_pdi,omitempty"`
	TargetUnit  string    `json:"meta_s,omitempty"`
	ActualUnit  string    `json:"ejecucion_s,omitempty"`
}

// Schema records which optional columns were present in the loaded workbook.
// Downstream filters consult it instead of re-checking raw column membership.
type Schema struct {
	HasYear       bool `json:"has_year"`
	HasSemester   bool `json:"has_semester"`
	HasTarget     bool `json:"has_target"`
	HasActual     bool `json:"has_actual"`
	HasCompliance bool `json:"has_compliance"`
	HasSource     bool `json:"has_source"`
	HasKind       bool `json:"has_kind"`
	HasDirection  bool `json:"has_direction"`
	HasStatus     bool `json:"has_status"`
	HasGoalID     bool `json:"has_goal_id"`
}

// Dataset is one immutable snapshot of the source workbook. Version changes
// on every reload so cached aggregates keyed by it can never go stale.
type Dataset struct {
	Version string                   `json:"version"`
	Records []IndicatorRecord        `json:"records"`
	Meta    map[string]IndicatorMeta `json:"meta"` // keyed by indicator name
	Schema  Schema                   `json:"schema"`
}

// Years returns the distinct years present in the snapshot, ascending.
func (d *Dataset) Years() []int {
	seen := map[int]bool{}
	var years []int
	for i := range d.Records {
		if y := d.Records[i].Year; y != nil && !seen[*y] {
			seen[*y] = true
			years = append(years, *y)
		}
	}
	sort.Ints(years)
	return years
}

// MaxYear returns the most recent year in the snapshot, or 0 when no record
// carries a year.
func (d *Dataset) MaxYear() int {
	max := 0
	for i := range d.Records {
		if y := d.Records[i].Year; y != nil && *y > max {
			max = *y
		}
	}
	return max
}
