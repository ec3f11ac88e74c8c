package aggregate

import (
	"fmt"
	"sort"

	"strategic_dashboard/pkg/core/dataset"
	"strategic_dashboard/pkg/models"
)

// HistoryPoint is one period of an indicator's closed-record series.
type HistoryPoint struct {
	Period     string   `json:"periodo"` // "2024" or "2024-S1"
	Year       int      `json:"ano"`
	Semester   int      `json:"semestre,omitempty"` // 0 for annual periods
	Target     *float64 `json:"meta,omitempty"`
	Actual     *float64 `json:"ejecucion,omitempty"`
	Compliance *float64 `json:"cumplimiento,omitempty"`
}

// History is the full per-indicator time series plus the metadata charts and
// narrative prompts need.
type History struct {
	Indicator   string           `json:"indicador"`
	Periodicity string           `json:"periodicidad"`
	Direction   models.Direction `json:"sentido"`
	TargetUnit  string           `json:"meta_s,omitempty"`
	ActualUnit  string           `json:"ejecucion_s,omitempty"`
	Points      []HistoryPoint   `json:"historico"`
}

// IndicatorHistory builds the closed-record ("Cierre") series for one
// indicator, honoring its update frequency: semiannual indicators keep
// per-semester points ordered year*10+semester, annual indicators reduce
// any sub-period rows to one per-year mean.
func IndicatorHistory(ds *models.Dataset, indicator string) History {
	h := History{
		Indicator:   dataset.NormalizeLabel(indicator),
		Periodicity: "Anual",
		Direction:   models.DirectionIncreasing,
	}
	if m, ok := ds.Meta[h.Indicator]; ok {
		if m.Periodicity != "" {
			h.Periodicity = m.Periodicity
		}
		if m.Direction != "" {
			h.Direction = m.Direction
		}
		h.TargetUnit = m.TargetUnit
		h.ActualUnit = m.ActualUnit
	}

	var rows []*models.IndicatorRecord
	key := dataset.LabelKey(indicator)
	for i := range ds.Records {
		r := &ds.Records[i]
		if dataset.LabelKey(r.Indicator) != key || r.Year == nil {
			continue
		}
		if ds.Schema.HasSource && r.Source != models.SourceCierre {
			continue
		}
		rows = append(rows, r)
	}
	if len(rows) == 0 {
		return h
	}

	if isSemiannual(h.Periodicity) && ds.Schema.HasSemester {
		h.Points = semiannualPoints(rows)
	} else {
		h.Points = annualPoints(rows)
	}
	return h
}

func isSemiannual(periodicity string) bool {
	return dataset.FoldHeader(periodicity) == "semestral"
}

func semiannualPoints(rows []*models.IndicatorRecord) []HistoryPoint {
	var points []HistoryPoint
	for _, r := range rows {
		if r.Semester == nil {
			continue
		}
		points = append(points, HistoryPoint{
			Period:     fmt.Sprintf("%d-S%d", *r.Year, *r.Semester),
			Year:       *r.Year,
			Semester:   *r.Semester,
			Target:     r.Target,
			Actual:     r.Actual,
			Compliance: r.Compliance,
		})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Year*10+points[i].Semester < points[j].Year*10+points[j].Semester
	})
	return points
}

// annualPoints prefers rows with no semester mark; when a year only has
// sub-period rows, they collapse into one per-year mean.
func annualPoints(rows []*models.IndicatorRecord) []HistoryPoint {
	plain := make([]*models.IndicatorRecord, 0, len(rows))
	for _, r := range rows {
		if r.Semester == nil {
			plain = append(plain, r)
		}
	}
	source := plain
	collapse := len(plain) == 0
	if collapse {
		source = rows
	}

	byYear := map[int][]*models.IndicatorRecord{}
	for _, r := range source {
		byYear[*r.Year] = append(byYear[*r.Year], r)
	}

	points := make([]HistoryPoint, 0, len(byYear))
	for year, group := range byYear {
		p := HistoryPoint{Period: fmt.Sprintf("%d", year), Year: year}
		if collapse || len(group) > 1 {
			p.Target = meanPtr(group, func(r *models.IndicatorRecord) *float64 { return r.Target })
			p.Actual = meanPtr(group, func(r *models.IndicatorRecord) *float64 { return r.Actual })
			p.Compliance = meanPtr(group, func(r *models.IndicatorRecord) *float64 { return r.Compliance })
		} else {
			p.Target = group[0].Target
			p.Actual = group[0].Actual
			p.Compliance = group[0].Compliance
		}
		points = append(points, p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Year < points[j].Year })
	return points
}

func meanPtr(rows []*models.IndicatorRecord, get func(*models.IndicatorRecord) *float64) *float64 {
	var sum float64
	var n int
	for _, r := range rows {
		if v := get(r); v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return nil
	}
	mean := sum / float64(n)
	return &mean
}
