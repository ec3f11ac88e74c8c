// Package metrics derives the dashboard tile counts for one (dataset, year)
// pair from the filtered, aggregated record set.
package metrics

import (
	"math"

	"strategic_dashboard/pkg/core/aggregate"
	"strategic_dashboard/pkg/core/compliance"
	"strategic_dashboard/pkg/core/dataset"
	"strategic_dashboard/pkg/models"
)

// Snapshot is the process-scoped aggregate behind the dashboard metric tiles
// and the report exporters. Computed fresh per filter/year change, never
// persisted.
type Snapshot struct {
	Year            int     `json:"ano_actual"`
	Overall         float64 `json:"cumplimiento_promedio"`
	TotalIndicators int     `json:"total_indicadores"`
	Met             int     `json:"indicadores_cumplidos"`
	AtRisk          int     `json:"en_progreso"`
	Failing         int     `json:"no_cumplidos"`
	StandBy         int     `json:"stand_by"`
	TotalLines      int     `json:"total_lineas"`
}

// Summarize builds the snapshot for one year. A zero year selects the most
// recent year in the dataset. Missing data yields zeroed fields, never an
// error: gaps stay visible in the output instead of failing the dashboard.
func Summarize(ds *models.Dataset, year int) *Snapshot {
	if ds == nil || len(ds.Records) == 0 {
		return &Snapshot{Year: year}
	}
	if year == 0 {
		year = ds.MaxYear()
	}
	snap := &Snapshot{Year: year}

	filtered := dataset.Apply(ds, dataset.DefaultOptions(year))

	// Stand-by is counted on the same year scope before the stand-by
	// exclusion: it must count what the main chain excluded.
	preExclusion := dataset.Apply(ds, dataset.Options{
		Year:         year,
		AllowedYears: dataset.DefaultReportingYears,
		Source:       models.SourceAvance,
		Kind:         models.KindIndicator,
	})
	for i := range preExclusion {
		if preExclusion[i].IsStandBy() {
			snap.StandBy++
		}
	}

	for i := range filtered {
		switch compliance.Classify(filtered[i].Compliance) {
		case compliance.LevelMet:
			snap.Met++
		case compliance.LevelAtRisk:
			snap.AtRisk++
		case compliance.LevelFailing:
			snap.Failing++
		}
	}
	snap.TotalIndicators = dataset.CountDistinctIndicators(filtered)
	snap.TotalLines = len(dataset.Lines(filtered))

	if res, err := aggregate.Aggregate(filtered); err == nil {
		snap.Overall = round1(res.Overall)
	}
	return snap
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
