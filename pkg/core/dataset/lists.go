package dataset

import (
	"sort"

	"strategic_dashboard/pkg/models"
)

// Lines returns the distinct strategic line labels in a record set, sorted.
func Lines(records []models.IndicatorRecord) []string {
	return distinct(records, func(r *models.IndicatorRecord) string { return r.Line })
}

// Objectives returns the distinct objective labels, optionally scoped to one
// line, sorted. Selector widgets feed from this.
func Objectives(records []models.IndicatorRecord, line string) []string {
	return distinct(records, func(r *models.IndicatorRecord) string {
		if line != "" && LabelKey(r.Line) != LabelKey(line) {
			return ""
		}
		return r.Objective
	})
}

// Indicators returns the distinct indicator names, optionally scoped to a
// line and objective, sorted.
func Indicators(records []models.IndicatorRecord, line, objective string) []string {
	return distinct(records, func(r *models.IndicatorRecord) string {
		if line != "" && LabelKey(r.Line) != LabelKey(line) {
			return ""
		}
		if objective != "" && LabelKey(r.Objective) != LabelKey(objective) {
			return ""
		}
		return r.Indicator
	})
}

// CountDistinctIndicators counts unique indicator identifiers, not rows: a
// semiannual indicator contributes one even with two sub-period rows.
func CountDistinctIndicators(records []models.IndicatorRecord) int {
	seen := map[string]bool{}
	for i := range records {
		if records[i].Indicator != "" {
			seen[LabelKey(records[i].Indicator)] = true
		}
	}
	return len(seen)
}

func distinct(records []models.IndicatorRecord, key func(*models.IndicatorRecord) string) []string {
	seen := map[string]string{}
	for i := range records {
		label := key(&records[i])
		if label == "" {
			continue
		}
		k := LabelKey(label)
		if _, ok := seen[k]; !ok {
			seen[k] = label
		}
	}
	out := make([]string, 0, len(seen))
	for _, label := range seen {
		out = append(out, label)
	}
	sort.Strings(out)
	return out
}
