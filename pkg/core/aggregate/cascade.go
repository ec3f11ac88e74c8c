package aggregate

import (
	"sort"

	"strategic_dashboard/pkg/models"
)

// buildCascade emits the 4-level hierarchy, depth-first: each line, its
// objectives, their goals, their indicators. The parent = mean-of-children
// rule holds at every edge; indicators without a goal land in the synthetic
// N/D bucket so none is orphaned.
func buildCascade(rows []*models.IndicatorRecord) []CascadeNode {
	var cascade []CascadeNode

	for _, ln := range groupBy(rows, func(r *models.IndicatorRecord) string { return r.Line }) {
		lineIdx := len(cascade)
		cascade = append(cascade, CascadeNode{
			Level:      1,
			Line:       ln.label,
			Indicators: countIndicators(ln.rows),
		})

		var lineSum float64
		var lineChildren int
		for _, obj := range groupBy(ln.rows, func(r *models.IndicatorRecord) string { return r.Objective }) {
			objIdx := len(cascade)
			cascade = append(cascade, CascadeNode{
				Level:      2,
				Line:       ln.label,
				Objective:  obj.label,
				Indicators: countIndicators(obj.rows),
			})

			var objSum float64
			var objChildren int
			for _, goal := range goalBuckets(obj.rows) {
				goalIdx := len(cascade)
				cascade = append(cascade, CascadeNode{
					Level:      3,
					Line:       ln.label,
					Objective:  obj.label,
					GoalID:     goal.label,
					Indicators: countIndicators(goal.rows),
				})

				var goalSum float64
				var goalChildren int
				for _, ind := range groupBy(goal.rows, func(r *models.IndicatorRecord) string { return r.Indicator }) {
					c, ok := meanOfRows(ind.rows)
					if !ok {
						continue
					}
					cascade = append(cascade, CascadeNode{
						Level:      4,
						Line:       ln.label,
						Objective:  obj.label,
						GoalID:     goal.label,
						Indicator:  ind.label,
						Compliance: c,
						Indicators: 1,
					})
					goalSum += c
					goalChildren++
				}
				if goalChildren == 0 {
					cascade = cascade[:goalIdx] // empty goal: drop the node
					continue
				}
				cascade[goalIdx].Compliance = goalSum / float64(goalChildren)
				objSum += cascade[goalIdx].Compliance
				objChildren++
			}
			if objChildren == 0 {
				cascade = cascade[:objIdx]
				continue
			}
			cascade[objIdx].Compliance = objSum / float64(objChildren)
			lineSum += cascade[objIdx].Compliance
			lineChildren++
		}
		if lineChildren == 0 {
			cascade = cascade[:lineIdx]
			continue
		}
		cascade[lineIdx].Compliance = lineSum / float64(lineChildren)
	}

	return cascade
}

// goalBuckets groups an objective's rows by institutional goal, with the
// goal-less rows collected into the N/D bucket, ordered after named goals.
func goalBuckets(rows []*models.IndicatorRecord) []group {
	named := groupBy(rows, func(r *models.IndicatorRecord) string { return r.GoalID })
	sort.Slice(named, func(i, j int) bool { return named[i].label < named[j].label })

	var none group
	none.label = GoalNone
	for _, r := range rows {
		if r.GoalID == "" {
			none.rows = append(none.rows, r)
		}
	}
	if len(none.rows) > 0 {
		named = append(named, none)
	}
	return named
}
