// Package compliance computes a single indicator's percent-of-goal
// achievement and classifies it into the dashboard's traffic-light states.
package compliance

import "strategic_dashboard/pkg/models"

// Classification thresholds, percent of goal. Fixed institutional policy.
const (
	ThresholdMet    = 100.0
	ThresholdAtRisk = 80.0
)

// Compute returns the direction-adjusted compliance percentage for one
// observation, or nil when it is indeterminate (missing target or actual,
// or a zero target).
//
// For decreasing indicators the curve is deliberately asymmetric: at or
// below target the reward grows without bound (100 plus the saved fraction),
// above target the penalty approaches but never reaches 100 as the actual
// grows. Both branches are institutional policy and must not be "fixed".
func Compute(target, actual *float64, dir models.Direction) *float64 {
	if target == nil || actual == nil || *target == 0 {
		return nil
	}
	t, a := *target, *actual

	var pct float64
	if dir == models.DirectionDecreasing {
		if a <= t {
			pct = 100 + (t-a)/t*100
		} else {
			pct = t / a * 100
		}
	} else {
		// Unspecified directionality defaults to increasing.
		pct = a / t * 100
	}
	return &pct
}

// Level is a traffic-light bucket for one compliance value.
type Level string

const (
	LevelMet     Level = "met"      // >= 100
	LevelAtRisk  Level = "at_risk"  // 80 - 99.9
	LevelFailing Level = "failing"  // < 80
	LevelNoData  Level = "no_data"  // indeterminate
	LevelStandBy Level = "stand_by" // explicitly paused
)

// Classify buckets a compliance value.
func Classify(pct *float64) Level {
	switch {
	case pct == nil:
		return LevelNoData
	case *pct >= ThresholdMet:
		return LevelMet
	case *pct >= ThresholdAtRisk:
		return LevelAtRisk
	default:
		return LevelFailing
	}
}

// StatusLabel returns the Spanish display label for a compliance value, as
// shown on the dashboard's status column.
func StatusLabel(pct *float64) string {
	switch Classify(pct) {
	case LevelMet:
		return "Meta cumplida"
	case LevelAtRisk:
		return "Alerta"
	case LevelFailing:
		return "Peligro"
	default:
		return "Sin datos"
	}
}

// StatusColor returns the semaphore color for a compliance value.
func StatusColor(pct *float64) string {
	switch Classify(pct) {
	case LevelMet:
		return models.Colors["success"]
	case LevelAtRisk:
		return models.Colors["warning"]
	case LevelFailing:
		return models.Colors["danger"]
	default:
		return models.Colors["gray"]
	}
}
