package progress

import (
	"math"

	"github.com/2beens/goalprogress/internal/goals"
)

// synthetic start for lower-is-better goals without a known baseline
const syntheticBaselineFactor = 1.5

type Progress struct {
	HasTarget  bool
	Percentage float64
}

// CalculateProgress maps a current value onto 0..100 of the way from baseline
// to target. Lower-is-better progress is clamped to [0, 100]; higher-is-better
// is floored at 0 and may exceed 100.
func CalculateProgress(current float64, target, baseline *float64, direction goals.Direction) Progress {
	if target == nil {
		return Progress{HasTarget: false}
	}
	t := *target

	if direction == goals.LowerIsBetter {
		if current <= t {
			return Progress{HasTarget: true, Percentage: 100}
		}
		start := current * syntheticBaselineFactor
		if baseline != nil && *baseline > t && *baseline != current {
			start = *baseline
		}
		return Progress{HasTarget: true, Percentage: ratio(start-current, start-t, 0, 100)}
	}

	if baseline != nil && *baseline < t && *baseline != current {
		return Progress{HasTarget: true, Percentage: ratio(current-*baseline, t-*baseline, 0, math.Inf(1))}
	}
	return Progress{HasTarget: true, Percentage: ratio(current, t, 0, math.Inf(1))}
}

// ratio returns num/denom as a percentage within [lo, hi]; a non-positive
// denominator yields lo.
func ratio(num, denom, lo, hi float64) float64 {
	if denom <= 0 {
		return lo
	}
	return clamp(num/denom*100, lo, hi)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
