package progress

import (
	"math"

	"github.com/2beens/goalprogress/internal/measurements"
)

// changes within this many percent of the previous value are stable
const stableTrendThreshold = 0.5

// CalculateTrend compares the two most recent points of a most-recent-first
// sparkline and returns the direction and the relative change in percent.
func CalculateTrend(sparkline []measurements.SparklinePoint) (Trend, float64) {
	if len(sparkline) < 2 {
		return TrendStable, 0
	}

	latest, previous := sparkline[0].Value, sparkline[1].Value
	delta := latest - previous
	pct := 0.0
	if previous != 0 {
		pct = delta / previous * 100
	}

	switch {
	case math.Abs(pct) <= stableTrendThreshold:
		return TrendStable, pct
	case delta > 0:
		return TrendUp, pct
	default:
		return TrendDown, pct
	}
}
