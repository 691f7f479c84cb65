package progress

import (
	"sort"
	"time"

	"github.com/2beens/goalprogress/internal/connectors"
	"github.com/2beens/goalprogress/internal/goals"
	"github.com/2beens/goalprogress/internal/measurements"
)

const (
	maxSparklinePoints   = 14
	DefaultBodyFatMaxAge = 30 * 24 * time.Hour
)

// Sources holds everything fetched for one user, indexed for per-goal lookups.
type Sources struct {
	wearable      map[string][]connectors.UnifiedMetric
	body          *connectors.AggregatedBodyMetrics
	currentValues map[string]connectors.CurrentValue
	measurements  map[string][]measurements.Measurement
}

func NewSources(
	unified []connectors.UnifiedMetric,
	body *connectors.AggregatedBodyMetrics,
	currentValues []connectors.CurrentValue,
	goalMeasurements []measurements.Measurement,
) Sources {
	s := Sources{
		wearable:      map[string][]connectors.UnifiedMetric{},
		body:          body,
		currentValues: make(map[string]connectors.CurrentValue, len(currentValues)),
		measurements:  map[string][]measurements.Measurement{},
	}

	for _, m := range unified {
		key, ok := goals.CanonicalWearableMetric(m.MetricName)
		if !ok {
			continue
		}
		s.wearable[key] = append(s.wearable[key], m)
	}
	for key := range s.wearable {
		rows := s.wearable[key]
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].MeasurementDate.After(rows[j].MeasurementDate)
		})
	}

	for _, cv := range currentValues {
		s.currentValues[cv.GoalID] = cv
	}

	for _, m := range goalMeasurements {
		s.measurements[m.GoalID] = append(s.measurements[m.GoalID], m)
	}
	for goalID := range s.measurements {
		rows := s.measurements[goalID]
		sort.SliceStable(rows, func(i, j int) bool {
			if !rows[i].MeasurementDate.Equal(rows[j].MeasurementDate) {
				return rows[i].MeasurementDate.After(rows[j].MeasurementDate)
			}
			return rows[i].CreatedAt.After(rows[j].CreatedAt)
		})
	}

	return s
}

type Resolved struct {
	CurrentValue float64
	Source       string
	Sparkline    []measurements.SparklinePoint
	Baseline     *float64
	HasData      bool
	Competing    []CompetingObservation
}

type Resolver struct {
	bodyFatMaxAge time.Duration
	now           func() time.Time
}

func NewResolver(bodyFatMaxAge time.Duration) *Resolver {
	if bodyFatMaxAge <= 0 {
		bodyFatMaxAge = DefaultBodyFatMaxAge
	}
	return &Resolver{
		bodyFatMaxAge: bodyFatMaxAge,
		now:           time.Now,
	}
}

// WithClock replaces the clock used to age out stale body fat rows.
func (r *Resolver) WithClock(now func() time.Time) *Resolver {
	r.now = now
	return r
}

// Resolve picks the current value of a goal. The first source that has data
// wins: wearable metric, aggregated body composition, precomputed current
// value, then the goal's own measurements.
func (r *Resolver) Resolve(goal goals.Goal, src Sources) Resolved {
	c := goal.Classification()

	if c.Category == goals.CategoryWearableMetric {
		if res, ok := r.fromWearable(c.MetricKey, src); ok {
			return res
		}
	}
	if c.Category.IsBodyComposition() {
		if res, ok := r.fromBodyComposition(c.Category, src); ok {
			return res
		}
	}
	if res, ok := r.fromCurrentValue(goal.ID, src); ok {
		return res
	}
	if res, ok := r.fromMeasurements(goal.ID, c.Category, src); ok {
		return res
	}

	return Resolved{
		CurrentValue: 0,
		Source:       string(measurements.SourceManual),
		Sparkline:    []measurements.SparklinePoint{},
	}
}

func (r *Resolver) fromWearable(metricKey string, src Sources) (Resolved, bool) {
	rows := src.wearable[metricKey]
	if len(rows) == 0 {
		return Resolved{}, false
	}
	if len(rows) > maxSparklinePoints {
		rows = rows[:maxSparklinePoints]
	}

	sparkline := make([]measurements.SparklinePoint, 0, len(rows))
	for _, row := range rows {
		sparkline = append(sparkline, measurements.SparklinePoint{
			Value:           row.Value,
			MeasurementDate: row.MeasurementDate,
		})
	}

	return Resolved{
		CurrentValue: rows[0].Value,
		Source:       string(measurements.SourceWearable),
		Sparkline:    sparkline,
		Baseline:     oldest(sparkline),
		HasData:      true,
	}, true
}

func (r *Resolver) fromBodyComposition(category goals.Category, src Sources) (Resolved, bool) {
	metric := src.body.For(category)
	if metric == nil {
		return Resolved{}, false
	}

	sparkline := metric.SparklineData
	if len(sparkline) > maxSparklinePoints {
		sparkline = sparkline[:maxSparklinePoints]
	}
	sparkline = append([]measurements.SparklinePoint{}, sparkline...)

	// a single source has nothing to compete with
	var competing []CompetingObservation
	if len(metric.Sources) > 1 {
		competing = make([]CompetingObservation, 0, len(metric.Sources))
		for source, reading := range metric.Sources {
			competing = append(competing, CompetingObservation{
				Source:     source,
				Value:      reading.Value,
				MeasuredAt: reading.MeasuredAt,
				Chosen:     source == metric.Source,
			})
		}
		sort.Slice(competing, func(i, j int) bool {
			return competing[i].Source < competing[j].Source
		})
	}

	return Resolved{
		CurrentValue: metric.Value,
		Source:       metric.Source,
		Sparkline:    sparkline,
		Baseline:     oldest(sparkline),
		HasData:      true,
		Competing:    competing,
	}, true
}

func (r *Resolver) fromCurrentValue(goalID string, src Sources) (Resolved, bool) {
	cv, ok := src.currentValues[goalID]
	if !ok {
		return Resolved{}, false
	}

	sparkline := toSparkline(src.measurements[goalID])
	return Resolved{
		CurrentValue: cv.CurrentValue,
		Source:       cv.Source,
		Sparkline:    sparkline,
		Baseline:     oldest(sparkline),
		HasData:      true,
	}, true
}

func (r *Resolver) fromMeasurements(goalID string, category goals.Category, src Sources) (Resolved, bool) {
	rows := src.measurements[goalID]
	if category == goals.CategoryBodyFat {
		cutoff := measurements.Date(r.now().Add(-r.bodyFatMaxAge))
		fresh := make([]measurements.Measurement, 0, len(rows))
		for _, m := range rows {
			if !m.MeasurementDate.Before(cutoff) {
				fresh = append(fresh, m)
			}
		}
		rows = fresh
	}
	if len(rows) == 0 {
		return Resolved{}, false
	}

	sparkline := toSparkline(rows)
	source := string(rows[0].Source)
	if source == "" {
		source = string(measurements.SourceManual)
	}

	return Resolved{
		CurrentValue: rows[0].Value,
		Source:       source,
		Sparkline:    sparkline,
		Baseline:     oldest(sparkline),
		HasData:      true,
	}, true
}

// toSparkline expects rows most recent first.
func toSparkline(rows []measurements.Measurement) []measurements.SparklinePoint {
	if len(rows) > maxSparklinePoints {
		rows = rows[:maxSparklinePoints]
	}
	sparkline := make([]measurements.SparklinePoint, 0, len(rows))
	for _, m := range rows {
		sparkline = append(sparkline, measurements.SparklinePoint{
			Value:           m.Value,
			MeasurementDate: m.MeasurementDate,
		})
	}
	return sparkline
}

func oldest(sparkline []measurements.SparklinePoint) *float64 {
	if len(sparkline) == 0 {
		return nil
	}
	v := sparkline[len(sparkline)-1].Value
	return &v
}
