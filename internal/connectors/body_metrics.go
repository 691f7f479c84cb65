package connectors

import (
	"sort"
	"time"

	"github.com/2beens/goalprogress/internal/goals"
	"github.com/2beens/goalprogress/internal/measurements"
)

const maxSparklinePoints = 14

type BodyMetricName string

const (
	BodyMetricWeight     BodyMetricName = "weight"
	BodyMetricBodyFat    BodyMetricName = "body_fat"
	BodyMetricMuscleMass BodyMetricName = "muscle_mass"
)

// BodyReading is one reading reported by a scale, an InBody device or entered by hand.
type BodyReading struct {
	Metric     BodyMetricName
	Value      float64
	Source     string
	MeasuredAt time.Time
}

type SourceReading struct {
	Value      float64   `json:"value"`
	MeasuredAt time.Time `json:"measuredAt"`
}

type BodyMetric struct {
	Value         float64                       `json:"value"`
	Source        string                        `json:"source"`
	MeasuredAt    time.Time                     `json:"measuredAt"`
	SparklineData []measurements.SparklinePoint `json:"sparklineData"`
	// latest reading per source that reported the metric
	Sources map[string]SourceReading `json:"sources"`
}

type AggregatedBodyMetrics struct {
	Weight     *BodyMetric `json:"weight"`
	BodyFat    *BodyMetric `json:"bodyFat"`
	MuscleMass *BodyMetric `json:"muscleMass"`
}

func (a *AggregatedBodyMetrics) For(c goals.Category) *BodyMetric {
	if a == nil {
		return nil
	}
	switch c {
	case goals.CategoryWeight:
		return a.Weight
	case goals.CategoryBodyFat:
		return a.BodyFat
	case goals.CategoryMuscleMass:
		return a.MuscleMass
	default:
		return nil
	}
}

// device readings beat manual entries taken the same day
var sourcePriority = map[string]int{
	string(measurements.SourceInBody):   3,
	string(measurements.SourceWithings): 2,
	string(measurements.SourceManual):   1,
}

// AggregateBodyMetrics reduces raw readings to one value per metric: the most
// recent day wins, ties within a day go to the higher priority source.
func AggregateBodyMetrics(readings []BodyReading) AggregatedBodyMetrics {
	byMetric := map[BodyMetricName][]BodyReading{}
	for _, r := range readings {
		byMetric[r.Metric] = append(byMetric[r.Metric], r)
	}

	return AggregatedBodyMetrics{
		Weight:     aggregateMetric(byMetric[BodyMetricWeight]),
		BodyFat:    aggregateMetric(byMetric[BodyMetricBodyFat]),
		MuscleMass: aggregateMetric(byMetric[BodyMetricMuscleMass]),
	}
}

func aggregateMetric(readings []BodyReading) *BodyMetric {
	if len(readings) == 0 {
		return nil
	}

	sorted := make([]BodyReading, len(readings))
	copy(sorted, readings)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, dj := measurements.Date(sorted[i].MeasuredAt), measurements.Date(sorted[j].MeasuredAt)
		if !di.Equal(dj) {
			return di.After(dj)
		}
		pi, pj := sourcePriority[sorted[i].Source], sourcePriority[sorted[j].Source]
		if pi != pj {
			return pi > pj
		}
		return sorted[i].MeasuredAt.After(sorted[j].MeasuredAt)
	})

	chosen := sorted[0]
	metric := &BodyMetric{
		Value:         chosen.Value,
		Source:        chosen.Source,
		MeasuredAt:    chosen.MeasuredAt.UTC(),
		SparklineData: make([]measurements.SparklinePoint, 0, maxSparklinePoints),
		Sources:       map[string]SourceReading{},
	}

	var lastDay time.Time
	for _, r := range sorted {
		if latest, ok := metric.Sources[r.Source]; !ok || r.MeasuredAt.After(latest.MeasuredAt) {
			metric.Sources[r.Source] = SourceReading{Value: r.Value, MeasuredAt: r.MeasuredAt.UTC()}
		}

		day := measurements.Date(r.MeasuredAt)
		if len(metric.SparklineData) < maxSparklinePoints && !day.Equal(lastDay) {
			metric.SparklineData = append(metric.SparklineData, measurements.SparklinePoint{
				Value:           r.Value,
				MeasurementDate: day,
			})
			lastDay = day
		}
	}

	return metric
}
