package connectors

import (
	"time"
)

// UnifiedMetric is one daily value from a wearable, normalized across vendors.
// MetricName is free text; see goals.CanonicalWearableMetric.
type UnifiedMetric struct {
	MetricName      string    `json:"metricName"`
	Value           float64   `json:"value"`
	MeasurementDate time.Time `json:"measurementDate"`
}

// CurrentValue is a value some other process already computed for a goal.
type CurrentValue struct {
	GoalID       string    `json:"goalId"`
	CurrentValue float64   `json:"currentValue"`
	Source       string    `json:"source"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
