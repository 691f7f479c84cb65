package progress

import (
	"time"

	"github.com/2beens/goalprogress/internal/goals"
	"github.com/2beens/goalprogress/internal/measurements"
)

type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// CompetingObservation is the latest value one source reported for the
// metric. Chosen marks the source the view shows.
type CompetingObservation struct {
	Source     string    `json:"source"`
	Value      float64   `json:"value"`
	MeasuredAt time.Time `json:"measuredAt"`
	Chosen     bool      `json:"chosen"`
}

// ChallengeGoalView is computed per request and never persisted.
type ChallengeGoalView struct {
	GoalID                string                        `json:"goalId"`
	GoalName              string                        `json:"goalName"`
	GoalType              goals.Type                    `json:"goalType"`
	Unit                  string                        `json:"unit"`
	TargetValue           *float64                      `json:"targetValue"`
	HasTarget             bool                          `json:"hasTarget"`
	HasData               bool                          `json:"hasData"`
	CurrentValue          float64                       `json:"currentValue"`
	ProgressPercentage    float64                       `json:"progressPercentage"`
	Trend                 Trend                         `json:"trend"`
	TrendPercentage       float64                       `json:"trendPercentage"`
	Source                string                        `json:"source"`
	BaselineValue         *float64                      `json:"baselineValue"`
	Sparkline             []measurements.SparklinePoint `json:"sparkline"`
	Direction             goals.Direction               `json:"direction"`
	Category              goals.Category                `json:"category"`
	ChallengeID           *string                       `json:"challengeId,omitempty"`
	ChallengeTitle        string                        `json:"challengeTitle,omitempty"`
	IsPersonal            bool                          `json:"isPersonal"`
	BaselineSnapshot      *goals.BaselineSnapshot       `json:"baselineSnapshot,omitempty"`
	CompetingObservations []CompetingObservation        `json:"competingObservations,omitempty"`
}

// GoalViews is what the presentation layer renders for one user. FetchFailed
// means an upstream read failed; Views is then empty and the client should
// offer a manual refresh.
type GoalViews struct {
	UserID      string              `json:"userId"`
	Views       []ChallengeGoalView `json:"views"`
	FetchFailed bool                `json:"fetchFailed"`
}
