package goals

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrGoalNotFound = errors.New("goal not found")
	ErrInvalidGoal  = errors.New("invalid goal")
)

type Type string

const (
	TypeStrength        Type = "strength"
	TypeCardio          Type = "cardio"
	TypeEndurance       Type = "endurance"
	TypeBodyComposition Type = "body_composition"
	TypeFlexibility     Type = "flexibility"
	TypeCustom          Type = "custom"
)

func (t Type) IsValid() bool {
	switch t {
	case TypeStrength, TypeCardio, TypeEndurance, TypeBodyComposition, TypeFlexibility, TypeCustom:
		return true
	default:
		return false
	}
}

type Direction string

const (
	HigherIsBetter Direction = "higher_is_better"
	LowerIsBetter  Direction = "lower_is_better"
)

func (d Direction) IsValid() bool {
	return d == HigherIsBetter || d == LowerIsBetter
}

type Category string

const (
	CategoryWeight         Category = "weight"
	CategoryBodyFat        Category = "body_fat"
	CategoryMuscleMass     Category = "muscle_mass"
	CategoryWearableMetric Category = "wearable_metric"
	CategoryGeneric        Category = "generic"
)

// IsBodyComposition reports whether values for the category come from scale/InBody readings.
func (c Category) IsBodyComposition() bool {
	return c == CategoryWeight || c == CategoryBodyFat || c == CategoryMuscleMass
}

type Goal struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	Name           string    `json:"name"`
	Type           Type      `json:"type"`
	TargetValue    *float64  `json:"targetValue"`
	TargetUnit     string    `json:"targetUnit"`
	TargetReps     *int      `json:"targetReps,omitempty"`
	IsPersonal     bool      `json:"isPersonal"`
	ChallengeID    *string   `json:"challengeId,omitempty"`
	ChallengeTitle string    `json:"challengeTitle,omitempty"`
	BaselineValue  *float64  `json:"baselineValue,omitempty"`
	DurationTarget bool      `json:"durationTarget"`
	Direction      Direction `json:"direction"`
	Category       Category  `json:"category"`
	MetricKey      string    `json:"metricKey,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`

	// DirectionExplicit marks a direction set by the user; reclassification keeps it.
	DirectionExplicit bool `json:"directionExplicit"`
}

func (g Goal) HasTarget() bool {
	return g.TargetValue != nil
}

// Classification returns the stored classification. Rows written before
// direction/category were persisted fall back to classifying the name.
func (g Goal) Classification() Classification {
	if g.Direction.IsValid() && g.Category != "" {
		return Classification{
			Direction: g.Direction,
			Category:  g.Category,
			MetricKey: g.MetricKey,
		}
	}
	c := Classify(g.Name, g.TargetUnit, g.DurationTarget)
	if g.Direction.IsValid() {
		c.Direction = g.Direction
	}
	return c
}

type Input struct {
	Name           string     `json:"name"`
	Type           Type       `json:"type"`
	TargetValue    *float64   `json:"targetValue"`
	TargetUnit     string     `json:"targetUnit"`
	TargetReps     *int       `json:"targetReps"`
	ChallengeID    *string    `json:"challengeId"`
	BaselineValue  *float64   `json:"baselineValue"`
	DurationTarget bool       `json:"durationTarget"`
	Direction      *Direction `json:"direction"`
}

func (in Input) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return errors.Join(ErrInvalidGoal, errors.New("name is empty"))
	}
	if !in.Type.IsValid() {
		return errors.Join(ErrInvalidGoal, errors.New("unknown goal type: "+string(in.Type)))
	}
	if in.Direction != nil && !in.Direction.IsValid() {
		return errors.Join(ErrInvalidGoal, errors.New("unknown direction: "+string(*in.Direction)))
	}
	return nil
}

// New builds a goal from the input and classifies it once. Challenge goals
// are not personal.
func New(userID string, in Input, now time.Time) Goal {
	g := Goal{
		ID:             uuid.NewString(),
		UserID:         userID,
		Name:           strings.TrimSpace(in.Name),
		Type:           in.Type,
		TargetValue:    in.TargetValue,
		TargetUnit:     in.TargetUnit,
		TargetReps:     in.TargetReps,
		IsPersonal:     in.ChallengeID == nil,
		ChallengeID:    in.ChallengeID,
		BaselineValue:  in.BaselineValue,
		DurationTarget: in.DurationTarget,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	g.classify(in.Direction)
	return g
}

type Patch struct {
	Name           *string    `json:"name"`
	TargetValue    *float64   `json:"targetValue"`
	ClearTarget    bool       `json:"clearTarget"`
	TargetUnit     *string    `json:"targetUnit"`
	TargetReps     *int       `json:"targetReps"`
	BaselineValue  *float64   `json:"baselineValue"`
	DurationTarget *bool      `json:"durationTarget"`
	Direction      *Direction `json:"direction"`
}

// Apply mutates the goal in place. The goal is reclassified when a field the
// classifier reads changes; a direction set explicitly, now or earlier, wins.
func (g *Goal) Apply(p Patch, now time.Time) error {
	if p.Direction != nil && !p.Direction.IsValid() {
		return errors.Join(ErrInvalidGoal, errors.New("unknown direction: "+string(*p.Direction)))
	}

	reclassify := false
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return errors.Join(ErrInvalidGoal, errors.New("name is empty"))
		}
		reclassify = reclassify || name != g.Name
		g.Name = name
	}
	if p.TargetUnit != nil {
		reclassify = reclassify || *p.TargetUnit != g.TargetUnit
		g.TargetUnit = *p.TargetUnit
	}
	if p.DurationTarget != nil {
		reclassify = reclassify || *p.DurationTarget != g.DurationTarget
		g.DurationTarget = *p.DurationTarget
	}
	switch {
	case p.ClearTarget:
		g.TargetValue = nil
	case p.TargetValue != nil:
		g.TargetValue = p.TargetValue
	}
	if p.TargetReps != nil {
		g.TargetReps = p.TargetReps
	}
	if p.BaselineValue != nil {
		g.BaselineValue = p.BaselineValue
	}

	if reclassify || p.Direction != nil {
		g.classify(p.Direction)
	}
	g.UpdatedAt = now
	return nil
}

func (g *Goal) classify(explicit *Direction) {
	c := Classify(g.Name, g.TargetUnit, g.DurationTarget)
	g.Category = c.Category
	g.MetricKey = c.MetricKey
	switch {
	case explicit != nil && explicit.IsValid():
		g.Direction = *explicit
		g.DirectionExplicit = true
	case g.DirectionExplicit && g.Direction.IsValid():
		// keep the user's direction
	default:
		g.Direction = c.Direction
	}
}

type Challenge struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

// BaselineSnapshot holds the body composition captured when a user joined a challenge.
type BaselineSnapshot struct {
	Weight     *float64   `json:"weight"`
	BodyFat    *float64   `json:"bodyFat"`
	MuscleMass *float64   `json:"muscleMass"`
	CapturedAt *time.Time `json:"capturedAt"`
}

func (b BaselineSnapshot) ValueFor(c Category) *float64 {
	switch c {
	case CategoryWeight:
		return b.Weight
	case CategoryBodyFat:
		return b.BodyFat
	case CategoryMuscleMass:
		return b.MuscleMass
	default:
		return nil
	}
}

type Participation struct {
	ChallengeID    string           `json:"challengeId"`
	ChallengeTitle string           `json:"challengeTitle"`
	UserID         string           `json:"userId"`
	JoinedAt       time.Time        `json:"joinedAt"`
	Baseline       BaselineSnapshot `json:"baseline"`
}
