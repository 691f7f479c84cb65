package measurements

import (
	"errors"
	"time"
)

var ErrInvalidMeasurement = errors.New("invalid measurement")

type Source string

const (
	SourceManual   Source = "manual"
	SourceInBody   Source = "inbody"
	SourceWithings Source = "withings"
	SourceWearable Source = "wearable"
)

type Measurement struct {
	ID              string    `json:"id"`
	GoalID          string    `json:"goalId"`
	UserID          string    `json:"userId"`
	Value           float64   `json:"value"`
	Unit            string    `json:"unit"`
	MeasurementDate time.Time `json:"measurementDate"`
	Source          Source    `json:"source"`
	Reps            *int      `json:"reps,omitempty"`
	Notes           *string   `json:"notes,omitempty"`
	PhotoURL        *string   `json:"photoUrl,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// UpsertResult carries the stored measurement and, when an existing one for
// the same goal, user and day was overwritten, its previous value.
type UpsertResult struct {
	Measurement   Measurement `json:"measurement"`
	ReplacedValue *float64    `json:"replacedValue"`
}

func (r UpsertResult) Replaced() bool {
	return r.ReplacedValue != nil
}

type SparklinePoint struct {
	Value           float64   `json:"value"`
	MeasurementDate time.Time `json:"measurementDate"`
}

// Date truncates t to its calendar day in UTC.
func Date(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (m Measurement) Validate() error {
	switch {
	case m.GoalID == "":
		return errors.Join(ErrInvalidMeasurement, errors.New("goal id is empty"))
	case m.UserID == "":
		return errors.Join(ErrInvalidMeasurement, errors.New("user id is empty"))
	case m.MeasurementDate.IsZero():
		return errors.Join(ErrInvalidMeasurement, errors.New("measurement date is empty"))
	case m.Value < 0:
		return errors.Join(ErrInvalidMeasurement, errors.New("value is negative"))
	}
	return nil
}
