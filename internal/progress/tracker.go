package progress

//go:generate mockgen -source=$GOFILE -destination=tracker_mocks_test.go -package=progress_test

import (
	"context"
	"fmt"
	"time"

	"github.com/2beens/goalprogress/internal/goals"
	"github.com/2beens/goalprogress/internal/measurements"
	"github.com/2beens/goalprogress/internal/telemetry/metrics"
	"github.com/2beens/goalprogress/internal/telemetry/tracing"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type goalStore interface {
	Get(ctx context.Context, id string) (*goals.Goal, error)
	Create(ctx context.Context, goal goals.Goal) (*goals.Goal, error)
	Update(ctx context.Context, goal *goals.Goal) error
	Delete(ctx context.Context, id string) error
	ParticipantIDs(ctx context.Context, challengeID string) ([]string, error)
}

type measurementStore interface {
	InsertOrReplace(ctx context.Context, measurement measurements.Measurement) (*measurements.UpsertResult, error)
	QueryByGoal(ctx context.Context, goalID, userID string) ([]measurements.Measurement, error)
}

type changePublisher interface {
	GoalDataChanged(ctx context.Context, event ChangeEvent) error
}

type MeasurementInput struct {
	GoalID          string    `json:"goalId"`
	Value           float64   `json:"value"`
	Unit            string    `json:"unit"`
	MeasurementDate time.Time `json:"measurementDate"`
	Source          string    `json:"source"`
	Reps            *int      `json:"reps"`
	Notes           *string   `json:"notes"`
	PhotoURL        *string   `json:"photoUrl"`
}

// Tracker applies goal and measurement mutations. After every committed
// mutation the views of all affected users are invalidated here and on the
// other instances.
type Tracker struct {
	goals          goalStore
	measurements   measurementStore
	cache          invalidator
	publisher      changePublisher
	notifier       notifier
	metricsManager *metrics.Manager
	now            func() time.Time
}

type NewTrackerParams struct {
	Goals          goalStore
	Measurements   measurementStore
	Cache          invalidator
	Publisher      changePublisher
	Notifier       notifier
	MetricsManager *metrics.Manager
}

func NewTracker(params NewTrackerParams) *Tracker {
	return &Tracker{
		goals:          params.Goals,
		measurements:   params.Measurements,
		cache:          params.Cache,
		publisher:      params.Publisher,
		notifier:       params.Notifier,
		metricsManager: params.MetricsManager,
		now:            time.Now,
	}
}

func (t *Tracker) WithClock(now func() time.Time) *Tracker {
	t.now = now
	return t
}

// GetGoal returns the goal when the user owns it or takes part in its challenge.
func (t *Tracker) GetGoal(ctx context.Context, id, userID string) (_ *goals.Goal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "tracker.goals.get")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.String("goal-id", id))
	span.SetAttributes(attribute.String("user-id", userID))

	if userID == "" {
		return nil, ErrUserIDEmpty
	}
	goal, err := t.goals.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := t.checkAccess(ctx, goal, userID); err != nil {
		return nil, err
	}
	return goal, nil
}

func (t *Tracker) CreateGoal(ctx context.Context, userID string, in goals.Input) (_ *goals.Goal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "tracker.goals.create")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if userID == "" {
		return nil, ErrUserIDEmpty
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if in.ChallengeID != nil {
		if err := t.checkParticipant(ctx, *in.ChallengeID, userID); err != nil {
			return nil, err
		}
	}

	goal := goals.New(userID, in, t.now().UTC())
	span.SetAttributes(attribute.String("direction", string(goal.Direction)))
	span.SetAttributes(attribute.String("category", string(goal.Category)))

	created, err := t.goals.Create(ctx, goal)
	if err != nil {
		return nil, fmt.Errorf("create goal: %w", err)
	}

	t.changed(ctx, ChangeGoalCreated, created)
	return created, nil
}

// UpdateGoal applies the patch to a goal the user created.
func (t *Tracker) UpdateGoal(ctx context.Context, id, userID string, patch goals.Patch) (_ *goals.Goal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "tracker.goals.update")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.String("goal-id", id))

	goal, err := t.goals.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get goal: %w", err)
	}
	if err := checkOwner(goal, userID); err != nil {
		return nil, err
	}
	if err := goal.Apply(patch, t.now().UTC()); err != nil {
		return nil, err
	}
	if err := t.goals.Update(ctx, goal); err != nil {
		return nil, fmt.Errorf("update goal: %w", err)
	}

	t.changed(ctx, ChangeGoalUpdated, goal)
	return goal, nil
}

// DeleteGoal removes a goal the user created, with all its measurements.
func (t *Tracker) DeleteGoal(ctx context.Context, id, userID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "tracker.goals.delete")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.String("goal-id", id))

	goal, err := t.goals.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get goal: %w", err)
	}
	if err := checkOwner(goal, userID); err != nil {
		return err
	}
	affected := t.affectedUsers(ctx, goal)
	if err := t.goals.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}

	t.notifyChanged(ctx, ChangeGoalDeleted, goal.ID, affected)
	return nil
}

// RecordMeasurement stores a measurement of the user for a goal, replacing the
// one already recorded for that day. A replaced value is returned and also
// sent to the user as a notification.
func (t *Tracker) RecordMeasurement(ctx context.Context, userID string, in MeasurementInput) (_ *measurements.UpsertResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "tracker.measurements.record")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.String("goal-id", in.GoalID))
	span.SetAttributes(attribute.String("user-id", userID))

	if userID == "" {
		return nil, ErrUserIDEmpty
	}

	goal, err := t.goals.Get(ctx, in.GoalID)
	if err != nil {
		return nil, fmt.Errorf("get goal: %w", err)
	}
	if err := t.checkAccess(ctx, goal, userID); err != nil {
		return nil, err
	}

	now := t.now().UTC()
	m := measurements.Measurement{
		ID:              uuid.NewString(),
		GoalID:          goal.ID,
		UserID:          userID,
		Value:           in.Value,
		Unit:            in.Unit,
		MeasurementDate: in.MeasurementDate,
		Source:          measurements.Source(in.Source),
		Reps:            in.Reps,
		Notes:           in.Notes,
		PhotoURL:        in.PhotoURL,
		CreatedAt:       now,
	}
	if m.Unit == "" {
		m.Unit = goal.TargetUnit
	}
	if m.MeasurementDate.IsZero() {
		m.MeasurementDate = now
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	res, err := t.measurements.InsertOrReplace(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("insert or replace measurement: %w", err)
	}

	if t.metricsManager != nil {
		t.metricsManager.CounterMeasurementsRecorded.Inc()
	}
	if res.Replaced() {
		log.Infof("measurement of user [%s] for goal [%s] on %s replaced: %g -> %g",
			userID, goal.ID, res.Measurement.MeasurementDate.Format(time.DateOnly), *res.ReplacedValue, res.Measurement.Value)
		if t.metricsManager != nil {
			t.metricsManager.CounterMeasurementsReplaced.Inc()
		}
		if t.notifier != nil {
			n := measurementReplacedNotification(goal.Name, *res.ReplacedValue, res.Measurement.Value)
			if err := t.notifier.Notify(ctx, userID, n); err != nil {
				log.Errorf("notify user [%s] about replaced measurement: %s", userID, err)
			}
		}
	}

	t.notifyChanged(ctx, ChangeMeasurementRecorded, goal.ID, []string{userID})
	return res, nil
}

func (t *Tracker) GoalMeasurements(ctx context.Context, goalID, userID string) (_ []measurements.Measurement, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "tracker.measurements.goal")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	goal, err := t.goals.Get(ctx, goalID)
	if err != nil {
		return nil, fmt.Errorf("get goal: %w", err)
	}
	if err := t.checkAccess(ctx, goal, userID); err != nil {
		return nil, err
	}
	return t.measurements.QueryByGoal(ctx, goalID, userID)
}

func (t *Tracker) checkAccess(ctx context.Context, goal *goals.Goal, userID string) error {
	if goal.IsPersonal {
		if goal.UserID != userID {
			return ErrGoalAccessDenied
		}
		return nil
	}
	if goal.ChallengeID == nil {
		return ErrGoalAccessDenied
	}
	return t.checkParticipant(ctx, *goal.ChallengeID, userID)
}

func (t *Tracker) checkParticipant(ctx context.Context, challengeID, userID string) error {
	participants, err := t.goals.ParticipantIDs(ctx, challengeID)
	if err != nil {
		return fmt.Errorf("get challenge participants: %w", err)
	}
	for _, p := range participants {
		if p == userID {
			return nil
		}
	}
	return ErrGoalAccessDenied
}

// checkOwner guards goal definition changes: only the creator may edit or
// delete, challenge goals included. Goals without a creator are read only.
func checkOwner(goal *goals.Goal, userID string) error {
	if userID == "" {
		return ErrUserIDEmpty
	}
	if goal.UserID == "" || goal.UserID != userID {
		return ErrGoalAccessDenied
	}
	return nil
}

func (t *Tracker) changed(ctx context.Context, kind ChangeKind, goal *goals.Goal) {
	t.notifyChanged(ctx, kind, goal.ID, t.affectedUsers(ctx, goal))
}

// affectedUsers are the owner of a personal goal or every participant of the
// goal's challenge.
func (t *Tracker) affectedUsers(ctx context.Context, goal *goals.Goal) []string {
	users := make([]string, 0, 1)
	if goal.UserID != "" {
		users = append(users, goal.UserID)
	}
	if goal.ChallengeID == nil {
		return users
	}

	participants, err := t.goals.ParticipantIDs(ctx, *goal.ChallengeID)
	if err != nil {
		log.Errorf("get participants of challenge [%s]: %s", *goal.ChallengeID, err)
		return users
	}
	for _, p := range participants {
		if p != goal.UserID {
			users = append(users, p)
		}
	}
	return users
}

// notifyChanged runs after the mutation is committed, so failures here are
// logged and not returned.
func (t *Tracker) notifyChanged(ctx context.Context, kind ChangeKind, goalID string, userIDs []string) {
	now := t.now().UTC()
	for _, userID := range userIDs {
		t.cache.Invalidate(userID)
		if t.publisher == nil {
			continue
		}
		if err := t.publisher.GoalDataChanged(ctx, ChangeEvent{
			UserID: userID,
			GoalID: goalID,
			Kind:   kind,
			At:     now,
		}); err != nil {
			log.Errorf("publish %s for user [%s]: %s", kind, userID, err)
		}
	}
}
