package goals

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/goalprogress/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const goalColumns = `
	g.id, COALESCE(g.user_id, ''), g.name, g.goal_type, g.target_value, g.target_unit,
	g.target_reps, g.is_personal, g.challenge_id, COALESCE(c.title, ''), g.baseline_value,
	g.duration_target, g.direction, g.direction_explicit, g.category, g.metric_key, g.created_at, g.updated_at`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// List returns the user's personal goals and the goals of every challenge the
// user participates in, personal first.
func (r *Repo) List(ctx context.Context, userID string) (_ []Goal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.goals.list")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.String("user-id", userID))

	rows, err := r.db.Query(ctx, `
		SELECT `+goalColumns+`
		FROM goal g
		LEFT JOIN challenge c ON c.id = g.challenge_id
		WHERE (g.is_personal AND g.user_id = $1)
		   OR g.challenge_id IN (
		       SELECT challenge_id FROM challenge_participation WHERE user_id = $1
		   )
		ORDER BY g.is_personal DESC, g.created_at ASC, g.id ASC;
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query goals: %w", err)
	}
	defer rows.Close()

	goals := make([]Goal, 0)
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate goals: %w", err)
	}

	return goals, nil
}

func (r *Repo) Get(ctx context.Context, id string) (_ *Goal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.goals.get")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.String("goal-id", id))

	g, err := scanGoal(r.db.QueryRow(ctx, `
		SELECT `+goalColumns+`
		FROM goal g
		LEFT JOIN challenge c ON c.id = g.challenge_id
		WHERE g.id = $1;
	`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGoalNotFound
		}
		return nil, err
	}
	return g, nil
}

func (r *Repo) Create(ctx context.Context, goal Goal) (_ *Goal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.goals.create")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var userID *string
	if goal.UserID != "" {
		userID = &goal.UserID
	}

	err = r.db.QueryRow(ctx, `
		INSERT INTO goal (
			id, user_id, name, goal_type, target_value, target_unit, target_reps, is_personal,
			challenge_id, baseline_value, duration_target, direction, direction_explicit, category,
			metric_key, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING created_at, updated_at;
	`,
		goal.ID, userID, goal.Name, goal.Type, goal.TargetValue, goal.TargetUnit, goal.TargetReps,
		goal.IsPersonal, goal.ChallengeID, goal.BaselineValue, goal.DurationTarget,
		goal.Direction, goal.DirectionExplicit, goal.Category, goal.MetricKey, goal.CreatedAt,
		goal.UpdatedAt,
	).Scan(&goal.CreatedAt, &goal.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert goal: %w", err)
	}

	goal.CreatedAt = goal.CreatedAt.UTC()
	goal.UpdatedAt = goal.UpdatedAt.UTC()
	return &goal, nil
}

// Update persists every mutable column of the goal.
func (r *Repo) Update(ctx context.Context, goal *Goal) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.goals.update")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.String("goal-id", goal.ID))

	tag, err := r.db.Exec(ctx, `
		UPDATE goal
		SET name = $2, target_value = $3, target_unit = $4, target_reps = $5,
		    baseline_value = $6, duration_target = $7, direction = $8, direction_explicit = $9,
		    category = $10, metric_key = $11, updated_at = $12
		WHERE id = $1;
	`,
		goal.ID, goal.Name, goal.TargetValue, goal.TargetUnit, goal.TargetReps,
		goal.BaselineValue, goal.DurationTarget, goal.Direction, goal.DirectionExplicit,
		goal.Category, goal.MetricKey, goal.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrGoalNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.goals.delete")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.String("goal-id", id))

	tag, err := r.db.Exec(ctx, `DELETE FROM goal WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrGoalNotFound
	}
	return nil
}

func (r *Repo) ListParticipations(ctx context.Context, userID string) (_ []Participation, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.goals.participations.list")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.String("user-id", userID))

	rows, err := r.db.Query(ctx, `
		SELECT p.challenge_id, c.title, p.user_id, p.joined_at,
		       p.baseline_weight, p.baseline_body_fat, p.baseline_muscle_mass, p.baseline_captured_at
		FROM challenge_participation p
		JOIN challenge c ON c.id = p.challenge_id
		WHERE p.user_id = $1
		ORDER BY p.joined_at ASC;
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query participations: %w", err)
	}
	defer rows.Close()

	participations := make([]Participation, 0)
	for rows.Next() {
		var p Participation
		if err := rows.Scan(
			&p.ChallengeID, &p.ChallengeTitle, &p.UserID, &p.JoinedAt,
			&p.Baseline.Weight, &p.Baseline.BodyFat, &p.Baseline.MuscleMass, &p.Baseline.CapturedAt,
		); err != nil {
			return nil, fmt.Errorf("scan participation: %w", err)
		}
		p.JoinedAt = p.JoinedAt.UTC()
		if p.Baseline.CapturedAt != nil {
			capturedAt := p.Baseline.CapturedAt.UTC()
			p.Baseline.CapturedAt = &capturedAt
		}
		participations = append(participations, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate participations: %w", err)
	}

	return participations, nil
}

func (r *Repo) ParticipantIDs(ctx context.Context, challengeID string) (_ []string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.goals.participants")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.String("challenge-id", challengeID))

	rows, err := r.db.Query(ctx, `
		SELECT user_id FROM challenge_participation WHERE challenge_id = $1 ORDER BY user_id;
	`, challengeID)
	if err != nil {
		return nil, fmt.Errorf("query participants: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("collect participants: %w", err)
	}
	return ids, nil
}

func scanGoal(row pgx.Row) (*Goal, error) {
	g := &Goal{}
	if err := row.Scan(
		&g.ID, &g.UserID, &g.Name, &g.Type, &g.TargetValue, &g.TargetUnit,
		&g.TargetReps, &g.IsPersonal, &g.ChallengeID, &g.ChallengeTitle, &g.BaselineValue,
		&g.DurationTarget, &g.Direction, &g.DirectionExplicit, &g.Category, &g.MetricKey, &g.CreatedAt, &g.UpdatedAt,
	); err != nil {
		return nil, err
	}
	g.CreatedAt = g.CreatedAt.UTC()
	g.UpdatedAt = g.UpdatedAt.UTC()
	return g, nil
}
