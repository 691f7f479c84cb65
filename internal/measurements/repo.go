package measurements

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/goalprogress/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const measurementColumns = `
	id, goal_id, user_id, value, unit, measurement_date, source, reps, notes, photo_url, created_at`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// InsertOrReplace stores the measurement, overwriting any existing one for the
// same goal, user and calendar day. The overwritten value is returned in the result.
func (r *Repo) InsertOrReplace(ctx context.Context, m Measurement) (_ *UpsertResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.measurements.upsert")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.String("goal-id", m.GoalID))
	span.SetAttributes(attribute.String("user-id", m.UserID))

	if err := m.Validate(); err != nil {
		return nil, err
	}
	if m.Source == "" {
		m.Source = SourceManual
	}
	m.MeasurementDate = Date(m.MeasurementDate)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin upsert: %w", err)
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = fmt.Errorf("rollback upsert: %w: %w", rollbackErr, err)
			}
			return
		}
		if err = tx.Commit(ctx); err != nil {
			err = fmt.Errorf("commit upsert: %w", err)
		}
	}()

	// serializes writers of the same goal, user and day, including the very
	// first one when no row exists yet to lock
	if _, err = tx.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtext($1 || '|' || $2 || '|' || $3::text))`,
		m.GoalID, m.UserID, m.MeasurementDate.Format(time.DateOnly),
	); err != nil {
		return nil, fmt.Errorf("lock measurement day: %w", err)
	}

	res := &UpsertResult{}
	var previous float64
	err = tx.QueryRow(ctx, `
		SELECT value FROM measurement
		WHERE goal_id = $1 AND user_id = $2 AND measurement_date = $3
		FOR UPDATE;
	`, m.GoalID, m.UserID, m.MeasurementDate).Scan(&previous)
	switch {
	case err == nil:
		res.ReplacedValue = &previous
	case errors.Is(err, pgx.ErrNoRows):
		err = nil
	default:
		return nil, fmt.Errorf("read previous measurement: %w", err)
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO measurement (`+measurementColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (goal_id, user_id, measurement_date) DO UPDATE
		SET value = EXCLUDED.value,
		    unit = EXCLUDED.unit,
		    source = EXCLUDED.source,
		    reps = EXCLUDED.reps,
		    notes = EXCLUDED.notes,
		    photo_url = EXCLUDED.photo_url,
		    created_at = EXCLUDED.created_at
		RETURNING id, created_at;
	`,
		m.ID, m.GoalID, m.UserID, m.Value, m.Unit, m.MeasurementDate, m.Source,
		m.Reps, m.Notes, m.PhotoURL, m.CreatedAt,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert measurement: %w", err)
	}

	m.CreatedAt = m.CreatedAt.UTC()
	res.Measurement = m
	span.SetAttributes(attribute.Bool("replaced", res.Replaced()))

	return res, nil
}

// Query returns the user's measurements for the given goals, most recent first.
func (r *Repo) Query(ctx context.Context, userID string, goalIDs []string) (_ []Measurement, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.measurements.query")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.String("user-id", userID))
	span.SetAttributes(attribute.Int("goals", len(goalIDs)))

	if len(goalIDs) == 0 {
		return []Measurement{}, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+measurementColumns+`
		FROM measurement
		WHERE user_id = $1 AND goal_id = ANY($2)
		ORDER BY measurement_date DESC, created_at DESC;
	`, userID, goalIDs)
	if err != nil {
		return nil, fmt.Errorf("query measurements: %w", err)
	}

	return collectMeasurements(rows)
}

func (r *Repo) QueryByGoal(ctx context.Context, goalID, userID string) (_ []Measurement, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.measurements.query.goal")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.String("goal-id", goalID))
	span.SetAttributes(attribute.String("user-id", userID))

	rows, err := r.db.Query(ctx, `
		SELECT `+measurementColumns+`
		FROM measurement
		WHERE goal_id = $1 AND user_id = $2
		ORDER BY measurement_date DESC, created_at DESC;
	`, goalID, userID)
	if err != nil {
		return nil, fmt.Errorf("query goal measurements: %w", err)
	}

	return collectMeasurements(rows)
}

func collectMeasurements(rows pgx.Rows) ([]Measurement, error) {
	defer rows.Close()

	measurements := make([]Measurement, 0)
	for rows.Next() {
		var m Measurement
		if err := rows.Scan(
			&m.ID, &m.GoalID, &m.UserID, &m.Value, &m.Unit, &m.MeasurementDate,
			&m.Source, &m.Reps, &m.Notes, &m.PhotoURL, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan measurement: %w", err)
		}
		m.MeasurementDate = Date(m.MeasurementDate)
		m.CreatedAt = m.CreatedAt.UTC()
		measurements = append(measurements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate measurements: %w", err)
	}

	return measurements, nil
}
