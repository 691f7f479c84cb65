package connectors

import (
	"context"
	"fmt"

	"github.com/2beens/goalprogress/internal/measurements"
	"github.com/2beens/goalprogress/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// UnifiedMetricHistory returns all wearable rows of the user, most recent first.
func (r *Repo) UnifiedMetricHistory(ctx context.Context, userID string) (_ []UnifiedMetric, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.connectors.unified.history")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.String("user-id", userID))

	rows, err := r.db.Query(ctx, `
		SELECT metric_name, value, measurement_date
		FROM unified_metric
		WHERE user_id = $1
		ORDER BY measurement_date DESC;
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query unified metrics: %w", err)
	}
	defer rows.Close()

	metrics := make([]UnifiedMetric, 0)
	for rows.Next() {
		var m UnifiedMetric
		if err := rows.Scan(&m.MetricName, &m.Value, &m.MeasurementDate); err != nil {
			return nil, fmt.Errorf("scan unified metric: %w", err)
		}
		m.MeasurementDate = measurements.Date(m.MeasurementDate)
		metrics = append(metrics, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate unified metrics: %w", err)
	}

	return metrics, nil
}

var bodyMetricNames = []string{
	string(BodyMetricWeight),
	string(BodyMetricBodyFat),
	string(BodyMetricMuscleMass),
}

func (r *Repo) AggregatedBodyMetrics(ctx context.Context, userID string) (_ *AggregatedBodyMetrics, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.connectors.body.aggregated")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.String("user-id", userID))

	// measurements recorded on the user's body-composition goals compete with
	// device readings; they are stamped at the start of their day
	rows, err := r.db.Query(ctx, `
		SELECT metric, value, source, measured_at
		FROM body_composition_reading
		WHERE user_id = $1
		UNION ALL
		SELECT g.category, m.value, m.source, m.measurement_date::timestamp AT TIME ZONE 'UTC'
		FROM measurement m
		JOIN goal g ON g.id = m.goal_id
		WHERE m.user_id = $1 AND g.category = ANY($2)
		ORDER BY measured_at DESC;
	`, userID, bodyMetricNames)
	if err != nil {
		return nil, fmt.Errorf("query body composition readings: %w", err)
	}
	defer rows.Close()

	readings := make([]BodyReading, 0)
	for rows.Next() {
		var br BodyReading
		if err := rows.Scan(&br.Metric, &br.Value, &br.Source, &br.MeasuredAt); err != nil {
			return nil, fmt.Errorf("scan body composition reading: %w", err)
		}
		readings = append(readings, br)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate body composition readings: %w", err)
	}
	span.SetAttributes(attribute.Int("readings", len(readings)))

	aggregated := AggregateBodyMetrics(readings)
	return &aggregated, nil
}

func (r *Repo) CurrentValues(ctx context.Context, userID string, goalIDs []string) (_ []CurrentValue, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.connectors.current.values")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.String("user-id", userID))

	if len(goalIDs) == 0 {
		return []CurrentValue{}, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT goal_id, current_value, source, updated_at
		FROM goal_current_value
		WHERE user_id = $1 AND goal_id = ANY($2);
	`, userID, goalIDs)
	if err != nil {
		return nil, fmt.Errorf("query current values: %w", err)
	}
	defer rows.Close()

	values := make([]CurrentValue, 0, len(goalIDs))
	for rows.Next() {
		var cv CurrentValue
		if err := rows.Scan(&cv.GoalID, &cv.CurrentValue, &cv.Source, &cv.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan current value: %w", err)
		}
		cv.UpdatedAt = cv.UpdatedAt.UTC()
		values = append(values, cv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate current values: %w", err)
	}

	return values, nil
}
