package progress

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=progress_test

import (
	"context"
	"errors"
	"time"

	"github.com/2beens/goalprogress/internal/connectors"
	"github.com/2beens/goalprogress/internal/goals"
	"github.com/2beens/goalprogress/internal/measurements"
	"github.com/2beens/goalprogress/internal/telemetry/metrics"
	"github.com/2beens/goalprogress/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

const notifyTimeout = 3 * time.Second

const (
	opListGoals             = "list_goals"
	opListParticipations    = "list_participations"
	opQueryMeasurements     = "query_measurements"
	opCurrentValues         = "current_values"
	opUnifiedMetricHistory  = "unified_metric_history"
	opAggregatedBodyMetrics = "aggregated_body_metrics"
)

type goalLister interface {
	List(ctx context.Context, userID string) ([]goals.Goal, error)
	ListParticipations(ctx context.Context, userID string) ([]goals.Participation, error)
}

type measurementQuerier interface {
	Query(ctx context.Context, userID string, goalIDs []string) ([]measurements.Measurement, error)
}

type metricSources interface {
	UnifiedMetricHistory(ctx context.Context, userID string) ([]connectors.UnifiedMetric, error)
	AggregatedBodyMetrics(ctx context.Context, userID string) (*connectors.AggregatedBodyMetrics, error)
	CurrentValues(ctx context.Context, userID string, goalIDs []string) ([]connectors.CurrentValue, error)
}

type notifier interface {
	Notify(ctx context.Context, userID string, notification Notification) error
}

type viewsCache interface {
	Get(userID string) ([]ChallengeGoalView, bool)
	Generation(userID string) uint64
	SetIfCurrent(userID string, generation uint64, views []ChallengeGoalView) bool
	Invalidate(userID string)
}

type Aggregator struct {
	goals          goalLister
	measurements   measurementQuerier
	sources        metricSources
	resolver       *Resolver
	cache          viewsCache
	notifier       notifier
	metricsManager *metrics.Manager
}

type NewAggregatorParams struct {
	Goals          goalLister
	Measurements   measurementQuerier
	Sources        metricSources
	Resolver       *Resolver
	Cache          viewsCache
	Notifier       notifier
	MetricsManager *metrics.Manager
}

func NewAggregator(params NewAggregatorParams) *Aggregator {
	resolver := params.Resolver
	if resolver == nil {
		resolver = NewResolver(DefaultBodyFatMaxAge)
	}
	return &Aggregator{
		goals:          params.Goals,
		measurements:   params.Measurements,
		sources:        params.Sources,
		resolver:       resolver,
		cache:          params.Cache,
		notifier:       params.Notifier,
		metricsManager: params.MetricsManager,
	}
}

// GoalViews returns one view per goal of the user: personal goals and the goals
// of every challenge the user takes part in. It never returns a partial list;
// when any read fails the result is empty and FetchFailed is set.
func (a *Aggregator) GoalViews(ctx context.Context, userID string) GoalViews {
	ctx, span := tracing.GlobalTracer.Start(ctx, "aggregator.progress.goalviews")
	defer span.End()
	span.SetAttributes(attribute.String("user-id", userID))

	if views, ok := a.cache.Get(userID); ok {
		a.cacheLookup("hit")
		span.SetAttributes(attribute.Bool("cached", true))
		return GoalViews{UserID: userID, Views: views}
	}
	a.cacheLookup("miss")

	generation := a.cache.Generation(userID)
	start := time.Now()
	views, err := a.compute(ctx, userID)
	if a.metricsManager != nil {
		a.metricsManager.HistGoalViewsDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		a.fetchFailed(ctx, userID, err)
		return GoalViews{UserID: userID, Views: []ChallengeGoalView{}, FetchFailed: true}
	}

	if !a.cache.SetIfCurrent(userID, generation, views) {
		span.SetAttributes(attribute.Bool("cache-skipped", true))
	}
	span.SetAttributes(attribute.Int("views", len(views)))
	return GoalViews{UserID: userID, Views: views}
}

// Invalidate drops the cached views of the user.
func (a *Aggregator) Invalidate(userID string) {
	a.cache.Invalidate(userID)
	if a.metricsManager != nil {
		a.metricsManager.CounterInvalidations.WithLabelValues("local").Inc()
	}
}

func (a *Aggregator) compute(ctx context.Context, userID string) ([]ChallengeGoalView, error) {
	userGoals, err := a.goals.List(ctx, userID)
	if err != nil {
		return nil, upstream(opListGoals, err)
	}
	if len(userGoals) == 0 {
		return []ChallengeGoalView{}, nil
	}

	goalIDs := make([]string, 0, len(userGoals))
	for _, g := range userGoals {
		goalIDs = append(goalIDs, g.ID)
	}

	var (
		participations []goals.Participation
		goalMeasures   []measurements.Measurement
		currentValues  []connectors.CurrentValue
		unified        []connectors.UnifiedMetric
		body           *connectors.AggregatedBodyMetrics
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		participations, err = a.goals.ListParticipations(gctx, userID)
		return upstream(opListParticipations, err)
	})
	g.Go(func() (err error) {
		goalMeasures, err = a.measurements.Query(gctx, userID, goalIDs)
		return upstream(opQueryMeasurements, err)
	})
	g.Go(func() (err error) {
		currentValues, err = a.sources.CurrentValues(gctx, userID, goalIDs)
		return upstream(opCurrentValues, err)
	})
	g.Go(func() (err error) {
		unified, err = a.sources.UnifiedMetricHistory(gctx, userID)
		return upstream(opUnifiedMetricHistory, err)
	})
	g.Go(func() (err error) {
		body, err = a.sources.AggregatedBodyMetrics(gctx, userID)
		return upstream(opAggregatedBodyMetrics, err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	participationByChallenge := make(map[string]goals.Participation, len(participations))
	for _, p := range participations {
		participationByChallenge[p.ChallengeID] = p
	}

	sources := NewSources(unified, body, currentValues, goalMeasures)
	views := make([]ChallengeGoalView, 0, len(userGoals))
	for _, goal := range userGoals {
		views = append(views, a.buildView(goal, sources, participationByChallenge))
	}
	return views, nil
}

func (a *Aggregator) buildView(goal goals.Goal, sources Sources, participations map[string]goals.Participation) ChallengeGoalView {
	c := goal.Classification()
	resolved := a.resolver.Resolve(goal, sources)

	view := ChallengeGoalView{
		GoalID:                goal.ID,
		GoalName:              goal.Name,
		GoalType:              goal.Type,
		Unit:                  goal.TargetUnit,
		TargetValue:           goal.TargetValue,
		HasTarget:             goal.HasTarget(),
		HasData:               resolved.HasData,
		CurrentValue:          resolved.CurrentValue,
		Source:                resolved.Source,
		Sparkline:             resolved.Sparkline,
		Direction:             c.Direction,
		Category:              c.Category,
		IsPersonal:            goal.IsPersonal,
		CompetingObservations: resolved.Competing,
		Trend:                 TrendStable,
	}

	// explicit goal baseline, then the challenge snapshot, then the oldest sparkline point
	baseline := resolved.Baseline
	if goal.ChallengeID != nil {
		view.ChallengeID = goal.ChallengeID
		view.ChallengeTitle = goal.ChallengeTitle
		if p, ok := participations[*goal.ChallengeID]; ok {
			if view.ChallengeTitle == "" {
				view.ChallengeTitle = p.ChallengeTitle
			}
			snapshot := p.Baseline
			view.BaselineSnapshot = &snapshot
			if v := snapshot.ValueFor(c.Category); v != nil {
				baseline = v
			}
		}
	}
	if goal.BaselineValue != nil {
		baseline = goal.BaselineValue
	}
	view.BaselineValue = baseline

	if resolved.HasData {
		p := CalculateProgress(resolved.CurrentValue, goal.TargetValue, baseline, c.Direction)
		view.ProgressPercentage = round2(p.Percentage)

		trend, trendPct := CalculateTrend(resolved.Sparkline)
		view.Trend = trend
		view.TrendPercentage = round2(trendPct)
	}

	return view
}

func (a *Aggregator) fetchFailed(ctx context.Context, userID string, err error) {
	op := "unknown"
	var fetchErr *UpstreamFetchError
	if errors.As(err, &fetchErr) {
		op = fetchErr.Op
	}
	if a.metricsManager != nil {
		a.metricsManager.CounterUpstreamFetchFailed.WithLabelValues(op).Inc()
	}

	// the caller is gone, nobody to tell; a deadline is an upstream timeout and is reported
	if errors.Is(ctx.Err(), context.Canceled) {
		log.Debugf("goal views of user [%s] abandoned: %s", userID, err)
		return
	}

	log.Errorf("goal views of user [%s]: %s", userID, err)
	if a.notifier == nil {
		return
	}
	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()
	if nErr := a.notifier.Notify(notifyCtx, userID, fetchFailedNotification()); nErr != nil {
		log.Errorf("notify user [%s] about failed goal views: %s", userID, nErr)
	}
}

func (a *Aggregator) cacheLookup(result string) {
	if a.metricsManager != nil {
		a.metricsManager.CounterGoalViewsCache.WithLabelValues(result).Inc()
	}
}
