package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/2beens/goalprogress/internal/telemetry/metrics"
	"github.com/2beens/goalprogress/internal/telemetry/tracing"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const GoalDataChangedChannel = "goal-data-changed"

type ChangeKind string

const (
	ChangeGoalCreated         ChangeKind = "goal_created"
	ChangeGoalUpdated         ChangeKind = "goal_updated"
	ChangeGoalDeleted         ChangeKind = "goal_deleted"
	ChangeMeasurementRecorded ChangeKind = "measurement_recorded"
)

// ChangeEvent announces that goal data of a user changed and their views must be recomputed.
type ChangeEvent struct {
	UserID string     `json:"userId"`
	GoalID string     `json:"goalId,omitempty"`
	Kind   ChangeKind `json:"kind"`
	At     time.Time  `json:"at"`
}

type ChangePublisher struct {
	rdb *redis.Client
}

func NewChangePublisher(rdb *redis.Client) *ChangePublisher {
	return &ChangePublisher{
		rdb: rdb,
	}
}

func (p *ChangePublisher) GoalDataChanged(ctx context.Context, event ChangeEvent) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "publisher.goaldata.changed")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.String("user-id", event.UserID))
	span.SetAttributes(attribute.String("kind", string(event.Kind)))

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal change event: %w", err)
	}
	if err := p.rdb.Publish(ctx, GoalDataChangedChannel, string(data)).Err(); err != nil {
		return fmt.Errorf("publish change event: %w", err)
	}
	return nil
}

type invalidator interface {
	Invalidate(userID string)
}

// InvalidationListener drops cached views when another instance reports a change.
type InvalidationListener struct {
	rdb            *redis.Client
	cache          invalidator
	metricsManager *metrics.Manager
}

func NewInvalidationListener(rdb *redis.Client, cache invalidator, metricsManager *metrics.Manager) *InvalidationListener {
	return &InvalidationListener{
		rdb:            rdb,
		cache:          cache,
		metricsManager: metricsManager,
	}
}

// Run blocks until ctx is done or the subscription breaks.
func (l *InvalidationListener) Run(ctx context.Context) error {
	sub := l.rdb.Subscribe(ctx, GoalDataChangedChannel)
	defer func() {
		if err := sub.Close(); err != nil {
			log.Warnf("close goal data changed subscription: %s", err)
		}
	}()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe to %s: %w", GoalDataChangedChannel, err)
	}
	log.Debugf("listening for goal data changes on [%s]", GoalDataChangedChannel)

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return fmt.Errorf("subscription to %s closed", GoalDataChangedChannel)
			}
			l.HandleMessage(msg.Payload)
		}
	}
}

func (l *InvalidationListener) HandleMessage(payload string) {
	var event ChangeEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		log.Errorf("goal data changed, unmarshal event [%s]: %s", payload, err)
		return
	}
	if event.UserID == "" {
		log.Warnf("goal data changed event without user id: %s", payload)
		return
	}

	l.cache.Invalidate(event.UserID)
	if l.metricsManager != nil {
		l.metricsManager.CounterInvalidations.WithLabelValues("remote").Inc()
	}
	log.Tracef("goal views of user [%s] invalidated (%s)", event.UserID, event.Kind)
}
