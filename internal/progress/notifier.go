package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/2beens/goalprogress/internal/telemetry/tracing"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	notificationsKeyPrefix  = "notifications::"
	defaultMaxNotifications = 50

	NotificationGoalDataFetchFailed = "goal_data_fetch_failed"
	NotificationMeasurementReplaced = "measurement_replaced"
)

type Notification struct {
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	Action    string    `json:"action,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// RedisNotifier keeps the latest notifications of each user in a capped redis list.
type RedisNotifier struct {
	rdb        *redis.Client
	maxPerUser int64
	now        func() time.Time
}

func NewRedisNotifier(rdb *redis.Client) *RedisNotifier {
	return &RedisNotifier{
		rdb:        rdb,
		maxPerUser: defaultMaxNotifications,
		now:        time.Now,
	}
}

func (n *RedisNotifier) WithClock(now func() time.Time) *RedisNotifier {
	n.now = now
	return n
}

func (n *RedisNotifier) Notify(ctx context.Context, userID string, notification Notification) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "notifier.redis.notify")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.String("user-id", userID))
	span.SetAttributes(attribute.String("kind", notification.Kind))

	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = n.now().UTC()
	}
	data, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	key := notificationsKeyPrefix + userID
	if err := n.rdb.LPush(ctx, key, string(data)).Err(); err != nil {
		return fmt.Errorf("push notification: %w", err)
	}
	if err := n.rdb.LTrim(ctx, key, 0, n.maxPerUser-1).Err(); err != nil {
		return fmt.Errorf("trim notifications: %w", err)
	}
	return nil
}

// List returns the user's notifications, newest first.
func (n *RedisNotifier) List(ctx context.Context, userID string) (_ []Notification, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "notifier.redis.list")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.String("user-id", userID))

	raw, err := n.rdb.LRange(ctx, notificationsKeyPrefix+userID, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	notifications := make([]Notification, 0, len(raw))
	for _, r := range raw {
		var notification Notification
		if err := json.Unmarshal([]byte(r), &notification); err != nil {
			return nil, fmt.Errorf("unmarshal notification: %w", err)
		}
		notifications = append(notifications, notification)
	}
	return notifications, nil
}

func fetchFailedNotification() Notification {
	return Notification{
		Kind:    NotificationGoalDataFetchFailed,
		Message: "Goal progress could not be loaded.",
		Action:  "refresh",
	}
}

func measurementReplacedNotification(goalName string, previous, current float64) Notification {
	return Notification{
		Kind:    NotificationMeasurementReplaced,
		Message: fmt.Sprintf("Measurement for %s on this day changed from %g to %g.", goalName, previous, current),
	}
}
