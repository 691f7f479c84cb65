//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/2beens/goalprogress/internal/goals"
	"github.com/2beens/goalprogress/internal/measurements"
	"github.com/2beens/goalprogress/internal/middleware"
	"github.com/2beens/goalprogress/internal/progress"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) doRequest(ctx context.Context, method, path string, body any) *http.Response {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(s.T(), err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, reader)
	require.NoError(s.T(), err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set(middleware.APIKeyHeader, testAPIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	return resp
}

func (s *IntegrationTestSuite) decode(resp *http.Response, expectedStatus int, v any) {
	defer resp.Body.Close()
	require.Equal(s.T(), expectedStatus, resp.StatusCode)
	if v != nil {
		require.NoError(s.T(), json.NewDecoder(resp.Body).Decode(v))
	}
}

func (s *IntegrationTestSuite) createGoal(ctx context.Context, userID string, in goals.Input) goals.Goal {
	var goal goals.Goal
	s.decode(s.doRequest(ctx, http.MethodPost, fmt.Sprintf("/progress/users/%s/goals", userID), in), http.StatusCreated, &goal)
	return goal
}

func (s *IntegrationTestSuite) goalViews(ctx context.Context, userID string) progress.GoalViews {
	var views progress.GoalViews
	s.decode(s.doRequest(ctx, http.MethodGet, fmt.Sprintf("/progress/users/%s/goals", userID), nil), http.StatusOK, &views)
	return views
}

func (s *IntegrationTestSuite) TestAuthRequired() {
	req, err := http.NewRequest(http.MethodGet, serverEndpoint+"/progress/users/user-1/goals", nil)
	s.Require().NoError(err)

	resp, err := s.httpClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestPersonalGoalLifecycle() {
	ctx := context.Background()
	t := s.T()

	target := 100.0
	goal := s.createGoal(ctx, "user-1", goals.Input{
		Name:        "Bench Press",
		Type:        goals.TypeStrength,
		TargetValue: &target,
		TargetUnit:  "kg",
	})
	require.NotEmpty(t, goal.ID)
	assert.True(t, goal.IsPersonal)
	assert.Equal(t, goals.HigherIsBetter, goal.Direction)
	assert.Equal(t, goals.CategoryGeneric, goal.Category)

	views := s.goalViews(ctx, "user-1")
	require.False(t, views.FetchFailed)
	require.Len(t, views.Views, 1)
	assert.False(t, views.Views[0].HasData)
	assert.Equal(t, "manual", views.Views[0].Source)
	assert.Equal(t, 0.0, views.Views[0].ProgressPercentage)

	today := measurements.Date(time.Now())
	var recorded progress.RecordMeasurementResponse
	s.decode(s.doRequest(ctx, http.MethodPost, "/progress/users/user-1/measurements", progress.MeasurementInput{
		GoalID:          goal.ID,
		Value:           80,
		MeasurementDate: today.AddDate(0, 0, -3),
	}), http.StatusCreated, &recorded)
	assert.False(t, recorded.Replaced)
	assert.Equal(t, "kg", recorded.Measurement.Unit)

	s.decode(s.doRequest(ctx, http.MethodPost, "/progress/users/user-1/measurements", progress.MeasurementInput{
		GoalID: goal.ID,
		Value:  85,
	}), http.StatusCreated, &recorded)

	views = s.goalViews(ctx, "user-1")
	require.Len(t, views.Views, 1)
	view := views.Views[0]
	assert.True(t, view.HasData)
	assert.Equal(t, 85.0, view.CurrentValue)
	require.NotNil(t, view.BaselineValue)
	assert.Equal(t, 80.0, *view.BaselineValue)
	assert.Equal(t, 25.0, view.ProgressPercentage)
	assert.Equal(t, progress.TrendUp, view.Trend)
	assert.Equal(t, 6.25, view.TrendPercentage)

	// same day again replaces the earlier value
	s.decode(s.doRequest(ctx, http.MethodPost, "/progress/users/user-1/measurements", progress.MeasurementInput{
		GoalID: goal.ID,
		Value:  90,
	}), http.StatusOK, &recorded)
	assert.True(t, recorded.Replaced)
	require.NotNil(t, recorded.ReplacedValue)
	assert.Equal(t, 85.0, *recorded.ReplacedValue)

	views = s.goalViews(ctx, "user-1")
	require.Len(t, views.Views, 1)
	assert.Equal(t, 90.0, views.Views[0].CurrentValue)
	assert.Equal(t, 50.0, views.Views[0].ProgressPercentage)

	var goalMeasurements progress.MeasurementsResponse
	s.decode(s.doRequest(ctx, http.MethodGet, fmt.Sprintf("/progress/users/user-1/goals/%s/measurements", goal.ID), nil), http.StatusOK, &goalMeasurements)
	require.Len(t, goalMeasurements.Measurements, 2)
	assert.Equal(t, 90.0, goalMeasurements.Measurements[0].Value)
	assert.Equal(t, 80.0, goalMeasurements.Measurements[1].Value)

	var notifications progress.NotificationsResponse
	s.decode(s.doRequest(ctx, http.MethodGet, "/progress/users/user-1/notifications", nil), http.StatusOK, &notifications)
	require.NotEmpty(t, notifications.Notifications)
	assert.Equal(t, progress.NotificationMeasurementReplaced, notifications.Notifications[0].Kind)

	// other users cannot write into a personal goal
	resp := s.doRequest(ctx, http.MethodPost, "/progress/users/user-9/measurements", progress.MeasurementInput{
		GoalID: goal.ID,
		Value:  70,
	})
	s.decode(resp, http.StatusForbidden, nil)

	// only the owner may change the goal
	s.decode(s.doRequest(ctx, http.MethodDelete, "/progress/users/user-9/goals/"+goal.ID, nil), http.StatusForbidden, nil)

	s.decode(s.doRequest(ctx, http.MethodDelete, "/progress/users/user-1/goals/"+goal.ID, nil), http.StatusOK, nil)
	s.decode(s.doRequest(ctx, http.MethodGet, "/progress/users/user-1/goals/"+goal.ID, nil), http.StatusNotFound, nil)
	assert.Empty(t, s.goalViews(ctx, "user-1").Views)
}

func (s *IntegrationTestSuite) TestChallengeBodyFatGoal() {
	ctx := context.Background()
	t := s.T()

	_, err := s.dbPool.Exec(ctx, `
		INSERT INTO challenge (id, title, start_date, end_date)
		VALUES ('challenge-1', 'Spring Cut', CURRENT_DATE - 10, CURRENT_DATE + 50);
	`)
	require.NoError(t, err)
	_, err = s.dbPool.Exec(ctx, `
		INSERT INTO challenge_participation (challenge_id, user_id, baseline_body_fat, baseline_captured_at)
		VALUES ('challenge-1', 'user-2', 20, now() - interval '10 days'),
		       ('challenge-1', 'user-3', NULL, NULL);
	`)
	require.NoError(t, err)

	today := measurements.Date(time.Now())
	_, err = s.dbPool.Exec(ctx, `
		INSERT INTO body_composition_reading (user_id, metric, value, source, measured_at)
		VALUES ('user-2', 'body_fat', 18.2, 'withings', $1),
		       ('user-2', 'body_fat', 17.5, 'inbody', $1),
		       ('user-2', 'body_fat', 19, 'manual', $2);
	`, today, today.AddDate(0, 0, -5))
	require.NoError(t, err)

	target := 15.0
	challengeID := "challenge-1"
	goal := s.createGoal(ctx, "user-2", goals.Input{
		Name:        "Body Fat",
		Type:        goals.TypeBodyComposition,
		TargetValue: &target,
		TargetUnit:  "%",
		ChallengeID: &challengeID,
	})
	assert.False(t, goal.IsPersonal)
	assert.Equal(t, goals.LowerIsBetter, goal.Direction)
	assert.Equal(t, goals.CategoryBodyFat, goal.Category)

	views := s.goalViews(ctx, "user-2")
	require.Len(t, views.Views, 1)
	view := views.Views[0]
	assert.Equal(t, "Spring Cut", view.ChallengeTitle)
	assert.Equal(t, 17.5, view.CurrentValue)
	assert.Equal(t, "inbody", view.Source)
	require.NotNil(t, view.BaselineValue)
	assert.Equal(t, 20.0, *view.BaselineValue)
	assert.Equal(t, 50.0, view.ProgressPercentage)
	assert.Equal(t, progress.TrendDown, view.Trend)
	require.Len(t, view.CompetingObservations, 3)
	assert.Equal(t, "inbody", view.CompetingObservations[0].Source)
	assert.True(t, view.CompetingObservations[0].Chosen)
	assert.Equal(t, "manual", view.CompetingObservations[1].Source)
	assert.Equal(t, "withings", view.CompetingObservations[2].Source)

	// the other participant sees the goal without data
	views = s.goalViews(ctx, "user-3")
	require.Len(t, views.Views, 1)
	assert.False(t, views.Views[0].HasData)
	assert.Equal(t, 0.0, views.Views[0].ProgressPercentage)
}

func (s *IntegrationTestSuite) TestManualBodyWeightBeatsOlderScaleReading() {
	ctx := context.Background()
	t := s.T()

	today := measurements.Date(time.Now())
	_, err := s.dbPool.Exec(ctx, `
		INSERT INTO body_composition_reading (user_id, metric, value, source, measured_at)
		VALUES ('user-4', 'weight', 84.6, 'withings', $1);
	`, today.AddDate(0, 0, -4).Add(7*time.Hour))
	require.NoError(t, err)

	target := 80.0
	goal := s.createGoal(ctx, "user-4", goals.Input{
		Name:        "Body Weight",
		Type:        goals.TypeBodyComposition,
		TargetValue: &target,
		TargetUnit:  "kg",
	})
	require.Equal(t, goals.CategoryWeight, goal.Category)

	views := s.goalViews(ctx, "user-4")
	require.Len(t, views.Views, 1)
	assert.Equal(t, 84.6, views.Views[0].CurrentValue)
	assert.Equal(t, "withings", views.Views[0].Source)

	var recorded progress.RecordMeasurementResponse
	s.decode(s.doRequest(ctx, http.MethodPost, "/progress/users/user-4/measurements", progress.MeasurementInput{
		GoalID: goal.ID,
		Value:  83.9,
	}), http.StatusCreated, &recorded)

	views = s.goalViews(ctx, "user-4")
	require.Len(t, views.Views, 1)
	view := views.Views[0]
	assert.Equal(t, 83.9, view.CurrentValue)
	assert.Equal(t, "manual", view.Source)
	assert.Equal(t, progress.TrendDown, view.Trend)
	require.Len(t, view.CompetingObservations, 2)
	assert.Equal(t, "manual", view.CompetingObservations[0].Source)
	assert.True(t, view.CompetingObservations[0].Chosen)
	assert.Equal(t, "withings", view.CompetingObservations[1].Source)
	assert.Equal(t, 84.6, view.CompetingObservations[1].Value)
}
