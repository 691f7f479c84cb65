package progress

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=progress_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2beens/goalprogress/internal/goals"
	"github.com/2beens/goalprogress/internal/measurements"
	"github.com/2beens/goalprogress/internal/telemetry/tracing"
	"github.com/2beens/goalprogress/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type goalViewer interface {
	GoalViews(ctx context.Context, userID string) GoalViews
}

type goalTracker interface {
	GetGoal(ctx context.Context, id, userID string) (*goals.Goal, error)
	CreateGoal(ctx context.Context, userID string, in goals.Input) (*goals.Goal, error)
	UpdateGoal(ctx context.Context, id, userID string, patch goals.Patch) (*goals.Goal, error)
	DeleteGoal(ctx context.Context, id, userID string) error
	RecordMeasurement(ctx context.Context, userID string, in MeasurementInput) (*measurements.UpsertResult, error)
	GoalMeasurements(ctx context.Context, goalID, userID string) ([]measurements.Measurement, error)
}

type notificationLister interface {
	List(ctx context.Context, userID string) ([]Notification, error)
}

type DeleteGoalResponse struct {
	DeletedID string `json:"deletedId"`
}

type RecordMeasurementResponse struct {
	Measurement   measurements.Measurement `json:"measurement"`
	Replaced      bool                     `json:"replaced"`
	ReplacedValue *float64                 `json:"replacedValue,omitempty"`
}

type MeasurementsResponse struct {
	GoalID       string                     `json:"goalId"`
	Measurements []measurements.Measurement `json:"measurements"`
}

type NotificationsResponse struct {
	Notifications []Notification `json:"notifications"`
}

type Handler struct {
	viewer        goalViewer
	tracker       goalTracker
	notifications notificationLister
}

func NewHandler(viewer goalViewer, tracker goalTracker, notifications notificationLister) *Handler {
	return &Handler{
		viewer:        viewer,
		tracker:       tracker,
		notifications: notifications,
	}
}

// HandleGoalViews always answers 200; a failed upstream read is reported in
// the body through fetchFailed.
func (handler *Handler) HandleGoalViews(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.views")
	defer span.End()

	userID := mux.Vars(r)["userId"]
	if userID == "" {
		http.Error(w, "error, user id empty", http.StatusBadRequest)
		return
	}

	pkg.WriteJSON(w, handler.viewer.GoalViews(ctx, userID), http.StatusOK)
}

func (handler *Handler) HandleCreateGoal(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.goals.create")
	defer span.End()

	if r.Header.Get("Content-Type") != pkg.ContentType.JSON {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	userID := mux.Vars(r)["userId"]
	var in goals.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		log.Errorf("create goal, unmarshal json params: %s", err)
		http.Error(w, "create goal failed", http.StatusBadRequest)
		return
	}

	goal, err := handler.tracker.CreateGoal(ctx, userID, in)
	if err != nil {
		writeError(w, "create goal", err)
		return
	}

	log.Debugf("goal [%s] created for user [%s]: %s (%s, %s)", goal.ID, userID, goal.Name, goal.Direction, goal.Category)
	pkg.WriteJSON(w, goal, http.StatusCreated)
}

func (handler *Handler) HandleGetGoal(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.goals.get")
	defer span.End()

	vars := mux.Vars(r)
	id, userID := vars["goalId"], vars["userId"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	goal, err := handler.tracker.GetGoal(ctx, id, userID)
	if err != nil {
		writeError(w, "get goal", err)
		return
	}
	pkg.WriteJSON(w, goal, http.StatusOK)
}

func (handler *Handler) HandleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.goals.update")
	defer span.End()

	if r.Header.Get("Content-Type") != pkg.ContentType.JSON {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	vars := mux.Vars(r)
	id, userID := vars["goalId"], vars["userId"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	var patch goals.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		log.Errorf("update goal %s, unmarshal json params: %s", id, err)
		http.Error(w, "update goal failed", http.StatusBadRequest)
		return
	}

	goal, err := handler.tracker.UpdateGoal(ctx, id, userID, patch)
	if err != nil {
		writeError(w, "update goal", err)
		return
	}
	pkg.WriteJSON(w, goal, http.StatusOK)
}

func (handler *Handler) HandleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.goals.delete")
	defer span.End()

	vars := mux.Vars(r)
	id, userID := vars["goalId"], vars["userId"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	if err := handler.tracker.DeleteGoal(ctx, id, userID); err != nil {
		writeError(w, "delete goal", err)
		return
	}
	pkg.WriteJSON(w, DeleteGoalResponse{DeletedID: id}, http.StatusOK)
}

func (handler *Handler) HandleRecordMeasurement(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.measurements.record")
	defer span.End()

	if r.Header.Get("Content-Type") != pkg.ContentType.JSON {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	userID := mux.Vars(r)["userId"]
	var in MeasurementInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		log.Errorf("record measurement, unmarshal json params: %s", err)
		http.Error(w, "record measurement failed", http.StatusBadRequest)
		return
	}
	if in.GoalID == "" {
		http.Error(w, "error, goal id empty", http.StatusBadRequest)
		return
	}

	res, err := handler.tracker.RecordMeasurement(ctx, userID, in)
	if err != nil {
		writeError(w, "record measurement", err)
		return
	}

	status := http.StatusCreated
	if res.Replaced() {
		status = http.StatusOK
	}
	pkg.WriteJSON(w, RecordMeasurementResponse{
		Measurement:   res.Measurement,
		Replaced:      res.Replaced(),
		ReplacedValue: res.ReplacedValue,
	}, status)
}

func (handler *Handler) HandleGoalMeasurements(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.measurements.list")
	defer span.End()

	vars := mux.Vars(r)
	userID := vars["userId"]
	goalID := vars["goalId"]
	if userID == "" || goalID == "" {
		http.Error(w, "error, user id or goal id empty", http.StatusBadRequest)
		return
	}

	goalMeasurements, err := handler.tracker.GoalMeasurements(ctx, goalID, userID)
	if err != nil {
		writeError(w, "list measurements", err)
		return
	}
	pkg.WriteJSON(w, MeasurementsResponse{
		GoalID:       goalID,
		Measurements: goalMeasurements,
	}, http.StatusOK)
}

func (handler *Handler) HandleNotifications(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.notifications")
	defer span.End()

	userID := mux.Vars(r)["userId"]
	if userID == "" {
		http.Error(w, "error, user id empty", http.StatusBadRequest)
		return
	}

	notifications, err := handler.notifications.List(ctx, userID)
	if err != nil {
		writeError(w, "list notifications", err)
		return
	}
	pkg.WriteJSON(w, NotificationsResponse{Notifications: notifications}, http.StatusOK)
}

func writeError(w http.ResponseWriter, action string, err error) {
	switch {
	case errors.Is(err, goals.ErrGoalNotFound):
		http.Error(w, "goal not found", http.StatusNotFound)
	case errors.Is(err, ErrGoalAccessDenied):
		http.Error(w, "goal not accessible", http.StatusForbidden)
	case errors.Is(err, goals.ErrInvalidGoal),
		errors.Is(err, measurements.ErrInvalidMeasurement),
		errors.Is(err, ErrUserIDEmpty):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Errorf("%s: %s", action, err)
		http.Error(w, action+" failed", http.StatusInternalServerError)
	}
}
