package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/Freeeeeet/trip_planner/internal/model"
	"github.com/Freeeeeet/trip_planner/internal/service"
	"github.com/Freeeeeet/trip_planner/internal/validation"
)

// Handlers HTTP обработчики поездок, активностей и вхождений
type Handlers struct {
	trips     *service.TripService
	series    *service.SeriesService
	validator *validation.Validator
	logger    *zap.Logger
}

func NewHandlers(
	trips *service.TripService,
	series *service.SeriesService,
	validator *validation.Validator,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		trips:     trips,
		series:    series,
		validator: validator,
		logger:    logger,
	}
}

// CreateTrip POST /trips
func (h *Handlers) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var req createTripRequest
	if !h.decode(w, r, &req) {
		return
	}

	trip, err := h.trips.CreateTrip(r.Context(), req.Title, req.From.Time, req.To.Time)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, newTripResponse(trip, nil))
}

// GetTrip GET /trips/{id}
func (h *Handlers) GetTrip(w http.ResponseWriter, r *http.Request) {
	tripID, ok := h.pathID(w, r)
	if !ok {
		return
	}

	trip, err := h.trips.GetTrip(r.Context(), tripID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	activities, err := h.trips.Activities(r.Context(), tripID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, newTripResponse(trip, activities))
}

// CreateActivity POST /trips/{id}/activities
func (h *Handlers) CreateActivity(w http.ResponseWriter, r *http.Request) {
	tripID, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req createActivityRequest
	if !h.decode(w, r, &req) {
		return
	}

	var rule *model.RecurrenceRule
	if req.Recurrence != nil {
		var err error
		rule, err = h.validator.Rule(req.Recurrence.input())
		if err != nil {
			h.writeError(w, r, err)
			return
		}
	}

	activity := &model.Activity{
		TripID:          tripID,
		Title:           req.Title,
		Description:     req.Description,
		Location:        req.Location,
		DurationMinutes: req.DurationMinutes,
	}

	occurrences, err := h.series.CreateSeries(r.Context(), activity, rule, req.Start.Time)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, activityResponse{
		Activity:    activity,
		Occurrences: newOccurrenceResponses(occurrences),
	})
}

// Calendar GET /trips/{id}/calendar.ics
func (h *Handlers) Calendar(w http.ResponseWriter, r *http.Request) {
	tripID, ok := h.pathID(w, r)
	if !ok {
		return
	}

	data, err := h.trips.Calendar(r.Context(), tripID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", tripID.String()+".ics"))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Warn("Failed to write calendar", zap.Error(err))
	}
}

// ListOccurrences GET /activities/{id}/occurrences
func (h *Handlers) ListOccurrences(w http.ResponseWriter, r *http.Request) {
	activityID, ok := h.pathID(w, r)
	if !ok {
		return
	}

	occurrences, err := h.series.ListOccurrences(r.Context(), activityID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, occurrencesResponse{Occurrences: newOccurrenceResponses(occurrences)})
}

// EditOccurrences PATCH /occurrences/{id}?edit_type=
func (h *Handlers) EditOccurrences(w http.ResponseWriter, r *http.Request) {
	occurrenceID, ok := h.pathID(w, r)
	if !ok {
		return
	}

	editType, err := model.ParseEditType(r.URL.Query().Get("edit_type"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req editOccurrencesRequest
	if !h.decode(w, r, &req) {
		return
	}

	occurrences, err := h.series.EditSeries(r.Context(), occurrenceID, editType, req.changes())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, occurrencesResponse{Occurrences: newOccurrenceResponses(occurrences)})
}

// DeleteOccurrences DELETE /occurrences/{id}?edit_type=
func (h *Handlers) DeleteOccurrences(w http.ResponseWriter, r *http.Request) {
	occurrenceID, ok := h.pathID(w, r)
	if !ok {
		return
	}

	editType, err := model.ParseEditType(r.URL.Query().Get("edit_type"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.series.DeleteSeries(r.Context(), occurrenceID, editType)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

// Health GET /health
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

// decode читает JSON тело и проверяет его по тегам validate
func (h *Handlers) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid JSON: %v", err)})
		return false
	}

	if err := h.validator.Struct(dst); err != nil {
		h.writeError(w, r, err)
		return false
	}
	return true
}

// writeError переводит ошибку сервиса в HTTP статус
func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *validation.Error
	switch {
	case errors.As(err, &validationErr):
		h.writeJSON(w, http.StatusBadRequest, validationErr)
	case errors.Is(err, model.ErrInvalidRule),
		errors.Is(err, model.ErrInvalidEditType),
		errors.Is(err, model.ErrInvalidTrip),
		errors.Is(err, model.ErrInvalidChanges):
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, model.ErrNotFound):
		h.writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, model.ErrOutsideTripWindow):
		h.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	case errors.Is(err, model.ErrChainIntegrity):
		h.logger.Error("Activity chain is broken", zap.String("path", r.URL.Path), zap.Error(err))
		h.writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	default:
		h.logger.Error("Request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Warn("Failed to write response", zap.Error(err))
	}
}
