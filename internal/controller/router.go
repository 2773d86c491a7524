// Package controller HTTP интерфейс планировщика поездок.
package controller

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// NewRouter регистрирует все маршруты
func NewRouter(h *Handlers, logger *zap.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Use(loggingMiddleware(logger))

	router.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	router.HandleFunc("/trips", h.CreateTrip).Methods(http.MethodPost)
	router.HandleFunc("/trips/{id}", h.GetTrip).Methods(http.MethodGet)
	router.HandleFunc("/trips/{id}/activities", h.CreateActivity).Methods(http.MethodPost)
	router.HandleFunc("/trips/{id}/calendar.ics", h.Calendar).Methods(http.MethodGet)

	router.HandleFunc("/activities/{id}/occurrences", h.ListOccurrences).Methods(http.MethodGet)

	router.HandleFunc("/occurrences/{id}", h.EditOccurrences).Methods(http.MethodPatch)
	router.HandleFunc("/occurrences/{id}", h.DeleteOccurrences).Methods(http.MethodDelete)

	return router
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func loggingMiddleware(logger *zap.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			logger.Debug("HTTP request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
