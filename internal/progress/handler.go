package progress

import (
	"encoding/json"
	"net/http"

	"github.com/anabelic/gymtracker/internal/middleware"
	"github.com/anabelic/gymtracker/internal/telemetry/metrics"
	"github.com/anabelic/gymtracker/internal/telemetry/tracing"
	"github.com/anabelic/gymtracker/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service        *Service
	metricsManager *metrics.Manager
}

func NewHandler(service *Service, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		service:        service,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	trackRateLimitAllowedPerMin int,
) {
	progressSubrouter := mainRouter.PathPrefix("/progress").Subrouter()
	progressSubrouter.HandleFunc("/track", handler.HandleTrack).Methods("POST", "OPTIONS").Name("track-progress")
	progressSubrouter.HandleFunc("/feedback", handler.HandleFeedback).Methods("GET", "OPTIONS").Name("weekly-feedback")
	progressSubrouter.HandleFunc("/snapshot", handler.HandleSnapshot).Methods("GET", "OPTIONS").Name("weekly-snapshot")

	// each track call hits the feedback provider, keep a tight lid on it
	progressSubrouter.Use(middleware.RateLimit(
		rateLimiter, "progress", trackRateLimitAllowedPerMin, handler.metricsManager,
	))
}

func (handler *Handler) HandleTrack(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.track")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	feedback, err := handler.service.TrackProgress(ctx, userID)
	if err != nil {
		kind := KindOf(err)
		handler.metricsManager.CounterFeedbackFailed.WithLabelValues(kind.String()).Inc()
		switch kind {
		case KindNotFound:
			http.Error(w, "user not found", http.StatusNotFound)
		case KindNoData:
			http.Error(w, "no workouts logged for this week", http.StatusUnprocessableEntity)
		case KindProvider:
			log.Errorf("track progress for user %d, provider error: %s", userID, err)
			http.Error(w, "error, feedback generation failed", http.StatusBadGateway)
		default:
			log.Errorf("track progress for user %d: %s", userID, err)
			http.Error(w, "error, failed to track progress", http.StatusInternalServerError)
		}
		return
	}

	handler.metricsManager.CounterFeedbackGenerated.Inc()

	feedbackJson, err := json.Marshal(feedback)
	if err != nil {
		log.Errorf("failed to marshal feedback: %s", err)
		http.Error(w, "error, failed to track progress", http.StatusInternalServerError)
		return
	}

	log.Debugf("user %d weekly progress tracked [%s - %s]", userID, feedback.WeekStart, feedback.WeekEnd)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, feedbackJson, http.StatusOK)
}

func (handler *Handler) HandleFeedback(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.feedback")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	feedback, err := handler.service.WeeklyFeedback(ctx, userID)
	if err != nil {
		if KindOf(err) == KindNotFound {
			http.Error(w, "no feedback for this week", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get feedback for user %d: %s", userID, err)
		http.Error(w, "error, failed to get feedback", http.StatusInternalServerError)
		return
	}

	feedbackJson, err := json.Marshal(feedback)
	if err != nil {
		log.Errorf("failed to marshal feedback: %s", err)
		http.Error(w, "error, failed to get feedback", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, feedbackJson, http.StatusOK)
}

func (handler *Handler) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.snapshot")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	snapshot, err := handler.service.WeeklySnapshot(ctx, userID)
	if err != nil {
		if KindOf(err) == KindNotFound {
			http.Error(w, "no snapshot for this week", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get snapshot for user %d: %s", userID, err)
		http.Error(w, "error, failed to get snapshot", http.StatusInternalServerError)
		return
	}

	snapshotJson, err := json.Marshal(snapshot)
	if err != nil {
		log.Errorf("failed to marshal snapshot: %s", err)
		http.Error(w, "error, failed to get snapshot", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, snapshotJson, http.StatusOK)
}
