package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/anabelic/gymtracker/internal/middleware"
	"github.com/anabelic/gymtracker/internal/telemetry/metrics"
	"github.com/anabelic/gymtracker/internal/telemetry/tracing"
	"github.com/anabelic/gymtracker/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const dateLayout = "2006-01-02"

type workoutsRepo interface {
	Add(ctx context.Context, workout Workout) (*Workout, error)
	Get(ctx context.Context, userID, id int) (*Workout, error)
	List(ctx context.Context, params ListParams) ([]Workout, int, error)
	Delete(ctx context.Context, userID, id int) error
}

type Handler struct {
	repo           workoutsRepo
	metricsManager *metrics.Manager
}

func NewHandler(repo workoutsRepo, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:           repo,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	workoutsSubrouter := mainRouter.PathPrefix("/workouts").Subrouter()
	workoutsSubrouter.HandleFunc("", handler.HandleAdd).Methods("POST", "OPTIONS").Name("add-workout")
	workoutsSubrouter.HandleFunc("", handler.HandleList).Methods("GET", "OPTIONS").Name("list-workouts")
	workoutsSubrouter.HandleFunc("/{id}", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-workout")
	workoutsSubrouter.HandleFunc("/{id}", handler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-workout")
}

type AddWorkoutRequest struct {
	Date      string `json:"date"`
	Exercise  string `json:"exercise"`
	Sets      int    `json:"sets"`
	Reps      int    `json:"reps"`
	Intensity string `json:"intensity"`
}

type ListWorkoutsResponse struct {
	Workouts []Workout `json:"workouts"`
	Total    int       `json:"total"`
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.add")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var addReq AddWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&addReq); err != nil {
		log.Tracef("add workout, unmarshal json params: %s", err)
		http.Error(w, "add workout failed", http.StatusBadRequest)
		return
	}

	if addReq.Exercise == "" {
		http.Error(w, "error, exercise empty", http.StatusBadRequest)
		return
	}
	if addReq.Sets <= 0 || addReq.Reps <= 0 {
		http.Error(w, "error, sets and reps must be positive", http.StatusBadRequest)
		return
	}

	date := time.Now()
	if addReq.Date != "" {
		parsedDate, err := time.ParseInLocation(dateLayout, addReq.Date, time.Local)
		if err != nil {
			http.Error(w, "error, invalid date, use YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		date = parsedDate
	}

	workout, err := handler.repo.Add(ctx, Workout{
		UserID:    userID,
		Date:      date,
		Exercise:  addReq.Exercise,
		Sets:      addReq.Sets,
		Reps:      addReq.Reps,
		Intensity: addReq.Intensity,
		CreatedAt: time.Now(),
	})
	if err != nil {
		if errors.Is(err, ErrUnknownUser) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to add workout for user %d: %s", userID, err)
		http.Error(w, "error, failed to add workout", http.StatusInternalServerError)
		return
	}

	handler.metricsManager.CounterWorkoutsLogged.Inc()

	workoutJson, err := json.Marshal(workout)
	if err != nil {
		log.Errorf("failed to marshal added workout: %s", err)
		http.Error(w, "error, failed to add workout", http.StatusInternalServerError)
		return
	}

	log.Tracef("user %d logged workout: %s", userID, workout.Exercise)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, workoutJson, http.StatusCreated)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.list")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	page, size := 1, 25
	var err error
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if page, err = strconv.Atoi(pageStr); err != nil || page < 1 {
			http.Error(w, "invalid page", http.StatusBadRequest)
			return
		}
	}
	if sizeStr := r.URL.Query().Get("size"); sizeStr != "" {
		if size, err = strconv.Atoi(sizeStr); err != nil || size < 1 {
			http.Error(w, "invalid size", http.StatusBadRequest)
			return
		}
	}

	workouts, total, err := handler.repo.List(ctx, ListParams{
		UserID: userID,
		Page:   page,
		Size:   size,
	})
	if err != nil {
		log.Errorf("failed to list workouts for user %d: %s", userID, err)
		http.Error(w, "error, failed to list workouts", http.StatusInternalServerError)
		return
	}

	if workouts == nil {
		workouts = []Workout{}
	}

	respJson, err := json.Marshal(ListWorkoutsResponse{
		Workouts: workouts,
		Total:    total,
	})
	if err != nil {
		log.Errorf("failed to marshal workouts: %s", err)
		http.Error(w, "error, failed to list workouts", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.get")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "invalid workout id", http.StatusBadRequest)
		return
	}

	workout, err := handler.repo.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, ErrWorkoutNotFound) {
			http.Error(w, "workout not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get workout %d for user %d: %s", id, userID, err)
		http.Error(w, "error, failed to get workout", http.StatusInternalServerError)
		return
	}

	workoutJson, err := json.Marshal(workout)
	if err != nil {
		log.Errorf("failed to marshal workout: %s", err)
		http.Error(w, "error, failed to get workout", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, workoutJson, http.StatusOK)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.delete")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "invalid workout id", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, ErrWorkoutNotFound) {
			http.Error(w, "workout not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete workout %d for user %d: %s", id, userID, err)
		http.Error(w, "error, failed to delete workout", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, fmt.Sprintf(`{"deletedId":%d}`, id))
}
