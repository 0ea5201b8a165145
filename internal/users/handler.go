package users

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/anabelic/gymtracker/internal/auth"
	"github.com/anabelic/gymtracker/internal/middleware"
	"github.com/anabelic/gymtracker/internal/telemetry/metrics"
	"github.com/anabelic/gymtracker/internal/telemetry/tracing"
	"github.com/anabelic/gymtracker/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service        *Service
	authService    *auth.Service
	metricsManager *metrics.Manager
}

func NewHandler(
	service *Service,
	authService *auth.Service,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		service:        service,
		authService:    authService,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	loginRateLimitAllowedPerMin int,
) {
	usersSubrouter := mainRouter.PathPrefix("/users").Subrouter()
	usersSubrouter.HandleFunc("/register", handler.HandleRegister).Methods("POST", "OPTIONS").Name("register")
	usersSubrouter.HandleFunc("/login", handler.HandleLogin).Methods("POST", "OPTIONS").Name("login")
	usersSubrouter.HandleFunc("/logout", handler.HandleLogout).Methods("GET", "OPTIONS").Name("logout")
	usersSubrouter.HandleFunc("/me", handler.HandleProfile).Methods("GET", "OPTIONS").Name("profile")
	usersSubrouter.HandleFunc("/me/goal", handler.HandleUpdateGoal).Methods("PUT", "OPTIONS").Name("update-goal")

	// rate limit registration and login to prevent abuse
	usersSubrouter.Use(middleware.RateLimit(
		rateLimiter, "users", loginRateLimitAllowedPerMin, handler.metricsManager,
	))
}

type RegisterRequest struct {
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	Password        string  `json:"password"`
	ConfirmPassword string  `json:"confirmPassword"`
	Age             int     `json:"age"`
	HeightFt        int     `json:"heightFt"`
	HeightIn        int     `json:"heightIn"`
	Weight          float64 `json:"weight"`
	Goal            string  `json:"goal"`
}

func (handler *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.register")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var registerReq RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&registerReq); err != nil {
		log.Tracef("register, unmarshal json params: %s", err)
		http.Error(w, "register failed", http.StatusBadRequest)
		return
	}

	if registerReq.Password != registerReq.ConfirmPassword {
		http.Error(w, "error, passwords do not match", http.StatusBadRequest)
		return
	}

	user, err := handler.service.Register(ctx, RegisterParams{
		Name:     registerReq.Name,
		Email:    registerReq.Email,
		Password: registerReq.Password,
		Age:      registerReq.Age,
		HeightFt: registerReq.HeightFt,
		HeightIn: registerReq.HeightIn,
		Weight:   registerReq.Weight,
		Goal:     registerReq.Goal,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailTaken):
			http.Error(w, "an account with this email already exists", http.StatusConflict)
		case errors.Is(err, ErrWeakPassword):
			http.Error(w, ErrWeakPassword.Error(), http.StatusBadRequest)
		default:
			log.Errorf("failed to register user [%s]: %s", registerReq.Email, err)
			http.Error(w, "error, failed to register", http.StatusInternalServerError)
		}
		return
	}

	handler.metricsManager.CounterUsersRegistered.Inc()

	userJson, err := json.Marshal(user)
	if err != nil {
		log.Errorf("failed to marshal registered user: %s", err)
		http.Error(w, "error, failed to register", http.StatusInternalServerError)
		return
	}

	log.Debugf("new user registered: %s", user.Email)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, userJson, http.StatusCreated)
}

func (handler *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.login")
	defer span.End()

	type loginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var loginReq loginRequest
	if r.Header.Get("Content-Type") == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
			log.Errorf("login, unmarshal json params: %s", err)
			http.Error(w, "login failed", http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			log.Errorf("login failed, parse form error: %s", err)
			http.Error(w, "parse form error", http.StatusInternalServerError)
			return
		}
		loginReq.Email = r.Form.Get("email")
		loginReq.Password = r.Form.Get("password")
	}

	if loginReq.Email == "" || loginReq.Password == "" {
		http.Error(w, "error, email or password empty", http.StatusBadRequest)
		return
	}

	user, err := handler.service.Authenticate(ctx, loginReq.Email, loginReq.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			log.Tracef("failed login attempt for: %s", loginReq.Email)
			http.Error(w, "error, wrong credentials", http.StatusUnauthorized)
			return
		}
		log.Errorf("login failed for [%s]: %s", loginReq.Email, err)
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}

	token, err := handler.authService.Login(ctx, user.ID, time.Now())
	if err != nil {
		log.Errorf("login failed, generate token error: %s", err)
		http.Error(w, "generate token error", http.StatusInternalServerError)
		return
	}

	log.Tracef("new login success: %s", user.Email)
	pkg.WriteJSONResponseOK(w, fmt.Sprintf(`{"token":"%s","userId":%d}`, token, user.ID))
}

func (handler *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.logout")
	defer span.End()

	authToken := r.Header.Get(middleware.AuthTokenHeader)
	if authToken == "" {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	loggedOut, err := handler.authService.Logout(r.Context(), authToken)
	if err != nil {
		log.Tracef("[failed logout] => %s: %s", r.URL.Path, err)
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}
	if !loggedOut {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	pkg.WriteTextResponseOK(w, "logged-out")
}

func (handler *Handler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.profile")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	user, err := handler.service.Profile(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get profile for user %d: %s", userID, err)
		http.Error(w, "failed to get profile", http.StatusInternalServerError)
		return
	}

	userJson, err := json.Marshal(user)
	if err != nil {
		log.Errorf("failed to marshal user: %s", err)
		http.Error(w, "failed to marshal user", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, userJson, http.StatusOK)
}

type UpdateGoalRequest struct {
	Goal string `json:"goal"`
}

func (handler *Handler) HandleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.updateGoal")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var updateReq UpdateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&updateReq); err != nil {
		log.Tracef("update goal, unmarshal json params: %s", err)
		http.Error(w, "update goal failed", http.StatusBadRequest)
		return
	}

	if updateReq.Goal == "" {
		http.Error(w, "error, goal empty", http.StatusBadRequest)
		return
	}

	if err := handler.service.UpdateGoal(ctx, userID, updateReq.Goal); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to update goal for user %d: %s", userID, err)
		http.Error(w, "error, failed to update goal", http.StatusInternalServerError)
		return
	}

	log.Debugf("user %d goal updated", userID)
	pkg.WriteJSONResponseOK(w, fmt.Sprintf(`{"updatedId":%d}`, userID))
}
