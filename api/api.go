package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	debtDomain "github.com/MEERAN2314/socialtab/debt"
	"github.com/MEERAN2314/socialtab/service"
	userDomain "github.com/MEERAN2314/socialtab/user"
)

type Config struct {
	Addr          string        `env:"HTTP_ADDR" envDefault:":8080"`
	EnableMetrics bool          `env:"ENABLE_METRICS" envDefault:"true"`
	SecureCookies bool          `env:"SECURE_COOKIES" envDefault:"false"`
	ShutdownGrace time.Duration `env:"SHUTDOWN_GRACE" envDefault:"10s"`
}

type AuthService interface {
	Signup(ctx context.Context, req service.SignupRequest) (*service.Session, error)
	Login(ctx context.Context, username, pin string) (*service.Session, error)
	VerifyToken(token string) (string, error)
	TokenExpiry() time.Duration
}

type DebtService interface {
	CreateDebt(ctx context.Context, creditorUsername string, req service.CreateDebtRequest) (*debtDomain.Debt, error)
	DebtAction(ctx context.Context, debtID, actor string, action debtDomain.Action) (*debtDomain.Debt, error)
	DeleteDebt(ctx context.Context, debtID, actor string) error
	GetDebt(ctx context.Context, debtID, actor string) (*debtDomain.Debt, error)
	ListForUser(ctx context.Context, username string) (*service.DebtList, error)
	ListHistory(ctx context.Context, username string) ([]*debtDomain.Debt, error)
}

type UserService interface {
	Profile(ctx context.Context, username string) (*userDomain.User, error)
	SearchUser(ctx context.Context, username string) (*service.SearchResult, error)
	Stats(ctx context.Context, username string) (*service.UserStats, error)
	Notifications(ctx context.Context, username string) (*service.NotificationList, error)
	MarkNotificationRead(ctx context.Context, id, username string) error
}

type Server struct {
	cfg    Config
	logger *zap.Logger
	auth   AuthService
	debts  DebtService
	users  UserService
}

func New(cfg Config, logger *zap.Logger, auth AuthService, debts DebtService, users UserService) *Server {
	return &Server{
		cfg:    cfg,
		logger: logger,
		auth:   auth,
		debts:  debts,
		users:  users,
	}
}

func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(s.requestLogging)
	r.Use(metricsMiddleware)

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	if s.cfg.EnableMetrics {
		r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	}

	auth := r.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/signup", s.handleSignup).Methods(http.MethodPost)
	auth.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	auth.HandleFunc("/logout", s.handleLogout).Methods(http.MethodPost)

	users := r.PathPrefix("/users").Subrouter()
	users.Use(s.requireAuth)
	users.HandleFunc("/me", s.handleProfile).Methods(http.MethodGet)
	users.HandleFunc("/search/{username}", s.handleSearchUser).Methods(http.MethodGet)
	users.HandleFunc("/notifications", s.handleNotifications).Methods(http.MethodGet)
	users.HandleFunc("/notifications/{id}/read", s.handleNotificationRead).Methods(http.MethodPost)
	users.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet)

	debts := r.PathPrefix("/debts").Subrouter()
	debts.Use(s.requireAuth)
	debts.HandleFunc("/create", s.handleCreateDebt).Methods(http.MethodPost)
	debts.HandleFunc("/my-debts", s.handleMyDebts).Methods(http.MethodGet)
	debts.HandleFunc("/history", s.handleHistory).Methods(http.MethodGet)
	debts.HandleFunc("/{id}", s.handleGetDebt).Methods(http.MethodGet)
	debts.HandleFunc("/{id}/action", s.handleDebtAction).Methods(http.MethodPost)
	debts.HandleFunc("/{id}", s.handleDeleteDebt).Methods(http.MethodDelete)

	return r
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response", zap.Error(err))
	}
}

// writeError maps the service failure taxonomy to HTTP status codes.
// Anything outside the taxonomy is an internal error and its details
// stay out of the response.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	detail := "internal error"

	switch {
	case errors.Is(err, service.ErrInvalidArgument), errors.Is(err, service.ErrInvalidState):
		status, detail = http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrUnauthorized):
		status, detail = http.StatusUnauthorized, err.Error()
	case errors.Is(err, service.ErrForbidden):
		status, detail = http.StatusForbidden, err.Error()
	case errors.Is(err, service.ErrNotFound):
		status, detail = http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrConflict):
		status, detail = http.StatusConflict, err.Error()
	default:
		s.logger.Error("request failed", zap.Error(err))
	}

	s.writeJSON(w, status, map[string]string{"detail": detail})
}
