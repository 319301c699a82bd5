package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/oriser/regroup"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/MEERAN2314/socialtab/service"
)

type contextKey string

const usernameKey contextKey = "username"

// TokenCookieName is the session cookie set at login and cleared at
// logout.
const TokenCookieName = "token"

var bearerRe = regroup.MustCompile(`^Bearer\s+(?P<token>\S+)$`)

type parsedBearer struct {
	Token string `regroup:"token,required"`
}

var httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "socialtab_http_requests_total",
	Help: "HTTP requests served, by route, method and status code.",
}, []string{"route", "method", "code"})

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if template, err := current.GetPathTemplate(); err == nil {
				route = template
			}
		}
		httpRequests.WithLabelValues(route, r.Method, http.StatusText(rec.status)).Inc()
	})
}

// requireAuth resolves the acting user from the session cookie or a
// bearer Authorization header and stores it on the request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ""
		if cookie, err := r.Cookie(TokenCookieName); err == nil {
			token = cookie.Value
		}
		if token == "" {
			if header := r.Header.Get("Authorization"); header != "" {
				parsed := &parsedBearer{}
				if err := bearerRe.MatchToTarget(header, parsed); err != nil {
					s.writeError(w, fmt.Errorf("%w: malformed Authorization header", service.ErrUnauthorized))
					return
				}
				token = parsed.Token
			}
		}
		if token == "" {
			s.writeError(w, service.ErrUnauthorized)
			return
		}

		username, err := s.auth.VerifyToken(token)
		if err != nil {
			s.writeError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), usernameKey, username)))
	})
}

func currentUsername(r *http.Request) string {
	username, _ := r.Context().Value(usernameKey).(string)
	return username
}
