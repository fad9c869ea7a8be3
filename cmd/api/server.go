package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	gorillahandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	gamesvc "github.com/playtrackhq/playtrack/src/app/games"
	sessionsvc "github.com/playtrackhq/playtrack/src/app/sessions"
	statssvc "github.com/playtrackhq/playtrack/src/app/stats"
	usersvc "github.com/playtrackhq/playtrack/src/app/users"
	"github.com/playtrackhq/playtrack/src/domain/shared"
)

type ServerConfig struct {
	Logger         *zap.Logger
	UserService    *usersvc.Service
	GameService    *gamesvc.Service
	SessionService *sessionsvc.Service
	StatsService   *statssvc.Service
	AllowedOrigins []string
}

// Server wires HTTP endpoints to application services with observability
// instrumentation.
type Server struct {
	cfg            ServerConfig
	router         *mux.Router
	validate       *validator.Validate
	registry       *prometheus.Registry
	httpMetrics    *prometheus.HistogramVec
	requestCounter *prometheus.CounterVec
}

func NewServer(cfg ServerConfig) *Server {
	srv := &Server{
		cfg:      cfg,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		registry: prometheus.NewRegistry(),
	}
	srv.initMetrics()
	srv.buildRouter()
	return srv
}

func (s *Server) Handler() http.Handler {
	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return gorillahandlers.CORS(
		gorillahandlers.AllowedOrigins(origins),
		gorillahandlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		gorillahandlers.AllowedHeaders([]string{"Content-Type", "X-Request-Id"}),
	)(s.router)
}

func (s *Server) initMetrics() {
	s.httpMetrics = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "playtrack",
		Subsystem: "http",
		Name:      "request_latency_seconds",
		Help:      "HTTP request latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method", "code"})
	s.requestCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "playtrack",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests by route",
	}, []string{"route", "method", "code"})
	s.registry.MustRegister(s.httpMetrics, s.requestCounter)
}

func (s *Server) buildRouter() {
	r := mux.NewRouter()
	r.Use(s.correlationMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.metricsMiddleware)

	apiRouter := r.PathPrefix("/v1").Subrouter()
	apiRouter.Handle("/users", otelhttp.NewHandler(http.HandlerFunc(s.handleRegisterUser), "RegisterUser")).Methods(http.MethodPost)
	apiRouter.Handle("/users", otelhttp.NewHandler(http.HandlerFunc(s.handleListUsers), "ListUsers")).Methods(http.MethodGet)
	apiRouter.Handle("/users/{id}", otelhttp.NewHandler(http.HandlerFunc(s.handleGetUser), "GetUser")).Methods(http.MethodGet)
	apiRouter.Handle("/users/{id}/sessions", otelhttp.NewHandler(http.HandlerFunc(s.handleListUserSessions), "ListUserSessions")).Methods(http.MethodGet)

	apiRouter.Handle("/games", otelhttp.NewHandler(http.HandlerFunc(s.handleAddGame), "AddGame")).Methods(http.MethodPost)
	apiRouter.Handle("/games", otelhttp.NewHandler(http.HandlerFunc(s.handleListGames), "ListGames")).Methods(http.MethodGet)
	apiRouter.Handle("/games/{id}", otelhttp.NewHandler(http.HandlerFunc(s.handleGetGame), "GetGame")).Methods(http.MethodGet)

	apiRouter.Handle("/sessions/start", otelhttp.NewHandler(http.HandlerFunc(s.handleStartSession), "StartSession")).Methods(http.MethodPost)
	apiRouter.Handle("/sessions/stop", otelhttp.NewHandler(http.HandlerFunc(s.handleStopSession), "StopSession")).Methods(http.MethodPost)

	apiRouter.Handle("/stats/users/{id}", otelhttp.NewHandler(http.HandlerFunc(s.handleUserTotals), "UserTotals")).Methods(http.MethodGet)
	apiRouter.Handle("/stats/users/{id}/winrate", otelhttp.NewHandler(http.HandlerFunc(s.handleWinRate), "WinRate")).Methods(http.MethodGet)
	apiRouter.Handle("/stats/games/{id}", otelhttp.NewHandler(http.HandlerFunc(s.handleGameTotals), "GameTotals")).Methods(http.MethodGet)
	apiRouter.Handle("/stats/rankings", otelhttp.NewHandler(http.HandlerFunc(s.handleRankings), "Rankings")).Methods(http.MethodGet)
	apiRouter.Handle("/stats/trending", otelhttp.NewHandler(http.HandlerFunc(s.handleTrending), "Trending")).Methods(http.MethodGet)

	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	s.router = r
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	s.writeJSON(w, statusFromError(err), errorResponse{Error: err.Error()})
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, shared.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, shared.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		s.cfg.Logger.Info("http_request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rw.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", correlationIDFromContext(r.Context())),
		)
	})
}

func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		route := mux.CurrentRoute(r)
		routeName := "unknown"
		if route != nil {
			if tmpl, err := route.GetPathTemplate(); err == nil {
				routeName = tmpl
			}
		}
		codeLabel := strconv.Itoa(rw.status)
		labels := prometheus.Labels{"route": routeName, "method": r.Method, "code": codeLabel}
		s.httpMetrics.With(labels).Observe(time.Since(start).Seconds())
		s.requestCounter.With(labels).Inc()
	})
}

// responseWriter captures HTTP status codes for logging/metrics.
type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}
