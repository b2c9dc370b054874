// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/Anurag9000/Gram-Connect/internal/domain/quota"
	"github.com/Anurag9000/Gram-Connect/internal/domain/types"
	"github.com/Anurag9000/Gram-Connect/pkg/logger"
	"github.com/Anurag9000/Gram-Connect/pkg/metrics"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Recommend(ctx context.Context, req types.RecommendRequest) (*types.RecommendResponse, error)
	CommitAssignment(ctx context.Context, req types.AssignmentRequest) (*types.AssignmentAck, error)
	Train(ctx context.Context, req types.TrainRequest) (*types.TrainResponse, error)
	ModelInfo(ctx context.Context) (*types.ModelInfo, error)
	Workload(ctx context.Context, w quota.Week, limit int) (*types.Workload, error)
	GetStats() map[string]interface{}
}

const (
	defaultWorkloadLimit = 10
	maxWorkloadLimit     = 1000
)

// Server wires HTTP routes for the engine API.
type Server struct {
	deps    Dependencies
	limiter *rate.Limiter
}

// Option configures a Server.
type Option func(*Server)

// WithRateLimit bounds /recommend to rps requests per second with the given burst.
// A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		if rps <= 0 {
			s.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// NewServer creates a new API server.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{deps: deps}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(r chi.Router) {
	r.Use(RequestID, Metrics)

	r.Get("/healthz", s.handleHealth)
	r.Get("/stats", s.handleStats)
	r.Get("/model", s.handleModel)
	r.Get("/workload", s.handleWorkload)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		if s.limiter != nil {
			r.Use(RateLimit(s.limiter))
		}
		r.Post("/recommend", s.handleRecommend)
	})
	r.Post("/assignments", s.handleAssignment)
	r.Post("/train", s.handleTrain)
}

// Handler returns a router serving every route.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	s.Register(r)
	return r
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	req, err := decodeJSON[types.RecommendRequest](r, false)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp, err := s.deps.Recommend(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleAssignment(w http.ResponseWriter, r *http.Request) {
	req, err := decodeJSON[types.AssignmentRequest](r, false)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ack, err := s.deps.CommitAssignment(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	status := http.StatusAccepted
	if ack.Duplicate {
		status = http.StatusOK
	}
	writeJSON(w, r, status, ack)
}

func (s *Server) handleTrain(w http.ResponseWriter, r *http.Request) {
	req, err := decodeJSON[types.TrainRequest](r, true)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp, err := s.deps.Train(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleModel(w http.ResponseWriter, r *http.Request) {
	info, err := s.deps.ModelInfo(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, info)
}

// handleWorkload handles GET /workload?week=2024-W10&limit=10.
func (s *Server) handleWorkload(w http.ResponseWriter, r *http.Request) {
	var week quota.Week
	if v := r.URL.Query().Get("week"); v != "" {
		parsed, err := quota.ParseWeek(v)
		if err != nil {
			writeError(w, r, err)
			return
		}
		week = parsed
	}
	limit := defaultWorkloadLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxWorkloadLimit {
			writeError(w, r, &fieldError{field: "limit", msg: "limit must be between 1 and 1000"})
			return
		}
		limit = n
	}
	out, err := s.deps.Workload(r.Context(), week, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.deps.GetStats())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status, code := "ok", http.StatusOK
	if _, err := s.deps.ModelInfo(r.Context()); err != nil {
		status, code = "degraded", http.StatusServiceUnavailable
	}
	writeJSON(w, r, code, map[string]string{"status": status})
}

// writeJSON encodes v before writing the header, so an unencodable value is
// reported as a 500 instead of an empty success.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		logger.Named("api").Error(r.Context(), "response encoding failed",
			logger.Int("status", status),
			logger.Error(err),
		)
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{Code: "internal", Message: http.StatusText(status)})
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		logger.Named("api").Warn(r.Context(), "response write failed", logger.Error(err))
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	resp := errorResponse{Code: code, Message: err.Error()}
	var fe *fieldError
	if errors.As(err, &fe) {
		resp.Field = fe.field
	}
	if status >= http.StatusInternalServerError {
		logger.Named("api").Error(r.Context(), "request failed",
			logger.String("path", r.URL.Path),
			logger.Error(err),
		)
		if status == http.StatusInternalServerError {
			resp.Message = http.StatusText(status)
		}
	}
	writeJSON(w, r, status, resp)
}
