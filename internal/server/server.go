package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/kamalkashyapp/fanout/docs/swagger" // generated OpenAPI spec
	"github.com/kamalkashyapp/fanout/internal/app"
	"github.com/kamalkashyapp/fanout/internal/dispatch"
	"github.com/kamalkashyapp/fanout/internal/logging"
	"github.com/kamalkashyapp/fanout/internal/placeholder"
	"github.com/kamalkashyapp/fanout/internal/webclient"
)

// Server is the HTTP + WebSocket API surface for fanout.
type Server struct {
	cfg          Config
	orchestrator *app.Orchestrator
	router       chi.Router
	upgrader     websocket.Upgrader
	logger       logging.Logger
}

// NewServer creates a new Server with its own Orchestrator.
func NewServer(cfg Config) (*Server, error) {
	if cfg.AppConfig == nil {
		cfg.AppConfig = app.DefaultConfig()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewStdoutLogger("Server")
	}

	webclient.RegisterDefaultBackends()
	wc, err := webclient.New(cfg.AppConfig.WebClientCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("creating webclient: %w", err)
	}

	orch, err := app.NewOrchestrator(cfg.AppConfig, wc, logger)
	if err != nil {
		return nil, fmt.Errorf("creating orchestrator: %w", err)
	}

	r := chi.NewRouter()
	s := &Server{
		cfg:          cfg,
		orchestrator: orch,
		router:       r,
		logger:       logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// TODO: tighten for production
				return true
			},
		},
	}

	s.routes()
	return s, nil
}

// Orchestrator returns the underlying orchestrator for advanced use (tests, etc.).
func (s *Server) Orchestrator() *app.Orchestrator {
	return s.orchestrator
}

func (s *Server) routes() {
	r := s.router

	r.Use(s.corsMiddleware)

	// CORS preflight
	r.Options("/dispatch", s.optionsHandler("POST"))
	r.Options("/batches", s.optionsHandler("GET, POST"))
	r.Options("/batches/{batchID}", s.optionsHandler("GET, DELETE"))
	r.Options("/ws/dispatch", s.optionsHandler("GET"))

	r.Get("/", s.handleHealth)

	// Synchronous dispatch
	r.Post("/dispatch", s.handleDispatch)

	// Batch jobs over REST
	r.Post("/batches", s.handleStartBatch)
	r.Get("/batches", s.handleListBatches)
	r.Get("/batches/{batchID}", s.handleGetBatch)
	r.Delete("/batches/{batchID}", s.handleCancelBatch)

	// WebSocket for streamed batch progress
	r.Get("/ws/dispatch", s.handleDispatchWS)

	// Interactive API docs
	r.Get("/swagger/*", httpSwagger.Handler())
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		next.ServeHTTP(w, r)
	})
}

func (s *Server) optionsHandler(methods string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Methods", methods)
		w.WriteHeader(http.StatusNoContent)
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fields := []logging.Field{
		{Key: "method", Value: r.Method},
		{Key: "path", Value: r.URL.Path},
	}

	if q := r.URL.Query(); len(q) > 0 {
		fields = append(fields, logging.Field{Key: "query", Value: q})
	}

	if r.Body != nil && r.Method == http.MethodPost {
		if bodyBytes, err := io.ReadAll(r.Body); err == nil {
			fields = append(fields, logging.Field{Key: "body", Value: string(bodyBytes)})
			r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}
	}

	s.logger.Info("http_request", fields...)

	s.router.ServeHTTP(w, r)
}

// Close shuts down the orchestrator and underlying resources.
func (s *Server) Close() {
	if s.orchestrator != nil {
		s.orchestrator.Close()
	}
}

// HTTPServer creates an *http.Server ready to ListenAndServe.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // allow streaming
	}
}

// --- JSON helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// resolveTargets turns a DispatchRequest into the concrete descriptor batch,
// applying mode rules and placeholder substitution. Returns an HTTP status and
// message on rejection.
func (s *Server) resolveTargets(req *DispatchRequest) ([]dispatch.Descriptor, int, string) {
	switch req.Mode {
	case "", "mock":
		return s.orchestrator.MockTargets(req.Subject), 0, ""
	case "custom":
		if len(req.Targets) == 0 {
			return nil, http.StatusBadRequest, "custom mode requires a non-empty target list"
		}
		if !s.cfg.AppConfig.AllowCustomTargets {
			return nil, http.StatusForbidden, "custom targets are disabled"
		}
		targets := req.Targets
		if req.Subject != "" {
			targets = placeholder.Apply(targets, req.Subject, placeholder.DefaultToken)
		}
		return targets, 0, ""
	default:
		return nil, http.StatusBadRequest, "unknown mode: " + req.Mode
	}
}

// --- HTTP handlers ---

// handleHealth godoc
// @Summary Health check
// @Produce json
// @Success 200 {object} HealthResponse
// @Router / [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: true, Message: "fanout dispatch API"})
}

// handleDispatch godoc
// @Summary Dispatch a batch synchronously
// @Description Sends every target concurrently and blocks until all outcomes are in.
// @Accept json
// @Produce json
// @Param request body DispatchRequest true "batch to dispatch"
// @Success 200 {object} DispatchResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /dispatch [post]
func (s *Server) handleDispatch(w http.ResponseWriter, r *http.Request) {
	var req DispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	targets, status, msg := s.resolveTargets(&req)
	if status != 0 {
		s.logger.Warn("rejecting dispatch", logging.Field{Key: "reason", Value: msg})
		writeError(w, status, msg)
		return
	}

	overall := time.Duration(req.Timeout * float64(time.Second))
	outcomes, err := s.orchestrator.DispatchSync(r.Context(), targets, overall)
	if err != nil {
		s.logger.Warn("dispatching batch", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.logger.Info("dispatched batch",
		logging.Field{Key: "requested", Value: len(targets)},
		logging.Field{Key: "mode", Value: req.Mode})
	writeJSON(w, http.StatusOK, DispatchResponse{Requested: len(targets), Results: outcomes})
}

// handleStartBatch godoc
// @Summary Start a background batch job
// @Accept json
// @Produce json
// @Param request body DispatchRequest true "batch to dispatch"
// @Success 202 {object} app.Job
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /batches [post]
func (s *Server) handleStartBatch(w http.ResponseWriter, r *http.Request) {
	var req DispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	targets, status, msg := s.resolveTargets(&req)
	if status != 0 {
		s.logger.Warn("rejecting batch", logging.Field{Key: "reason", Value: msg})
		writeError(w, status, msg)
		return
	}

	// The job outlives this request; the request context dies as soon as the
	// 202 is written.
	overall := time.Duration(req.Timeout * float64(time.Second))
	job, err := s.orchestrator.StartDispatchJob(context.Background(), req.Subject, targets, overall)
	if err != nil {
		s.logger.Warn("starting batch job", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.logger.Info("started batch job",
		logging.Field{Key: "job_id", Value: job.ID},
		logging.Field{Key: "requested", Value: job.Requested})
	writeJSON(w, http.StatusAccepted, job)
}

// handleListBatches godoc
// @Summary List batch jobs
// @Produce json
// @Success 200 {array} app.Job
// @Router /batches [get]
func (s *Server) handleListBatches(w http.ResponseWriter, r *http.Request) {
	jobs := s.orchestrator.ListJobs()
	s.logger.Info("listed batch jobs", logging.Field{Key: "count", Value: len(jobs)})
	writeJSON(w, http.StatusOK, jobs)
}

// handleGetBatch godoc
// @Summary Get one batch job
// @Produce json
// @Param batchID path string true "batch job ID"
// @Success 200 {object} app.Job
// @Failure 404 {object} ErrorResponse
// @Router /batches/{batchID} [get]
func (s *Server) handleGetBatch(w http.ResponseWriter, r *http.Request) {
	batchID := chi.URLParam(r, "batchID")
	job := s.orchestrator.GetJob(batchID)
	if job == nil {
		s.logger.Warn("getting batch job: not found", logging.Field{Key: "job_id", Value: batchID})
		writeError(w, http.StatusNotFound, "batch job not found")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// handleCancelBatch godoc
// @Summary Cancel a batch job
// @Description Pending descriptors are abandoned; completed ones keep their outcome.
// @Param batchID path string true "batch job ID"
// @Success 204
// @Router /batches/{batchID} [delete]
func (s *Server) handleCancelBatch(w http.ResponseWriter, r *http.Request) {
	batchID := chi.URLParam(r, "batchID")
	s.orchestrator.CancelJob(batchID)
	s.logger.Info("canceled batch job", logging.Field{Key: "job_id", Value: batchID})
	w.WriteHeader(http.StatusNoContent)
}

// WebSockets

// handleDispatchWS upgrades the connection, reads one DispatchRequest as the
// first message and streams job events until the batch finishes or the client
// disconnects.
func (s *Server) handleDispatchWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrading to websocket", logging.Field{Key: "error", Value: err.Error()})
		return
	}
	defer conn.Close()

	var req DispatchRequest
	if err := conn.ReadJSON(&req); err != nil {
		_ = conn.WriteJSON(ErrorResponse{Error: "invalid dispatch request: " + err.Error()})
		return
	}

	targets, status, msg := s.resolveTargets(&req)
	if status != 0 {
		s.logger.Warn("rejecting websocket dispatch", logging.Field{Key: "reason", Value: msg})
		_ = conn.WriteJSON(ErrorResponse{Error: msg})
		return
	}

	overall := time.Duration(req.Timeout * float64(time.Second))
	job, err := s.orchestrator.StartDispatchJob(r.Context(), req.Subject, targets, overall)
	if err != nil {
		_ = conn.WriteJSON(ErrorResponse{Error: err.Error()})
		s.logger.Warn("starting websocket batch job", logging.Field{Key: "error", Value: err.Error()})
		return
	}

	s.logger.Info("started websocket batch job", logging.Field{Key: "job_id", Value: job.ID})
	_ = conn.WriteJSON(job)

	for ev := range job.Events {
		if err := conn.WriteJSON(ev); err != nil {
			// Assume client disconnected; cancel job
			s.orchestrator.CancelJob(job.ID)
			return
		}
	}
}
