package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/ent0n29/aliya/internal/config"
	"github.com/ent0n29/aliya/internal/flow"
	"github.com/ent0n29/aliya/internal/interviews"
	"github.com/ent0n29/aliya/internal/memory"
	"github.com/ent0n29/aliya/internal/observability"
)

type Server struct {
	cfg        config.Config
	registry   *interviews.Manager
	controller *flow.Controller
	store      memory.Store
	metrics    *observability.Metrics
	perf       *observability.DecisionStageWindow
	upgrader   websocket.Upgrader
}

func New(
	cfg config.Config,
	registry *interviews.Manager,
	controller *flow.Controller,
	store memory.Store,
	metrics *observability.Metrics,
	perf *observability.DecisionStageWindow,
) *Server {
	return &Server{
		cfg:        cfg,
		registry:   registry,
		controller: controller,
		store:      store,
		metrics:    metrics,
		perf:       perf,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				// Only allow browser websocket connections from the same
				// origin unless explicitly opened up.
				if cfg.AllowAnyOrigin {
					return true
				}
				origin := strings.TrimSpace(r.Header.Get("Origin"))
				if origin == "" {
					// Non-browser clients often omit Origin. Allow them.
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				if u.Scheme != "http" && u.Scheme != "https" {
					return false
				}
				return strings.EqualFold(u.Host, r.Host)
			},
		},
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})
	r.Get("/v1/perf/latency", s.handlePerfLatency)

	r.Post("/v1/interviews", s.handleCreateInterview)
	r.Post("/v1/interviews/{id}/turns", s.handleProcessTurn)
	r.Post("/v1/interviews/{id}/questions", s.handleRegisterQuestion)
	r.Get("/v1/interviews/{id}/progress", s.handleProgress)
	r.Post("/v1/interviews/{id}/end", s.handleEndInterview)
	r.Get("/v1/interviews/ws", s.handleInterviewWS)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}

func (s *Server) handlePerfLatency(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.perf.Snapshot())
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var errEmptyBody = errors.New("empty body")

func decodeJSON(r *http.Request, out any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(out); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "eof") {
			return errEmptyBody
		}
		return err
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, msg string) {
	respondJSON(w, status, errorResponse{Error: msg, Code: code})
}
