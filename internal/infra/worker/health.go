package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"daily-brief/internal/usecase/health"
)

// StatusProvider exposes the current source-health snapshot. The collection
// orchestrator implements it.
type StatusProvider interface {
	CollectionStatus(ctx context.Context) (*health.Summary, error)
}

// HealthServer provides the worker's HTTP endpoints:
//   - /health: liveness probe (always 200)
//   - /health/ready: readiness probe (200 when ready, 503 otherwise)
//   - /status: source-health snapshot as JSON
//
// The server supports graceful shutdown via context cancellation.
type HealthServer struct {
	addr    string
	logger  *slog.Logger
	status  StatusProvider
	isReady *atomic.Bool
	server  *http.Server
}

type healthResponse struct {
	Status string `json:"status"`
}

// statusResponse is the JSON shape of the /status endpoint.
type statusResponse struct {
	Total       int                    `json:"total"`
	Healthy     int                    `json:"healthy"`
	Unhealthy   int                    `json:"unhealthy"`
	InRecovery  int                    `json:"in_recovery"`
	Collectable int                    `json:"collectable"`
	Sources     []sourceStatusResponse `json:"sources"`
}

type sourceStatusResponse struct {
	SourceID            string     `json:"source_id"`
	SourceType          string     `json:"source_type"`
	Healthy             bool       `json:"healthy"`
	InRecovery          bool       `json:"in_recovery"`
	CanCollect          bool       `json:"can_collect"`
	ConsecutiveFailures int        `json:"consecutive_failures"`
	LastError           *string    `json:"last_error,omitempty"`
	LastErrorAt         *time.Time `json:"last_error_at,omitempty"`
	RecoveryUntil       *time.Time `json:"recovery_until,omitempty"`
}

// NewHealthServer creates the worker HTTP server. The server is not started
// until Start is called.
func NewHealthServer(addr string, status StatusProvider, logger *slog.Logger) *HealthServer {
	isReady := &atomic.Bool{}
	isReady.Store(false)

	return &HealthServer{
		addr:    addr,
		logger:  logger,
		status:  status,
		isReady: isReady,
	}
}

// Start runs the server until the context is cancelled. It returns
// http.ErrServerClosed on graceful shutdown.
func (h *HealthServer) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.handleLiveness)
	mux.HandleFunc("/health/ready", h.handleReadiness)
	mux.HandleFunc("/status", h.handleStatus)

	h.server = &http.Server{
		Addr:         h.addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		h.logger.Info("health server starting", slog.String("addr", h.addr))
		if err := h.server.ListenAndServe(); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		h.logger.Info("health server shutting down")
		if err := h.server.Shutdown(shutdownCtx); err != nil {
			h.logger.Error("health server shutdown failed", slog.Any("error", err))
			return err
		}
		h.logger.Info("health server stopped")
		return http.ErrServerClosed

	case err := <-errChan:
		if err == http.ErrServerClosed {
			return err
		}
		h.logger.Error("health server failed", slog.Any("error", err))
		return err
	}
}

// SetReady flips the readiness state reported by /health/ready.
func (h *HealthServer) SetReady(ready bool) {
	h.isReady.Store(ready)
	h.logger.Info("health server readiness changed", slog.Bool("ready", ready))
}

func (h *HealthServer) handleLiveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(healthResponse{Status: "ok"}); err != nil {
		h.logger.Error("failed to encode liveness response", slog.Any("error", err))
	}
}

func (h *HealthServer) handleReadiness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if h.isReady.Load() {
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(healthResponse{Status: "ok"}); err != nil {
			h.logger.Error("failed to encode readiness response", slog.Any("error", err))
		}
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
		if err := json.NewEncoder(w).Encode(healthResponse{Status: "not ready"}); err != nil {
			h.logger.Error("failed to encode not ready response", slog.Any("error", err))
		}
	}
}

// handleStatus serves the source-health snapshot. Failures to read the
// snapshot surface as 503 so dashboards can tell "no data" from "all well".
func (h *HealthServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if h.status == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(healthResponse{Status: "status provider not configured"})
		return
	}

	summary, err := h.status.CollectionStatus(r.Context())
	if err != nil {
		h.logger.Error("failed to read collection status", slog.Any("error", err))
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(healthResponse{Status: "status unavailable"})
		return
	}

	resp := statusResponse{
		Total:       summary.Total,
		Healthy:     summary.Healthy,
		Unhealthy:   summary.Unhealthy,
		InRecovery:  summary.InRecovery,
		Collectable: summary.Collectable,
		Sources:     make([]sourceStatusResponse, 0, len(summary.Sources)),
	}
	for _, s := range summary.Sources {
		resp.Sources = append(resp.Sources, sourceStatusResponse{
			SourceID:            s.SourceID,
			SourceType:          string(s.SourceType),
			Healthy:             s.Healthy,
			InRecovery:          s.InRecovery,
			CanCollect:          s.CanCollect,
			ConsecutiveFailures: s.ConsecutiveFailures,
			LastError:           s.LastError,
			LastErrorAt:         s.LastErrorAt,
			RecoveryUntil:       s.RecoveryUntil,
		})
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("failed to encode status response", slog.Any("error", err))
	}
}
