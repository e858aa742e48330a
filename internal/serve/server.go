// Package serve exposes the run log over HTTP: health, run history and
// Prometheus metrics for whatever watches the nightly update.
package serve

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/voyago/updaterun/internal/config"
	"github.com/voyago/updaterun/internal/logging"
	"github.com/voyago/updaterun/internal/metrics"
	"github.com/voyago/updaterun/internal/runlog"
)

// Server serves run history and metrics derived from the run log.
type Server struct {
	cfg    *config.Config
	logger *logging.Logger
}

// New creates a server for the given configuration.
func New(cfg *config.Config, logger *logging.Logger) *Server {
	return &Server{cfg: cfg, logger: logger}
}

type runsResponse struct {
	Runs  []runlog.Run `json:"runs"`
	Count int          `json:"count"`
}

// Router builds the HTTP surface.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/runs", s.handleRuns).Methods(http.MethodGet)
	r.HandleFunc("/runs/last", s.handleLastRun).Methods(http.MethodGet)

	reg := metrics.NewRegistry(s.cfg.LogPath())
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	return r
}

// ListenAndServe blocks until ctx is cancelled or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      s.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", s.cfg.ListenAddr).Info("serving run history and metrics")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := runlog.ParseFile(s.cfg.LogPath())
	if err != nil {
		s.logger.Error("failed to parse run log: " + err.Error())
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, runsResponse{Runs: runs, Count: len(runs)})
}

func (s *Server) handleLastRun(w http.ResponseWriter, r *http.Request) {
	runs, err := runlog.ParseFile(s.cfg.LogPath())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if len(runs) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no runs recorded"})
		return
	}
	writeJSON(w, http.StatusOK, runs[len(runs)-1])
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
