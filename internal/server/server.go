// Package server expone el motor de cálculo como una API JSON.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/grupo7/adhtc/internal/adapters/storage"
	"github.com/grupo7/adhtc/internal/domain"
	"github.com/grupo7/adhtc/internal/optimizer"
	"github.com/grupo7/adhtc/internal/ports"
	"github.com/grupo7/adhtc/internal/scenario"
)

// Config agrupa las dependencias y ajustes del servidor.
type Config struct {
	Addr          string
	RatePerSecond float64
	RateBurst     int
	Timeout       time.Duration

	Economics   domain.EconomicParams
	Environment domain.EnvironmentalParams
	Optimizer   *optimizer.Optimizer
	Storage     ports.Storage // opcional; nil desactiva la persistencia
}

// Server sirve los endpoints de cálculo con rate limiting global.
type Server struct {
	cfg     Config
	limiter *rate.Limiter
	mux     *http.ServeMux
}

// New construye el servidor y registra las rutas.
func New(cfg Config) *Server {
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = 20
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = 40
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	s := &Server{
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.RateBurst),
		mux:     http.NewServeMux(),
	}

	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("GET /scenarios", s.handleScenarios)
	s.mux.HandleFunc("GET /scenarios/{id}/calculate", s.handleScenarioCalculate)
	s.mux.HandleFunc("POST /calculate", s.handleCalculate)
	s.mux.HandleFunc("POST /optimize", s.handleOptimize)
	s.mux.HandleFunc("POST /compare", s.handleCompare)

	return s
}

// Handler devuelve el handler HTTP completo con rate limiting.
func (s *Server) Handler() http.Handler {
	return s.rateLimited(s.mux)
}

// Run levanta el servidor y lo apaga limpiamente cuando el contexto muere.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.Timeout,
		WriteTimeout: s.cfg.Timeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server.Run: shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server.Run: %w", err)
	}
}

// rateLimited rechaza con 429 cuando el bucket global está agotado.
func (s *Server) rateLimited(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleScenarios(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, scenario.List())
}

func (s *Server) handleScenarioCalculate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	sc, err := scenario.Get(id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.respondEvaluation(w, r, sc.Params, sc.ID)
}

// calculateRequest es el body de POST /calculate.
type calculateRequest struct {
	Params domain.ParameterVector `json:"params"`
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.Params.Validate(domain.DefaultBounds()); err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.respondEvaluation(w, r, req.Params, "")
}

// evaluationResponse es el payload común de los endpoints de cálculo.
type evaluationResponse struct {
	ID          string                     `json:"id"`
	Scenario    string                     `json:"scenario,omitempty"`
	Performance *domain.PerformanceResult  `json:"performance"`
	Economics   *domain.EconomicResult     `json:"economics"`
	Environment domain.EnvironmentalResult `json:"environment"`
}

func (s *Server) respondEvaluation(w http.ResponseWriter, r *http.Request, p domain.ParameterVector, scenarioID string) {
	perf, err := domain.Evaluate(p)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	eco, err := domain.Analyze(perf.NetPower, s.cfg.Economics)
	if err != nil && eco == nil {
		s.writeDomainError(w, err)
		return
	}

	env := domain.Assess(perf, eco.AnnualGeneration, s.cfg.Environment)

	resp := evaluationResponse{
		ID:          uuid.NewString(),
		Scenario:    scenarioID,
		Performance: perf,
		Economics:   eco,
		Environment: env,
	}

	if s.cfg.Storage != nil {
		rec := storage.RecordEvaluation(resp.ID, scenarioID, perf, eco, env)
		if err := s.cfg.Storage.SaveEvaluation(r.Context(), rec); err != nil {
			slog.Warn("failed to persist evaluation", "err", err, "id", resp.ID)
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	var req optimizer.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	res, err := s.cfg.Optimizer.Run(r.Context(), req)
	if err != nil {
		if errors.Is(err, optimizer.ErrNoFeasibleSolution) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.writeDomainError(w, err)
		return
	}

	if s.cfg.Storage != nil {
		rec := ports.RunRecord{
			ID:          res.RunID,
			CreatedAt:   time.Now().UTC(),
			Method:      res.Method,
			Seed:        res.Seed,
			Evaluations: res.Evaluations,
			Fitness:     res.Fitness,
			NetPower:    res.Performance.NetPower,
			Efficiency:  res.Performance.Efficiency,
			Elapsed:     res.Elapsed,
		}
		if err := s.cfg.Storage.SaveRun(r.Context(), rec); err != nil {
			slog.Warn("failed to persist run", "err", err, "run_id", res.RunID)
		}
	}

	writeJSON(w, http.StatusOK, res)
}

// compareRequest es el body de POST /compare.
type compareRequest struct {
	ScenarioIDs []string `json:"scenario_ids"`
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	rows, err := scenario.Compare(req.ScenarioIDs, s.cfg.Economics, s.cfg.Environment)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// writeDomainError mapea la taxonomía de errores a códigos HTTP:
// ValidationError → 400, DomainError → 422, resto → 500.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsValidationError(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case domain.IsDomainError(err):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.Error("internal error", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to encode response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
