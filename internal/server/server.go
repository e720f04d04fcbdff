// Package server exposes the analyzer over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/gorilla/mux"

	"github.com/sqltrace/sqltrace/internal/advisor"
	"github.com/sqltrace/sqltrace/internal/bench"
	"github.com/sqltrace/sqltrace/internal/config"
	"github.com/sqltrace/sqltrace/internal/engine"
	"github.com/sqltrace/sqltrace/internal/monitoring"
	"github.com/sqltrace/sqltrace/internal/plantree"
	"github.com/sqltrace/sqltrace/internal/validator"
)

// Server wires the engine, advisor, and benchmark suite behind a router.
type Server struct {
	eng     engine.Engine
	advisor *advisor.Advisor
	metrics *monitoring.Metrics
	logger  log.Logger
}

// New builds a server. A nil logger is replaced with a no-op one.
func New(eng engine.Engine, adv *advisor.Advisor, metrics *monitoring.Metrics, logger log.Logger) *Server {
	if adv == nil {
		adv = advisor.Default()
	}
	if metrics == nil {
		metrics = monitoring.New()
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Server{eng: eng, advisor: adv, metrics: metrics, logger: logger}
}

// Router builds the HTTP route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/explain", s.handleExplain).Methods(http.MethodPost)
	r.HandleFunc("/api/benchmark", s.handleBenchmark).Methods(http.MethodPost)
	r.HandleFunc("/api/benchmark/compare", s.handleCompare).Methods(http.MethodPost)
	r.HandleFunc("/api/engine/info", s.handleEngineInfo).Methods(http.MethodGet)
	r.HandleFunc("/api/samples", s.handleSamples).Methods(http.MethodGet)
	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	return r
}

// ListenAndServe blocks serving on addr until ctx is canceled, then shuts
// down draining in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		level.Info(s.logger).Log("msg", "http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "sqltrace",
	})
}

type explainRequest struct {
	Query string `json:"query"`
}

type explainResponse struct {
	Plan            *plantree.Tree    `json:"plan,omitempty"`
	AdvisorAnalysis *advisor.Analysis `json:"advisor_analysis,omitempty"`
	Error           string            `json:"error,omitempty"`
}

func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	var req explainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := validator.ValidateSelect(req.Query); err != nil {
		s.metrics.ExplainRequests.WithLabelValues("rejected").Inc()
		writeJSON(w, http.StatusUnprocessableEntity, explainResponse{Error: err.Error()})
		return
	}

	plan, err := s.eng.ExplainQuery(r.Context(), req.Query)
	if err != nil {
		s.metrics.ExplainRequests.WithLabelValues("error").Inc()
		level.Warn(s.logger).Log("msg", "explain failed", "err", err)
		writeJSON(w, statusForEngineError(err), explainResponse{Error: err.Error()})
		return
	}

	tree, err := plantree.Build(plan, plantree.DefaultPolicy())
	if err != nil {
		s.metrics.ExplainRequests.WithLabelValues("error").Inc()
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.metrics.ExplainRequests.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, explainResponse{
		Plan:            tree,
		AdvisorAnalysis: s.advisor.Analyze(plan),
	})
}

type benchmarkRequest struct {
	Query  string                  `json:"query"`
	Config *config.BenchmarkConfig `json:"config,omitempty"`
}

type benchmarkResponse struct {
	Result *bench.Result `json:"result,omitempty"`
	Error  string        `json:"error,omitempty"`
}

func (s *Server) handleBenchmark(w http.ResponseWriter, r *http.Request) {
	var req benchmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := s.runBenchmark(r.Context(), req.Query, req.Config)
	if err != nil {
		s.metrics.BenchmarkRuns.WithLabelValues("failed").Inc()
		writeJSON(w, statusForEngineError(err), benchmarkResponse{Error: err.Error()})
		return
	}

	s.observeBenchmark(result)
	writeJSON(w, http.StatusOK, benchmarkResponse{Result: result})
}

type compareRequest struct {
	QueryA string                  `json:"query_a"`
	QueryB string                  `json:"query_b"`
	LabelA string                  `json:"label_a"`
	LabelB string                  `json:"label_b"`
	Config *config.BenchmarkConfig `json:"config,omitempty"`
}

type compareResponse struct {
	Comparison *bench.Comparison `json:"comparison,omitempty"`
	Error      string            `json:"error,omitempty"`
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.LabelA == "" {
		req.LabelA = "Query A"
	}
	if req.LabelB == "" {
		req.LabelB = "Query B"
	}

	resultA, err := s.runBenchmark(r.Context(), req.QueryA, req.Config)
	if err != nil {
		writeJSON(w, statusForEngineError(err), compareResponse{Error: "benchmark failed: " + err.Error()})
		return
	}
	resultB, err := s.runBenchmark(r.Context(), req.QueryB, req.Config)
	if err != nil {
		writeJSON(w, statusForEngineError(err), compareResponse{Error: "benchmark failed: " + err.Error()})
		return
	}

	s.observeBenchmark(resultA)
	s.observeBenchmark(resultB)
	comparison := bench.Compare(resultA, resultB, req.LabelA, req.LabelB)
	writeJSON(w, http.StatusOK, compareResponse{Comparison: &comparison})
}

func (s *Server) runBenchmark(ctx context.Context, query string, override *config.BenchmarkConfig) (*bench.Result, error) {
	if err := validator.ValidateSelect(query); err != nil {
		return nil, err
	}
	cfg := config.Active().Benchmark
	if override != nil {
		cfg = *override
	}
	suite, err := bench.NewSuite(s.eng, s.advisor, cfg, s.logger)
	if err != nil {
		return nil, err
	}
	return suite.BenchmarkQuery(ctx, query)
}

func (s *Server) observeBenchmark(result *bench.Result) {
	for _, run := range result.Runs {
		s.metrics.BenchmarkRuns.WithLabelValues("ok").Inc()
		s.metrics.BenchmarkDuration.Observe(run.ExecutionTime.Seconds())
	}
	for i := 0; i < result.Statistics.FailedRuns; i++ {
		s.metrics.BenchmarkRuns.WithLabelValues("failed").Inc()
	}
}

func (s *Server) handleEngineInfo(w http.ResponseWriter, r *http.Request) {
	info, err := s.eng.VersionInfo(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleSamples(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"engine":  s.eng.EngineType(),
		"samples": s.eng.SampleQueries(),
	})
}

func statusForEngineError(err error) int {
	var verr *validator.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, engine.ErrNotImplemented):
		return http.StatusNotImplemented
	case errors.Is(err, bench.ErrAllRunsFailed):
		return http.StatusBadGateway
	default:
		var cerr *engine.ConnectionError
		if errors.As(err, &cerr) {
			return http.StatusBadGateway
		}
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
