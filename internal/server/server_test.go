package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sqltrace/sqltrace/internal/advisor"
	"github.com/sqltrace/sqltrace/internal/bench"
	"github.com/sqltrace/sqltrace/internal/engine"
	"github.com/sqltrace/sqltrace/internal/model"
	"github.com/sqltrace/sqltrace/internal/plantree"
	"github.com/sqltrace/sqltrace/test"
)

type fakeEngine struct {
	plan       *model.ExecutionPlan
	explainErr error
}

func (f *fakeEngine) EngineType() engine.EngineType { return engine.PostgreSQL }

func (f *fakeEngine) TestConnection(ctx context.Context) error { return nil }

func (f *fakeEngine) ExplainQuery(ctx context.Context, query string) (*model.ExecutionPlan, error) {
	if f.explainErr != nil {
		return nil, f.explainErr
	}
	return f.plan, nil
}

func (f *fakeEngine) ValidateQuery(ctx context.Context, query string) error { return nil }

func (f *fakeEngine) VersionInfo(ctx context.Context) (*engine.DatabaseInfo, error) {
	return &engine.DatabaseInfo{
		EngineType:       engine.PostgreSQL,
		Version:          "PostgreSQL 16.3",
		ConnectionStatus: "Connected",
	}, nil
}

func (f *fakeEngine) SampleQueries() []engine.SampleQuery {
	return engine.SamplesFor(engine.PostgreSQL)
}

func (f *fakeEngine) SupportsFeature(engine.Feature) bool { return true }

func (f *fakeEngine) Close() {}

func newTestServer(t *testing.T, eng engine.Engine) *httptest.Server {
	t.Helper()
	srv := New(eng, advisor.Default(), nil, nil)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t, &fakeEngine{})
	resp, err := http.Get(ts.URL + "/api/health")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[map[string]string](t, resp)
	require.Equal(t, "healthy", body["status"])
	require.Equal(t, "sqltrace", body["service"])
}

func TestExplainEndpoint(t *testing.T) {
	plan := test.LoadSamplePlan(t, "seq_scan.json")
	ts := newTestServer(t, &fakeEngine{plan: plan})

	resp := postJSON(t, ts.URL+"/api/explain", map[string]string{
		"query": "SELECT * FROM customers WHERE country = 'USA'",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[struct {
		Plan     *plantree.Tree    `json:"plan"`
		Analysis *advisor.Analysis `json:"advisor_analysis"`
		Error    string            `json:"error"`
	}](t, resp)

	require.Empty(t, body.Error)
	require.NotNil(t, body.Plan)
	require.Equal(t, 1, body.Plan.Len())
	require.NotNil(t, body.Analysis)
	require.Equal(t, 60, body.Analysis.PerformanceScore)
}

func TestExplainRejectsNonSelect(t *testing.T) {
	ts := newTestServer(t, &fakeEngine{})
	resp := postJSON(t, ts.URL+"/api/explain", map[string]string{
		"query": "DROP TABLE customers",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestExplainRejectsBadBody(t *testing.T) {
	ts := newTestServer(t, &fakeEngine{})
	resp, err := http.Post(ts.URL+"/api/explain", "application/json", bytes.NewReader([]byte("{nope")))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExplainNotImplementedEngine(t *testing.T) {
	ts := newTestServer(t, &fakeEngine{explainErr: engine.ErrNotImplemented})
	resp := postJSON(t, ts.URL+"/api/explain", map[string]string{"query": "SELECT 1"})
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotImplemented, resp.StatusCode)
}

func TestBenchmarkEndpoint(t *testing.T) {
	plan := test.LoadSamplePlan(t, "seq_scan.json")
	ts := newTestServer(t, &fakeEngine{plan: plan})

	resp := postJSON(t, ts.URL+"/api/benchmark", map[string]any{
		"query": "SELECT 1",
		"config": map[string]any{
			"warmup_runs":    0,
			"benchmark_runs": 3,
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[struct {
		Result *bench.Result `json:"result"`
		Error  string        `json:"error"`
	}](t, resp)
	require.Empty(t, body.Error)
	require.NotNil(t, body.Result)
	require.Equal(t, 3, body.Result.Statistics.SuccessfulRuns)
}

func TestCompareEndpoint(t *testing.T) {
	plan := test.LoadSamplePlan(t, "seq_scan.json")
	ts := newTestServer(t, &fakeEngine{plan: plan})

	resp := postJSON(t, ts.URL+"/api/benchmark/compare", map[string]any{
		"query_a": "SELECT 1",
		"query_b": "SELECT 2",
		"config": map[string]any{
			"warmup_runs":    0,
			"benchmark_runs": 3,
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[struct {
		Comparison *bench.Comparison `json:"comparison"`
		Error      string            `json:"error"`
	}](t, resp)
	require.Empty(t, body.Error)
	require.NotNil(t, body.Comparison)
	require.Equal(t, "Query A", body.Comparison.LabelA)
	require.Equal(t, "Query B", body.Comparison.LabelB)
}

func TestEngineInfoEndpoint(t *testing.T) {
	ts := newTestServer(t, &fakeEngine{})
	resp, err := http.Get(ts.URL + "/api/engine/info")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	info := decodeBody[engine.DatabaseInfo](t, resp)
	require.Equal(t, engine.PostgreSQL, info.EngineType)
	require.Equal(t, "PostgreSQL 16.3", info.Version)
}

func TestSamplesEndpoint(t *testing.T) {
	ts := newTestServer(t, &fakeEngine{})
	resp, err := http.Get(ts.URL + "/api/samples")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[struct {
		Engine  engine.EngineType    `json:"engine"`
		Samples []engine.SampleQuery `json:"samples"`
	}](t, resp)
	require.Equal(t, engine.PostgreSQL, body.Engine)
	require.NotEmpty(t, body.Samples)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, &fakeEngine{})
	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
