package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grupo7/adhtc/internal/domain"
	"github.com/grupo7/adhtc/internal/optimizer"
	"github.com/grupo7/adhtc/internal/scenario"
)

func newTestServer() *Server {
	econ := domain.DefaultEconomicParams()
	env := domain.DefaultEnvironmentalParams()
	return New(Config{
		Addr:        ":0",
		Economics:   econ,
		Environment: env,
		Optimizer:   optimizer.New(econ, env, optimizer.DefaultScales(), 4),
	})
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	rec := doJSON(t, newTestServer().Handler(), http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestListScenarios(t *testing.T) {
	rec := doJSON(t, newTestServer().Handler(), http.MethodGet, "/scenarios", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got []scenario.Scenario
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got, 6)
	assert.Equal(t, "base_case", got[0].ID)
}

func TestScenarioCalculate(t *testing.T) {
	rec := doJSON(t, newTestServer().Handler(), http.MethodGet, "/scenarios/base_case/calculate", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got evaluationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "base_case", got.Scenario)
	assert.InDelta(t, 71.1993, got.Performance.NetPower, 1e-3)
	assert.InDelta(t, 337742.17, got.Economics.NPV, 1.0)
	assert.True(t, got.Economics.IRRConverged)
	assert.Less(t, got.Environment.NetEmissions, 0.0)
}

func TestScenarioCalculateUnknown(t *testing.T) {
	rec := doJSON(t, newTestServer().Handler(), http.MethodGet, "/scenarios/nope/calculate", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown scenario")
}

func TestCalculate(t *testing.T) {
	sc, err := scenario.Get("base_case")
	require.NoError(t, err)

	rec := doJSON(t, newTestServer().Handler(), http.MethodPost, "/calculate", calculateRequest{Params: sc.Params})
	require.Equal(t, http.StatusOK, rec.Code)

	var got evaluationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Empty(t, got.Scenario)
	assert.InDelta(t, 0.257602, got.Performance.Efficiency, 1e-5)
}

func TestCalculateInvalidBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/calculate", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	newTestServer().Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCalculateOutOfBounds(t *testing.T) {
	sc, err := scenario.Get("base_case")
	require.NoError(t, err)
	sc.Params.PressureRatio = 50 // fuera de [3, 25]

	rec := doJSON(t, newTestServer().Handler(), http.MethodPost, "/calculate", calculateRequest{Params: sc.Params})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCalculateInfeasibleCycle(t *testing.T) {
	sc, err := scenario.Get("base_case")
	require.NoError(t, err)
	// Dentro de límites, pero la descarga del compresor supera la entrada
	// a turbina y el ciclo no cierra.
	sc.Params.AmbientTemp = 323.15
	sc.Params.PressureRatio = 25
	sc.Params.MaxTurbineTemp = 800

	rec := doJSON(t, newTestServer().Handler(), http.MethodPost, "/calculate", calculateRequest{Params: sc.Params})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCompare(t *testing.T) {
	body := compareRequest{ScenarioIDs: []string{"base_case", "optimized"}}
	rec := doJSON(t, newTestServer().Handler(), http.MethodPost, "/compare", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []scenario.ComparisonRow
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Greater(t, rows[1].NetPower, rows[0].NetPower)
}

func TestCompareTooFew(t *testing.T) {
	body := compareRequest{ScenarioIDs: []string{"base_case"}}
	rec := doJSON(t, newTestServer().Handler(), http.MethodPost, "/compare", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOptimize(t *testing.T) {
	req := optimizer.Request{
		Method:     "genetic",
		Objectives: []optimizer.Objective{{Metric: optimizer.MetricEfficiency, Weight: 1, Maximize: true}},
		Seed:       7,
		Genetic:    optimizer.GeneticConfig{Population: 20, Generations: 10, Patience: 5},
	}

	rec := doJSON(t, newTestServer().Handler(), http.MethodPost, "/optimize", req)
	require.Equal(t, http.StatusOK, rec.Code)

	var res optimizer.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, "genetic", res.Method)
	assert.Greater(t, res.Performance.Efficiency, 0.25)
}

func TestOptimizeInvalidMethod(t *testing.T) {
	req := optimizer.Request{
		Method:     "annealing",
		Objectives: []optimizer.Objective{{Metric: optimizer.MetricEfficiency, Weight: 1, Maximize: true}},
	}
	rec := doJSON(t, newTestServer().Handler(), http.MethodPost, "/optimize", req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRateLimit(t *testing.T) {
	econ := domain.DefaultEconomicParams()
	env := domain.DefaultEnvironmentalParams()
	s := New(Config{
		Addr:          ":0",
		RatePerSecond: 0.001,
		RateBurst:     1,
		Economics:     econ,
		Environment:   env,
		Optimizer:     optimizer.New(econ, env, optimizer.DefaultScales(), 2),
	})
	h := s.Handler()

	first := doJSON(t, h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, first.Code)

	second := doJSON(t, h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}
