package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grupo7/adhtc/internal/domain"
)

func TestList_SortedAndComplete(t *testing.T) {
	list := List()
	require.Len(t, list, 6)

	ids := make([]string, len(list))
	for i, s := range list {
		ids[i] = s.ID
	}
	assert.Equal(t, []string{"base_case", "environmental", "full_cogas", "high_eff", "minimal", "optimized"}, ids)
}

func TestGet_Unknown(t *testing.T) {
	_, err := Get("does_not_exist")
	require.Error(t, err)
	assert.True(t, domain.IsValidationError(err))
}

func TestCatalog_AllWithinBounds(t *testing.T) {
	b := domain.DefaultBounds()
	for _, s := range List() {
		assert.NoError(t, s.Params.Validate(b), "scenario %s", s.ID)
	}
}

func TestCatalog_AllEvaluate(t *testing.T) {
	// Cada escenario del catálogo debe resolver sin error de dominio y con
	// la potencia neta esperada de referencia.
	expected := map[string]struct{ net, eff float64 }{
		"base_case":     {71.1993, 0.257602},
		"optimized":     {89.3626, 0.329355},
		"full_cogas":    {103.2810, 0.396903},
		"minimal":       {35.9116, 0.189651},
		"high_eff":      {159.6026, 0.438239},
		"environmental": {70.1634, 0.292710},
	}

	for _, s := range List() {
		perf, err := domain.Evaluate(s.Params)
		require.NoError(t, err, "scenario %s", s.ID)

		want := expected[s.ID]
		assert.InDelta(t, want.net, perf.NetPower, want.net*0.005, "net power of %s", s.ID)
		assert.InDelta(t, want.eff, perf.Efficiency, 0.001, "efficiency of %s", s.ID)
	}
}

func TestCompare_BaseVsOptimized(t *testing.T) {
	rows, err := Compare(
		[]string{"base_case", "optimized"},
		domain.DefaultEconomicParams(),
		domain.DefaultEnvironmentalParams(),
	)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "base_case", rows[0].ScenarioID)
	assert.Equal(t, "optimized", rows[1].ScenarioID)
	assert.Greater(t, rows[1].NetPower, rows[0].NetPower)
	assert.Greater(t, rows[1].Efficiency, rows[0].Efficiency)
	assert.Greater(t, rows[1].NPV, rows[0].NPV)
	// CAPEX y opex escalan linealmente con la potencia: el LCOE es invariante.
	assert.InDelta(t, rows[0].LCOE, rows[1].LCOE, 1e-9)
}

func TestCompare_RejectsSingleScenario(t *testing.T) {
	_, err := Compare([]string{"base_case"}, domain.DefaultEconomicParams(), domain.DefaultEnvironmentalParams())
	assert.True(t, domain.IsValidationError(err))
}

func TestCompare_UnknownIDFails(t *testing.T) {
	_, err := Compare([]string{"base_case", "nope"}, domain.DefaultEconomicParams(), domain.DefaultEnvironmentalParams())
	assert.True(t, domain.IsValidationError(err))
}
