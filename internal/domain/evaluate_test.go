package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// baseParams es el punto de operación de referencia de la planta piloto.
func baseParams() ParameterVector {
	return ParameterVector{
		AmbientTemp:     288.0,
		PressureRatio:   6.0,
		MaxTurbineTemp:  1000.0,
		CompressorEff:   0.85,
		TurbineEff:      0.90,
		ADFeedstockRate: 3000.0,
		ADRetentionTime: 20.0,
		HTCBiomassRate:  500.0,
		HTCTemperature:  473.0,
	}
}

func TestEvaluate_BaseCase(t *testing.T) {
	perf, err := Evaluate(baseParams())
	require.NoError(t, err)

	assert.InDelta(t, 0.495047, perf.AirMassFlow, 0.0001)
	assert.InDelta(t, 71.1993, perf.NetPower, 0.01)
	assert.InDelta(t, 0.257602, perf.Efficiency, 0.0001)
	assert.InDelta(t, 143.944, perf.ExhaustRecovered, 0.01)
	assert.InDelta(t, 3.46646, perf.SelfSufficiency, 0.001)
	assert.InDelta(t, 0.612819, perf.BackWorkRatio, 0.0001)
}

func TestEvaluate_SelfSufficiencyUncapped(t *testing.T) {
	// Con exceso de escape frente a la demanda HTC el ratio supera 1;
	// no se recorta.
	perf, err := Evaluate(baseParams())
	require.NoError(t, err)
	assert.Greater(t, perf.SelfSufficiency, 1.0)
}

func TestEvaluate_InfeasibleCyclePropagates(t *testing.T) {
	p := baseParams()
	p.AmbientTemp = 323.15
	p.PressureRatio = 25.0
	p.MaxTurbineTemp = 800.0
	_, err := Evaluate(p)
	assert.True(t, IsDomainError(err))
}

func TestEvaluate_EfficiencyInvariantAcrossGrid(t *testing.T) {
	// Todo punto que resuelve debe respetar 0 < η < 1 y potencia neta > 0.
	b := DefaultBounds()
	lo, hi := b.Min.Array(), b.Max.Array()
	for _, fr := range []float64{0.0, 0.25, 0.5, 0.75, 1.0} {
		var arr [NumParams]float64
		for i := 0; i < NumParams; i++ {
			arr[i] = lo[i] + fr*(hi[i]-lo[i])
		}
		perf, err := Evaluate(FromArray(arr))
		if err != nil {
			assert.True(t, IsDomainError(err), "fr=%v", fr)
			continue
		}
		assert.Greater(t, perf.Efficiency, 0.0, "fr=%v", fr)
		assert.Less(t, perf.Efficiency, 1.0, "fr=%v", fr)
		assert.Greater(t, perf.NetPower, 0.0, "fr=%v", fr)
	}
}

func TestEvaluate_MoreFeedstockMorePower(t *testing.T) {
	small := baseParams()
	big := baseParams()
	big.ADFeedstockRate = 6000.0

	p1, err := Evaluate(small)
	require.NoError(t, err)
	p2, err := Evaluate(big)
	require.NoError(t, err)

	assert.Greater(t, p2.NetPower, p1.NetPower)
	// El rendimiento del ciclo no depende del caudal de combustible.
	assert.InDelta(t, p1.Efficiency, p2.Efficiency, 1e-9)
}

func TestParameterVector_Validate(t *testing.T) {
	b := DefaultBounds()
	assert.NoError(t, baseParams().Validate(b))

	p := baseParams()
	p.PressureRatio = 30.0
	err := p.Validate(b)
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	p = baseParams()
	p.HTCTemperature = 400.0
	assert.True(t, IsValidationError(p.Validate(b)))
}

func TestParameterVector_ArrayRoundTrip(t *testing.T) {
	p := baseParams()
	assert.Equal(t, p, FromArray(p.Array()))
}

func TestParameterVector_Clamp(t *testing.T) {
	b := DefaultBounds()
	p := baseParams()
	p.TurbineEff = 1.5
	p.ADRetentionTime = -3.0
	c := p.Clamp(b)
	assert.Equal(t, b.Max.TurbineEff, c.TurbineEff)
	assert.Equal(t, b.Min.ADRetentionTime, c.ADRetentionTime)
	assert.NoError(t, c.Validate(b))
}
