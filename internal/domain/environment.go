package domain

// EnvironmentalParams parametriza el balance de emisiones.
type EnvironmentalParams struct {
	FugitiveFrac float64 // fracción de CH4 del biogás que se fuga
	CH4Density   float64 // kg/m³
	GWPMethane   float64 // kg CO2e / kg CH4
	GridFactor   float64 // kg CO2 / kWh de red desplazada
}

// DefaultEnvironmentalParams son los factores de emisión por defecto.
func DefaultEnvironmentalParams() EnvironmentalParams {
	return EnvironmentalParams{
		FugitiveFrac: 0.01,
		CH4Density:   0.717,
		GWPMethane:   25,
		GridFactor:   0.45,
	}
}

// EnvironmentalResult es el balance diario de emisiones y la intensidad de
// carbono de la electricidad generada. Valores negativos = el sistema retira
// más CO2 del que emite.
type EnvironmentalResult struct {
	FugitiveCO2     float64 `json:"fugitive_co2"`     // kg CO2e/día por fugas de CH4
	AvoidedGrid     float64 `json:"avoided_grid"`     // kg CO2/día desplazados de la red
	Sequestration   float64 `json:"sequestration"`    // kg CO2/día fijados en hydrochar
	NetEmissions    float64 `json:"net_emissions"`    // kg CO2e/día
	CarbonIntensity float64 `json:"carbon_intensity"` // g CO2e/kWh
}

// Assess calcula el balance de emisiones de un resultado de operación.
// annualGeneration en kWh/año; la intensidad usa la generación anual real.
func Assess(perf *PerformanceResult, annualGeneration float64, p EnvironmentalParams) EnvironmentalResult {
	fugitive := perf.Digester.BiogasFlow * methaneFraction * p.FugitiveFrac * p.CH4Density * p.GWPMethane

	// Generación diaria a plena carga, desplazando electricidad de la red.
	avoided := perf.NetPower * 24 * p.GridFactor

	seq := perf.HTC.Sequestration
	net := fugitive - seq - avoided

	intensity := 0.0
	if annualGeneration > 0 {
		// kg/día × 365 → kg/año; /(kWh/año) → kg/kWh; ×1000 → g/kWh.
		intensity = net * 365 / annualGeneration * 1000
	}

	return EnvironmentalResult{
		FugitiveCO2:     fugitive,
		AvoidedGrid:     avoided,
		Sequestration:   seq,
		NetEmissions:    net,
		CarbonIntensity: intensity,
	}
}
