package domain

import "math"

// Parámetros del reactor de carbonización hidrotermal (HTC).
const (
	htcDryFraction    = 0.9    // fracción seca de la biomasa de entrada
	htcRefTemp        = 453.0  // K, inicio del rango efectivo de reacción
	htcTempSpan       = 70.0   // K, ancho del rango efectivo
	htcMaxCharYield   = 0.7
	htcMinCharYield   = 0.4
	htcWaterRatio     = 8.0    // kg agua / kg biomasa seca en el reactor
	htcSolidsCp       = 1.5    // kJ/(kg·K)
	htcReactionHeat   = 1500.0 // kJ/kg de biomasa seca
	htcRecoveryEff    = 0.75   // fracción del calor de productos recuperable
	charCarbonFrac    = 0.75   // fracción de carbono del hydrochar
	charStableFrac    = 0.8    // fracción del carbono que queda secuestrada
	carbonToCO2       = 44.0 / 12.0
)

// HTCResult es el balance del reactor HTC.
type HTCResult struct {
	DryMass        float64 `json:"dry_mass"`        // kg/día de biomasa seca
	TempFactor     float64 `json:"temp_factor"`     // 0 (suave) a 1 (severo)
	HydrocharYield float64 `json:"hydrochar_yield"` // fracción de la masa seca
	Hydrochar      float64 `json:"hydrochar"`       // kg/día
	LiquidProduct  float64 `json:"liquid_product"`  // kg/día
	HeatDemand     float64 `json:"heat_demand"`     // kW
	HeatRecovered  float64 `json:"heat_recovered"`  // kW desde los productos
	Sequestration  float64 `json:"sequestration"`   // kg CO2/día fijados en el char
}

// Carbonize resuelve el reactor HTC para un caudal de biomasa (kg/día), la
// temperatura del reactor y la temperatura ambiente (K). A mayor severidad
// térmica el rendimiento a hydrochar cae y el producto líquido crece.
func Carbonize(biomassRate, reactorTemp, ambientTemp float64) HTCResult {
	dry := biomassRate * htcDryFraction

	tf := (reactorTemp - htcRefTemp) / htcTempSpan
	tf = math.Max(0, math.Min(1, tf))

	charYield := htcMaxCharYield - 0.3*tf
	charYield = math.Max(htcMinCharYield, math.Min(htcMaxCharYield, charYield))
	char := dry * charYield
	liquid := dry * (0.2 + 0.2*tf)

	deltaT := reactorTemp - ambientTemp

	// Calor sensible de sólidos + agua de proceso, más el calor de reacción.
	sensible := (dry*htcSolidsCp + htcWaterRatio*dry*waterCp) * deltaT / 86400
	reaction := dry * htcReactionHeat / 86400
	demand := sensible + reaction

	// Los productos salen calientes; parte de ese calor se recupera.
	recovered := (char + liquid) * waterCp * deltaT * htcRecoveryEff / 86400

	seq := char * charCarbonFrac * charStableFrac * carbonToCO2

	return HTCResult{
		DryMass:        dry,
		TempFactor:     tf,
		HydrocharYield: charYield,
		Hydrochar:      char,
		LiquidProduct:  liquid,
		HeatDemand:     demand,
		HeatRecovered:  recovered,
		Sequestration:  seq,
	}
}
