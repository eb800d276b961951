package domain

// Fracción del calor del escape de la turbina aprovechable para el HTC.
const exhaustRecoveryEff = 0.65

// PerformanceResult es el balance completo del sistema integrado:
// digestor → turbina de gas → recuperación de escape → HTC.
type PerformanceResult struct {
	Params   ParameterVector `json:"params"`
	Cycle    CycleState      `json:"cycle"`
	Digester DigesterResult  `json:"digester"`
	HTC      HTCResult       `json:"htc"`

	AirMassFlow      float64 `json:"air_mass_flow"`     // kg/s
	NetPower         float64 `json:"net_power"`         // kW eléctricos
	Efficiency       float64 `json:"efficiency"`        // térmica del ciclo, (0, 1]
	ExhaustRecovered float64 `json:"exhaust_recovered"` // kW de escape aprovechables
	SelfSufficiency  float64 `json:"self_sufficiency"`  // recuperado / demanda HTC
	BackWorkRatio    float64 `json:"back_work_ratio"`
}

// Evaluate resuelve el sistema completo para un vector de parámetros ya
// validado. El caudal de aire se dimensiona para que el combustor absorba
// exactamente la potencia química del biogás disponible.
//
// Devuelve DomainError si el ciclo no cierra en ese punto de operación; los
// optimizadores tratan esos puntos como infactibles.
func Evaluate(p ParameterVector) (*PerformanceResult, error) {
	cycle, err := ComputeCycle(p.AmbientTemp, p.PressureRatio, p.MaxTurbineTemp, p.CompressorEff, p.TurbineEff)
	if err != nil {
		return nil, err
	}

	dig := Digest(p.ADFeedstockRate, p.ADRetentionTime)
	htc := Carbonize(p.HTCBiomassRate, p.HTCTemperature, p.AmbientTemp)

	// kW disponibles / (kJ/kg aportados por kg de aire) = kg/s de aire.
	massFlow := dig.FuelPower / cycle.HeatInput
	netPower := massFlow * cycle.NetSpecificWork

	// Calor residual del escape, referido a la temperatura ambiente.
	exhaust := massFlow * CpExhaust * (cycle.TurbOutTemp - p.AmbientTemp) * exhaustRecoveryEff

	selfSufficiency := 0.0
	if htc.HeatDemand > 0 {
		selfSufficiency = exhaust / htc.HeatDemand
	}

	return &PerformanceResult{
		Params:           p,
		Cycle:            cycle,
		Digester:         dig,
		HTC:              htc,
		AirMassFlow:      massFlow,
		NetPower:         netPower,
		Efficiency:       cycle.ThermalEfficiency(),
		ExhaustRecovered: exhaust,
		SelfSufficiency:  selfSufficiency,
		BackWorkRatio:    cycle.BackWorkRatio,
	}, nil
}
