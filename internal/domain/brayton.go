package domain

import "math"

// Propiedades del aire (compresión) y de los gases de escape (expansión).
// Valores estándar para análisis de ciclos de turbina de gas.
const (
	GammaAir     = 1.4
	CpAir        = 1.005 // kJ/(kg·K)
	GammaExhaust = 1.33
	CpExhaust    = 1.15 // kJ/(kg·K)
	AmbientPres  = 101.325
)

// CycleState son los estados y trabajos específicos del ciclo Brayton abierto.
// Trabajos y calor en kJ/kg de aire.
type CycleState struct {
	InletTemp       float64 `json:"inlet_temp"`        // T1, K
	CompOutIdeal    float64 `json:"comp_out_ideal"`    // T2s, K
	CompOutTemp     float64 `json:"comp_out_temp"`     // T2, K
	TurbineInTemp   float64 `json:"turbine_in_temp"`   // T3, K
	TurbOutIdeal    float64 `json:"turb_out_ideal"`    // T4s, K
	TurbOutTemp     float64 `json:"turb_out_temp"`     // T4, K
	CompressorWork  float64 `json:"compressor_work"`   // kJ/kg
	TurbineWork     float64 `json:"turbine_work"`      // kJ/kg
	HeatInput       float64 `json:"heat_input"`        // kJ/kg
	NetSpecificWork float64 `json:"net_specific_work"` // kJ/kg
	BackWorkRatio   float64 `json:"back_work_ratio"`
}

// ComputeCycle resuelve el ciclo Brayton con rendimientos isentrópicos.
// T1 y T3 en K, pr adimensional. Devuelve DomainError si el punto de
// operación es termodinámicamente imposible.
func ComputeCycle(ambientTemp, pressureRatio, turbineInTemp, compEff, turbEff float64) (CycleState, error) {
	var s CycleState

	if ambientTemp <= 0 {
		return s, &DomainError{Stage: "compressor", Reason: "inlet temperature must be positive"}
	}
	if pressureRatio <= 1 {
		return s, &DomainError{Stage: "compressor", Reason: "pressure ratio must exceed 1"}
	}
	if compEff <= 0 || compEff > 1 {
		return s, &DomainError{Stage: "compressor", Reason: "isentropic efficiency outside (0, 1]"}
	}
	if turbEff <= 0 || turbEff > 1 {
		return s, &DomainError{Stage: "turbine", Reason: "isentropic efficiency outside (0, 1]"}
	}
	if turbineInTemp <= ambientTemp {
		return s, &DomainError{Stage: "combustor", Reason: "turbine inlet temperature below ambient"}
	}

	// Compresión: isentrópica corregida por rendimiento.
	t2s := ambientTemp * math.Pow(pressureRatio, (GammaAir-1)/GammaAir)
	t2 := ambientTemp + (t2s-ambientTemp)/compEff

	if turbineInTemp <= t2 {
		return s, &DomainError{Stage: "combustor", Reason: "compressor discharge hotter than turbine inlet, no heat can be added"}
	}

	// Expansión: gases de escape con gamma propio.
	t4s := turbineInTemp / math.Pow(pressureRatio, (GammaExhaust-1)/GammaExhaust)
	t4 := turbineInTemp - turbEff*(turbineInTemp-t4s)

	if t4 < ambientTemp {
		return s, &DomainError{Stage: "turbine", Reason: "exhaust colder than ambient"}
	}

	wC := CpAir * (t2 - ambientTemp)
	wT := CpExhaust * (turbineInTemp - t4)
	qIn := CpExhaust * (turbineInTemp - t2)

	if wT <= wC {
		return s, &DomainError{Stage: "cycle", Reason: "compressor work exceeds turbine work, cycle cannot sustain itself"}
	}

	s = CycleState{
		InletTemp:       ambientTemp,
		CompOutIdeal:    t2s,
		CompOutTemp:     t2,
		TurbineInTemp:   turbineInTemp,
		TurbOutIdeal:    t4s,
		TurbOutTemp:     t4,
		CompressorWork:  wC,
		TurbineWork:     wT,
		HeatInput:       qIn,
		NetSpecificWork: wT - wC,
		BackWorkRatio:   wC / wT,
	}
	return s, nil
}

// ThermalEfficiency devuelve el rendimiento térmico del ciclo.
func (s CycleState) ThermalEfficiency() float64 {
	if s.HeatInput <= 0 {
		return 0
	}
	return s.NetSpecificWork / s.HeatInput
}
