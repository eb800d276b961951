package domain

import "math"

// Parámetros del digestor anaerobio. El sustrato se modela como purín
// con fracción fija de sólidos volátiles y cinética de primer orden.
const (
	volatileSolidsFrac = 0.60  // kg VS / kg sustrato
	maxVSConversion    = 0.75  // fracción de VS destruible en digestión completa
	adRateConstant     = 0.15  // 1/día, cinética de primer orden
	biogasYieldPerVS   = 0.8   // m³ biogás / kg VS destruido
	methaneFraction    = 0.65  // fracción de CH4 en el biogás
	methaneLHV         = 35.8  // MJ/m³ de CH4
	digesterTemp       = 308.15 // K, mesofílico
	feedTemp           = 288.15 // K, entrada del sustrato
	substrateCp        = 4.2    // kJ/(kg·K) del purín húmedo
	waterCp            = 4.186  // kJ/(kg·K) del agua de proceso
)

// DigesterResult es el balance del digestor anaerobio.
type DigesterResult struct {
	VolatileSolids float64 `json:"volatile_solids"` // kg VS/día alimentados
	Conversion     float64 `json:"conversion"`      // fracción de VS destruida
	BiogasFlow     float64 `json:"biogas_flow"`     // m³/día
	FuelPower      float64 `json:"fuel_power"`      // kW térmicos del biogás
	HeatDemand     float64 `json:"heat_demand"`     // kW para calentar el sustrato
}

// Digest resuelve el digestor para un caudal de sustrato (kg/día) y un
// tiempo de retención hidráulica (días). La conversión sigue una curva de
// saturación de primer orden: crece con la retención y tiende a
// maxVSConversion sin alcanzarlo nunca.
func Digest(feedstockRate, retentionDays float64) DigesterResult {
	vs := feedstockRate * volatileSolidsFrac
	conv := maxVSConversion * (1 - math.Exp(-adRateConstant*retentionDays))
	biogas := vs * conv * biogasYieldPerVS

	// Energía química del biogás: MJ/día → kW.
	fuelPower := biogas * methaneFraction * methaneLHV * 1000 / 86400

	// Calentar el sustrato de la temperatura de entrada a la mesofílica.
	heatDemand := feedstockRate * substrateCp * (digesterTemp - feedTemp) / 86400

	return DigesterResult{
		VolatileSolids: vs,
		Conversion:     conv,
		BiogasFlow:     biogas,
		FuelPower:      fuelPower,
		HeatDemand:     heatDemand,
	}
}
