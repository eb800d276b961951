package domain

import "fmt"

// NumParams es la dimensión del espacio de decisión.
const NumParams = 9

// ParameterVector son las nueve variables de decisión del sistema integrado:
// ciclo Brayton alimentado por biogás, digestor anaerobio y reactor HTC.
// Temperaturas en Kelvin, caudales en kg/día.
type ParameterVector struct {
	AmbientTemp     float64 `json:"ambient_temp"`      // K
	PressureRatio   float64 `json:"pressure_ratio"`    // adimensional
	MaxTurbineTemp  float64 `json:"max_turbine_temp"`  // K, entrada a la turbina
	CompressorEff   float64 `json:"compressor_eff"`    // isentrópica, (0,1]
	TurbineEff      float64 `json:"turbine_eff"`       // isentrópica, (0,1]
	ADFeedstockRate float64 `json:"ad_feedstock_rate"` // kg/día de sustrato húmedo
	ADRetentionTime float64 `json:"ad_retention_time"` // días
	HTCBiomassRate  float64 `json:"htc_biomass_rate"`  // kg/día de biomasa húmeda
	HTCTemperature  float64 `json:"htc_temperature"`   // K del reactor
}

// Bounds define el rango [Min, Max] inclusivo de cada variable.
type Bounds struct {
	Min ParameterVector
	Max ParameterVector
}

// DefaultBounds devuelve los límites físicos de operación del sistema.
func DefaultBounds() Bounds {
	return Bounds{
		Min: ParameterVector{
			AmbientTemp:     273.15,
			PressureRatio:   3.0,
			MaxTurbineTemp:  800.0,
			CompressorEff:   0.75,
			TurbineEff:      0.80,
			ADFeedstockRate: 1000.0,
			ADRetentionTime: 5.0,
			HTCBiomassRate:  100.0,
			HTCTemperature:  423.15,
		},
		Max: ParameterVector{
			AmbientTemp:     323.15,
			PressureRatio:   25.0,
			MaxTurbineTemp:  1800.0,
			CompressorEff:   0.95,
			TurbineEff:      0.98,
			ADFeedstockRate: 10000.0,
			ADRetentionTime: 40.0,
			HTCBiomassRate:  2000.0,
			HTCTemperature:  573.15,
		},
	}
}

// paramNames en el mismo orden que Array().
var paramNames = [NumParams]string{
	"ambient_temp", "pressure_ratio", "max_turbine_temp",
	"compressor_eff", "turbine_eff",
	"ad_feedstock_rate", "ad_retention_time",
	"htc_biomass_rate", "htc_temperature",
}

// ParamNames devuelve los nombres de las variables en orden posicional.
func ParamNames() [NumParams]string { return paramNames }

// Array devuelve el vector en forma posicional, para los optimizadores.
func (p ParameterVector) Array() [NumParams]float64 {
	return [NumParams]float64{
		p.AmbientTemp, p.PressureRatio, p.MaxTurbineTemp,
		p.CompressorEff, p.TurbineEff,
		p.ADFeedstockRate, p.ADRetentionTime,
		p.HTCBiomassRate, p.HTCTemperature,
	}
}

// FromArray reconstruye un ParameterVector desde la forma posicional.
func FromArray(a [NumParams]float64) ParameterVector {
	return ParameterVector{
		AmbientTemp:     a[0],
		PressureRatio:   a[1],
		MaxTurbineTemp:  a[2],
		CompressorEff:   a[3],
		TurbineEff:      a[4],
		ADFeedstockRate: a[5],
		ADRetentionTime: a[6],
		HTCBiomassRate:  a[7],
		HTCTemperature:  a[8],
	}
}

// Validate comprueba que cada variable esté dentro de b. Devuelve un
// *ValidationError nombrando la primera variable fuera de rango.
func (p ParameterVector) Validate(b Bounds) error {
	vals, lo, hi := p.Array(), b.Min.Array(), b.Max.Array()
	for i := 0; i < NumParams; i++ {
		if vals[i] < lo[i] || vals[i] > hi[i] {
			return &ValidationError{
				Field:  paramNames[i],
				Reason: fmt.Sprintf("%.4g outside [%.4g, %.4g]", vals[i], lo[i], hi[i]),
			}
		}
	}
	return nil
}

// Clamp devuelve una copia con cada variable recortada al rango de b.
// Solo para mutaciones en el espacio de parámetros; los valores de las
// métricas nunca se recortan.
func (p ParameterVector) Clamp(b Bounds) ParameterVector {
	vals, lo, hi := p.Array(), b.Min.Array(), b.Max.Array()
	for i := 0; i < NumParams; i++ {
		if vals[i] < lo[i] {
			vals[i] = lo[i]
		}
		if vals[i] > hi[i] {
			vals[i] = hi[i]
		}
	}
	return FromArray(vals)
}

// Midpoint devuelve el centro geométrico del rango de b.
func (b Bounds) Midpoint() ParameterVector {
	lo, hi := b.Min.Array(), b.Max.Array()
	var mid [NumParams]float64
	for i := 0; i < NumParams; i++ {
		mid[i] = (lo[i] + hi[i]) / 2
	}
	return FromArray(mid)
}

// Span devuelve el ancho de cada rango en forma posicional.
func (b Bounds) Span() [NumParams]float64 {
	lo, hi := b.Min.Array(), b.Max.Array()
	var span [NumParams]float64
	for i := 0; i < NumParams; i++ {
		span[i] = hi[i] - lo[i]
	}
	return span
}

// Validate comprueba que los límites sean coherentes (Min ≤ Max en todo).
func (b Bounds) Validate() error {
	lo, hi := b.Min.Array(), b.Max.Array()
	for i := 0; i < NumParams; i++ {
		if lo[i] > hi[i] {
			return &ValidationError{
				Field:  paramNames[i],
				Reason: fmt.Sprintf("min %.4g greater than max %.4g", lo[i], hi[i]),
			}
		}
	}
	return nil
}
