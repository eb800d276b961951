package domain

import "math"

// irrMaxIterations acota el Newton-Raphson de la TIR.
const irrMaxIterations = 200

// EconomicParams parametriza el análisis económico. Ver config/config.yaml
// para los valores por defecto.
type EconomicParams struct {
	CapexPerKW    float64
	Tariff        float64 // $/kWh
	OpexRate      float64 // $/kWh generado
	FixedOpexFrac float64 // fracción anual del CAPEX
	TaxRate       float64
	OperatingHrs  float64
	HorizonYears  int
	DiscountRate  float64
}

// DefaultEconomicParams son los supuestos de planta usados cuando no hay
// configuración explícita.
func DefaultEconomicParams() EconomicParams {
	return EconomicParams{
		CapexPerKW:    1000,
		Tariff:        0.12,
		OpexRate:      0.02,
		FixedOpexFrac: 0.02,
		TaxRate:       0.25,
		OperatingHrs:  8000,
		HorizonYears:  20,
		DiscountRate:  0.08,
	}
}

// EconomicResult es el análisis de inversión de la planta.
type EconomicResult struct {
	CAPEX            float64 `json:"capex"`             // $
	AnnualGeneration float64 `json:"annual_generation"` // kWh/año
	AnnualRevenue    float64 `json:"annual_revenue"`    // $/año
	AnnualOpex       float64 `json:"annual_opex"`       // $/año
	AnnualCashFlow   float64 `json:"annual_cash_flow"`  // $/año después de impuestos
	NPV              float64 `json:"npv"`               // $
	IRR              float64 `json:"irr"`               // fracción anual
	IRRConverged     bool    `json:"irr_converged"`
	PaybackYears     float64 `json:"payback_years"` // descontado; 0 si no recupera
	LCOE             float64 `json:"lcoe"`          // $/kWh
}

// Analyze calcula el análisis de inversión para una potencia neta dada (kW).
//
// Si el Newton de la TIR no converge, el resultado sigue siendo válido:
// IRRConverged queda en false y se devuelve el *ConvergenceError junto al
// resultado para que el llamante decida cómo presentarlo.
func Analyze(netPowerKW float64, p EconomicParams) (*EconomicResult, error) {
	if netPowerKW <= 0 {
		return nil, &DomainError{Stage: "economics", Reason: "net power must be positive"}
	}

	capex := netPowerKW * p.CapexPerKW
	gen := netPowerKW * p.OperatingHrs
	revenue := gen * p.Tariff
	opex := gen*p.OpexRate + capex*p.FixedOpexFrac

	taxable := revenue - opex
	tax := 0.0
	if taxable > 0 {
		tax = taxable * p.TaxRate
	}
	cash := revenue - opex - tax

	r := p.DiscountRate
	npv := -capex
	discOpex, discEnergy, cum := 0.0, 0.0, 0.0
	payback := 0.0
	for t := 1; t <= p.HorizonYears; t++ {
		df := math.Pow(1+r, float64(t))
		dCash := cash / df
		npv += dCash
		discOpex += opex / df
		discEnergy += gen / df

		prev := cum
		cum += dCash
		if payback == 0 && cum >= capex && dCash > 0 {
			payback = float64(t-1) + (capex-prev)/dCash
		}
	}

	lcoe := 0.0
	if discEnergy > 0 {
		lcoe = (capex + discOpex) / discEnergy
	}

	res := &EconomicResult{
		CAPEX:            capex,
		AnnualGeneration: gen,
		AnnualRevenue:    revenue,
		AnnualOpex:       opex,
		AnnualCashFlow:   cash,
		NPV:              npv,
		PaybackYears:     payback,
		LCOE:             lcoe,
	}

	irr, err := internalRateOfReturn(capex, cash, p.HorizonYears)
	if err != nil {
		return res, err
	}
	res.IRR = irr
	res.IRRConverged = true
	return res, nil
}

// internalRateOfReturn resuelve la tasa que anula el VAN de una anualidad
// constante por Newton-Raphson.
func internalRateOfReturn(capex, cash float64, years int) (float64, error) {
	if cash <= 0 {
		// Sin flujo positivo no existe TIR.
		return 0, &ConvergenceError{Method: "irr newton", Iterations: 0}
	}

	x := 0.1
	for i := 0; i < irrMaxIterations; i++ {
		f := -capex
		fp := 0.0
		for t := 1; t <= years; t++ {
			ft := float64(t)
			f += cash / math.Pow(1+x, ft)
			fp -= ft * cash / math.Pow(1+x, ft+1)
		}
		if fp == 0 {
			break
		}
		next := x - f/fp
		if next <= -1 {
			next = (x - 1) / 2 // mantener 1+x positivo
		}
		if math.Abs(next-x) < 1e-9 {
			return next, nil
		}
		x = next
	}
	return 0, &ConvergenceError{Method: "irr newton", Iterations: irrMaxIterations}
}
