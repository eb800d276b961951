package report

import (
	"fmt"
	"io"
	"os"

	"github.com/olekukonko/tablewriter"

	"github.com/grupo7/adhtc/internal/domain"
	"github.com/grupo7/adhtc/internal/optimizer"
	"github.com/grupo7/adhtc/internal/scenario"
)

// Console implementa ports.Reporter escribiendo tablas a un io.Writer.
type Console struct {
	out      io.Writer
	validate bool // imprime el cálculo paso a paso además del resumen
}

// NewConsole crea un reporter que escribe a stdout.
func NewConsole(validate bool) *Console {
	return &Console{out: os.Stdout, validate: validate}
}

// NewConsoleWriter crea un reporter para tests.
func NewConsoleWriter(w io.Writer, validate bool) *Console {
	return &Console{out: w, validate: validate}
}

// PrintScenarios imprime el catálogo de escenarios.
func (c *Console) PrintScenarios(scenarios []scenario.Scenario) {
	table := tablewriter.NewWriter(c.out)
	table.Header("ID", "Name", "PR", "TIT [K]", "AD feed [kg/d]", "HRT [d]", "HTC [kg/d]", "HTC T [K]")

	for _, s := range scenarios {
		p := s.Params
		table.Append(
			s.ID,
			s.Name,
			fmt.Sprintf("%.1f", p.PressureRatio),
			fmt.Sprintf("%.0f", p.MaxTurbineTemp),
			fmt.Sprintf("%.0f", p.ADFeedstockRate),
			fmt.Sprintf("%.0f", p.ADRetentionTime),
			fmt.Sprintf("%.0f", p.HTCBiomassRate),
			fmt.Sprintf("%.0f", p.HTCTemperature),
		)
	}
	table.Render()
}

// PrintEvaluation imprime el balance completo de un punto de operación.
func (c *Console) PrintEvaluation(perf *domain.PerformanceResult, eco *domain.EconomicResult, env domain.EnvironmentalResult) {
	fmt.Fprintf(c.out, "\n=== SYSTEM PERFORMANCE ===\n")

	table := tablewriter.NewWriter(c.out)
	table.Header("Metric", "Value", "Unit")
	table.Append("Net power", fmt.Sprintf("%.2f", perf.NetPower), "kW")
	table.Append("Thermal efficiency", fmt.Sprintf("%.2f", perf.Efficiency*100), "%")
	table.Append("Back work ratio", fmt.Sprintf("%.3f", perf.BackWorkRatio), "-")
	table.Append("Air mass flow", fmt.Sprintf("%.3f", perf.AirMassFlow), "kg/s")
	table.Append("Biogas production", fmt.Sprintf("%.1f", perf.Digester.BiogasFlow), "m3/day")
	table.Append("Hydrochar", fmt.Sprintf("%.1f", perf.HTC.Hydrochar), "kg/day")
	table.Append("Exhaust heat recovered", fmt.Sprintf("%.1f", perf.ExhaustRecovered), "kW")
	table.Append("HTC heat demand", fmt.Sprintf("%.1f", perf.HTC.HeatDemand), "kW")
	table.Append("Thermal self-sufficiency", fmt.Sprintf("%.2f", perf.SelfSufficiency), "-")
	table.Render()

	fmt.Fprintf(c.out, "\n=== ECONOMICS ===\n")
	irrLabel := "N/A"
	if eco.IRRConverged {
		irrLabel = fmt.Sprintf("%.1f %%", eco.IRR*100)
	}
	paybackLabel := "never"
	if eco.PaybackYears > 0 {
		paybackLabel = fmt.Sprintf("%.1f yr", eco.PaybackYears)
	}
	fmt.Fprintf(c.out, "  CAPEX: $%.0f | NPV: $%.0f | IRR: %s | payback: %s | LCOE: $%.4f/kWh\n",
		eco.CAPEX, eco.NPV, irrLabel, paybackLabel, eco.LCOE)

	fmt.Fprintf(c.out, "\n=== EMISSIONS ===\n")
	fmt.Fprintf(c.out, "  fugitive: %.1f kg CO2e/d | sequestered: %.1f kg CO2/d | grid avoided: %.1f kg CO2/d\n",
		env.FugitiveCO2, env.Sequestration, env.AvoidedGrid)
	fmt.Fprintf(c.out, "  net: %.1f kg CO2e/d | carbon intensity: %.1f g CO2e/kWh\n",
		env.NetEmissions, env.CarbonIntensity)

	if c.validate {
		c.printValidation(perf)
	}
	fmt.Fprintln(c.out)
}

// printValidation imprime el cálculo detallado etapa por etapa.
func (c *Console) printValidation(perf *domain.PerformanceResult) {
	s := perf.Cycle
	p := perf.Params

	fmt.Fprintln(c.out, "\n=== VALIDATION: step-by-step calculation ===")

	fmt.Fprintf(c.out, "\n  1. BRAYTON CYCLE:\n")
	fmt.Fprintf(c.out, "     T1=%.2f K  pr=%.2f  T3=%.2f K\n", s.InletTemp, p.PressureRatio, s.TurbineInTemp)
	fmt.Fprintf(c.out, "     T2s=%.2f K  T2=%.2f K  (eta_c=%.3f)\n", s.CompOutIdeal, s.CompOutTemp, p.CompressorEff)
	fmt.Fprintf(c.out, "     T4s=%.2f K  T4=%.2f K  (eta_t=%.3f)\n", s.TurbOutIdeal, s.TurbOutTemp, p.TurbineEff)
	fmt.Fprintf(c.out, "     w_c=%.2f kJ/kg  w_t=%.2f kJ/kg  q_in=%.2f kJ/kg\n",
		s.CompressorWork, s.TurbineWork, s.HeatInput)
	fmt.Fprintf(c.out, "     >>> NET WORK: %.2f kJ/kg  efficiency: %.4f\n", s.NetSpecificWork, s.ThermalEfficiency())

	d := perf.Digester
	fmt.Fprintf(c.out, "\n  2. ANAEROBIC DIGESTER:\n")
	fmt.Fprintf(c.out, "     feed=%.0f kg/d  HRT=%.1f d  VS=%.0f kg/d\n", p.ADFeedstockRate, p.ADRetentionTime, d.VolatileSolids)
	fmt.Fprintf(c.out, "     conversion=%.4f  biogas=%.1f m3/d\n", d.Conversion, d.BiogasFlow)
	fmt.Fprintf(c.out, "     >>> FUEL POWER: %.2f kW  (heating demand %.2f kW)\n", d.FuelPower, d.HeatDemand)

	h := perf.HTC
	fmt.Fprintf(c.out, "\n  3. HTC REACTOR:\n")
	fmt.Fprintf(c.out, "     biomass=%.0f kg/d  T=%.1f K  severity=%.3f\n", p.HTCBiomassRate, p.HTCTemperature, h.TempFactor)
	fmt.Fprintf(c.out, "     char=%.1f kg/d (yield %.3f)  liquid=%.1f kg/d\n", h.Hydrochar, h.HydrocharYield, h.LiquidProduct)
	fmt.Fprintf(c.out, "     demand=%.2f kW  recovered from products=%.2f kW\n", h.HeatDemand, h.HeatRecovered)
	fmt.Fprintf(c.out, "     >>> SEQUESTRATION: %.1f kg CO2/d\n", h.Sequestration)

	fmt.Fprintf(c.out, "\n  4. INTEGRATION:\n")
	fmt.Fprintf(c.out, "     air flow = %.2f kW / %.2f kJ/kg = %.4f kg/s\n", d.FuelPower, s.HeatInput, perf.AirMassFlow)
	fmt.Fprintf(c.out, "     net power = %.4f kg/s x %.2f kJ/kg = %.2f kW\n", perf.AirMassFlow, s.NetSpecificWork, perf.NetPower)
	fmt.Fprintf(c.out, "     exhaust recovered = %.2f kW vs HTC demand %.2f kW\n", perf.ExhaustRecovered, h.HeatDemand)
	fmt.Fprintf(c.out, "     >>> SELF-SUFFICIENCY: %.3f\n", perf.SelfSufficiency)
}

// PrintComparison imprime escenarios lado a lado.
func (c *Console) PrintComparison(rows []scenario.ComparisonRow) {
	table := tablewriter.NewWriter(c.out)
	table.Header("Scenario", "Net kW", "Eff %", "Self-suff", "NPV $", "LCOE $/kWh", "gCO2/kWh")

	for _, r := range rows {
		table.Append(
			r.ScenarioID,
			fmt.Sprintf("%.1f", r.NetPower),
			fmt.Sprintf("%.2f", r.Efficiency*100),
			fmt.Sprintf("%.2f", r.SelfSufficiency),
			fmt.Sprintf("%.0f", r.NPV),
			fmt.Sprintf("%.4f", r.LCOE),
			fmt.Sprintf("%.1f", r.CarbonIntensity),
		)
	}
	table.Render()
}

// PrintOptimization imprime el resumen de una corrida.
func (c *Console) PrintOptimization(res *optimizer.Result) {
	fmt.Fprintf(c.out, "\n=== OPTIMIZATION: %s (run %s) ===\n", res.Method, res.RunID)
	fmt.Fprintf(c.out, "  seed=%d  evaluations=%d  elapsed=%s\n", res.Seed, res.Evaluations, res.Elapsed)
	fmt.Fprintf(c.out, "  best fitness: %.4f\n", res.Fitness)

	p := res.Best
	table := tablewriter.NewWriter(c.out)
	table.Header("Variable", "Value")
	table.Append("ambient_temp", fmt.Sprintf("%.2f K", p.AmbientTemp))
	table.Append("pressure_ratio", fmt.Sprintf("%.2f", p.PressureRatio))
	table.Append("max_turbine_temp", fmt.Sprintf("%.1f K", p.MaxTurbineTemp))
	table.Append("compressor_eff", fmt.Sprintf("%.3f", p.CompressorEff))
	table.Append("turbine_eff", fmt.Sprintf("%.3f", p.TurbineEff))
	table.Append("ad_feedstock_rate", fmt.Sprintf("%.0f kg/d", p.ADFeedstockRate))
	table.Append("ad_retention_time", fmt.Sprintf("%.1f d", p.ADRetentionTime))
	table.Append("htc_biomass_rate", fmt.Sprintf("%.0f kg/d", p.HTCBiomassRate))
	table.Append("htc_temperature", fmt.Sprintf("%.1f K", p.HTCTemperature))
	table.Render()

	if perf := res.Performance; perf != nil {
		fmt.Fprintf(c.out, "  net power %.2f kW | efficiency %.2f %% | self-sufficiency %.2f\n",
			perf.NetPower, perf.Efficiency*100, perf.SelfSufficiency)
	}

	if n := len(res.History); n > 0 {
		tail := res.History
		if n > 8 {
			tail = res.History[n-8:]
		}
		fmt.Fprintf(c.out, "  fitness history (last %d): ", len(tail))
		for i, f := range tail {
			if i > 0 {
				fmt.Fprint(c.out, " → ")
			}
			fmt.Fprintf(c.out, "%.4f", f)
		}
		fmt.Fprintln(c.out)
	}

	if len(res.Frontier) > 0 {
		fmt.Fprintf(c.out, "  pareto frontier: %d non-dominated points\n", len(res.Frontier))
	}
	fmt.Fprintln(c.out)
}
