package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa del motor de cálculo.
type Config struct {
	Economics   EconomicsConfig   `yaml:"economics"`
	Environment EnvironmentConfig `yaml:"environment"`
	Optimizer   OptimizerConfig   `yaml:"optimizer"`
	Storage     StorageConfig     `yaml:"storage"`
	Server      ServerConfig      `yaml:"server"`
	Log         LogConfig         `yaml:"log"`
}

// EconomicsConfig contiene los parámetros del análisis económico.
type EconomicsConfig struct {
	CapexPerKW    float64 `yaml:"capex_per_kw"`    // $/kW instalado
	Tariff        float64 `yaml:"tariff"`          // $/kWh vendido
	OpexRate      float64 `yaml:"opex_rate"`       // $/kWh generado
	FixedOpexFrac float64 `yaml:"fixed_opex_frac"` // fracción anual del CAPEX
	TaxRate       float64 `yaml:"tax_rate"`
	OperatingHrs  float64 `yaml:"operating_hours"` // horas/año a plena carga
	HorizonYears  int     `yaml:"horizon_years"`
	DiscountRate  float64 `yaml:"discount_rate"`
}

// EnvironmentConfig contiene los factores del balance de emisiones.
type EnvironmentConfig struct {
	FugitiveFrac float64 `yaml:"fugitive_frac"` // fracción de CH4 fugado del biogás
	CH4Density   float64 `yaml:"ch4_density"`   // kg/m³
	GWPMethane   float64 `yaml:"gwp_methane"`   // CO2-equivalente del CH4
	GridFactor   float64 `yaml:"grid_factor"`   // kg CO2/kWh de la red desplazada
}

// OptimizerConfig son los defaults de cada estrategia de optimización.
type OptimizerConfig struct {
	Workers        int     `yaml:"workers"` // 0 = runtime.NumCPU()
	Population     int     `yaml:"population"`
	Generations    int     `yaml:"generations"`
	Patience       int     `yaml:"patience"`
	CrossoverRate  float64 `yaml:"crossover_rate"`
	MutationSigma  float64 `yaml:"mutation_sigma"` // fracción del rango de cada variable
	GradientStep   float64 `yaml:"gradient_step"`
	GradientTol    float64 `yaml:"gradient_tol"`
	GradientIters  int     `yaml:"gradient_iters"`
	ParetoSamples  int     `yaml:"pareto_samples"`
	ReferenceKW    float64 `yaml:"reference_kw"`   // escala de normalización para potencia
	ReferenceLCOE  float64 `yaml:"reference_lcoe"` // escala de normalización para LCOE
	ReferenceCapex float64 `yaml:"reference_capex"`
}

// StorageConfig controla dónde se persiste el histórico de corridas.
type StorageConfig struct {
	DSN           string `yaml:"dsn"`            // ruta al archivo SQLite, o ":memory:"
	RetentionDays int    `yaml:"retention_days"` // corridas más antiguas se eliminan al arrancar
}

// ServerConfig controla el servidor HTTP.
type ServerConfig struct {
	Addr          string  `yaml:"addr"`
	RatePerSecond float64 `yaml:"rate_per_second"`
	RateBurst     int     `yaml:"rate_burst"`
	TimeoutSecs   int     `yaml:"timeout_seconds"`
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Los valores del .env sobreescriben los del YAML para las keys que correspondan.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// Retention devuelve la retención del histórico como time.Duration.
func (c *Config) Retention() time.Duration {
	return time.Duration(c.Storage.RetentionDays) * 24 * time.Hour
}

// ServerTimeout devuelve el timeout de requests HTTP como time.Duration.
func (c *Config) ServerTimeout() time.Duration {
	return time.Duration(c.Server.TimeoutSecs) * time.Second
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ADHTC_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("ADHTC_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("ADHTC_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
	if v := os.Getenv("ADHTC_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("ADHTC_TARIFF"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.Economics.Tariff = f
		}
	}
	if v := os.Getenv("ADHTC_DISCOUNT_RATE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.Economics.DiscountRate = f
		}
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Economics.CapexPerKW <= 0 {
		cfg.Economics.CapexPerKW = 1000
	}
	if cfg.Economics.Tariff <= 0 {
		cfg.Economics.Tariff = 0.12
	}
	if cfg.Economics.OpexRate <= 0 {
		cfg.Economics.OpexRate = 0.02
	}
	if cfg.Economics.FixedOpexFrac <= 0 {
		cfg.Economics.FixedOpexFrac = 0.02
	}
	if cfg.Economics.TaxRate <= 0 {
		cfg.Economics.TaxRate = 0.25
	}
	if cfg.Economics.OperatingHrs <= 0 {
		cfg.Economics.OperatingHrs = 8000
	}
	if cfg.Economics.HorizonYears <= 0 {
		cfg.Economics.HorizonYears = 20
	}
	if cfg.Economics.DiscountRate <= 0 {
		cfg.Economics.DiscountRate = 0.08
	}

	if cfg.Environment.FugitiveFrac <= 0 {
		cfg.Environment.FugitiveFrac = 0.01
	}
	if cfg.Environment.CH4Density <= 0 {
		cfg.Environment.CH4Density = 0.717
	}
	if cfg.Environment.GWPMethane <= 0 {
		cfg.Environment.GWPMethane = 25
	}
	if cfg.Environment.GridFactor <= 0 {
		cfg.Environment.GridFactor = 0.45
	}

	if cfg.Optimizer.Population <= 0 {
		cfg.Optimizer.Population = 40
	}
	if cfg.Optimizer.Generations <= 0 {
		cfg.Optimizer.Generations = 60
	}
	if cfg.Optimizer.Patience <= 0 {
		cfg.Optimizer.Patience = 15
	}
	if cfg.Optimizer.CrossoverRate <= 0 {
		cfg.Optimizer.CrossoverRate = 0.8
	}
	if cfg.Optimizer.MutationSigma <= 0 {
		cfg.Optimizer.MutationSigma = 0.1
	}
	if cfg.Optimizer.GradientStep <= 0 {
		cfg.Optimizer.GradientStep = 0.05
	}
	if cfg.Optimizer.GradientTol <= 0 {
		cfg.Optimizer.GradientTol = 1e-6
	}
	if cfg.Optimizer.GradientIters <= 0 {
		cfg.Optimizer.GradientIters = 200
	}
	if cfg.Optimizer.ParetoSamples <= 0 {
		cfg.Optimizer.ParetoSamples = 500
	}
	if cfg.Optimizer.ReferenceKW <= 0 {
		cfg.Optimizer.ReferenceKW = 100
	}
	if cfg.Optimizer.ReferenceLCOE <= 0 {
		cfg.Optimizer.ReferenceLCOE = 0.05
	}
	if cfg.Optimizer.ReferenceCapex <= 0 {
		cfg.Optimizer.ReferenceCapex = 100000
	}

	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "adhtc.db"
	}
	if cfg.Storage.RetentionDays <= 0 {
		cfg.Storage.RetentionDays = 90
	}

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.RatePerSecond <= 0 {
		cfg.Server.RatePerSecond = 20
	}
	if cfg.Server.RateBurst <= 0 {
		cfg.Server.RateBurst = 40
	}
	if cfg.Server.TimeoutSecs <= 0 {
		cfg.Server.TimeoutSecs = 60
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
