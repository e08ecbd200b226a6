package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/jwaldner/coffeecarry/internal/utils"
	valuation "github.com/jwaldner/coffeecarry/valuation_lib"
)

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	LogLevel   string `yaml:"log_level"`
	LogFile    string `yaml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// EngineConfig represents valuation engine configuration
type EngineConfig struct {
	Symbol       string `yaml:"symbol"`         // label for the priced contract
	MaxPathCells int    `yaml:"max_path_cells"` // steps*simulations cap for HTTP requests
	SlowRunMs    int    `yaml:"slow_run_ms"`    // runs slower than this are counted as slow
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Port                string `yaml:"port"`
	ReadTimeoutSeconds  int    `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `yaml:"write_timeout_seconds"`
}

type Config struct {
	// Scenario settings
	Market       valuation.MarketParameters
	MaturityDate string // YYYY-MM-DD, overrides Market.Maturity when set
	Simulation   valuation.SimulationParameters

	Engine  EngineConfig
	Server  ServerConfig
	Logging LoggingConfig
}

// yamlMarket uses pointers so an explicit zero (e.g. a 0% rate) still overrides
type yamlMarket struct {
	Spot         *float64 `yaml:"spot"`
	RiskFreeRate *float64 `yaml:"risk_free_rate"`
	StorageCost  *float64 `yaml:"storage_cost"`
	Strike       *float64 `yaml:"strike"`
	Volatility   *float64 `yaml:"volatility"`
	Maturity     *float64 `yaml:"maturity"`
	MaturityDate string   `yaml:"maturity_date"`
}

type yamlSimulation struct {
	Steps       int     `yaml:"steps"`
	Simulations int     `yaml:"simulations"`
	Seed        *uint64 `yaml:"seed"`
}

type YAMLConfig struct {
	Market     yamlMarket     `yaml:"market"`
	Simulation yamlSimulation `yaml:"simulation"`
	Engine     EngineConfig   `yaml:"engine"`
	Server     ServerConfig   `yaml:"server"`
	Logging    LoggingConfig  `yaml:"logging"`
}

// Load builds the configuration from environment variables and then
// overlays config.yaml (or $CONFIG_FILE) when present.
// With neither, the coffee reference scenario is returned.
func Load() *Config {
	return LoadFrom(getEnv("CONFIG_FILE", "config.yaml"))
}

// LoadFrom is Load with an explicit YAML path
func LoadFrom(path string) *Config {
	ref := valuation.ReferenceMarket()
	sim := valuation.ReferenceSimulation()

	cfg := &Config{
		Market: valuation.MarketParameters{
			Spot:         getEnvFloat("SPOT_PRICE", ref.Spot),
			RiskFreeRate: getEnvFloat("RISK_FREE_RATE", ref.RiskFreeRate),
			StorageCost:  getEnvFloat("STORAGE_COST", ref.StorageCost),
			Strike:       getEnvFloat("STRIKE_PRICE", ref.Strike),
			Volatility:   getEnvFloat("VOLATILITY", ref.Volatility),
			Maturity:     getEnvFloat("MATURITY_YEARS", ref.Maturity),
		},
		MaturityDate: getEnv("MATURITY_DATE", ""),
		Simulation: valuation.SimulationParameters{
			Steps:       getEnvInt("SIM_STEPS", sim.Steps),
			Simulations: getEnvInt("SIM_PATHS", sim.Simulations),
			Seed:        getEnvUint64("SIM_SEED", sim.Seed),
		},

		// Default engine configuration
		Engine: EngineConfig{
			Symbol:       getEnv("ENGINE_SYMBOL", valuation.DefaultSymbol),
			MaxPathCells: getEnvInt("ENGINE_MAX_PATH_CELLS", 10_000_000),
			SlowRunMs:    getEnvInt("ENGINE_SLOW_RUN_MS", 2000),
		},

		Server: ServerConfig{
			Port:                getEnv("PORT", "8080"),
			ReadTimeoutSeconds:  getEnvInt("SERVER_READ_TIMEOUT", 10),
			WriteTimeoutSeconds: getEnvInt("SERVER_WRITE_TIMEOUT", 60),
		},

		// Default logging configuration
		Logging: LoggingConfig{
			LogLevel:   getEnv("LOG_LEVEL", "info"),
			LogFile:    getEnv("LOG_FILE", "coffeecarry.log"),
			MaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 10),
			MaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
			MaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 30),
			Compress:   getEnvBool("LOG_COMPRESS", false),
		},
	}

	if yamlCfg := loadYAMLConfig(path); yamlCfg != nil {
		applyYAML(cfg, yamlCfg)
	}

	return cfg
}

func applyYAML(cfg *Config, y *YAMLConfig) {
	// Market overrides
	setFloat(&cfg.Market.Spot, y.Market.Spot)
	setFloat(&cfg.Market.RiskFreeRate, y.Market.RiskFreeRate)
	setFloat(&cfg.Market.StorageCost, y.Market.StorageCost)
	setFloat(&cfg.Market.Strike, y.Market.Strike)
	setFloat(&cfg.Market.Volatility, y.Market.Volatility)
	setFloat(&cfg.Market.Maturity, y.Market.Maturity)
	if y.Market.MaturityDate != "" {
		cfg.MaturityDate = y.Market.MaturityDate
	}

	// Simulation overrides
	if y.Simulation.Steps > 0 {
		cfg.Simulation.Steps = y.Simulation.Steps
	}
	if y.Simulation.Simulations > 0 {
		cfg.Simulation.Simulations = y.Simulation.Simulations
	}
	if y.Simulation.Seed != nil {
		cfg.Simulation.Seed = *y.Simulation.Seed
	}

	// Engine configuration from YAML
	if y.Engine.Symbol != "" {
		cfg.Engine.Symbol = y.Engine.Symbol
	}
	if y.Engine.MaxPathCells > 0 {
		cfg.Engine.MaxPathCells = y.Engine.MaxPathCells
	}
	if y.Engine.SlowRunMs > 0 {
		cfg.Engine.SlowRunMs = y.Engine.SlowRunMs
	}

	if y.Server.Port != "" {
		cfg.Server.Port = y.Server.Port
	}
	if y.Server.ReadTimeoutSeconds > 0 {
		cfg.Server.ReadTimeoutSeconds = y.Server.ReadTimeoutSeconds
	}
	if y.Server.WriteTimeoutSeconds > 0 {
		cfg.Server.WriteTimeoutSeconds = y.Server.WriteTimeoutSeconds
	}

	// Logging configuration from YAML
	if y.Logging.LogLevel != "" {
		cfg.Logging.LogLevel = y.Logging.LogLevel
	}
	if y.Logging.LogFile != "" {
		cfg.Logging.LogFile = y.Logging.LogFile
	}
	if y.Logging.MaxSizeMB > 0 {
		cfg.Logging.MaxSizeMB = y.Logging.MaxSizeMB
	}
	if y.Logging.MaxBackups > 0 {
		cfg.Logging.MaxBackups = y.Logging.MaxBackups
	}
	if y.Logging.MaxAgeDays > 0 {
		cfg.Logging.MaxAgeDays = y.Logging.MaxAgeDays
	}
	cfg.Logging.Compress = cfg.Logging.Compress || y.Logging.Compress
}

// MarketParameters returns the scenario with MaturityDate resolved against asOf
func (c *Config) MarketParameters(asOf time.Time) (valuation.MarketParameters, error) {
	m := c.Market
	if c.MaturityDate != "" {
		years, err := utils.MaturityFromDate(c.MaturityDate, asOf)
		if err != nil {
			return m, fmt.Errorf("market.maturity_date: %w", err)
		}
		m.Maturity = years
	}
	return m, nil
}

// Validate checks settings the engine cannot run without. The pricing
// formulas themselves accept any float; this only guards sizes.
func (c *Config) Validate() error {
	if c.Simulation.Steps < 1 {
		return fmt.Errorf("simulation.steps must be at least 1, got %d", c.Simulation.Steps)
	}
	if c.Simulation.Simulations < 1 {
		return fmt.Errorf("simulation.simulations must be at least 1, got %d", c.Simulation.Simulations)
	}
	if c.Engine.MaxPathCells < 1 {
		return fmt.Errorf("engine.max_path_cells must be positive, got %d", c.Engine.MaxPathCells)
	}
	return nil
}

func loadYAMLConfig(path string) *YAMLConfig {
	data, err := os.ReadFile(path)
	if err != nil {
		// Could not read config file - silently return nil
		return nil
	}

	var yamlCfg YAMLConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		// Could not parse config file - silently return nil
		return nil
	}

	return &yamlCfg
}

func setFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvUint64(key string, defaultValue uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseUint(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
