package valuation

import (
	"time"

	"gonum.org/v1/gonum/mat"
)

// MarketParameters describes the commodity and the option written on it.
// Rates, storage cost and volatility are annualised decimals; Maturity is in years.
type MarketParameters struct {
	Spot         float64 `json:"spot" yaml:"spot"`
	RiskFreeRate float64 `json:"risk_free_rate" yaml:"risk_free_rate"`
	StorageCost  float64 `json:"storage_cost" yaml:"storage_cost"`
	Strike       float64 `json:"strike" yaml:"strike"`
	Volatility   float64 `json:"volatility" yaml:"volatility"`
	Maturity     float64 `json:"maturity" yaml:"maturity"`
}

// SimulationParameters controls the Monte Carlo path generation
type SimulationParameters struct {
	Steps       int    `json:"steps" yaml:"steps"`
	Simulations int    `json:"simulations" yaml:"simulations"`
	Seed        uint64 `json:"seed" yaml:"seed"`
	KeepPaths   bool   `json:"-" yaml:"-"` // retain the path matrix on the result
}

// ReferenceMarket returns the coffee scenario: $1.20/lb spot, 2% rate,
// 1% storage, $1.25 strike, 25% vol, six months to maturity.
func ReferenceMarket() MarketParameters {
	return MarketParameters{
		Spot:         1.20,
		RiskFreeRate: 0.02,
		StorageCost:  0.01,
		Strike:       1.25,
		Volatility:   0.25,
		Maturity:     0.5,
	}
}

// ReferenceSimulation returns daily steps over one trading year, 10k paths, seed 42.
func ReferenceSimulation() SimulationParameters {
	return SimulationParameters{
		Steps:       252,
		Simulations: 10000,
		Seed:        42,
	}
}

// OptionContract represents a European option and its computed outputs
type OptionContract struct {
	Symbol           string
	StrikePrice      float64
	UnderlyingPrice  float64
	TimeToExpiration float64
	RiskFreeRate     float64
	Volatility       float64
	OptionType       byte // 'C' or 'P'

	// Outputs
	D1               float64
	D2               float64
	Delta            float64
	Gamma            float64
	Theta            float64
	Vega             float64
	Rho              float64
	TheoreticalPrice float64
}

// SimulationResult summarises the terminal row of a simulated path matrix
type SimulationResult struct {
	Steps         int
	Simulations   int
	Seed          uint64
	Dt            float64
	Horizon       float64 // (Steps-1) * Dt, the time represented by the terminal row
	TerminalMean  float64
	TerminalStd   float64
	StandardError float64
	TerminalMin   float64
	TerminalMax   float64

	// Paths is only populated when SimulationParameters.KeepPaths is set.
	Paths *mat.Dense
}

// Valuation is the output of one engine run
type Valuation struct {
	RunID      string
	Market     MarketParameters
	Simulation SimulationParameters

	FuturesPrice float64
	Call         OptionContract
	MonteCarlo   *SimulationResult

	Timings Timings
}

// Timings separates the cost of each component within a run
type Timings struct {
	Futures    time.Duration
	Option     time.Duration
	Simulation time.Duration
	Total      time.Duration
}
