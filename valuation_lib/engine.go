package valuation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwaldner/coffeecarry/internal/logger"
)

// DefaultSymbol labels the reference coffee contract
const DefaultSymbol = "KC"

// Engine runs the futures, option and Monte Carlo valuations for one scenario
type Engine struct {
	symbol     string
	market     MarketParameters
	simulation SimulationParameters
}

// NewEngine creates an engine for the given scenario
func NewEngine(market MarketParameters, simulation SimulationParameters) *Engine {
	return &Engine{
		symbol:     DefaultSymbol,
		market:     market,
		simulation: simulation,
	}
}

// NewReferenceEngine creates an engine for the coffee reference scenario
func NewReferenceEngine() *Engine {
	return NewEngine(ReferenceMarket(), ReferenceSimulation())
}

// WithSymbol sets the label used on the priced option contract
func (e *Engine) WithSymbol(symbol string) *Engine {
	if symbol != "" {
		e.symbol = symbol
	}
	return e
}

// Market returns the engine's market parameters
func (e *Engine) Market() MarketParameters {
	return e.market
}

// Simulation returns the engine's simulation parameters
func (e *Engine) Simulation() SimulationParameters {
	return e.simulation
}

// Futures prices the cost-of-carry futures contract
func (e *Engine) Futures() float64 {
	return CarryFuturesPrice(e.market)
}

// Call prices the European call with Greeks
func (e *Engine) Call() OptionContract {
	return PriceEuropean(CallContract(e.symbol, e.market))
}

// Simulate runs the Monte Carlo terminal price estimate
func (e *Engine) Simulate(ctx context.Context) (*SimulationResult, error) {
	return SimulateContext(ctx, e.market, e.simulation)
}

// Run executes the three valuations in order, timing each one separately.
// The components share nothing; ctx is checked between them.
func (e *Engine) Run(ctx context.Context) (*Valuation, error) {
	v := &Valuation{
		RunID:      uuid.NewString(),
		Market:     e.market,
		Simulation: e.simulation,
	}
	runStart := time.Now()

	// PHASE 1: cost of carry
	start := time.Now()
	v.FuturesPrice = e.Futures()
	v.Timings.Futures = time.Since(start)
	logger.Debug.Printf("🧮 [%s] futures price %.6f in %v", v.RunID, v.FuturesPrice, v.Timings.Futures)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("valuation %s cancelled: %w", v.RunID, err)
	}

	// PHASE 2: Black-Scholes
	start = time.Now()
	v.Call = e.Call()
	v.Timings.Option = time.Since(start)
	logger.Debug.Printf("🧮 [%s] call price %.6f (d1=%.6f d2=%.6f) in %v",
		v.RunID, v.Call.TheoreticalPrice, v.Call.D1, v.Call.D2, v.Timings.Option)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("valuation %s cancelled: %w", v.RunID, err)
	}

	// PHASE 3: Monte Carlo
	start = time.Now()
	mc, err := e.Simulate(ctx)
	if err != nil {
		return nil, fmt.Errorf("valuation %s: %w", v.RunID, err)
	}
	v.MonteCarlo = mc
	v.Timings.Simulation = time.Since(start)
	logger.Debug.Printf("🎲 [%s] %dx%d paths, terminal mean %.6f ± %.6f in %v",
		v.RunID, mc.Steps, mc.Simulations, mc.TerminalMean, mc.StandardError, v.Timings.Simulation)

	v.Timings.Total = time.Since(runStart)
	logger.Verbose.Printf("📊 [%s] timing breakdown: futures=%v option=%v simulation=%v total=%v",
		v.RunID, v.Timings.Futures, v.Timings.Option, v.Timings.Simulation, v.Timings.Total)

	return v, nil
}
