package valuation

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Simulate runs the Monte Carlo estimate without cancellation.
// It panics only when the parameters cannot describe a matrix.
func Simulate(m MarketParameters, p SimulationParameters) *SimulationResult {
	result, err := SimulateContext(context.Background(), m, p)
	if err != nil {
		panic(err)
	}
	return result
}

// SimulateContext generates Steps x Simulations geometric Brownian motion
// prices under the risk-neutral drift and reduces the final row to its mean.
//
// Row 0 holds the spot for every column. Row t is built from row t-1 and one
// standard normal draw per column, all drawn from a single generator seeded
// with p.Seed, so a given seed always reproduces the same matrix.
func SimulateContext(ctx context.Context, m MarketParameters, p SimulationParameters) (*SimulationResult, error) {
	if p.Steps < 1 || p.Simulations < 1 {
		return nil, fmt.Errorf("invalid simulation size %dx%d", p.Steps, p.Simulations)
	}

	dt := m.Maturity / float64(p.Steps)
	drift := (m.RiskFreeRate - 0.5*m.Volatility*m.Volatility) * dt
	diffusion := m.Volatility * math.Sqrt(dt)

	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewSource(p.Seed)}
	paths := mat.NewDense(p.Steps, p.Simulations, nil)

	prev := paths.RawRowView(0)
	for j := range prev {
		prev[j] = m.Spot
	}

	z := make([]float64, p.Simulations)
	for t := 1; t < p.Steps; t++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("simulation stopped at step %d: %w", t, err)
		}
		for j := range z {
			z[j] = normal.Rand()
		}
		row := paths.RawRowView(t)
		for j := range row {
			row[j] = prev[j] * math.Exp(drift+diffusion*z[j])
		}
		prev = row
	}

	terminal := paths.RawRowView(p.Steps - 1)
	mean, std := stat.MeanStdDev(terminal, nil)

	result := &SimulationResult{
		Steps:         p.Steps,
		Simulations:   p.Simulations,
		Seed:          p.Seed,
		Dt:            dt,
		Horizon:       dt * float64(p.Steps-1),
		TerminalMean:  mean,
		TerminalStd:   std,
		StandardError: std / math.Sqrt(float64(p.Simulations)),
		TerminalMin:   floats.Min(terminal),
		TerminalMax:   floats.Max(terminal),
	}
	if p.KeepPaths {
		result.Paths = paths
	}
	return result, nil
}

// RiskNeutralForward is the analytic expectation S0*exp(r*t) the simulated
// terminal mean converges to for a horizon t.
func RiskNeutralForward(m MarketParameters, horizon float64) float64 {
	return m.Spot * math.Exp(m.RiskFreeRate*horizon)
}
