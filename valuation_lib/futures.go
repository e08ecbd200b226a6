package valuation

import "math"

// FuturesPrice returns the cost-of-carry fair value F = S * exp((r + d) * T)
// where d is the annualised storage cost.
func FuturesPrice(spot, rate, storage, maturity float64) float64 {
	return spot * math.Exp((rate+storage)*maturity)
}

// CarryFuturesPrice applies FuturesPrice to a MarketParameters set
func CarryFuturesPrice(m MarketParameters) float64 {
	return FuturesPrice(m.Spot, m.RiskFreeRate, m.StorageCost, m.Maturity)
}
