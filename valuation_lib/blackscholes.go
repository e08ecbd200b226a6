package valuation

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// NormCDF is the standard normal cumulative distribution function
func NormCDF(x float64) float64 {
	return distuv.UnitNormal.CDF(x)
}

// NormPDF is the standard normal density
func NormPDF(x float64) float64 {
	return distuv.UnitNormal.Prob(x)
}

// d1d2 returns the Black-Scholes d1 and d2 terms. A zero vol*sqrt(T)
// divides by zero and yields Inf or NaN.
func d1d2(spot, strike, rate, maturity, vol float64) (float64, float64) {
	volSqrtT := vol * math.Sqrt(maturity)
	d1 := (math.Log(spot/strike) + (rate+0.5*vol*vol)*maturity) / volSqrtT
	return d1, d1 - volSqrtT
}

// BlackScholesCall prices a European call:
//
//	C = S0*N(d1) - X*exp(-rT)*N(d2)
func BlackScholesCall(spot, strike, rate, maturity, vol float64) float64 {
	d1, d2 := d1d2(spot, strike, rate, maturity, vol)
	return spot*NormCDF(d1) - strike*math.Exp(-rate*maturity)*NormCDF(d2)
}

// BlackScholesPut prices the matching European put
func BlackScholesPut(spot, strike, rate, maturity, vol float64) float64 {
	d1, d2 := d1d2(spot, strike, rate, maturity, vol)
	return strike*math.Exp(-rate*maturity)*NormCDF(-d2) - spot*NormCDF(-d1)
}

// CallContract builds the call described by a MarketParameters set
func CallContract(symbol string, m MarketParameters) OptionContract {
	return OptionContract{
		Symbol:           symbol,
		StrikePrice:      m.Strike,
		UnderlyingPrice:  m.Spot,
		TimeToExpiration: m.Maturity,
		RiskFreeRate:     m.RiskFreeRate,
		Volatility:       m.Volatility,
		OptionType:       'C',
	}
}

// PriceEuropean fills the theoretical price, d1/d2 and Greeks of a contract.
// Theta is per year, vega per unit of volatility, rho per unit of rate.
// Any OptionType other than 'P' is priced as a call.
func PriceEuropean(c OptionContract) OptionContract {
	s, k, t, r, v := c.UnderlyingPrice, c.StrikePrice, c.TimeToExpiration, c.RiskFreeRate, c.Volatility
	d1, d2 := d1d2(s, k, r, t, v)
	sqrtT := math.Sqrt(t)
	discount := math.Exp(-r * t)
	pdf := NormPDF(d1)

	c.D1 = d1
	c.D2 = d2
	c.Gamma = pdf / (s * v * sqrtT)
	c.Vega = s * pdf * sqrtT

	if c.OptionType == 'P' {
		c.TheoreticalPrice = k*discount*NormCDF(-d2) - s*NormCDF(-d1)
		c.Delta = NormCDF(d1) - 1
		c.Theta = -s*pdf*v/(2*sqrtT) + r*k*discount*NormCDF(-d2)
		c.Rho = -k * t * discount * NormCDF(-d2)
		return c
	}

	c.OptionType = 'C'
	c.TheoreticalPrice = s*NormCDF(d1) - k*discount*NormCDF(d2)
	c.Delta = NormCDF(d1)
	c.Theta = -s*pdf*v/(2*sqrtT) - r*k*discount*NormCDF(d2)
	c.Rho = k * t * discount * NormCDF(d2)
	return c
}

// PriceEuropeanBatch prices a slice of contracts, returning new values
func PriceEuropeanBatch(contracts []OptionContract) []OptionContract {
	results := make([]OptionContract, len(contracts))
	for i, contract := range contracts {
		results[i] = PriceEuropean(contract)
	}
	return results
}
