package valuation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// erfcNormCDF is an independent Phi used to cross-check NormCDF
func erfcNormCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}

func TestFuturesPriceReference(t *testing.T) {
	m := ReferenceMarket()
	got := FuturesPrice(m.Spot, m.RiskFreeRate, m.StorageCost, m.Maturity)

	assert.InDelta(t, 1.20*math.Exp(0.03*0.5), got, 1e-12)
	assert.InDelta(t, 1.2182, got, 1e-4)
	assert.Equal(t, got, CarryFuturesPrice(m))
}

func TestFuturesPriceZeroCarry(t *testing.T) {
	if got := FuturesPrice(1.5, 0, 0, 2); got != 1.5 {
		t.Errorf("Expected futures price to equal spot with no carry, got %f", got)
	}
}

func TestNormCDFAccuracy(t *testing.T) {
	worst := 0.0
	for x := -10.0; x <= 10.0; x += 0.01 {
		diff := math.Abs(NormCDF(x) - erfcNormCDF(x))
		if diff > worst {
			worst = diff
		}
	}
	if worst > 1e-10 {
		t.Errorf("NormCDF worst absolute error %.3e exceeds 1e-10", worst)
	}
	t.Logf("✅ NormCDF worst absolute error over [-10, 10]: %.3e", worst)

	assert.InDelta(t, 0.5, NormCDF(0), 1e-15)
	assert.InDelta(t, 0.9750021048517795, NormCDF(1.96), 1e-12)
}

func TestBlackScholesCallReference(t *testing.T) {
	m := ReferenceMarket()
	got := BlackScholesCall(m.Spot, m.Strike, m.RiskFreeRate, m.Maturity, m.Volatility)

	volSqrtT := m.Volatility * math.Sqrt(m.Maturity)
	d1 := (math.Log(m.Spot/m.Strike) + (m.RiskFreeRate+0.5*m.Volatility*m.Volatility)*m.Maturity) / volSqrtT
	d2 := d1 - volSqrtT
	want := m.Spot*erfcNormCDF(d1) - m.Strike*math.Exp(-m.RiskFreeRate*m.Maturity)*erfcNormCDF(d2)

	assert.InDelta(t, want, got, 1e-10)
	assert.InDelta(t, 0.06836, got, 1e-4)
	assert.GreaterOrEqual(t, got, 0.0)
	assert.LessOrEqual(t, got, m.Spot)
}

func TestBlackScholesCallBounds(t *testing.T) {
	cases := []struct {
		name                          string
		spot, strike, rate, mat, vol float64
	}{
		{"deep ITM", 2.0, 1.0, 0.02, 0.5, 0.25},
		{"deep OTM", 1.0, 3.0, 0.02, 0.5, 0.25},
		{"ATM long dated", 1.2, 1.2, 0.05, 5, 0.4},
		{"high vol", 1.2, 1.25, 0.02, 0.5, 2.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := BlackScholesCall(tc.spot, tc.strike, tc.rate, tc.mat, tc.vol)
			lower := math.Max(0, tc.spot-tc.strike*math.Exp(-tc.rate*tc.mat))
			assert.GreaterOrEqual(t, c, lower-1e-12)
			assert.LessOrEqual(t, c, tc.spot)
		})
	}
}

func TestPutCallParity(t *testing.T) {
	m := ReferenceMarket()
	call := PriceEuropean(CallContract(DefaultSymbol, m))
	putContract := CallContract(DefaultSymbol, m)
	putContract.OptionType = 'P'
	put := PriceEuropean(putContract)

	lhs := call.TheoreticalPrice - put.TheoreticalPrice
	rhs := m.Spot - m.Strike*math.Exp(-m.RiskFreeRate*m.Maturity)
	assert.InDelta(t, rhs, lhs, 1e-12)

	assert.InDelta(t, BlackScholesPut(m.Spot, m.Strike, m.RiskFreeRate, m.Maturity, m.Volatility), put.TheoreticalPrice, 1e-15)
	assert.InDelta(t, call.Delta-1, put.Delta, 1e-15)
	assert.Equal(t, call.Gamma, put.Gamma)
	assert.Equal(t, call.Vega, put.Vega)
}

func TestGreeksMatchFiniteDifferences(t *testing.T) {
	m := ReferenceMarket()
	c := PriceEuropean(CallContract(DefaultSymbol, m))
	const h = 1e-5

	price := func(s, r, v float64) float64 {
		return BlackScholesCall(s, m.Strike, r, m.Maturity, v)
	}

	delta := (price(m.Spot+h, m.RiskFreeRate, m.Volatility) - price(m.Spot-h, m.RiskFreeRate, m.Volatility)) / (2 * h)
	vega := (price(m.Spot, m.RiskFreeRate, m.Volatility+h) - price(m.Spot, m.RiskFreeRate, m.Volatility-h)) / (2 * h)
	rho := (price(m.Spot, m.RiskFreeRate+h, m.Volatility) - price(m.Spot, m.RiskFreeRate-h, m.Volatility)) / (2 * h)

	assert.InDelta(t, delta, c.Delta, 1e-6)
	assert.InDelta(t, vega, c.Vega, 1e-6)
	assert.InDelta(t, rho, c.Rho, 1e-6)
	assert.Greater(t, c.Gamma, 0.0)
	assert.Less(t, c.Theta, 0.0)
	assert.Equal(t, byte('C'), c.OptionType)
}

func TestPriceEuropeanBatch(t *testing.T) {
	m := ReferenceMarket()
	put := CallContract("KCP", m)
	put.OptionType = 'P'
	in := []OptionContract{CallContract("KCC", m), put}

	out := PriceEuropeanBatch(in)
	if len(out) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(out))
	}
	if in[0].TheoreticalPrice != 0 {
		t.Error("Batch pricing should not modify its input")
	}
	if out[0].Symbol != "KCC" || out[1].Symbol != "KCP" {
		t.Errorf("Expected symbols to be preserved, got %s and %s", out[0].Symbol, out[1].Symbol)
	}
	if out[1].Delta >= 0 || out[1].Delta <= -1 {
		t.Errorf("Put delta should be between -1 and 0, got %f", out[1].Delta)
	}
}
