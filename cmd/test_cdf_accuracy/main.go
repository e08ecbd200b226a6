package main

import (
	"fmt"
	"math"

	valuation "github.com/jwaldner/coffeecarry/valuation_lib"
)

// Sweeps the normal CDF against the erfc identity and prices the reference call
func main() {
	fmt.Println("🎯 Testing CDF Accuracy")
	fmt.Println("=======================")

	worst, worstX := 0.0, 0.0
	for i := -2000; i <= 2000; i++ {
		x := float64(i) / 200
		want := 0.5 * math.Erfc(-x/math.Sqrt2)
		if diff := math.Abs(valuation.NormCDF(x) - want); diff > worst {
			worst, worstX = diff, x
		}
	}

	fmt.Printf("📊 Sweep: 4001 points on [-10, 10]\n")
	fmt.Printf("   Worst absolute error: %.3e at x=%.3f\n", worst, worstX)
	if worst < 1e-10 {
		fmt.Println("✅ CDF within 1e-10")
	} else {
		fmt.Println("❌ CDF error exceeds 1e-10")
	}
	fmt.Println()

	m := valuation.ReferenceMarket()
	call := valuation.PriceEuropean(valuation.CallContract(valuation.DefaultSymbol, m))
	fmt.Printf("📈 Reference call (S=%.2f K=%.2f r=%.2f σ=%.2f T=%.2f)\n",
		m.Spot, m.Strike, m.RiskFreeRate, m.Volatility, m.Maturity)
	fmt.Printf("   d1=%.6f d2=%.6f\n", call.D1, call.D2)
	fmt.Printf("   Price: %.6f  Delta: %.4f  Vega: %.4f\n", call.TheoreticalPrice, call.Delta, call.Vega)
}
