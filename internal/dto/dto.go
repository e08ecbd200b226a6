package dto

// FuturesRequest represents a cost-of-carry pricing request
type FuturesRequest struct {
	Spot         float64 `json:"spot"`
	RiskFreeRate float64 `json:"risk_free_rate"`
	StorageCost  float64 `json:"storage_cost"`
	Maturity     float64 `json:"maturity"`
	MaturityDate string  `json:"maturity_date"` // YYYY-MM-DD, alternative to maturity
}

// OptionRequest represents a Black-Scholes pricing request
type OptionRequest struct {
	Symbol       string  `json:"symbol"`
	Spot         float64 `json:"spot"`
	Strike       float64 `json:"strike"`
	RiskFreeRate float64 `json:"risk_free_rate"`
	Volatility   float64 `json:"volatility"`
	Maturity     float64 `json:"maturity"`
	MaturityDate string  `json:"maturity_date"`
	OptionType   string  `json:"option_type"` // "call" (default) or "put"
}

// SimulationRequest represents a Monte Carlo request
type SimulationRequest struct {
	Spot         float64 `json:"spot"`
	RiskFreeRate float64 `json:"risk_free_rate"`
	Volatility   float64 `json:"volatility"`
	Maturity     float64 `json:"maturity"`
	MaturityDate string  `json:"maturity_date"`
	Steps        int     `json:"steps"`
	Simulations  int     `json:"simulations"`
	Seed         *uint64 `json:"seed"`
}
