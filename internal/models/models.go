package models

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	valuation "github.com/jwaldner/coffeecarry/valuation_lib"
)

// DisplayPlaces is the rounding applied to every displayed price
const DisplayPlaces = 3

// FieldValue represents a field with both raw data and formatted display
type FieldValue struct {
	Raw     interface{} `json:"raw"`     // full precision value
	Display string      `json:"display"` // For UI: "$1.218"
	Type    string      `json:"type"`    // "currency", "number", "integer", "text"
}

// FormattedResult is a set of named display fields
type FormattedResult map[string]FieldValue

// ResponseMetadata describes how a result was produced
type ResponseMetadata struct {
	RunID          string  `json:"run_id,omitempty"`
	Timestamp      string  `json:"timestamp"`
	ProcessingTime float64 `json:"processing_time_ms"`
	Model          string  `json:"model"`
}

// ValuationResponse is the JSON envelope returned by every endpoint
type ValuationResponse struct {
	Success bool             `json:"success"`
	Data    FormattedResult  `json:"data"`
	Meta    ResponseMetadata `json:"meta"`
}

// FullValuationResponse groups the three components of an engine run
type FullValuationResponse struct {
	Success    bool             `json:"success"`
	Futures    FormattedResult  `json:"futures"`
	Option     FormattedResult  `json:"option"`
	MonteCarlo FormattedResult  `json:"monte_carlo"`
	Lines      []string         `json:"lines"`
	Meta       ResponseMetadata `json:"meta"`
}

// ErrorResponse is returned on failures
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// exactExponent keeps every binary digit of a float64, down to the smallest subnormal
const exactExponent = -1074

// RoundPrice formats v with DisplayPlaces decimals, e.g. 1.2181 -> "1.218".
// Finite values match %.3f; non-finite ones print as nan, inf or -inf.
func RoundPrice(v float64) string {
	return formatFixed(v, DisplayPlaces)
}

// formatFixed rounds the exact binary value of v half to even
func formatFixed(v float64, places int32) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	s := decimal.NewFromFloatWithExponent(v, exactExponent).StringFixedBank(places)
	if math.Signbit(v) && !strings.HasPrefix(s, "-") {
		s = "-" + s
	}
	return s
}

// Currency formats a price as "$1.218"
func Currency(v float64) string {
	return "$" + RoundPrice(v)
}

func currencyField(v float64) FieldValue {
	return FieldValue{Raw: v, Display: Currency(v), Type: "currency"}
}

func numberField(v float64, places int32) FieldValue {
	return FieldValue{Raw: v, Display: formatFixed(v, places), Type: "number"}
}

func integerField(v int) FieldValue {
	return FieldValue{Raw: v, Display: fmt.Sprintf("%d", v), Type: "integer"}
}

func textField(v string) FieldValue {
	return FieldValue{Raw: v, Display: v, Type: "text"}
}

// FuturesLine is the report sentence for the cost-of-carry price
func FuturesLine(price float64) string {
	return fmt.Sprintf("The fair price of the coffee futures contract is %s per pound.", Currency(price))
}

// OptionLine is the report sentence for the call price
func OptionLine(price float64) string {
	return fmt.Sprintf("The price of the call option is %s.", Currency(price))
}

// MonteCarloLine is the report sentence for the simulated terminal mean
func MonteCarloLine(mean float64) string {
	return fmt.Sprintf("The average simulated price of the coffee futures contract at maturity is %s.", Currency(mean))
}

// ReportLines returns the three report sentences in order
func ReportLines(v *valuation.Valuation) []string {
	return []string{
		FuturesLine(v.FuturesPrice),
		OptionLine(v.Call.TheoreticalPrice),
		MonteCarloLine(v.MonteCarlo.TerminalMean),
	}
}

// FormatFutures builds display fields for a futures price
func FormatFutures(m valuation.MarketParameters, price float64) FormattedResult {
	return FormattedResult{
		"futures_price": currencyField(price),
		"spot":          currencyField(m.Spot),
		"carry_rate":    numberField(m.RiskFreeRate+m.StorageCost, 4),
		"maturity":      numberField(m.Maturity, 4),
	}
}

// FormatOption builds display fields for a priced option contract
func FormatOption(c valuation.OptionContract) FormattedResult {
	optionType := "call"
	if c.OptionType == 'P' {
		optionType = "put"
	}
	return FormattedResult{
		"symbol":      textField(c.Symbol),
		"option_type": textField(optionType),
		"price":       currencyField(c.TheoreticalPrice),
		"strike":      currencyField(c.StrikePrice),
		"d1":          numberField(c.D1, 6),
		"d2":          numberField(c.D2, 6),
		"delta":       numberField(c.Delta, 4),
		"gamma":       numberField(c.Gamma, 4),
		"theta":       numberField(c.Theta, 4),
		"vega":        numberField(c.Vega, 4),
		"rho":         numberField(c.Rho, 4),
	}
}

// FormatSimulation builds display fields for a Monte Carlo result
func FormatSimulation(r *valuation.SimulationResult) FormattedResult {
	return FormattedResult{
		"terminal_mean":  currencyField(r.TerminalMean),
		"standard_error": numberField(r.StandardError, 6),
		"terminal_std":   numberField(r.TerminalStd, 6),
		"terminal_min":   currencyField(r.TerminalMin),
		"terminal_max":   currencyField(r.TerminalMax),
		"horizon":        numberField(r.Horizon, 6),
		"steps":          integerField(r.Steps),
		"simulations":    integerField(r.Simulations),
		"seed":           FieldValue{Raw: r.Seed, Display: fmt.Sprintf("%d", r.Seed), Type: "integer"},
	}
}
