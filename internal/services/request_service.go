package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jwaldner/coffeecarry/internal/dto"
	"github.com/jwaldner/coffeecarry/internal/utils"
	valuation "github.com/jwaldner/coffeecarry/valuation_lib"
)

// RequestService handles HTTP request parsing and validation.
// The pricing functions trust their inputs, so everything arriving over
// HTTP is checked here first.
type RequestService struct {
	defaults valuation.SimulationParameters
	maxCells int
	now      func() time.Time
}

// NewRequestService creates a new request service
func NewRequestService(defaults valuation.SimulationParameters, maxCells int) *RequestService {
	return &RequestService{
		defaults: defaults,
		maxCells: maxCells,
		now:      time.Now,
	}
}

// ParseFuturesRequest parses an HTTP request into market parameters
func (s *RequestService) ParseFuturesRequest(r *http.Request) (valuation.MarketParameters, error) {
	var req dto.FuturesRequest
	if err := decode(r, &req); err != nil {
		return valuation.MarketParameters{}, err
	}

	maturity, err := s.resolveMaturity(req.Maturity, req.MaturityDate)
	if err != nil {
		return valuation.MarketParameters{}, err
	}
	if req.Spot <= 0 {
		return valuation.MarketParameters{}, fmt.Errorf("spot must be positive")
	}

	return valuation.MarketParameters{
		Spot:         req.Spot,
		RiskFreeRate: req.RiskFreeRate,
		StorageCost:  req.StorageCost,
		Maturity:     maturity,
	}, nil
}

// ParseOptionRequest parses an HTTP request into an option contract
func (s *RequestService) ParseOptionRequest(r *http.Request) (valuation.OptionContract, error) {
	var req dto.OptionRequest
	if err := decode(r, &req); err != nil {
		return valuation.OptionContract{}, err
	}

	maturity, err := s.resolveMaturity(req.Maturity, req.MaturityDate)
	if err != nil {
		return valuation.OptionContract{}, err
	}
	if req.Spot <= 0 || req.Strike <= 0 {
		return valuation.OptionContract{}, fmt.Errorf("spot and strike must be positive")
	}
	if req.Volatility <= 0 {
		return valuation.OptionContract{}, fmt.Errorf("volatility must be positive")
	}

	var optionType byte
	switch strings.ToLower(req.OptionType) {
	case "", "call", "c":
		optionType = 'C'
	case "put", "p":
		optionType = 'P'
	default:
		return valuation.OptionContract{}, fmt.Errorf("option_type must be call or put, got %q", req.OptionType)
	}

	symbol := req.Symbol
	if symbol == "" {
		symbol = valuation.DefaultSymbol
	}

	return valuation.OptionContract{
		Symbol:           symbol,
		StrikePrice:      req.Strike,
		UnderlyingPrice:  req.Spot,
		TimeToExpiration: maturity,
		RiskFreeRate:     req.RiskFreeRate,
		Volatility:       req.Volatility,
		OptionType:       optionType,
	}, nil
}

// ParseSimulationRequest parses an HTTP request into Monte Carlo inputs.
// Omitted steps, simulations or seed fall back to the configured defaults.
func (s *RequestService) ParseSimulationRequest(r *http.Request) (valuation.MarketParameters, valuation.SimulationParameters, error) {
	var req dto.SimulationRequest
	if err := decode(r, &req); err != nil {
		return valuation.MarketParameters{}, valuation.SimulationParameters{}, err
	}

	maturity, err := s.resolveMaturity(req.Maturity, req.MaturityDate)
	if err != nil {
		return valuation.MarketParameters{}, valuation.SimulationParameters{}, err
	}
	if req.Spot <= 0 {
		return valuation.MarketParameters{}, valuation.SimulationParameters{}, fmt.Errorf("spot must be positive")
	}
	if req.Volatility < 0 {
		return valuation.MarketParameters{}, valuation.SimulationParameters{}, fmt.Errorf("volatility must not be negative")
	}

	sim := s.defaults
	if req.Steps != 0 {
		sim.Steps = req.Steps
	}
	if req.Simulations != 0 {
		sim.Simulations = req.Simulations
	}
	if req.Seed != nil {
		sim.Seed = *req.Seed
	}
	// a single path has no sample standard deviation
	if sim.Steps < 1 || sim.Simulations < 2 {
		return valuation.MarketParameters{}, valuation.SimulationParameters{}, fmt.Errorf("need at least 1 step and 2 simulations, got %dx%d", sim.Steps, sim.Simulations)
	}
	if cells := sim.Steps * sim.Simulations; cells > s.maxCells || cells/sim.Steps != sim.Simulations {
		return valuation.MarketParameters{}, valuation.SimulationParameters{}, fmt.Errorf("simulation of %dx%d exceeds the %d cell limit", sim.Steps, sim.Simulations, s.maxCells)
	}

	market := valuation.MarketParameters{
		Spot:         req.Spot,
		RiskFreeRate: req.RiskFreeRate,
		Volatility:   req.Volatility,
		Maturity:     maturity,
	}
	return market, sim, nil
}

func (s *RequestService) resolveMaturity(maturity float64, maturityDate string) (float64, error) {
	if maturityDate != "" {
		return utils.MaturityFromDate(maturityDate, s.now())
	}
	if maturity <= 0 {
		return 0, fmt.Errorf("maturity must be positive")
	}
	return maturity, nil
}

func decode(r *http.Request, v interface{}) error {
	if r.Method != http.MethodPost {
		return fmt.Errorf("method not allowed: %s", r.Method)
	}
	if r.Body == nil {
		return fmt.Errorf("request body is required")
	}

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("failed to decode request: %w", err)
	}
	return nil
}
