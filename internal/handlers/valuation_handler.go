package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/jwaldner/coffeecarry/internal/config"
	"github.com/jwaldner/coffeecarry/internal/logger"
	"github.com/jwaldner/coffeecarry/internal/models"
	"github.com/jwaldner/coffeecarry/internal/performance"
	"github.com/jwaldner/coffeecarry/internal/services"
	valuation "github.com/jwaldner/coffeecarry/valuation_lib"
)

// errNotFinite marks inputs that passed validation but priced to NaN or Inf
var errNotFinite = errors.New("result is not a finite number")

// ValuationHandler serves the valuation API - HTTP layer only, the maths lives in valuation
type ValuationHandler struct {
	config   *config.Config
	engine   *valuation.Engine
	requests *services.RequestService
	perf     *performance.PerformanceWrapper
}

// NewValuationHandler creates a new valuation handler
func NewValuationHandler(cfg *config.Config, engine *valuation.Engine, perf *performance.PerformanceWrapper) *ValuationHandler {
	return &ValuationHandler{
		config:   cfg,
		engine:   engine,
		requests: services.NewRequestService(cfg.Simulation, cfg.Engine.MaxPathCells),
		perf:     perf,
	}
}

// RegisterRoutes wires the handler endpoints onto a router
func (h *ValuationHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.HealthHandler).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/valuation", h.RunHandler).Methods("GET")
	api.HandleFunc("/futures", h.FuturesHandler).Methods("POST")
	api.HandleFunc("/option", h.OptionHandler).Methods("POST")
	api.HandleFunc("/simulate", h.SimulateHandler).Methods("POST")
	api.HandleFunc("/stats", h.StatsHandler).Methods("GET")
}

// HealthHandler reports liveness
func (h *ValuationHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "coffeecarry",
		"symbol":    h.config.Engine.Symbol,
		"timestamp": time.Now().Unix(),
	})
}

// RunHandler runs the configured scenario end to end
func (h *ValuationHandler) RunHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	v, err := h.perf.RunEngine(r.Context(), h.engine)
	if err != nil {
		logger.Error.Printf("❌ Valuation failed: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := checkValuation(v); err != nil {
		logger.Warn.Printf("⚠️  Valuation %s not reportable: %v", v.RunID, err)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	logger.Info.Printf("✅ Valuation %s completed in %v", v.RunID, v.Timings.Total)
	writeJSON(w, http.StatusOK, models.FullValuationResponse{
		Success:    true,
		Futures:    models.FormatFutures(v.Market, v.FuturesPrice),
		Option:     models.FormatOption(v.Call),
		MonteCarlo: models.FormatSimulation(v.MonteCarlo),
		Lines:      models.ReportLines(v),
		Meta:       meta(v.RunID, start, "cost-of-carry+black-scholes+gbm-monte-carlo"),
	})
}

// FuturesHandler prices a cost-of-carry futures contract
func (h *ValuationHandler) FuturesHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	market, err := h.requests.ParseFuturesRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var price float64
	err = h.perf.Track("FuturesPrice", func() error {
		price = valuation.CarryFuturesPrice(market)
		return checkFinite("futures price", price, market.RiskFreeRate+market.StorageCost)
	})
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, models.ValuationResponse{
		Success: true,
		Data:    models.FormatFutures(market, price),
		Meta:    meta("", start, "cost-of-carry"),
	})
}

// OptionHandler prices a European option with Greeks
func (h *ValuationHandler) OptionHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	contract, err := h.requests.ParseOptionRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = h.perf.Track("PriceEuropean", func() error {
		contract = valuation.PriceEuropean(contract)
		return checkContract(contract)
	})
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, models.ValuationResponse{
		Success: true,
		Data:    models.FormatOption(contract),
		Meta:    meta("", start, "black-scholes"),
	})
}

// SimulateHandler runs a Monte Carlo terminal price estimate
func (h *ValuationHandler) SimulateHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	market, sim, err := h.requests.ParseSimulationRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var result *valuation.SimulationResult
	err = h.perf.Track("Simulate", func() error {
		var simErr error
		result, simErr = valuation.SimulateContext(r.Context(), market, sim)
		if simErr != nil {
			return simErr
		}
		return checkSimulation(result)
	})
	if errors.Is(err, errNotFinite) {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err != nil {
		logger.Warn.Printf("⚠️  Simulation aborted: %v", err)
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	logger.Debug.Printf("🎲 Simulated %dx%d paths, mean %.6f", sim.Steps, sim.Simulations, result.TerminalMean)
	writeJSON(w, http.StatusOK, models.ValuationResponse{
		Success: true,
		Data:    models.FormatSimulation(result),
		Meta:    meta("", start, "gbm-monte-carlo"),
	})
}

// StatsHandler exposes the performance counters
func (h *ValuationHandler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.perf.Snapshot())
}

func checkFinite(name string, values ...float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s: %w", name, errNotFinite)
		}
	}
	return nil
}

func checkContract(c valuation.OptionContract) error {
	return checkFinite("option "+c.Symbol, c.TheoreticalPrice, c.D1, c.D2, c.Delta, c.Gamma, c.Theta, c.Vega, c.Rho)
}

func checkSimulation(r *valuation.SimulationResult) error {
	return checkFinite("simulation", r.TerminalMean, r.TerminalStd, r.StandardError, r.TerminalMin, r.TerminalMax)
}

// checkValuation guards the JSON encoder, which rejects NaN and Inf
func checkValuation(v *valuation.Valuation) error {
	if err := checkFinite("futures price", v.FuturesPrice); err != nil {
		return err
	}
	if err := checkContract(v.Call); err != nil {
		return err
	}
	return checkSimulation(v.MonteCarlo)
}

func meta(runID string, start time.Time, model string) models.ResponseMetadata {
	return models.ResponseMetadata{
		RunID:          runID,
		Timestamp:      time.Now().Format(time.RFC3339),
		ProcessingTime: float64(time.Since(start).Microseconds()) / 1000.0,
		Model:          model,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error.Printf("❌ Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, models.ErrorResponse{Success: false, Error: msg})
}
