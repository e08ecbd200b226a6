package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/jwaldner/coffeecarry/internal/config"
	"github.com/jwaldner/coffeecarry/internal/handlers"
	"github.com/jwaldner/coffeecarry/internal/logger"
	"github.com/jwaldner/coffeecarry/internal/performance"
	valuation "github.com/jwaldner/coffeecarry/valuation_lib"
)

func main() {
	cfg := config.Load()

	// Initialize proper logging with config level and file path
	rotation := logger.Rotation{
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	}
	if err := logger.InitWithRotation(cfg.Logging.LogLevel, cfg.Logging.LogFile, rotation); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logger.Close()
	logger.Always.Printf("🚀 Coffee valuation server starting - Port: %s", cfg.Server.Port)

	if cfg.Logging.LogLevel == "verbose" {
		fmt.Printf("⚠️  VERBOSE LOGGING ENABLED - every pricing phase will be logged to %s\n", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}
	if cfg.Simulation.Simulations < 2 {
		log.Fatalf("❌ Server needs at least 2 simulations to report a standard error, got %d", cfg.Simulation.Simulations)
	}
	market, err := cfg.MarketParameters(time.Now())
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	engine := valuation.NewEngine(market, cfg.Simulation).WithSymbol(cfg.Engine.Symbol)
	logger.Always.Printf("🔧 Scenario: %s %dx%d paths, seed %d",
		cfg.Engine.Symbol, cfg.Simulation.Steps, cfg.Simulation.Simulations, cfg.Simulation.Seed)

	perf := performance.NewPerformanceWrapper(time.Duration(cfg.Engine.SlowRunMs) * time.Millisecond)
	defer perf.Close()

	// Setup router
	r := mux.NewRouter()
	handlers.NewValuationHandler(cfg, engine, perf).RegisterRoutes(r)

	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	// Start server
	fmt.Printf("🌐 Server starting on http://localhost:%s\n", cfg.Server.Port)
	logger.Always.Printf("🌐 Server starting on http://localhost:%s", cfg.Server.Port)

	if err := srv.ListenAndServe(); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}
