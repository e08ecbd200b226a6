package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jwaldner/coffeecarry/internal/config"
	"github.com/jwaldner/coffeecarry/internal/logger"
	"github.com/jwaldner/coffeecarry/internal/models"
	valuation "github.com/jwaldner/coffeecarry/valuation_lib"
)

// Prints the three valuation lines for the configured scenario.
// Stdout carries only the report; diagnostics go to the log file.
func main() {
	cfg := config.Load()

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

	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}
	market, err := cfg.MarketParameters(time.Now())
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	logger.Always.Printf("☕ Coffee valuation starting - %s spot %.4f strike %.4f T=%.4f",
		cfg.Engine.Symbol, market.Spot, market.Strike, market.Maturity)

	engine := valuation.NewEngine(market, cfg.Simulation).WithSymbol(cfg.Engine.Symbol)
	v, err := engine.Run(context.Background())
	if err != nil {
		logger.Error.Printf("❌ Valuation failed: %v", err)
		log.Fatalf("valuation failed: %v", err)
	}

	for _, line := range models.ReportLines(v) {
		fmt.Println(line)
	}
	logger.Always.Printf("✅ Valuation %s finished in %v", v.RunID, v.Timings.Total)
}
