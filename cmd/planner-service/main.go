package main

import (
	"fmt"
	"os"

	"github.com/jonboulle/clockwork"

	"irrigation-planner/internal/client"
	"irrigation-planner/internal/config"
	"irrigation-planner/internal/db"
	"irrigation-planner/internal/export"
	httphandler "irrigation-planner/internal/http"
	"irrigation-planner/internal/logger"
	"irrigation-planner/internal/observability"
	"irrigation-planner/internal/pricing"
	"irrigation-planner/internal/repository"
	"irrigation-planner/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	appLogger := logger.New(cfg.Environment)

	database, err := db.New(cfg, appLogger)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to open database")
	}

	catalog := pricing.NewCatalog()
	clock := clockwork.NewRealClock()
	metrics := observability.NewMetrics()

	farmRepo := repository.NewFarmRepository(database)
	planRepo := repository.NewPlanRepository(database)

	overpass := client.NewOverpassClient(cfg)

	farmService := service.NewFarmService(farmRepo, catalog, overpass, clock)
	recService := service.NewRecommendationService(farmRepo, catalog)
	planService := service.NewPlanService(planRepo, recService, export.NewExcelGenerator(), export.NewPDFGenerator(), clock)

	handler := httphandler.NewHandler(farmService, planService, recService, catalog, metrics, appLogger)
	router := httphandler.NewRouter(handler, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	appLogger.Info().Str("addr", addr).Msg("starting planner service")

	if err := router.Run(addr); err != nil {
		appLogger.Error().Err(err).Msg("failed to start server")
		os.Exit(1)
	}
}
