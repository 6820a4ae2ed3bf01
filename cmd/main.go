package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"boundarycut/internal/decompose"
	"boundarycut/internal/decompose/config"
	"boundarycut/internal/shared/contextkeys"
	"boundarycut/internal/shared/errors"
	"boundarycut/internal/shared/logger"

	"github.com/caarlos0/env/v6"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// RunConfig holds top-level run configuration
type RunConfig struct {
	Timeout time.Duration `env:"RUN_TIMEOUT" envDefault:"5m"`
}

func main() {
	os.Exit(run())
}

func run() int {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	runCfg := &RunConfig{}
	if err := env.Parse(runCfg); err != nil {
		log.Printf("Failed to load run configuration: %v", err)
		return errors.ExitCodeGeneric
	}

	// Initialize loggers
	appLogger := logger.NewLogger()
	adapterLogger, err := zap.NewProduction()
	if err != nil {
		log.Printf("Failed to initialize adapter logger: %v", err)
		return errors.ExitCodeGeneric
	}
	defer func() {
		_ = adapterLogger.Sync()
	}()

	// Load decomposition configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		appLogger.Error("Failed to load decompose configuration: ", err)
		return errors.ExitCodeGeneric
	}
	appLogger.Info("Configuration loaded successfully")

	// Initialize the decomposition module
	module, err := decompose.NewModule(cfg, appLogger, adapterLogger)
	if err != nil {
		appLogger.Error("Failed to initialize decomposition module: ", err)
		return errors.ExitCodeGeneric
	}

	ctx, cancel := context.WithTimeout(context.Background(), runCfg.Timeout)
	defer cancel()
	ctx = context.WithValue(ctx, contextkeys.RunIDKey, uuid.NewString())

	plan, err := module.Run(ctx)
	if err != nil {
		appLogger.WithContext(ctx).Error("Decomposition run failed: ", err)
		return errors.ExitCodeFor(err)
	}

	appLogger.WithContext(ctx).Infof("Migration plan %s written to %s (%d boundaries, %d steps)",
		plan.ID, cfg.PlanPath, len(plan.Boundaries), len(plan.Steps))
	fmt.Printf("plan %s: %d boundaries, %d steps -> %s\n",
		plan.ID, len(plan.Boundaries), len(plan.Steps), cfg.PlanPath)
	return errors.ExitCodeOK
}
