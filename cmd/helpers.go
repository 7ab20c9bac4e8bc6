package cmd

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/zpam/sms-filter/pkg/classifier"
	"github.com/zpam/sms-filter/pkg/config"
	"github.com/zpam/sms-filter/pkg/logging"
	"github.com/zpam/sms-filter/pkg/modelstore"
)

// loadRuntime loads configuration and builds the logger shared by all
// commands. A non-empty modelPath forces the file backend at that path
// so --model always points at a local file regardless of config.
func loadRuntime(configPath, modelPath string, verbose bool) (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %v", err)
	}

	if modelPath != "" {
		cfg.Model.Backend = config.BackendFile
		cfg.Model.Path = modelPath
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build logger: %v", err)
	}

	return cfg, logger, nil
}

// openModel opens the configured store and loads the persisted model.
func openModel(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*classifier.Model, error) {
	store, err := modelstore.New(&cfg.Model, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open model store: %v", err)
	}
	defer store.Close()

	model, err := modelstore.LoadModel(ctx, store)
	if err != nil {
		return nil, fmt.Errorf("failed to load model: %v (train one with 'zpam-sms train')", err)
	}
	return model, nil
}

// saveModel writes the model snapshot through the configured store.
func saveModel(ctx context.Context, cfg *config.Config, logger *zap.Logger, model *classifier.Model) error {
	store, err := modelstore.New(&cfg.Model, logger)
	if err != nil {
		return fmt.Errorf("failed to open model store: %v", err)
	}
	defer store.Close()

	if err := store.Save(ctx, model.Snapshot()); err != nil {
		return fmt.Errorf("failed to save model: %v", err)
	}
	return nil
}

// modelLocation renders where the model lives for status output.
func modelLocation(cfg *config.ModelConfig) string {
	switch cfg.Backend {
	case config.BackendRedis:
		return fmt.Sprintf("redis (%s)", cfg.RedisURL)
	case config.BackendSQLite:
		return fmt.Sprintf("sqlite (%s)", cfg.SQLitePath)
	case config.BackendMySQL:
		return "mysql"
	default:
		return cfg.Path
	}
}
