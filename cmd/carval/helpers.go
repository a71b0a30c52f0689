package main

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	"github.com/pricelab/carval/internal/common"
	"github.com/pricelab/carval/internal/config"
	"github.com/pricelab/carval/internal/engine"
	"github.com/pricelab/carval/internal/predictor"
	"github.com/pricelab/carval/internal/service"
	"github.com/pricelab/carval/internal/storage"
	"github.com/pricelab/carval/internal/vocab"
)

// initStorage initializes the history store with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/carval/carval.db"
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// loadVocabulary returns the configured vocabulary, falling back to the
// bundled default the artifact was trained with.
func loadVocabulary() (*vocab.Vocabulary, error) {
	if !viper.IsSet("vocabulary") {
		return vocab.Default(), nil
	}

	var v vocab.Vocabulary
	if err := viper.UnmarshalKey("vocabulary", &v); err != nil {
		return nil, fmt.Errorf("failed to parse vocabulary config: %w", err)
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return &v, nil
}

// loadPredictor loads the trained model artifact from the configured path.
func loadPredictor() (*predictor.Artifact, error) {
	path := viper.GetString("model.path")
	if path == "" {
		path = "$HOME/.local/share/carval/model.carval"
	}
	return predictor.Load(config.ExpandPath(path))
}

// engineConfig reads the engine settings from configuration.
func engineConfig() engine.Config {
	cfg := engine.DefaultConfig()
	if s := viper.GetString("engine.strategy"); s != "" {
		cfg.Strategy = engine.Strategy(s)
	}
	if viper.IsSet("engine.record_history") {
		cfg.RecordHistory = viper.GetBool("engine.record_history")
	}
	return cfg
}

// initEngine wires vocabulary, artifact, and optional history storage into a
// pricing engine. The returned storage is nil when history is disabled; the
// caller owns closing it otherwise.
func initEngine(ctx context.Context) (*engine.PricingEngine, service.Storage, error) {
	v, err := loadVocabulary()
	if err != nil {
		return nil, nil, err
	}

	artifact, err := loadPredictor()
	if err != nil {
		return nil, nil, common.NewUserError("the pricing model could not be loaded", err)
	}

	cfg := engineConfig()
	// A pipeline artifact owns its encoding; unless the strategy was set
	// explicitly, hand it the raw fields instead of encoding here.
	if !viper.IsSet("engine.strategy") && artifact.Vocabulary() != nil {
		cfg.Strategy = engine.StrategyPassthrough
	}

	var store service.Storage
	if cfg.RecordHistory {
		store, err = initStorage(ctx)
		if err != nil {
			return nil, nil, err
		}
	}

	return engine.NewWithConfig(v, artifact, store, cfg), store, nil
}
