package config

import (
	"go.uber.org/fx"

	"github.com/tigerroll/ontime/pkg/batch/support/util/logger"
)

// NewLoggingConfigProvider extracts *LoggingConfig from *Config.
func NewLoggingConfigProvider(cfg *Config) *LoggingConfig {
	return &cfg.Ontime.System.Logging
}

// NewBatchConfigProvider extracts *BatchConfig from *Config.
func NewBatchConfigProvider(cfg *Config) *BatchConfig {
	return &cfg.Ontime.Batch
}

// NewMetricsConfigProvider extracts *MetricsConfig from *Config.
func NewMetricsConfigProvider(cfg *Config) *MetricsConfig {
	return &cfg.Ontime.Metrics
}

// applyLogLevel sets the package logger level from the loaded configuration.
func applyLogLevel(cfg *LoggingConfig) {
	logger.SetLogLevel(cfg.Level)
	logger.Infof("Log level set to: %s", cfg.Level)
}

// Module provides configuration-related components to Fx.
var Module = fx.Options(
	fx.Provide(NewLoggingConfigProvider),
	fx.Provide(NewBatchConfigProvider),
	fx.Provide(NewMetricsConfigProvider),
	fx.Provide(func() EnvironmentExpander {
		return NewOsEnvironmentExpander()
	}),
	fx.Invoke(applyLogLevel),
)
