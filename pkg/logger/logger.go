package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"carpool-service/pkg/config"
)

// New builds the application logger. Production gets structured JSON,
// anything else gets the human-readable development encoder.
func New(cfg *config.Config) (*zap.Logger, error) {
	var zc zap.Config
	if cfg.Server.Env == "production" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if lvl, err := zapcore.ParseLevel(cfg.Log.Level); err == nil {
		zc.Level = zap.NewAtomicLevelAt(lvl)
	}

	return zc.Build()
}
