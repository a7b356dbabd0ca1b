package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process logger. Level defaults to info and can be
// overridden with POSTVAULT_LOG_LEVEL (debug, info, warn, error).
func New() *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	if lvl := os.Getenv("POSTVAULT_LOG_LEVEL"); lvl != "" {
		if parsed, err := zapcore.ParseLevel(lvl); err == nil {
			cfg.Level = zap.NewAtomicLevelAt(parsed)
		}
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return logger.Sugar()
}
