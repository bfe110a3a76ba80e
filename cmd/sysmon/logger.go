package main

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/HerbHall/sysmon/internal/config"
)

// newLogger builds a JSON production logger, or a console logger with
// --verbose. --debug (or --no-db) lowers the level to debug.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Verbose {
		zc = zap.NewDevelopmentConfig()
	}

	level := zapcore.InfoLevel
	if cfg.Debug {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	return zc.Build()
}
