// Package nlulog provides the structured logger shared by the grammar,
// graph, and recognition packages.
package nlulog

import "go.uber.org/zap"

// New builds a production-style zap logger at the given level ("debug",
// "info", "warn", "error"). An unrecognized level falls back to "info".
func New(level string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		cfg.Level.SetLevel(zap.InfoLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// Nop returns a logger that discards everything, used as the default when
// a caller does not supply one.
func Nop() *zap.Logger {
	return zap.NewNop()
}
