package logger

import "go.uber.org/zap"

// New builds the process logger at the configured level. Unknown levels
// fall back to info.
func New(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if lvl, err := zap.ParseAtomicLevel(level); err == nil {
		cfg.Level = lvl
	}
	cfg.DisableStacktrace = true
	return cfg.Build()
}
