package utils

import "go.uber.org/zap"

// ServiceName is attached to every logger built here.
const ServiceName = "pagerag"

// NewLogger returns a zap logger tagged with the service name and version. When debug is
// true it uses the development config (console, debug level); otherwise the production
// config (JSON, info level).
func NewLogger(debug bool, version string) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("service", ServiceName), zap.String("version", version)), nil
}

// NewQuietLogger returns a production logger that only emits warnings and errors, for
// one-shot CLI commands whose output goes to the terminal.
func NewQuietLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	cfg.Encoding = "console"
	return cfg.Build()
}
