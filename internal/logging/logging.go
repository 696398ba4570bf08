// Package logging builds the process logger. Diagnostics go to stderr in
// console encoding so stdout stays clean for annotations and JSON reports.
package logging

import (
	"go.uber.org/zap"
)

// New returns the configured logger. Debug mode uses the development config
// at debug level; otherwise production config at warn level, so a quiet CI
// run emits nothing but the scan output itself.
func New(debug bool) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	cfg.Encoding = "console"
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
