package config

import (
	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
)

// NewZapLogger builds a production-configured logr.Logger backed by zap, the
// way the teacher's binaries wire their default logger. Callers that want a
// different backend can build their own logr.Logger and skip this helper
// entirely; Environment only ever stores the logr.Logger interface.
func NewZapLogger() (logr.Logger, error) {
	z, err := zap.NewProduction()
	if err != nil {
		return logr.Logger{}, err
	}
	return zapr.NewLogger(z), nil
}
