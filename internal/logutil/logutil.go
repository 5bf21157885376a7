// Package logutil provides small logging helpers shared across packages.
package logutil

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Discard returns a logger that drops everything. The estimation core uses
// it whenever a caller does not supply a logger, so the pure functions stay
// quiet by default.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// OrDiscard returns logger if non-nil, otherwise a discard logger.
func OrDiscard(logger *logrus.Logger) *logrus.Logger {
	if logger != nil {
		return logger
	}
	return Discard()
}
