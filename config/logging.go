package config

import (
	"go.uber.org/zap"

	"github.com/linesmerrill/case-tracker-api/logging"
)

func setLogger(environment string) (*zap.Logger, error) {
	return logging.New(environment)
}
