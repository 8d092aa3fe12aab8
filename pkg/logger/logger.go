package logger

import (
	"go.uber.org/zap"
)

// NewLogger builds a zap logger appropriate for the given environment.
func NewLogger(environment string) (*zap.Logger, error) {
	switch environment {
	case "prod", "production":
		return zap.NewProduction()
	case "test":
		return zap.NewExample(), nil
	default:
		return zap.NewDevelopment()
	}
}

func MustNewLogger(environment string) *zap.Logger {
	return zap.Must(NewLogger(environment))
}
