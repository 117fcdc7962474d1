package lib

import "go.uber.org/zap"

// NewLogger returns a development logger for APP_ENV=local and a production
// JSON logger otherwise.
func NewLogger(env string) (*zap.Logger, error) {
	if env == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
