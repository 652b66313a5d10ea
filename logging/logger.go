package logging

import "go.uber.org/zap"

// NewProduction returns a json logger at info level
func NewProduction() (*zap.Logger, error) {
	return zap.NewProduction()
}

// NewDevelopment returns a console logger at debug level
func NewDevelopment() (*zap.Logger, error) {
	return zap.NewDevelopment()
}

// NewExample returns the deterministic logger used locally and in tests
func NewExample() *zap.Logger {
	return zap.NewExample()
}
