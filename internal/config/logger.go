package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the application logger. Lambda gets JSON lines for
// CloudWatch; everything else gets the text formatter.
func NewLogger(cfg *Config, serverless bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if serverless || cfg.IsProduction() {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if err != nil && cfg.LogLevel != "" {
		logger.WithField("log_level", cfg.LogLevel).Warn("Unknown log level, using info")
	}
	return logger
}
