package config

import (
	"os"
	"path/filepath"
	"sync"
)

// ServerlessConfig holds serverless-specific configuration
type ServerlessConfig struct {
	IsLambda     bool
	FunctionName string
	Stage        string
}

// Global serverless configuration
var (
	serverlessConfig *ServerlessConfig
	serverlessOnce   sync.Once
)

// GetServerlessConfig returns the serverless configuration
func GetServerlessConfig() *ServerlessConfig {
	serverlessOnce.Do(func() {
		serverlessConfig = &ServerlessConfig{
			IsLambda:     isRunningInLambda(),
			FunctionName: os.Getenv("AWS_LAMBDA_FUNCTION_NAME"),
			Stage:        GetEnv("STAGE", "dev"),
		}
	})
	return serverlessConfig
}

// isRunningInLambda detects if the application is running in AWS Lambda
func isRunningInLambda() bool {
	return os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""
}

// IsServerlessMode returns true if running in serverless mode
func IsServerlessMode() bool {
	return GetServerlessConfig().IsLambda
}

// GetDeploymentMode returns the current deployment mode
func GetDeploymentMode() string {
	if IsServerlessMode() {
		return "serverless"
	}
	return "server"
}

// AdaptConfigForServerless modifies configuration for serverless deployment
func AdaptConfigForServerless(config *Config, serverless bool) *Config {
	if !serverless {
		return config
	}

	// Only /tmp is writable inside Lambda
	if config.Backend == BackendSQLite && !filepath.IsAbs(config.SQLite.Path) {
		config.SQLite.Path = filepath.Join(os.TempDir(), filepath.Base(config.SQLite.Path))
	}

	// A shared endpoint override only makes sense locally
	if config.Backend == BackendDynamoDB && os.Getenv("AWS_SAM_LOCAL") == "" {
		config.DynamoDB.Endpoint = ""
	}

	return config
}

// GetOptimizedConfig returns configuration adapted to the current deployment mode
func GetOptimizedConfig() (*Config, error) {
	config, err := Load()
	if err != nil {
		return nil, err
	}

	return AdaptConfigForServerless(config, IsServerlessMode()), nil
}
