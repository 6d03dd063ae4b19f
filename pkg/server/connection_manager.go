package server

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"products-api/internal/config"
)

// ConnectionManager keeps one Container per process so warm Lambda
// invocations reuse the store client
type ConnectionManager struct {
	container   *Container
	lastUsed    time.Time
	mu          sync.RWMutex
	initialized bool
	config      *config.Config
	logger      *logrus.Logger
}

var (
	globalConnectionManager *ConnectionManager
	connectionManagerOnce   sync.Once
)

// GetConnectionManager returns the global connection manager instance
func GetConnectionManager() *ConnectionManager {
	connectionManagerOnce.Do(func() {
		globalConnectionManager = &ConnectionManager{}
	})
	return globalConnectionManager
}

// Initialize builds the container. Calls after a successful initialization are no-ops.
func (cm *ConnectionManager) Initialize(ctx context.Context, cfg *config.Config, logger *logrus.Logger) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.initialized {
		return nil
	}

	container, err := NewContainer(ctx, cfg, logger)
	if err != nil {
		return err
	}

	cm.config = cfg
	cm.logger = container.Logger
	cm.container = container
	cm.lastUsed = time.Now()
	cm.initialized = true
	return nil
}

// GetContainer returns the container, initializing it from the environment if necessary
func (cm *ConnectionManager) GetContainer(ctx context.Context) (*Container, error) {
	cm.mu.Lock()
	if cm.initialized && cm.container != nil {
		cm.lastUsed = time.Now()
		container := cm.container
		cm.mu.Unlock()
		return container, nil
	}
	cfg, logger := cm.config, cm.logger
	cm.mu.Unlock()

	if cfg == nil {
		var err error
		cfg, err = config.GetOptimizedConfig()
		if err != nil {
			return nil, err
		}
		logger = config.NewLogger(cfg, config.IsServerlessMode())
	}

	if err := cm.Initialize(ctx, cfg, logger); err != nil {
		return nil, err
	}

	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.container, nil
}

// IsHealthy checks if the connection manager is healthy
func (cm *ConnectionManager) IsHealthy() bool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	if !cm.initialized || cm.container == nil {
		return false
	}

	// Check if connection is stale (older than 5 minutes)
	return time.Since(cm.lastUsed) < 5*time.Minute
}

// Cleanup releases the container. The next GetContainer rebuilds it.
func (cm *ConnectionManager) Cleanup() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.container != nil {
		if err := cm.container.Close(); err != nil {
			return err
		}
		cm.container = nil
	}

	cm.initialized = false
	return nil
}
