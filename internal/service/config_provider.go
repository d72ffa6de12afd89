package service

import (
	"fmt"
	"sync"

	"github.com/polydesk/polydesk/internal/models"
)

// ConfigProvider holds the engine's mutable sync configuration behind an
// explicit get/update contract. Updates are validated; callers always receive
// a copy.
type ConfigProvider struct {
	mu  sync.RWMutex
	cfg models.SyncConfig
}

func NewConfigProvider(initial models.SyncConfig) *ConfigProvider {
	return &ConfigProvider{cfg: initial}
}

// Get returns the current configuration.
func (p *ConfigProvider) Get() models.SyncConfig {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cfg
}

// Update replaces the configuration after validating it.
func (p *ConfigProvider) Update(cfg models.SyncConfig) error {
	switch cfg.ConflictResolution {
	case models.ConflictDatabaseWins, models.ConflictSheetsWins, models.ConflictManual:
	default:
		return fmt.Errorf("invalid conflict resolution policy %q", cfg.ConflictResolution)
	}
	if cfg.SyncIntervalMinutes <= 0 {
		return fmt.Errorf("sync interval must be positive, got %d", cfg.SyncIntervalMinutes)
	}
	if cfg.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive, got %d", cfg.BatchSize)
	}
	if cfg.RetryAttempts < 0 {
		return fmt.Errorf("retry attempts must not be negative, got %d", cfg.RetryAttempts)
	}

	p.mu.Lock()
	p.cfg = cfg
	p.mu.Unlock()
	return nil
}
