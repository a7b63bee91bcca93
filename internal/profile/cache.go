// Package profile persists the customer form fields across restarts.
package profile

import (
	"encoding/json"
	"os"

	"go.uber.org/zap"

	"photo-print-orders/internal/models"
)

// Cache stores one customer profile, last value wins. Load never fails:
// a missing or corrupt payload yields an empty profile.
type Cache interface {
	Load() models.CustomerProfile
	Save(profile models.CustomerProfile) error
	Clear() error
}

// FileCache keeps the profile as one JSON blob at a fixed path. When the
// file cannot be written the cache degrades to memory only: values stay
// available for the rest of the process but are lost on restart.
type FileCache struct {
	path   string
	logger *zap.Logger

	mem models.CustomerProfile
}

func NewFileCache(path string, logger *zap.Logger) *FileCache {
	return &FileCache{path: path, logger: logger}
}

func (c *FileCache) Load() models.CustomerProfile {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if !os.IsNotExist(err) {
			c.logger.Warn("failed to read customer cache", zap.Error(err))
		}
		return c.mem
	}

	var profile models.CustomerProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		c.logger.Warn("corrupt customer cache, using defaults", zap.Error(err))
		return c.mem
	}
	return profile
}

func (c *FileCache) Save(profile models.CustomerProfile) error {
	c.mem = profile

	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		c.logger.Warn("failed to persist customer cache, keeping in memory", zap.Error(err))
	}
	return nil
}

func (c *FileCache) Clear() error {
	c.mem = models.CustomerProfile{}
	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		c.logger.Warn("failed to remove customer cache", zap.Error(err))
		return err
	}
	return nil
}

// MemoryCache is an in-process Cache for tests and storage-disabled runs.
type MemoryCache struct {
	profile models.CustomerProfile
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{}
}

func (c *MemoryCache) Load() models.CustomerProfile {
	return c.profile
}

func (c *MemoryCache) Save(profile models.CustomerProfile) error {
	c.profile = profile
	return nil
}

func (c *MemoryCache) Clear() error {
	c.profile = models.CustomerProfile{}
	return nil
}
