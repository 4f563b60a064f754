// internal/workers/disc/get-user-profiles/config.go
package getuserprofiles

import (
	"fmt"
	"time"

	"disc-workers/internal/common/config"
)

// MaxLimit caps how many profiles a single job may return.
const MaxLimit = 100

type Config struct {
	Enabled       bool          `mapstructure:"enabled"`
	MaxJobsActive int           `mapstructure:"max_jobs_active"`
	Timeout       time.Duration `mapstructure:"timeout"`
	DefaultLimit  int           `mapstructure:"default_limit"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		MaxJobsActive: 10,
		Timeout:       10 * time.Second,
		DefaultLimit:  20,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	if c.DefaultLimit <= 0 || c.DefaultLimit > MaxLimit {
		return fmt.Errorf("default_limit must be between 1 and %d", MaxLimit)
	}
	return nil
}

func createConfigFromAppConfig(appConfig *config.Config, customConfig *Config) *Config {
	if customConfig != nil {
		return customConfig
	}

	cfg := DefaultConfig()
	if appConfig != nil {
		workerCfg := config.GetWorkerConfig(appConfig, TaskType)
		cfg.Enabled = workerCfg.Enabled
		if workerCfg.MaxJobsActive > 0 {
			cfg.MaxJobsActive = workerCfg.MaxJobsActive
		}
		if workerCfg.Timeout > 0 {
			cfg.Timeout = config.GetDuration(workerCfg.Timeout)
		}
		if limit := appConfig.Assessment.HistoryLimit; limit > 0 {
			cfg.DefaultLimit = min(limit, MaxLimit)
		}
	}
	return cfg
}
