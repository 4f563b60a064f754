// internal/workers/disc/calculate-profile/config.go
package calculateprofile

import (
	"fmt"
	"time"

	"disc-workers/internal/common/config"
	"disc-workers/internal/disc"
)

type Config struct {
	Enabled         bool          `mapstructure:"enabled"`
	MaxJobsActive   int           `mapstructure:"max_jobs_active"`
	Timeout         time.Duration `mapstructure:"timeout"`
	FeaturedTraits  []disc.Trait  `mapstructure:"featured_traits"`
	RequireComplete bool          `mapstructure:"require_complete"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:        true,
		MaxJobsActive:  10,
		Timeout:        5 * time.Second,
		FeaturedTraits: disc.DefaultFeaturedTraits,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	for _, t := range c.FeaturedTraits {
		if !t.Valid() {
			return fmt.Errorf("featured_traits: unknown trait %q", string(t))
		}
	}
	return nil
}

func createConfigFromAppConfig(appConfig *config.Config, customConfig *Config) *Config {
	if customConfig != nil {
		return customConfig
	}

	cfg := DefaultConfig()
	if appConfig == nil {
		return cfg
	}

	workerCfg := config.GetWorkerConfig(appConfig, TaskType)
	cfg.Enabled = workerCfg.Enabled
	if workerCfg.MaxJobsActive > 0 {
		cfg.MaxJobsActive = workerCfg.MaxJobsActive
	}
	if workerCfg.Timeout > 0 {
		cfg.Timeout = config.GetDuration(workerCfg.Timeout)
	}
	if traits := appConfig.Assessment.Traits(); len(traits) > 0 {
		cfg.FeaturedTraits = traits
	}
	cfg.RequireComplete = appConfig.Assessment.RequireComplete
	return cfg
}
