// internal/wizard/submit-application/config.go
package submitapplication

import (
	"time"

	"grant-portal/internal/common/config"
)

type Config struct {
	ReferenceStrategy string
	// MaxAttempts bounds reference regeneration when the store reports a
	// duplicate id.
	MaxAttempts     int
	ListenerTimeout time.Duration
	Now             func() time.Time
}

func LoadConfig() *Config {
	return &Config{
		ReferenceStrategy: config.ReferenceStrategyRandom,
		MaxAttempts:       5,
		ListenerTimeout:   5 * time.Second,
		Now:               time.Now,
	}
}

// ConfigFromWizard builds the pipeline config from the service settings.
func ConfigFromWizard(cfg config.WizardConfig) *Config {
	c := LoadConfig()
	if cfg.ReferenceStrategy != "" {
		c.ReferenceStrategy = cfg.ReferenceStrategy
	}
	if cfg.MaxReferenceAttempts > 0 {
		c.MaxAttempts = cfg.MaxReferenceAttempts
	}
	if cfg.ListenerTimeout > 0 {
		c.ListenerTimeout = config.GetDuration(cfg.ListenerTimeout)
	}
	return c
}
