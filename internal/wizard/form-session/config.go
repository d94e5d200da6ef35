// internal/wizard/form-session/config.go
package formsession

import (
	"time"

	"grant-portal/internal/common/config"
)

type Config struct {
	ValidationMode string
	// SubmitDelay stands in for the network round trip of a submission. It
	// cannot be cut short once a submission is accepted.
	SubmitDelay   time.Duration
	SessionTTL    time.Duration
	SweepInterval time.Duration

	Now   func() time.Time
	Sleep func(time.Duration)
}

func LoadConfig() *Config {
	return &Config{
		ValidationMode: config.ValidationModeOnBlur,
		SubmitDelay:    2 * time.Second,
		SessionTTL:     time.Hour,
		SweepInterval:  time.Minute,
		Now:            time.Now,
		Sleep:          time.Sleep,
	}
}

// ConfigFromWizard builds the session config from the service settings.
func ConfigFromWizard(cfg config.WizardConfig) *Config {
	c := LoadConfig()
	if cfg.ValidationMode != "" {
		c.ValidationMode = cfg.ValidationMode
	}
	if cfg.SubmitDelay > 0 {
		c.SubmitDelay = config.GetDuration(cfg.SubmitDelay)
	}
	if cfg.SessionTTL > 0 {
		c.SessionTTL = config.GetDuration(cfg.SessionTTL)
	}
	if cfg.SweepInterval > 0 {
		c.SweepInterval = config.GetDuration(cfg.SweepInterval)
	}
	return c
}

func (c *Config) withDefaults() *Config {
	d := LoadConfig()
	out := *c
	if out.ValidationMode == "" {
		out.ValidationMode = d.ValidationMode
	}
	if out.SessionTTL <= 0 {
		out.SessionTTL = d.SessionTTL
	}
	if out.SweepInterval <= 0 {
		out.SweepInterval = d.SweepInterval
	}
	if out.Now == nil {
		out.Now = d.Now
	}
	if out.Sleep == nil {
		out.Sleep = d.Sleep
	}
	return &out
}
