// internal/wizard/start-review/config.go
package startreview

import "grant-portal/internal/common/config"

type Config struct {
	ProcessID string
}

func LoadConfig() *Config {
	return &Config{ProcessID: DefaultProcessID}
}

func ConfigFromCamunda(cfg config.CamundaConfig) *Config {
	c := LoadConfig()
	if cfg.ReviewProcessID != "" {
		c.ProcessID = cfg.ReviewProcessID
	}
	return c
}
