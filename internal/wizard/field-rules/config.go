// internal/wizard/field-rules/config.go
package fieldrules

import "time"

type Config struct {
	// Now supplies the clock used for the "not in the future" year check.
	Now func() time.Time
}

func LoadConfig() *Config {
	return &Config{
		Now: time.Now,
	}
}
