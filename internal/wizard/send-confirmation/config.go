// internal/wizard/send-confirmation/config.go
package sendconfirmation

import "grant-portal/internal/common/config"

type Config struct {
	EmailEnabled bool
	SMSEnabled   bool
	FromEmail    string
	SenderID     string
	Subject      string
}

func LoadConfig() *Config {
	return &Config{
		Subject: DefaultSubject,
	}
}

// ConfigFromNotifications maps the service notification settings.
func ConfigFromNotifications(cfg config.NotificationConfig) *Config {
	c := LoadConfig()
	c.EmailEnabled = cfg.Email.Enabled
	c.FromEmail = cfg.Email.FromEmail
	c.SMSEnabled = cfg.SMS.Enabled
	c.SenderID = cfg.SMS.SenderID
	return c
}
