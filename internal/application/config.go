package application

import (
	"time"

	"careers-api/internal/common/config"
)

const defaultFromName = "GetSetDeployed Applications"

// Config is the immutable submission configuration built at startup.
type Config struct {
	FromName string
	Username string
	Password string
	// Timeout bounds the verify and send round trips together.
	Timeout time.Duration
}

func NewConfig(cfg *config.Config) *Config {
	fromName := cfg.Mail.FromName
	if fromName == "" {
		fromName = defaultFromName
	}
	timeout := config.GetDuration(cfg.SMTP.Timeout)
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Config{
		FromName: fromName,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		Timeout:  timeout,
	}
}
