package mailer

import (
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/cv-agent/internal/config"
)

var validate = validator.New()

// DefaultPort is the SMTP submission port used when none is configured.
const DefaultPort = 587

// DefaultTimeout bounds each SMTP dial and send.
const DefaultTimeout = 30 * time.Second

// SMTPConfig holds the settings for the outbound mail channel.
type SMTPConfig struct {
	Host     string        `json:"host" validate:"required,hostname|ip"`
	Port     int           `json:"port" validate:"required,min=1,max=65535"`
	Username string        `json:"username"`
	Password string        `json:"password"`
	From     string        `json:"from" validate:"required,email"`
	Timeout  time.Duration `json:"-"`
}

// Validate checks that the configuration is complete enough to send mail
func (c *SMTPConfig) Validate() error {
	return validate.Struct(c)
}

// IsEmpty reports whether no SMTP settings were provided at all. An empty
// configuration is the normal "channel disabled" state rather than an error.
func (c *SMTPConfig) IsEmpty() bool {
	return c.Host == "" && c.Username == "" && c.From == ""
}

// FromEnv builds an SMTPConfig from the application config with environment
// overrides. Environment variables win over config file values.
func FromEnv(cfg *config.Config) SMTPConfig {
	smtp := SMTPConfig{
		Port:    DefaultPort,
		Timeout: DefaultTimeout,
	}
	if cfg != nil {
		smtp.Host = cfg.SMTPHost
		if cfg.SMTPPort != 0 {
			smtp.Port = cfg.SMTPPort
		}
		smtp.Username = cfg.SMTPUsername
		smtp.Password = cfg.SMTPPassword
		smtp.From = cfg.SMTPFrom
	}

	smtp.Host = envOrDefault("SMTP_HOST", smtp.Host)
	smtp.Port = envOrDefaultInt("SMTP_PORT", smtp.Port)
	smtp.Username = envOrDefault("SMTP_USERNAME", smtp.Username)
	smtp.Password = envOrDefault("SMTP_PASSWORD", smtp.Password)
	smtp.From = envOrDefault("SMTP_FROM", smtp.From)

	return smtp
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envOrDefaultInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}
