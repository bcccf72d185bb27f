// Package config provides environment-variable-first configuration loading
// with optional YAML file fallback for the bulk mailer. A .env file in the
// working directory is loaded first when present.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Defaults for the relay endpoint and delivery pacing.
const (
	defaultSMTPHost   = "smtp.gmail.com"
	defaultSMTPPort   = 587
	defaultBatchSize  = 20
	defaultBatchDelay = 10 * time.Second
)

// Errors for the two required secrets. Either one missing aborts the run
// before any network activity.
var (
	ErrMissingSender   = errors.New("sender address is required (set SENDER_EMAIL)")
	ErrMissingPassword = errors.New("SMTP app password is required (set SMTP_APP_PASSWORD)")
)

// Config holds the complete application configuration.
type Config struct {
	Provider string         `yaml:"provider"`
	Sender   SenderConfig   `yaml:"sender"`
	SMTP     SMTPConfig     `yaml:"smtp"`
	SES      SESConfig      `yaml:"ses"`
	Delivery DeliveryConfig `yaml:"delivery"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// SenderConfig identifies the sending account.
type SenderConfig struct {
	Address string `yaml:"address"`
	Name    string `yaml:"name"`
}

// SMTPConfig holds relay connection parameters. The app password doubles as
// the AUTH PLAIN credential for the sender address.
type SMTPConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	AppPassword string `yaml:"app_password"`
	CAFile      string `yaml:"ca_file"`
	Insecure    bool   `yaml:"insecure"`
}

// SESConfig holds AWS SES v2 API configuration for the ses provider.
type SESConfig struct {
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

// DeliveryConfig holds batch pacing parameters for a run.
type DeliveryConfig struct {
	BatchSize  int           `yaml:"batch_size"`
	BatchDelay time.Duration `yaml:"batch_delay"`
}

// UnmarshalYAML accepts batch_delay as a duration string ("30s", "1m"),
// which yaml.v3 does not decode into time.Duration on its own. Fields left
// out of the YAML keep their defaults.
func (d *DeliveryConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		BatchSize  int    `yaml:"batch_size"`
		BatchDelay string `yaml:"batch_delay"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.BatchSize > 0 {
		d.BatchSize = raw.BatchSize
	}
	if raw.BatchDelay != "" {
		delay, err := time.ParseDuration(raw.BatchDelay)
		if err != nil {
			return fmt.Errorf("invalid batch_delay: %w", err)
		}
		d.BatchDelay = delay
	}
	return nil
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load loads configuration from environment variables with sensible
// defaults. A .env file is applied first when one exists; failure to find
// one is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.applyDefaults()
	cfg.applyEnvVars()
	return cfg, nil
}

// LoadFromFile loads configuration from a YAML file as the base layer, then
// overrides with environment variables. Returns an error if the specified
// file path does not exist.
func LoadFromFile(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.applyDefaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Environment variables always override YAML values
	cfg.applyEnvVars()

	return cfg, nil
}

// Validate checks that the selected provider has the credentials it needs.
// The smtp provider requires both secrets; ses requires a region and a
// sender; the stdout provider needs nothing.
func (c *Config) Validate() error {
	switch c.Provider {
	case "smtp":
		if c.Sender.Address == "" {
			return ErrMissingSender
		}
		if c.SMTP.AppPassword == "" {
			return ErrMissingPassword
		}
	case "ses":
		if c.Sender.Address == "" {
			return ErrMissingSender
		}
		if c.SES.Region == "" {
			return errors.New("SES region is required (set SES_REGION)")
		}
	case "stdout":
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}
	return nil
}

// applyDefaults sets sensible default values for all configuration fields.
func (c *Config) applyDefaults() {
	c.Provider = "smtp"
	c.SMTP.Host = defaultSMTPHost
	c.SMTP.Port = defaultSMTPPort
	c.Delivery.BatchSize = defaultBatchSize
	c.Delivery.BatchDelay = defaultBatchDelay
	c.Logging.Level = "info"
}

// applyEnvVars overrides configuration with environment variable values.
// Only non-empty environment variables override existing values.
func (c *Config) applyEnvVars() {
	if v := os.Getenv("PROVIDER"); v != "" {
		c.Provider = strings.ToLower(v)
	}

	if v := os.Getenv("SENDER_EMAIL"); v != "" {
		c.Sender.Address = v
	}
	if v := os.Getenv("SENDER_NAME"); v != "" {
		c.Sender.Name = v
	}

	if v := os.Getenv("SMTP_HOST"); v != "" {
		c.SMTP.Host = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.SMTP.Port = port
		}
	}
	if v := os.Getenv("SMTP_APP_PASSWORD"); v != "" {
		c.SMTP.AppPassword = v
	}
	if v := os.Getenv("SMTP_CA_FILE"); v != "" {
		c.SMTP.CAFile = v
	}
	if v := os.Getenv("SMTP_INSECURE"); v != "" {
		if insecure, err := strconv.ParseBool(v); err == nil {
			c.SMTP.Insecure = insecure
		}
	}

	if v := os.Getenv("SES_REGION"); v != "" {
		c.SES.Region = v
	}
	if v := os.Getenv("SES_ACCESS_KEY_ID"); v != "" {
		c.SES.AccessKeyID = v
	}
	if v := os.Getenv("SES_SECRET_ACCESS_KEY"); v != "" {
		c.SES.SecretAccessKey = v
	}

	if v := os.Getenv("BATCH_SIZE"); v != "" {
		if size, err := strconv.Atoi(v); err == nil && size > 0 {
			c.Delivery.BatchSize = size
		}
	}
	if v := os.Getenv("BATCH_DELAY"); v != "" {
		if delay, err := time.ParseDuration(v); err == nil && delay >= 0 {
			c.Delivery.BatchDelay = delay
		}
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
}
