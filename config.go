package avela

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// Config is the flat credentials file the vendor distributes to customers
// (config.json). The quota fields are optional overrides of the default
// 100 requests per 300s.
type Config struct {
	ClientID          string `json:"client_id"`
	ClientSecret      string `json:"client_secret"`
	Environment       string `json:"environment"`
	RequestsPerPeriod int    `json:"requests_per_period,omitempty"`
	PeriodSeconds     int    `json:"period_seconds,omitempty"`
}

// LoadConfig reads and parses a config.json file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// NewFromConfig builds a client from a Config value. All missing required
// fields are reported together so a broken config surfaces in one pass.
// Options take precedence over the config's quota fields.
func NewFromConfig(cfg Config, opts ...Option) (*Client, error) {
	var missing []error
	if cfg.ClientID == "" {
		missing = append(missing, ErrMissingClientID)
	}
	if cfg.ClientSecret == "" {
		missing = append(missing, ErrMissingClientSecret)
	}
	if cfg.Environment == "" {
		missing = append(missing, ErrMissingEnvironment)
	}
	if len(missing) > 0 {
		return nil, errors.Join(missing...)
	}

	if cfg.RequestsPerPeriod > 0 || cfg.PeriodSeconds > 0 {
		quota := WithRateQuota(cfg.RequestsPerPeriod, time.Duration(cfg.PeriodSeconds)*time.Second)
		opts = append([]Option{quota}, opts...)
	}

	return New(Environment(cfg.Environment), cfg.ClientID, cfg.ClientSecret, opts...)
}
