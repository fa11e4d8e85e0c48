package avela

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{
		"client_id": "cid",
		"client_secret": "csecret",
		"environment": "qa",
		"requests_per_period": 50,
		"period_seconds": 60
	}`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.ClientID != "cid" || cfg.ClientSecret != "csecret" || cfg.Environment != "qa" {
		t.Errorf("LoadConfig() = %+v", cfg)
	}
	if cfg.RequestsPerPeriod != 50 || cfg.PeriodSeconds != 60 {
		t.Errorf("quota fields = %d/%d, want 50/60", cfg.RequestsPerPeriod, cfg.PeriodSeconds)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("LoadConfig() error = nil, want error for missing file")
	}
}

func TestLoadConfig_MalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{not json`), 0600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("LoadConfig() error = nil, want parse error")
	}
}

func TestNewFromConfig(t *testing.T) {
	c, err := NewFromConfig(Config{
		ClientID:          "cid",
		ClientSecret:      "csecret",
		Environment:       "qa",
		RequestsPerPeriod: 10,
		PeriodSeconds:     10,
	})
	if err != nil {
		t.Fatalf("NewFromConfig() error = %v", err)
	}

	if c.Environment() != EnvQA {
		t.Errorf("Environment() = %q, want qa", c.Environment())
	}
	// Quota from the config: 10 per 10s plus the 10% buffer.
	if got := c.api.Interval(); got != 1100*time.Millisecond {
		t.Errorf("pacing interval = %v, want 1.1s", got)
	}
}

func TestNewFromConfig_ReportsAllMissingFields(t *testing.T) {
	_, err := NewFromConfig(Config{})
	if err == nil {
		t.Fatal("NewFromConfig() error = nil, want validation error")
	}

	for _, sentinel := range []error{ErrMissingClientID, ErrMissingClientSecret, ErrMissingEnvironment} {
		if !errors.Is(err, sentinel) {
			t.Errorf("error should match %v", sentinel)
		}
	}
}

func TestNewFromConfig_OptionsWinOverConfig(t *testing.T) {
	c, err := NewFromConfig(Config{
		ClientID:          "cid",
		ClientSecret:      "csecret",
		Environment:       "qa",
		RequestsPerPeriod: 10,
		PeriodSeconds:     10,
	}, WithRateQuota(100, 10*time.Second))
	if err != nil {
		t.Fatalf("NewFromConfig() error = %v", err)
	}

	// The explicit option overrides the config quota: 100 per 10s → 110ms.
	if got := c.api.Interval(); got != 110*time.Millisecond {
		t.Errorf("pacing interval = %v, want 110ms", got)
	}
}
