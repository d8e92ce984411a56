package utils

import "testing"

// TestDefaultConfig tests that the default configuration is valid
func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if err := config.Validate(); err != nil {
		t.Errorf("DefaultConfig() is invalid: %v", err)
	}
	if config.LogMaxRows != 20 {
		t.Errorf("LogMaxRows = %d, expected 20", config.LogMaxRows)
	}
	if config.HashFunction != "sha3" {
		t.Errorf("HashFunction = %s, expected sha3", config.HashFunction)
	}
}

// TestConfigValidate tests configuration validation
func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"default", func(c *Config) {}, false},
		{"zero log max rows", func(c *Config) { c.LogMaxRows = 0 }, true},
		{"log max rows too large", func(c *Config) { c.LogMaxRows = 31 }, true},
		{"zero blowup", func(c *Config) { c.LogBlowupFactor = 0 }, true},
		{"blowup too large", func(c *Config) { c.LogBlowupFactor = 9 }, true},
		{"zero queries", func(c *Config) { c.NumQueries = 0 }, true},
		{"negative queries", func(c *Config) { c.NumQueries = -1 }, true},
		{"sha256 hash", func(c *Config) { c.HashFunction = "sha256" }, false},
		{"unknown hash", func(c *Config) { c.HashFunction = "blake3" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.modify(config)
			err := config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestConfigFluentSetters tests the With* setters
func TestConfigFluentSetters(t *testing.T) {
	config := DefaultConfig().
		WithLogMaxRows(10).
		WithLogBlowupFactor(2).
		WithNumQueries(16).
		WithHashFunction("sha256")

	if config.LogMaxRows != 10 {
		t.Errorf("LogMaxRows = %d, expected 10", config.LogMaxRows)
	}
	if config.LogBlowupFactor != 2 {
		t.Errorf("LogBlowupFactor = %d, expected 2", config.LogBlowupFactor)
	}
	if config.NumQueries != 16 {
		t.Errorf("NumQueries = %d, expected 16", config.NumQueries)
	}
	if config.HashFunction != "sha256" {
		t.Errorf("HashFunction = %s, expected sha256", config.HashFunction)
	}
}

// TestConfigClone tests that Clone produces an independent copy
func TestConfigClone(t *testing.T) {
	original := DefaultConfig()
	clone := original.Clone()

	clone.LogMaxRows = 5
	if original.LogMaxRows == 5 {
		t.Error("modifying the clone changed the original")
	}
}

// TestMaxDomainLogSize tests the domain bound derivation
func TestMaxDomainLogSize(t *testing.T) {
	config := DefaultConfig().WithLogMaxRows(10).WithLogBlowupFactor(2)
	if got := config.MaxDomainLogSize(); got != 14 {
		t.Errorf("MaxDomainLogSize() = %d, expected 14", got)
	}
}
