package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sonarup/sonarup/internal/secret"
)

// FindConfigFile locates the default config file in the working directory.
func FindConfigFile() (string, error) {
	if _, err := os.Stat(DefaultFile); err != nil {
		return "", fmt.Errorf("config file %s not found", DefaultFile)
	}
	return DefaultFile, nil
}

// LoadFile reads, defaults, and validates the configuration from a YAML file.
// Environment variable overrides are applied after the file is parsed.
func LoadFile(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	if cfg.Credential.Value != "" {
		if err := secret.Valid(cfg.Credential.Value); err != nil {
			return nil, fmt.Errorf("pre-supplied credential rejected: %w", err)
		}
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}
	if cfg.Environment == "" {
		cfg.Environment = DefaultEnvironment
	}
	if cfg.Image == "" {
		cfg.Image = DefaultImage
	}
	if cfg.Network.CIDR == "" {
		cfg.Network.CIDR = DefaultVPCCIDR
	}
	if cfg.Database.InstanceClass == "" {
		cfg.Database.InstanceClass = DefaultDBInstanceClass
	}
	if cfg.Database.EngineVersion == "" {
		cfg.Database.EngineVersion = DefaultDBEngineVersion
	}
	if cfg.Database.AllocatedStorage == 0 {
		cfg.Database.AllocatedStorage = DefaultDBStorageGiB
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = DefaultDBName
	}
	if cfg.Database.Username == "" {
		cfg.Database.Username = DefaultDBUsername
	}
	if cfg.Credential.Length == 0 {
		cfg.Credential.Length = secret.DefaultLength
	}
	if cfg.Service.CPU == 0 {
		cfg.Service.CPU = DefaultCPU
	}
	if cfg.Service.MemoryMiB == 0 {
		cfg.Service.MemoryMiB = DefaultMemoryMiB
	}
	if cfg.Service.DesiredCount == 0 {
		cfg.Service.DesiredCount = DefaultDesiredCount
	}
	if cfg.LogRetentionDays == 0 {
		cfg.LogRetentionDays = DefaultLogRetentionDays
	}
}

func applyEnvOverrides(cfg *Config) {
	if region := os.Getenv(EnvRegion); region != "" {
		cfg.Region = region
	}
	if password := os.Getenv(EnvDBPassword); password != "" {
		cfg.Credential.Value = password
	}
}

// Write serializes the configuration to a YAML file. Used by init to
// scaffold a starting config. The credential value is never written out.
func Write(cfg *Config, path string) error {
	scrubbed := *cfg
	scrubbed.Credential.Value = ""

	data, err := yaml.Marshal(&scrubbed)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
