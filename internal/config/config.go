// Package config loads and validates the sonarup stack configuration.
package config

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultFile is the config file name looked up in the working directory.
const DefaultFile = "sonarup.yaml"

// Defaults applied by Load when the file leaves fields unset.
const (
	DefaultRegion           = "eu-central-1"
	DefaultEnvironment      = "production"
	DefaultImage            = "sonarqube:lts-community"
	DefaultDBInstanceClass  = "db.t3.micro"
	DefaultDBEngineVersion  = "15"
	DefaultDBStorageGiB     = 20
	DefaultDBName           = "sonarqube"
	DefaultDBUsername       = "sonarqube"
	DefaultCPU              = 2048
	DefaultMemoryMiB        = 4096
	DefaultDesiredCount     = 1
	DefaultLogRetentionDays = 30
	DefaultVPCCIDR          = "10.0.0.0/16"
)

// Environment variables honored as overrides.
const (
	EnvRegion     = "SONARUP_REGION"
	EnvDBPassword = "SONARUP_DB_PASSWORD"
)

// Config is the full stack configuration.
type Config struct {
	// Name prefixes every provisioned resource.
	Name string `yaml:"name"`
	// Region is the AWS region the stack lives in.
	Region string `yaml:"region"`
	// Environment is tagged onto every resource and included in resource names.
	Environment string `yaml:"environment"`
	// Image is the SonarQube container image reference.
	Image string `yaml:"image"`

	Network    NetworkConfig    `yaml:"network"`
	Database   DatabaseConfig   `yaml:"database"`
	Credential CredentialConfig `yaml:"credential"`
	Service    ServiceConfig    `yaml:"service"`

	// LogRetentionDays bounds the CloudWatch log group retention.
	LogRetentionDays int `yaml:"log_retention_days"`

	// PrerequisitesCheckEnabled toggles the external tool check before
	// mutating commands. Nil means enabled.
	PrerequisitesCheckEnabled *bool `yaml:"prerequisites_check_enabled"`
}

// NetworkConfig declares the VPC shape.
type NetworkConfig struct {
	CIDR string `yaml:"cidr"`
}

// DatabaseConfig declares the managed PostgreSQL instance.
type DatabaseConfig struct {
	InstanceClass    string `yaml:"instance_class"`
	EngineVersion    string `yaml:"engine_version"`
	AllocatedStorage int    `yaml:"allocated_storage"`
	Name             string `yaml:"name"`
	Username         string `yaml:"username"`
}

// CredentialConfig controls the database master password. When Value is
// empty a password of Length characters is generated and stored in the
// secret store; a pre-supplied value is validated and stored instead.
type CredentialConfig struct {
	Value  string `yaml:"value"`
	Length int    `yaml:"length"`
}

// ServiceConfig declares the Fargate task sizing.
type ServiceConfig struct {
	CPU          int `yaml:"cpu"`
	MemoryMiB    int `yaml:"memory"`
	DesiredCount int `yaml:"desired_count"`
}

var namePattern = regexp.MustCompile(`^[a-z][a-z0-9-]{0,30}[a-z0-9]$`)

// Validate checks the configuration for values the provider would reject.
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !namePattern.MatchString(c.Name) {
		return fmt.Errorf("name %q must be lowercase alphanumeric with hyphens, 2-32 characters", c.Name)
	}
	if c.Region == "" {
		return fmt.Errorf("region is required")
	}
	if !strings.Contains(c.Region, "-") {
		return fmt.Errorf("region %q does not look like an AWS region identifier", c.Region)
	}
	if c.Database.AllocatedStorage < 20 {
		return fmt.Errorf("database allocated_storage must be at least 20 GiB, got %d", c.Database.AllocatedStorage)
	}
	if c.Service.DesiredCount < 0 {
		return fmt.Errorf("service desired_count must not be negative")
	}
	if c.Service.CPU <= 0 || c.Service.MemoryMiB <= 0 {
		return fmt.Errorf("service cpu and memory must be positive")
	}
	if c.LogRetentionDays <= 0 {
		return fmt.Errorf("log_retention_days must be positive")
	}
	return nil
}

// PrerequisitesEnabled reports whether the external tool check runs before
// mutating commands. Defaults to true.
func (c *Config) PrerequisitesEnabled() bool {
	return c.PrerequisitesCheckEnabled == nil || *c.PrerequisitesCheckEnabled
}
