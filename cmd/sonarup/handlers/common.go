// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command
// definitions in the commands package. Handlers are framework-agnostic and
// can be tested independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/sonarup/sonarup/internal/config"
	"github.com/sonarup/sonarup/internal/engine"
	"github.com/sonarup/sonarup/internal/graph"
	"github.com/sonarup/sonarup/internal/platform/aws"
	"github.com/sonarup/sonarup/internal/secret"
	"github.com/sonarup/sonarup/internal/topology"
	"github.com/sonarup/sonarup/internal/ui"
	"github.com/sonarup/sonarup/internal/util/prerequisites"
)

// Confirmer asks the operator yes/no questions - matches ui.Prompter.
type Confirmer interface {
	Confirm(question string) (bool, error)
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// newCloudClient creates the AWS client for the configured region.
	newCloudClient = func(ctx context.Context, region string) (aws.CloudManager, error) {
		return aws.NewRealClient(ctx, region)
	}

	// newPrompter creates the confirmation prompter.
	newPrompter = func() Confirmer {
		return ui.NewPrompter()
	}

	// newObserver creates the progress observer for apply runs.
	newObserver = func() engine.Observer {
		return engine.NewConsoleObserver()
	}

	// generatePassword creates a random database password.
	generatePassword = secret.GeneratePassword

	// checkDefaultPrereqs runs prerequisite checks.
	checkDefaultPrereqs = prerequisites.CheckDefault

	// checkAllPrereqs runs prerequisite checks including optional tools.
	checkAllPrereqs = prerequisites.CheckAll

	// loadConfigFile loads config from file (for testing injection).
	loadConfigFile = config.LoadFile

	// findConfigFile finds the default config file (for testing injection).
	findConfigFile = config.FindConfigFile

	// writeConfigFile persists a config file (for testing injection).
	writeConfigFile = config.Write

	// stdout is where user-facing output goes (for testing injection).
	stdout io.Writer = os.Stdout
)

// loadConfig loads and validates the stack configuration. If configPath is
// empty, it looks for sonarup.yaml in the current directory.
func loadConfig(configPath string) (*config.Config, error) {
	if configPath == "" {
		path, err := findConfigFile()
		if err != nil {
			return nil, fmt.Errorf("no config file found: %w\nRun 'sonarup init' to create one", err)
		}
		configPath = path
	}

	cfg, err := loadConfigFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// checkPrerequisites verifies required client tools are available. Enabled
// by default, can be disabled via prerequisites_check_enabled: false.
func checkPrerequisites(cfg *config.Config) error {
	if !cfg.PrerequisitesEnabled() {
		return nil
	}

	log.Println("Checking prerequisites...")
	results := checkDefaultPrereqs()
	for _, r := range results.Results {
		if r.Found {
			version := r.Version
			if version == "" {
				version = "unknown version"
			}
			log.Printf("  Found %s (%s)", r.Tool.Name, version)
		}
	}
	if err := results.Error(); err != nil {
		return fmt.Errorf("prerequisites check failed: %w", err)
	}
	return nil
}

// authenticate confirms the AWS credential chain produces a usable identity.
// It is the first provider call every mutating command makes.
func authenticate(ctx context.Context, client aws.CloudManager) error {
	identity, err := client.CallerIdentity(ctx)
	if err != nil {
		return fmt.Errorf("not authenticated against AWS: %w\nConfigure credentials via environment, shared config, or an instance profile", err)
	}
	log.Printf("Authenticated as %s (account %s)", identity.ARN, identity.Account)
	return nil
}

// resolvePassword determines the database master password without ever
// rotating an existing one by accident. Precedence:
//
//  1. A pre-supplied password from config or SONARUP_DB_PASSWORD.
//  2. The password already stored in the secret store.
//  3. A freshly generated one, stored on first apply.
func resolvePassword(ctx context.Context, client aws.CloudManager, cfg *config.Config) (string, error) {
	if cfg.Credential.Value != "" {
		return cfg.Credential.Value, nil
	}

	name := topology.SecretName(cfg)
	existing, err := client.GetSecret(ctx, name)
	if err != nil {
		return "", fmt.Errorf("failed to look up credential secret: %w", err)
	}
	if existing != nil {
		raw, err := client.GetSecretValue(ctx, name)
		if err != nil {
			return "", fmt.Errorf("failed to read credential secret: %w", err)
		}
		cred, err := secret.ParseCredential(raw)
		if err != nil {
			return "", fmt.Errorf("secret %s: %w", name, err)
		}
		return cred.Password, nil
	}

	length := cfg.Credential.Length
	if length == 0 {
		length = secret.DefaultLength
	}
	password, err := generatePassword(length)
	if err != nil {
		return "", fmt.Errorf("failed to generate password: %w", err)
	}
	return password, nil
}

// buildStack assembles the client, engine, and declaration graph for the
// config. It authenticates before anything else so a missing credential
// chain fails fast.
func buildStack(ctx context.Context, cfg *config.Config) (*engine.Engine, *graph.Graph, error) {
	client, err := newCloudClient(ctx, cfg.Region)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize AWS client: %w", err)
	}
	if err := authenticate(ctx, client); err != nil {
		return nil, nil, err
	}

	password, err := resolvePassword(ctx, client, cfg)
	if err != nil {
		return nil, nil, err
	}

	g, err := topology.Build(cfg, password)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid stack topology: %w", err)
	}

	eng := engine.New(aws.Handlers(client, topology.Tags(cfg)), newObserver())
	return eng, g, nil
}
