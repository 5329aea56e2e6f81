package handlers

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/sonarup/sonarup/internal/config"
	"github.com/sonarup/sonarup/internal/engine"
	"github.com/sonarup/sonarup/internal/platform/aws"
	"github.com/sonarup/sonarup/internal/util/prerequisites"
)

// saveAndRestoreFactories snapshots every factory variable and restores it
// when the test finishes, so tests can inject fakes freely.
func saveAndRestoreFactories(t *testing.T) {
	t.Helper()
	origNewCloudClient := newCloudClient
	origNewPrompter := newPrompter
	origNewObserver := newObserver
	origGeneratePassword := generatePassword
	origCheckDefault := checkDefaultPrereqs
	origCheckAll := checkAllPrereqs
	origLoadConfigFile := loadConfigFile
	origFindConfigFile := findConfigFile
	origWriteConfigFile := writeConfigFile
	origStdout := stdout
	origRunInitWizard := runInitWizard
	origIsInteractive := isInteractive

	t.Cleanup(func() {
		newCloudClient = origNewCloudClient
		newPrompter = origNewPrompter
		newObserver = origNewObserver
		generatePassword = origGeneratePassword
		checkDefaultPrereqs = origCheckDefault
		checkAllPrereqs = origCheckAll
		loadConfigFile = origLoadConfigFile
		findConfigFile = origFindConfigFile
		writeConfigFile = origWriteConfigFile
		stdout = origStdout
		runInitWizard = origRunInitWizard
		isInteractive = origIsInteractive
	})
}

// fakeConfirmer answers every confirmation with a fixed decision.
type fakeConfirmer struct {
	answer bool
	err    error
	asked  int
}

func (f *fakeConfirmer) Confirm(string) (bool, error) {
	f.asked++
	return f.answer, f.err
}

func testConfig() *config.Config {
	return &config.Config{
		Name:        "sonar",
		Region:      "eu-central-1",
		Environment: "production",
		Image:       "sonarqube:lts-community",
		Network:     config.NetworkConfig{CIDR: "10.0.0.0/16"},
		Database: config.DatabaseConfig{
			InstanceClass:    "db.t3.micro",
			EngineVersion:    "15",
			AllocatedStorage: 20,
			Name:             "sonarqube",
			Username:         "sonarqube",
		},
		Service: config.ServiceConfig{
			CPU:          2048,
			MemoryMiB:    4096,
			DesiredCount: 1,
		},
		LogRetentionDays: 30,
	}
}

// setupStack wires the common fakes: a mock cloud, a loaded test config,
// passing prerequisites, a silent observer, and captured stdout. It returns
// the mock and the output buffer.
func setupStack(t *testing.T, cfg *config.Config) (*aws.MockClient, *strings.Builder) {
	t.Helper()
	mock := aws.NewMockClient(cfg.Region)
	var out strings.Builder

	newCloudClient = func(context.Context, string) (aws.CloudManager, error) {
		return mock, nil
	}
	loadConfigFile = func(string) (*config.Config, error) {
		return cfg, nil
	}
	findConfigFile = func() (string, error) {
		return "sonarup.yaml", nil
	}
	checkDefaultPrereqs = func() *prerequisites.CheckResults {
		return &prerequisites.CheckResults{}
	}
	newObserver = func() engine.Observer {
		return engine.NopObserver{}
	}
	stdout = io.Writer(&out)
	return mock, &out
}

var errBoom = errors.New("boom")
