package handlers

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sonarup/sonarup/internal/config"
)

func TestInit_WritesConfigFromFlags(t *testing.T) {
	saveAndRestoreFactories(t)

	var out strings.Builder
	stdout = io.Writer(&out)

	var written *config.Config
	var writtenPath string
	writeConfigFile = func(cfg *config.Config, path string) error {
		written = cfg
		writtenPath = path
		return nil
	}

	path := filepath.Join(t.TempDir(), "sonarup.yaml")
	err := Init(context.Background(), path, "myteam", "eu-west-1")
	require.NoError(t, err)

	require.NotNil(t, written)
	assert.Equal(t, path, writtenPath)
	assert.Equal(t, "myteam", written.Name)
	assert.Equal(t, "eu-west-1", written.Region)
	assert.Equal(t, config.DefaultImage, written.Image)
	assert.NoError(t, written.Validate())
	assert.Contains(t, out.String(), "Next steps:")
}

func TestInit_RefusesToOverwrite(t *testing.T) {
	saveAndRestoreFactories(t)

	path := filepath.Join(t.TempDir(), "sonarup.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: existing\n"), 0o644))

	writeConfigFile = func(*config.Config, string) error {
		t.Fatal("must not touch an existing file")
		return nil
	}

	err := Init(context.Background(), path, "myteam", "eu-west-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestInit_NoTerminalRequiresFlags(t *testing.T) {
	saveAndRestoreFactories(t)

	isInteractive = func() bool { return false }

	path := filepath.Join(t.TempDir(), "sonarup.yaml")
	err := Init(context.Background(), path, "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pass --name and --region")
}

func TestInit_WizardFillsMissingFields(t *testing.T) {
	saveAndRestoreFactories(t)

	var out strings.Builder
	stdout = io.Writer(&out)
	isInteractive = func() bool { return true }
	runInitWizard = func(name, region *string) error {
		*name = "wizard-stack"
		*region = "us-east-1"
		return nil
	}

	var written *config.Config
	writeConfigFile = func(cfg *config.Config, path string) error {
		written = cfg
		return nil
	}

	path := filepath.Join(t.TempDir(), "sonarup.yaml")
	require.NoError(t, Init(context.Background(), path, "", ""))
	require.NotNil(t, written)
	assert.Equal(t, "wizard-stack", written.Name)
	assert.Equal(t, "us-east-1", written.Region)
}

func TestInit_RejectsInvalidName(t *testing.T) {
	saveAndRestoreFactories(t)

	writeConfigFile = func(*config.Config, string) error {
		t.Fatal("invalid config must not be written")
		return nil
	}

	path := filepath.Join(t.TempDir(), "sonarup.yaml")
	err := Init(context.Background(), path, "Not_Valid", "eu-west-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}
