package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputs_UnprovisionedStack(t *testing.T) {
	saveAndRestoreFactories(t)

	cfg := testConfig()
	_, out := setupStack(t, cfg)
	generatePassword = func(int) (string, error) { return "generated-password-1", nil }

	err := Outputs(context.Background(), "")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Run 'sonarup apply' first.")
}

func TestOutputs_ProvisionedStack(t *testing.T) {
	saveAndRestoreFactories(t)

	cfg := testConfig()
	_, out := setupStack(t, cfg)
	generatePassword = func(int) (string, error) { return "generated-password-1", nil }

	require.NoError(t, Apply(context.Background(), "", true))
	out.Reset()

	require.NoError(t, Outputs(context.Background(), ""))
	s := out.String()
	assert.Contains(t, s, "SonarQube URL")
	assert.Contains(t, s, "Database endpoint")
	assert.Contains(t, s, "aws secretsmanager get-secret-value")
	assert.NotContains(t, s, "Run 'sonarup apply' first.")
}
