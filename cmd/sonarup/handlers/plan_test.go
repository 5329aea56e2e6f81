package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlan_FreshEnvironmentShowsCreates(t *testing.T) {
	saveAndRestoreFactories(t)

	cfg := testConfig()
	mock, out := setupStack(t, cfg)
	generatePassword = func(int) (string, error) { return "generated-password-1", nil }

	err := Plan(context.Background(), "")
	require.NoError(t, err)

	assert.Contains(t, out.String(), "15 to create")

	vpc, err := mock.GetVPC(context.Background(), "sonar-production")
	require.NoError(t, err)
	assert.Nil(t, vpc, "plan must not mutate anything")
}

func TestPlan_ProvisionedStackReportsNoChanges(t *testing.T) {
	saveAndRestoreFactories(t)

	cfg := testConfig()
	_, out := setupStack(t, cfg)
	generatePassword = func(int) (string, error) { return "generated-password-1", nil }

	require.NoError(t, Apply(context.Background(), "", true))
	out.Reset()

	require.NoError(t, Plan(context.Background(), ""))
	assert.Contains(t, out.String(), "No changes. The stack matches the configuration.")
}
