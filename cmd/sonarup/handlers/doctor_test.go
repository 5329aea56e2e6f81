package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sonarup/sonarup/internal/config"
	"github.com/sonarup/sonarup/internal/util/prerequisites"
)

func TestDoctor_HealthyEnvironment(t *testing.T) {
	saveAndRestoreFactories(t)

	cfg := testConfig()
	_, out := setupStack(t, cfg)
	checkAllPrereqs = func() *prerequisites.CheckResults {
		return &prerequisites.CheckResults{Results: []prerequisites.CheckResult{
			{Tool: prerequisites.Tool{Name: "aws", Required: true}, Found: true, Version: "2.17.0"},
			{Tool: prerequisites.Tool{Name: "psql"}, Found: true, Version: "15.4"},
		}}
	}

	err := Doctor(context.Background(), "")
	require.NoError(t, err)
	s := out.String()
	assert.Contains(t, s, `[ ok ] configuration: stack "sonar" in eu-central-1`)
	assert.Contains(t, s, "[ ok ] tool aws (2.17.0)")
	assert.Contains(t, s, "[ ok ] AWS credentials: arn:aws:iam::123456789012:user/tester")
	assert.Contains(t, s, "Everything looks good.")
}

func TestDoctor_ReportsEveryFailure(t *testing.T) {
	saveAndRestoreFactories(t)

	cfg := testConfig()
	mock, out := setupStack(t, cfg)
	mock.FailWith("CallerIdentity/", errors.New("no credential provider found"))
	checkAllPrereqs = func() *prerequisites.CheckResults {
		return &prerequisites.CheckResults{Results: []prerequisites.CheckResult{
			{Tool: prerequisites.Tool{Name: "aws", Required: true, InstallURL: "https://aws.amazon.com/cli/"}, Found: false},
			{Tool: prerequisites.Tool{Name: "psql", Description: "Useful for connecting to the managed database directly"}, Found: false},
		}}
	}

	err := Doctor(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "environment is not ready")

	s := out.String()
	assert.Contains(t, s, "[fail] tool aws missing")
	assert.Contains(t, s, "[warn] optional tool psql missing")
	assert.Contains(t, s, "[fail] AWS credentials")
}

func TestDoctor_BrokenConfigStillChecksTools(t *testing.T) {
	saveAndRestoreFactories(t)

	_, out := setupStack(t, testConfig())
	loadConfigFile = func(string) (*config.Config, error) {
		return nil, errors.New("yaml: invalid field")
	}
	checkAllPrereqs = func() *prerequisites.CheckResults {
		return &prerequisites.CheckResults{Results: []prerequisites.CheckResult{
			{Tool: prerequisites.Tool{Name: "aws", Required: true}, Found: true, Version: "2.17.0"},
		}}
	}

	err := Doctor(context.Background(), "")
	require.Error(t, err)
	s := out.String()
	assert.Contains(t, s, "[fail] configuration")
	assert.Contains(t, s, "[ ok ] tool aws")
}
