package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sonarup/sonarup/internal/engine"
	"github.com/sonarup/sonarup/internal/secret"
	"github.com/sonarup/sonarup/internal/topology"
)

func TestLoadConfig_NoFileSuggestsInit(t *testing.T) {
	saveAndRestoreFactories(t)

	findConfigFile = func() (string, error) {
		return "", errors.New("no sonarup.yaml in the current directory")
	}

	_, err := loadConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sonarup init")
}

func TestApply_DeclinedConfirmationMutatesNothing(t *testing.T) {
	saveAndRestoreFactories(t)

	cfg := testConfig()
	mock, out := setupStack(t, cfg)
	generatePassword = func(int) (string, error) { return "generated-password-1", nil }

	confirmer := &fakeConfirmer{answer: false}
	newPrompter = func() Confirmer { return confirmer }

	err := Apply(context.Background(), "", false)
	require.ErrorIs(t, err, engine.ErrAborted)
	assert.Equal(t, 1, confirmer.asked)
	assert.Contains(t, out.String(), "Apply aborted. No changes were made.")

	vpc, err := mock.GetVPC(context.Background(), topology.StackName(cfg))
	require.NoError(t, err)
	assert.Nil(t, vpc, "declined apply must not create anything")
}

func TestApply_AutoApproveProvisionsTheStack(t *testing.T) {
	saveAndRestoreFactories(t)

	cfg := testConfig()
	mock, out := setupStack(t, cfg)
	generatePassword = func(int) (string, error) { return "generated-password-1", nil }

	newPrompter = func() Confirmer {
		t.Fatal("auto-approve must not prompt")
		return nil
	}

	err := Apply(context.Background(), "", true)
	require.NoError(t, err)

	ctx := context.Background()
	vpc, err := mock.GetVPC(ctx, "sonar-production")
	require.NoError(t, err)
	require.NotNil(t, vpc)

	db, err := mock.GetDatabase(ctx, "sonar-production-db")
	require.NoError(t, err)
	require.NotNil(t, db)

	raw, err := mock.GetSecretValue(ctx, "sonar-production-credentials")
	require.NoError(t, err)
	cred, err := secret.ParseCredential(raw)
	require.NoError(t, err)
	assert.Equal(t, "sonarqube", cred.Username)
	assert.Equal(t, "generated-password-1", cred.Password)

	assert.Contains(t, out.String(), "SonarQube URL")
	assert.Contains(t, out.String(), "aws secretsmanager get-secret-value")
}

func TestApply_SecondRunReportsNoChanges(t *testing.T) {
	saveAndRestoreFactories(t)

	cfg := testConfig()
	_, out := setupStack(t, cfg)
	generatePassword = func(int) (string, error) { return "generated-password-1", nil }

	require.NoError(t, Apply(context.Background(), "", true))
	out.Reset()

	require.NoError(t, Apply(context.Background(), "", true))
	assert.Contains(t, out.String(), "No changes. The stack matches the configuration.")
	assert.Contains(t, out.String(), "SonarQube URL")
}

func TestApply_ReusesStoredPassword(t *testing.T) {
	saveAndRestoreFactories(t)

	cfg := testConfig()
	mock, _ := setupStack(t, cfg)

	// A previous apply already stored credentials. They must survive any
	// number of later applies untouched.
	stored, err := secret.Credential{Username: "sonarqube", Password: "stored-password-1"}.Marshal()
	require.NoError(t, err)
	_, err = mock.EnsureSecret(context.Background(), "sonar-production-credentials", stored, nil)
	require.NoError(t, err)

	generatePassword = func(int) (string, error) {
		t.Fatal("password must come from the stored secret, not the generator")
		return "", nil
	}

	require.NoError(t, Apply(context.Background(), "", true))

	raw, err := mock.GetSecretValue(context.Background(), "sonar-production-credentials")
	require.NoError(t, err)
	cred, err := secret.ParseCredential(raw)
	require.NoError(t, err)
	assert.Equal(t, "stored-password-1", cred.Password)
}

func TestApply_FailedStepReportsStatuses(t *testing.T) {
	saveAndRestoreFactories(t)

	cfg := testConfig()
	mock, out := setupStack(t, cfg)
	generatePassword = func(int) (string, error) { return "generated-password-1", nil }

	mock.FailWith("EnsureDatabase/sonar-production-db", errBoom)

	err := Apply(context.Background(), "", true)
	require.Error(t, err)

	var applyErr *engine.ApplyError
	require.ErrorAs(t, err, &applyErr)
	assert.Equal(t, topology.DeclDatabase, applyErr.Step)
	assert.Contains(t, out.String(), "Re-run 'sonarup apply' to continue from the failed step.")

	// Resources before the database exist, the service after it does not.
	vpc, err := mock.GetVPC(context.Background(), "sonar-production")
	require.NoError(t, err)
	assert.NotNil(t, vpc)
	svc, err := mock.GetService(context.Background(), "sonar-production", "sonar-production-svc")
	require.NoError(t, err)
	assert.Nil(t, svc)
}

func TestApply_AuthenticationFailureBeforeAnyMutation(t *testing.T) {
	saveAndRestoreFactories(t)

	cfg := testConfig()
	mock, _ := setupStack(t, cfg)
	mock.FailWith("CallerIdentity/", errBoom)

	err := Apply(context.Background(), "", true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not authenticated against AWS")

	vpc, err := mock.GetVPC(context.Background(), "sonar-production")
	require.NoError(t, err)
	assert.Nil(t, vpc)
}
