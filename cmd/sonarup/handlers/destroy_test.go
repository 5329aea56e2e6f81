package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sonarup/sonarup/internal/engine"
)

func TestDestroy_NothingProvisioned(t *testing.T) {
	saveAndRestoreFactories(t)

	cfg := testConfig()
	_, out := setupStack(t, cfg)
	generatePassword = func(int) (string, error) { return "generated-password-1", nil }

	err := Destroy(context.Background(), "", true)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Nothing to destroy.")
}

func TestDestroy_DeclinedConfirmationDeletesNothing(t *testing.T) {
	saveAndRestoreFactories(t)

	cfg := testConfig()
	mock, out := setupStack(t, cfg)
	generatePassword = func(int) (string, error) { return "generated-password-1", nil }

	require.NoError(t, Apply(context.Background(), "", true))

	confirmer := &fakeConfirmer{answer: false}
	newPrompter = func() Confirmer { return confirmer }

	err := Destroy(context.Background(), "", false)
	require.ErrorIs(t, err, engine.ErrAborted)
	assert.Contains(t, out.String(), "Destroy aborted. No changes were made.")

	db, err := mock.GetDatabase(context.Background(), "sonar-production-db")
	require.NoError(t, err)
	assert.NotNil(t, db, "declined destroy must not delete anything")
}

func TestDestroy_TearsDownTheStack(t *testing.T) {
	saveAndRestoreFactories(t)

	cfg := testConfig()
	mock, out := setupStack(t, cfg)
	generatePassword = func(int) (string, error) { return "generated-password-1", nil }

	require.NoError(t, Apply(context.Background(), "", true))
	out.Reset()

	err := Destroy(context.Background(), "", true)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Stack destroyed.")

	ctx := context.Background()
	vpc, err := mock.GetVPC(ctx, "sonar-production")
	require.NoError(t, err)
	assert.Nil(t, vpc)
	db, err := mock.GetDatabase(ctx, "sonar-production-db")
	require.NoError(t, err)
	assert.Nil(t, db)
	sec, err := mock.GetSecret(ctx, "sonar-production-credentials")
	require.NoError(t, err)
	assert.Nil(t, sec)
}
