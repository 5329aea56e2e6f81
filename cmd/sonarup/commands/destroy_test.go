package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDestroy(t *testing.T) {
	cmd := Destroy()

	require.NotNil(t, cmd)
	assert.Equal(t, "destroy", cmd.Use)
	assert.Equal(t, "Tear down the SonarQube stack", cmd.Short)
}

func TestDestroy_Flags(t *testing.T) {
	cmd := Destroy()

	flag := cmd.Flags().Lookup("config")
	require.NotNil(t, flag)
	assert.Equal(t, "c", flag.Shorthand)

	flag = cmd.Flags().Lookup("auto-approve")
	require.NotNil(t, flag)
	assert.Equal(t, "false", flag.DefValue)
}
