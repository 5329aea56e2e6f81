package aws

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetworkHandler_CreateProducesSubnetOutputs(t *testing.T) {
	t.Parallel()
	client := NewMockClient("eu-central-1")
	h := Handlers(client, nil)[KindNetwork]
	ctx := context.Background()

	out, err := h.Create(ctx, nil, map[string]string{"name": "sonar-prod", "cidr": "10.0.0.0/16"})
	require.NoError(t, err)
	assert.NotEmpty(t, out["vpc_id"])
	assert.Len(t, splitIDs(out["public_subnet_ids"]), 2)
	assert.Len(t, splitIDs(out["private_subnet_ids"]), 2)

	live, found, err := h.Describe(ctx, nil, map[string]string{"name": "sonar-prod"})
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, out["vpc_id"], live["vpc_id"])
}

func TestSecretHandler_CreateOnceKeepsStoredValue(t *testing.T) {
	t.Parallel()
	client := NewMockClient("eu-central-1")
	h := Handlers(client, nil)[KindSecret]
	ctx := context.Background()

	attrs := map[string]string{"name": "sonar-prod-credentials", "username": "sonarqube", "password": "first-password"}
	out, err := h.Create(ctx, nil, attrs)
	require.NoError(t, err)
	assert.NotEmpty(t, out["secret_arn"])

	// A second create with a different password must not overwrite the
	// stored credential.
	attrs["password"] = "second-password"
	_, err = h.Create(ctx, nil, attrs)
	require.NoError(t, err)

	live, found, err := h.Describe(ctx, nil, map[string]string{"name": "sonar-prod-credentials"})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "first-password", live["password"])
	assert.Equal(t, "sonarqube", live["username"])
}

func TestSecretHandler_UpdateRotatesValue(t *testing.T) {
	t.Parallel()
	client := NewMockClient("eu-central-1")
	h := Handlers(client, nil)[KindSecret]
	ctx := context.Background()

	attrs := map[string]string{"name": "creds", "username": "sonarqube", "password": "old"}
	_, err := h.Create(ctx, nil, attrs)
	require.NoError(t, err)

	attrs["password"] = "new"
	_, err = h.Update(ctx, nil, attrs)
	require.NoError(t, err)

	live, _, err := h.Describe(ctx, nil, map[string]string{"name": "creds"})
	require.NoError(t, err)
	assert.Equal(t, "new", live["password"])
}

func TestDatabaseHandler_DescribeOmitsPassword(t *testing.T) {
	t.Parallel()
	client := NewMockClient("eu-central-1")
	h := Handlers(client, nil)[KindDatabase]
	ctx := context.Background()

	attrs := map[string]string{
		"name": "sonar-prod-db", "engine_version": "15", "instance_class": "db.t3.micro",
		"allocated_storage": "20", "db_name": "sonarqube", "username": "sonarqube",
		"password": "supersecret", "subnet_group": "sg", "sg_id": "sg-1",
	}
	out, err := h.Create(ctx, nil, attrs)
	require.NoError(t, err)
	assert.NotEmpty(t, out["endpoint"])
	assert.NotContains(t, out, "password")

	live, found, err := h.Describe(ctx, nil, attrs)
	require.NoError(t, err)
	require.True(t, found)
	assert.NotContains(t, live, "password")
	assert.Equal(t, "15", live["engine_version"])
}

func TestListenerHandler_UnresolvedLoadBalancerIsNotFound(t *testing.T) {
	t.Parallel()
	client := NewMockClient("eu-central-1")
	h := Handlers(client, nil)[KindListener]

	// lb_arn references a load balancer that does not exist yet, so the
	// attribute is absent entirely.
	_, found, err := h.Describe(context.Background(), nil, map[string]string{"port": "80"})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestServiceHandler_UpdateRollsTaskDefinition(t *testing.T) {
	t.Parallel()
	client := NewMockClient("eu-central-1")
	h := Handlers(client, nil)[KindService]
	ctx := context.Background()

	attrs := map[string]string{
		"name": "sonar-prod-svc", "cluster": "sonar-prod", "task_definition": "arn:td:1",
		"desired_count": "1", "subnet_ids": "subnet-1,subnet-2", "sg_id": "sg-1",
		"target_group_arn": "arn:tg", "container_name": "sonarqube", "container_port": "9000",
	}
	_, err := h.Create(ctx, nil, attrs)
	require.NoError(t, err)

	attrs["task_definition"] = "arn:td:2"
	out, err := h.Update(ctx, nil, attrs)
	require.NoError(t, err)
	assert.Equal(t, "arn:td:2", out["task_definition"])
}

func TestMockClient_FailWith(t *testing.T) {
	t.Parallel()
	client := NewMockClient("eu-central-1")
	boom := errors.New("quota exceeded")
	client.FailWith("EnsureDatabase/sonar-prod-db", boom)

	_, err := client.EnsureDatabase(context.Background(), DatabaseOpts{Identifier: "sonar-prod-db"}, nil)
	assert.ErrorIs(t, err, boom)
}

func TestTaskDefinitionHandler_EachRegisterBumpsRevision(t *testing.T) {
	t.Parallel()
	client := NewMockClient("eu-central-1")
	h := Handlers(client, nil)[KindTaskDefinition]
	ctx := context.Background()

	attrs := map[string]string{
		"name": "sonar-prod", "image": "sonarqube:lts-community", "cpu": "2048", "memory": "4096",
		"execution_role_arn": "arn:role", "log_group": "/ecs/sonar-prod",
		"container_port": "9000", "db_address": "db.local", "db_port": "5432",
		"db_name": "sonarqube", "secret_arn": "arn:secret",
	}
	first, err := h.Create(ctx, nil, attrs)
	require.NoError(t, err)
	second, err := h.Update(ctx, nil, attrs)
	require.NoError(t, err)
	assert.NotEqual(t, first["task_definition_arn"], second["task_definition_arn"])
}
