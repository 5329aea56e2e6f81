package topology

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sonarup/sonarup/internal/config"
	"github.com/sonarup/sonarup/internal/engine"
	"github.com/sonarup/sonarup/internal/platform/aws"
)

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

func TestBuild_GraphIsValidAndComplete(t *testing.T) {
	t.Parallel()
	g, err := Build(testConfig(), "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, 15, g.Len())

	sorted, err := g.Sort()
	require.NoError(t, err)

	position := map[string]int{}
	for i, d := range sorted {
		position[d.Name] = i
	}
	// Every reference edge must point backwards in the sorted order.
	for _, d := range g.Declarations() {
		for _, dep := range d.Dependencies() {
			assert.Less(t, position[dep], position[d.Name],
				"%s must come after its dependency %s", d.Name, dep)
		}
	}
}

func TestBuild_PasswordIsSensitiveEverywhere(t *testing.T) {
	t.Parallel()
	g, err := Build(testConfig(), "s3cret-pass")
	require.NoError(t, err)

	assert.True(t, g.Get(DeclCredentials).IsSensitive("password"))
	assert.True(t, g.Get(DeclDatabase).IsSensitive("password"))
}

func TestStackNames(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	assert.Equal(t, "sonar-production", StackName(cfg))
	assert.Equal(t, "sonar-production-credentials", SecretName(cfg))
	assert.Equal(t, "sonar", Tags(cfg)["sonarup.io/stack"])
}

// The full provisioning round trip: plan, apply, replan empty, destroy.
func TestStack_ApplyReplanDestroy(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	client := aws.NewMockClient(cfg.Region)
	eng := engine.New(aws.Handlers(client, Tags(cfg)), engine.NopObserver{})
	ctx := context.Background()

	g, err := Build(cfg, "s3cret-pass")
	require.NoError(t, err)

	plan, err := eng.Plan(ctx, g)
	require.NoError(t, err)
	create, update, del := plan.Summary()
	assert.Equal(t, 15, create)
	assert.Zero(t, update)
	assert.Zero(t, del)

	applied, err := eng.Apply(ctx, plan)
	require.NoError(t, err)

	out := ComputeOutputs(cfg, applied)
	assert.Contains(t, out.URL, "http://")
	assert.Contains(t, out.URL, ".elb.amazonaws.com")
	assert.Contains(t, out.DatabaseEndpoint, ":5432")
	assert.NotEmpty(t, out.ClusterARN)
	assert.NotEmpty(t, out.SecretARN)
	assert.Contains(t, out.CredentialCommand, "aws secretsmanager get-secret-value")
	assert.Contains(t, out.CredentialCommand, out.SecretARN)
	assert.Contains(t, out.CredentialCommand, cfg.Region)

	// A second apply run with the same declarations changes nothing.
	replan, err := eng.Plan(ctx, g)
	require.NoError(t, err)
	assert.True(t, replan.Empty(), "unchanged stack must replan empty")

	destroyPlan, err := eng.PlanDestroy(ctx, g)
	require.NoError(t, err)
	_, err = eng.Apply(ctx, destroyPlan)
	require.NoError(t, err)

	// Nothing is left; the next plan recreates from scratch.
	freshPlan, err := eng.Plan(ctx, g)
	require.NoError(t, err)
	create, _, _ = freshPlan.Summary()
	assert.Equal(t, 15, create)
}

// A declared engine version change must plan as a database update, apply in
// place, and converge: the plan right after the upgrade is empty.
func TestStack_EngineUpgradeConverges(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	client := aws.NewMockClient(cfg.Region)
	eng := engine.New(aws.Handlers(client, Tags(cfg)), engine.NopObserver{})
	ctx := context.Background()

	g, err := Build(cfg, "s3cret-pass")
	require.NoError(t, err)
	plan, err := eng.Plan(ctx, g)
	require.NoError(t, err)
	_, err = eng.Apply(ctx, plan)
	require.NoError(t, err)

	upgraded := testConfig()
	upgraded.Database.EngineVersion = "16"
	g2, err := Build(upgraded, "s3cret-pass")
	require.NoError(t, err)

	plan2, err := eng.Plan(ctx, g2)
	require.NoError(t, err)
	var dbChange *engine.Change
	for i := range plan2.Changes {
		if plan2.Changes[i].Decl.Name == DeclDatabase {
			dbChange = &plan2.Changes[i]
		}
	}
	require.NotNil(t, dbChange)
	assert.Equal(t, engine.ActionUpdate, dbChange.Action)

	_, err = eng.Apply(ctx, plan2)
	require.NoError(t, err)

	db, err := client.GetDatabase(ctx, "sonar-production-db")
	require.NoError(t, err)
	require.NotNil(t, db)
	assert.Equal(t, "16", db.EngineVersion)

	replan, err := eng.Plan(ctx, g2)
	require.NoError(t, err)
	assert.True(t, replan.Empty(), "upgraded stack must replan empty")
}

// A password declared differently from the stored secret value must surface
// as a redacted update, never leak, and never silently recreate the secret.
func TestStack_PasswordStableAcrossApplies(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	client := aws.NewMockClient(cfg.Region)
	eng := engine.New(aws.Handlers(client, Tags(cfg)), engine.NopObserver{})
	ctx := context.Background()

	g, err := Build(cfg, "first-password")
	require.NoError(t, err)
	plan, err := eng.Plan(ctx, g)
	require.NoError(t, err)
	_, err = eng.Apply(ctx, plan)
	require.NoError(t, err)

	// Replanning with the same password stays empty.
	replan, err := eng.Plan(ctx, g)
	require.NoError(t, err)
	assert.True(t, replan.Empty())

	// A different declared password plans a credential update with every
	// rendered value redacted.
	g2, err := Build(cfg, "second-password")
	require.NoError(t, err)
	plan2, err := eng.Plan(ctx, g2)
	require.NoError(t, err)

	var credChange *engine.Change
	for i := range plan2.Changes {
		if plan2.Changes[i].Decl.Name == DeclCredentials {
			credChange = &plan2.Changes[i]
		}
	}
	require.NotNil(t, credChange)
	assert.Equal(t, engine.ActionUpdate, credChange.Action)
	for _, d := range credChange.Diffs {
		assert.NotContains(t, d.Live, "password")
		assert.NotEqual(t, "first-password", d.Live)
		assert.NotEqual(t, "second-password", d.Desired)
	}
}

func TestStack_DatabaseFailureLeavesDependentsPending(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	client := aws.NewMockClient(cfg.Region)
	client.FailWith("EnsureDatabase/sonar-production-db", assert.AnError)
	eng := engine.New(aws.Handlers(client, Tags(cfg)), engine.NopObserver{})
	ctx := context.Background()

	g, err := Build(cfg, "s3cret-pass")
	require.NoError(t, err)
	plan, err := eng.Plan(ctx, g)
	require.NoError(t, err)
	_, err = eng.Apply(ctx, plan)

	var applyErr *engine.ApplyError
	require.ErrorAs(t, err, &applyErr)
	assert.Equal(t, DeclDatabase, applyErr.Step)

	byName := map[string]engine.StepStatus{}
	for _, s := range applyErr.Statuses {
		byName[s.Name] = s
	}
	assert.Equal(t, "failed", string(byName[DeclDatabase].Status))
	assert.Equal(t, "pending", string(byName[DeclService].Status))
	assert.Equal(t, "applied", string(byName[DeclNetwork].Status))

	// The service must not exist.
	svc, err := client.GetService(ctx, "sonar-production", "sonar-production-svc")
	require.NoError(t, err)
	assert.Nil(t, svc)
}
