package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sonarup/sonarup/internal/engine"
	"github.com/sonarup/sonarup/internal/graph"
	"github.com/sonarup/sonarup/internal/topology"
)

func TestConfirm_Answers(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input string
		want  bool
	}{
		{"yes\n", true},
		{"YES\n", true},
		{"y\n", true},
		{"Y\n", true},
		{"  yes  \n", true},
		{"no\n", false},
		{"No\n", false},
		{"n\n", false},
		{"\n", false},
		{"maybe\n", false},
		{"", false}, // EOF
	}
	for _, tt := range tests {
		var out strings.Builder
		p := &Prompter{In: strings.NewReader(tt.input), Out: &out, Interactive: false}
		got, err := p.Confirm("Apply these changes?")
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
		assert.Contains(t, out.String(), "[yes/no]")
	}
}

func TestRenderPlan(t *testing.T) {
	t.Parallel()
	plan := &engine.Plan{
		Changes: []engine.Change{
			{
				Decl:   &graph.Declaration{Kind: "network", Name: "network"},
				Action: engine.ActionCreate,
				Diffs:  []engine.AttrDiff{{Attr: "cidr", Desired: "10.0.0.0/16"}},
			},
			{
				Decl:   &graph.Declaration{Kind: "cluster", Name: "cluster"},
				Action: engine.ActionNoop,
			},
			{
				Decl:   &graph.Declaration{Kind: "secret", Name: "credentials"},
				Action: engine.ActionUpdate,
				Diffs:  []engine.AttrDiff{{Attr: "password", Live: "(sensitive)", Desired: "(sensitive)", Sensitive: true}},
			},
		},
	}

	out := RenderPlan(plan)
	assert.Contains(t, out, "network.network")
	assert.Contains(t, out, "cidr: 10.0.0.0/16")
	assert.Contains(t, out, "secret.credentials")
	assert.Contains(t, out, "(sensitive)")
	assert.Contains(t, out, "1 to create, 1 to update, 0 to delete, 1 unchanged")
	assert.NotContains(t, out, "cluster.cluster", "noop steps are not listed")
}

func TestRenderPlan_Destroy(t *testing.T) {
	t.Parallel()
	plan := &engine.Plan{
		Destroy: true,
		Changes: []engine.Change{
			{Decl: &graph.Declaration{Kind: "service", Name: "service"}, Action: engine.ActionDelete},
		},
	}
	out := RenderPlan(plan)
	assert.Contains(t, out, "destroyed")
	assert.Contains(t, out, "0 to create, 0 to update, 1 to delete")
}

func TestRenderOutputs(t *testing.T) {
	t.Parallel()
	out := RenderOutputs(topology.Outputs{
		URL:               "http://sonar-alb-123.eu-central-1.elb.amazonaws.com",
		DatabaseEndpoint:  "sonar-db.xyz.rds.amazonaws.com:5432",
		ClusterARN:        "arn:aws:ecs:eu-central-1:123456789012:cluster/sonar",
		SecretARN:         "arn:aws:secretsmanager:eu-central-1:123456789012:secret:creds",
		CredentialCommand: "aws secretsmanager get-secret-value --secret-id creds",
	})
	assert.Contains(t, out, "SonarQube URL")
	assert.Contains(t, out, "http://sonar-alb-123")
	assert.Contains(t, out, "Retrieve the database credentials")
	assert.Contains(t, out, "get-secret-value")
}

func TestRenderStatuses(t *testing.T) {
	t.Parallel()
	out := RenderStatuses([]engine.StepStatus{
		{Name: "network", Kind: "network", Status: graph.StatusApplied},
		{Name: "database", Kind: "database", Status: graph.StatusFailed},
		{Name: "service", Kind: "service", Status: graph.StatusPending},
	})
	assert.Contains(t, out, "network.network")
	assert.Contains(t, out, "failed")
	assert.Contains(t, out, "pending")
}
