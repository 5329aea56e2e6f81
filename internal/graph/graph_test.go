package graph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdd_DuplicateName(t *testing.T) {
	t.Parallel()
	g := New()
	require.NoError(t, g.Add(&Declaration{Kind: "network", Name: "vpc"}))
	err := g.Add(&Declaration{Kind: "network", Name: "vpc"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestAdd_EmptyName(t *testing.T) {
	t.Parallel()
	g := New()
	assert.Error(t, g.Add(&Declaration{Kind: "network"}))
}

func TestDependencies_DeduplicatedAndSorted(t *testing.T) {
	t.Parallel()
	d := &Declaration{
		Kind: "service",
		Name: "svc",
		Attrs: map[string]Value{
			"cluster": RefTo("cluster", "name"),
			"task":    RefTo("task", "arn"),
			"subnets": RefTo("network", "subnet_ids"),
			"sg":      RefTo("network", "sg_id"),
			"count":   Lit("1"),
		},
	}
	assert.Equal(t, []string{"cluster", "network", "task"}, d.Dependencies())
}

func TestValidate_UnknownReference(t *testing.T) {
	t.Parallel()
	g := New()
	require.NoError(t, g.Add(&Declaration{
		Kind:  "database",
		Name:  "db",
		Attrs: map[string]Value{"vpc_id": RefTo("network", "vpc_id")},
	}))
	err := g.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown declaration")
}

func TestResolve_LiteralsAndRefs(t *testing.T) {
	t.Parallel()
	d := &Declaration{
		Kind: "database",
		Name: "db",
		Attrs: map[string]Value{
			"engine":   Lit("postgres"),
			"password": RefTo("credentials", "password"),
		},
	}
	outputs := map[string]map[string]string{
		"credentials": {"password": "s3cret"},
	}

	resolved, err := Resolve(d, outputs)
	require.NoError(t, err)
	assert.Equal(t, "postgres", resolved["engine"])
	assert.Equal(t, "s3cret", resolved["password"])
}

func TestResolve_MissingDependencyOutput(t *testing.T) {
	t.Parallel()
	d := &Declaration{
		Kind:  "database",
		Name:  "db",
		Attrs: map[string]Value{"password": RefTo("credentials", "password")},
	}

	_, err := Resolve(d, map[string]map[string]string{})
	var unresolved *UnresolvedRefError
	require.True(t, errors.As(err, &unresolved))
	assert.Equal(t, "db", unresolved.Decl)
	assert.Equal(t, "credentials", unresolved.Ref.Decl)

	// Dependency applied but attribute absent is the same failure.
	_, err = Resolve(d, map[string]map[string]string{"credentials": {}})
	assert.True(t, errors.As(err, &unresolved))
}

func TestIsSensitive(t *testing.T) {
	t.Parallel()
	d := &Declaration{
		Kind:      "secret",
		Name:      "credentials",
		Attrs:     map[string]Value{"password": Lit("s3cret")},
		Sensitive: map[string]bool{"password": true},
	}
	assert.True(t, d.IsSensitive("password"))
	assert.False(t, d.IsSensitive("username"))
}
