package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	smtypes "github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
)

// EnsureSecret creates the secret with the given value only if it does not
// exist yet. An existing secret keeps its stored value untouched, which is
// what makes generated credentials stable across runs.
func (c *RealClient) EnsureSecret(ctx context.Context, name, value string, tags map[string]string) (*Secret, error) {
	existing, err := c.GetSecret(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	out, err := c.secrets.CreateSecret(ctx, &secretsmanager.CreateSecretInput{
		Name:         awssdk.String(name),
		SecretString: awssdk.String(value),
		Tags:         smTags(tags),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create secret %s: %w", name, err)
	}
	return &Secret{
		ARN:     awssdk.ToString(out.ARN),
		Name:    name,
		Version: awssdk.ToString(out.VersionId),
	}, nil
}

// GetSecret returns secret metadata by name, or nil if absent.
func (c *RealClient) GetSecret(ctx context.Context, name string) (*Secret, error) {
	out, err := c.secrets.DescribeSecret(ctx, &secretsmanager.DescribeSecretInput{
		SecretId: awssdk.String(name),
	})
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to describe secret %s: %w", name, err)
	}
	// A secret scheduled for deletion still describes. Treat it as gone so
	// a fresh apply recreates it rather than resurrecting stale credentials.
	if out.DeletedDate != nil {
		return nil, nil
	}
	return &Secret{
		ARN:  awssdk.ToString(out.ARN),
		Name: name,
	}, nil
}

// GetSecretValue returns the current secret string.
func (c *RealClient) GetSecretValue(ctx context.Context, name string) (string, error) {
	out, err := c.secrets.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: awssdk.String(name),
	})
	if err != nil {
		return "", fmt.Errorf("failed to read secret %s: %w", name, err)
	}
	return awssdk.ToString(out.SecretString), nil
}

// UpdateSecretValue stores a new value as a new version of the secret.
func (c *RealClient) UpdateSecretValue(ctx context.Context, name, value string) (*Secret, error) {
	out, err := c.secrets.PutSecretValue(ctx, &secretsmanager.PutSecretValueInput{
		SecretId:     awssdk.String(name),
		SecretString: awssdk.String(value),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update secret %s: %w", name, err)
	}
	return &Secret{
		ARN:     awssdk.ToString(out.ARN),
		Name:    name,
		Version: awssdk.ToString(out.VersionId),
	}, nil
}

// DeleteSecret removes the secret immediately, without a recovery window.
func (c *RealClient) DeleteSecret(ctx context.Context, name string) error {
	_, err := c.secrets.DeleteSecret(ctx, &secretsmanager.DeleteSecretInput{
		SecretId:                   awssdk.String(name),
		ForceDeleteWithoutRecovery: awssdk.Bool(true),
	})
	if err != nil && !IsNotFound(err) {
		return fmt.Errorf("failed to delete secret %s: %w", name, err)
	}
	return nil
}

func smTags(tags map[string]string) []smtypes.Tag {
	var out []smtypes.Tag
	for k, v := range tags {
		out = append(out, smtypes.Tag{Key: awssdk.String(k), Value: awssdk.String(v)})
	}
	return out
}
