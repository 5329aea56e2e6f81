package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
)

const (
	taskExecutionPolicyARN = "arn:aws:iam::aws:policy/service-role/AmazonECSTaskExecutionRolePolicy"
	secretPolicyName       = "read-database-credentials"

	taskTrustPolicy = `{
  "Version": "2012-10-17",
  "Statement": [
    {
      "Effect": "Allow",
      "Principal": {"Service": "ecs-tasks.amazonaws.com"},
      "Action": "sts:AssumeRole"
    }
  ]
}`
)

// EnsureTaskExecutionRole ensures a role the container runtime can assume to
// pull images, ship logs, and read the database credential secret.
func (c *RealClient) EnsureTaskExecutionRole(ctx context.Context, name, secretARN string, tags map[string]string) (*Role, error) {
	role, err := c.GetRole(ctx, name)
	if err != nil {
		return nil, err
	}
	if role == nil {
		out, err := c.iam.CreateRole(ctx, &iam.CreateRoleInput{
			RoleName:                 awssdk.String(name),
			AssumeRolePolicyDocument: awssdk.String(taskTrustPolicy),
			Tags:                     iamTags(tags),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create role %s: %w", name, err)
		}
		role = &Role{ARN: awssdk.ToString(out.Role.Arn), Name: name}
	}

	_, err = c.iam.AttachRolePolicy(ctx, &iam.AttachRolePolicyInput{
		RoleName:  awssdk.String(name),
		PolicyArn: awssdk.String(taskExecutionPolicyARN),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to attach execution policy to %s: %w", name, err)
	}

	secretPolicy := fmt.Sprintf(`{
  "Version": "2012-10-17",
  "Statement": [
    {
      "Effect": "Allow",
      "Action": "secretsmanager:GetSecretValue",
      "Resource": %q
    }
  ]
}`, secretARN)
	_, err = c.iam.PutRolePolicy(ctx, &iam.PutRolePolicyInput{
		RoleName:       awssdk.String(name),
		PolicyName:     awssdk.String(secretPolicyName),
		PolicyDocument: awssdk.String(secretPolicy),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to grant secret access to %s: %w", name, err)
	}
	return role, nil
}

// GetRole returns the role by name, or nil if absent.
func (c *RealClient) GetRole(ctx context.Context, name string) (*Role, error) {
	out, err := c.iam.GetRole(ctx, &iam.GetRoleInput{RoleName: awssdk.String(name)})
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get role %s: %w", name, err)
	}
	return &Role{ARN: awssdk.ToString(out.Role.Arn), Name: name}, nil
}

// DeleteRole detaches and deletes all policies before removing the role, as
// IAM refuses to delete a role that still carries any.
func (c *RealClient) DeleteRole(ctx context.Context, name string) error {
	role, err := c.GetRole(ctx, name)
	if err != nil {
		return err
	}
	if role == nil {
		return nil
	}

	attached, err := c.iam.ListAttachedRolePolicies(ctx, &iam.ListAttachedRolePoliciesInput{
		RoleName: awssdk.String(name),
	})
	if err != nil {
		return fmt.Errorf("failed to list policies on %s: %w", name, err)
	}
	for _, p := range attached.AttachedPolicies {
		_, err = c.iam.DetachRolePolicy(ctx, &iam.DetachRolePolicyInput{
			RoleName:  awssdk.String(name),
			PolicyArn: p.PolicyArn,
		})
		if err != nil {
			return fmt.Errorf("failed to detach policy from %s: %w", name, err)
		}
	}

	inline, err := c.iam.ListRolePolicies(ctx, &iam.ListRolePoliciesInput{
		RoleName: awssdk.String(name),
	})
	if err != nil {
		return fmt.Errorf("failed to list inline policies on %s: %w", name, err)
	}
	for _, policyName := range inline.PolicyNames {
		_, err = c.iam.DeleteRolePolicy(ctx, &iam.DeleteRolePolicyInput{
			RoleName:   awssdk.String(name),
			PolicyName: awssdk.String(policyName),
		})
		if err != nil {
			return fmt.Errorf("failed to delete inline policy from %s: %w", name, err)
		}
	}

	_, err = c.iam.DeleteRole(ctx, &iam.DeleteRoleInput{RoleName: awssdk.String(name)})
	if err != nil && !IsNotFound(err) {
		return fmt.Errorf("failed to delete role %s: %w", name, err)
	}
	return nil
}

func iamTags(tags map[string]string) []iamtypes.Tag {
	var out []iamtypes.Tag
	for k, v := range tags {
		out = append(out, iamtypes.Tag{Key: awssdk.String(k), Value: awssdk.String(v)})
	}
	return out
}
