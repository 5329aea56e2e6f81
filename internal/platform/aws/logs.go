package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
)

// EnsureLogGroup ensures the log group exists with the given retention.
func (c *RealClient) EnsureLogGroup(ctx context.Context, name string, retentionDays int32, tags map[string]string) (*LogGroup, error) {
	existing, err := c.GetLogGroup(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		_, err = c.logs.CreateLogGroup(ctx, &cloudwatchlogs.CreateLogGroupInput{
			LogGroupName: awssdk.String(name),
			Tags:         tags,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create log group %s: %w", name, err)
		}
		existing = &LogGroup{Name: name}
	}

	if existing.RetentionDays != retentionDays {
		_, err = c.logs.PutRetentionPolicy(ctx, &cloudwatchlogs.PutRetentionPolicyInput{
			LogGroupName:    awssdk.String(name),
			RetentionInDays: awssdk.Int32(retentionDays),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to set retention on log group %s: %w", name, err)
		}
	}
	return &LogGroup{Name: name, RetentionDays: retentionDays}, nil
}

// GetLogGroup returns the log group by exact name, or nil if absent.
func (c *RealClient) GetLogGroup(ctx context.Context, name string) (*LogGroup, error) {
	out, err := c.logs.DescribeLogGroups(ctx, &cloudwatchlogs.DescribeLogGroupsInput{
		LogGroupNamePrefix: awssdk.String(name),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe log group %s: %w", name, err)
	}
	for _, g := range out.LogGroups {
		if awssdk.ToString(g.LogGroupName) == name {
			return &LogGroup{
				Name:          name,
				RetentionDays: awssdk.ToInt32(g.RetentionInDays),
			}, nil
		}
	}
	return nil, nil
}

// DeleteLogGroup removes the log group and its streams if it exists.
func (c *RealClient) DeleteLogGroup(ctx context.Context, name string) error {
	_, err := c.logs.DeleteLogGroup(ctx, &cloudwatchlogs.DeleteLogGroupInput{
		LogGroupName: awssdk.String(name),
	})
	if err != nil && !IsNotFound(err) {
		return fmt.Errorf("failed to delete log group %s: %w", name, err)
	}
	return nil
}
