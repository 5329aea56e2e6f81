package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	ecstypes "github.com/aws/aws-sdk-go-v2/service/ecs/types"
)

// EnsureCluster ensures the Fargate cluster exists and is active.
func (c *RealClient) EnsureCluster(ctx context.Context, name string, tags map[string]string) (*Cluster, error) {
	existing, err := c.GetCluster(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	out, err := c.ecs.CreateCluster(ctx, &ecs.CreateClusterInput{
		ClusterName:       awssdk.String(name),
		CapacityProviders: []string{"FARGATE"},
		Tags:              ecsTags(tags),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create cluster %s: %w", name, err)
	}
	return &Cluster{
		ARN:    awssdk.ToString(out.Cluster.ClusterArn),
		Name:   name,
		Status: awssdk.ToString(out.Cluster.Status),
	}, nil
}

// GetCluster returns the active cluster by name, or nil if absent.
func (c *RealClient) GetCluster(ctx context.Context, name string) (*Cluster, error) {
	out, err := c.ecs.DescribeClusters(ctx, &ecs.DescribeClustersInput{
		Clusters: []string{name},
	})
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to describe cluster %s: %w", name, err)
	}
	for _, cl := range out.Clusters {
		// Deleted clusters linger as INACTIVE.
		if awssdk.ToString(cl.Status) == "INACTIVE" {
			continue
		}
		return &Cluster{
			ARN:    awssdk.ToString(cl.ClusterArn),
			Name:   name,
			Status: awssdk.ToString(cl.Status),
		}, nil
	}
	return nil, nil
}

// DeleteCluster removes the cluster if it exists.
func (c *RealClient) DeleteCluster(ctx context.Context, name string) error {
	_, err := c.ecs.DeleteCluster(ctx, &ecs.DeleteClusterInput{
		Cluster: awssdk.String(name),
	})
	if err != nil && !IsNotFound(err) {
		return fmt.Errorf("failed to delete cluster %s: %w", name, err)
	}
	return nil
}

// RegisterTaskDefinition registers a new revision. The server needs raised
// file descriptor limits, so the container definition sets nofile
// explicitly; the database password reaches the container through the
// secret store reference, never as a plain environment variable.
func (c *RealClient) RegisterTaskDefinition(ctx context.Context, opts TaskDefinitionOpts, tags map[string]string) (*TaskDefinition, error) {
	jdbcURL := fmt.Sprintf("jdbc:postgresql://%s:%s/%s", opts.DBAddress, opts.DBPort, opts.DBName)

	container := ecstypes.ContainerDefinition{
		Name:      awssdk.String(opts.Family),
		Image:     awssdk.String(opts.Image),
		Essential: awssdk.Bool(true),
		PortMappings: []ecstypes.PortMapping{{
			ContainerPort: awssdk.Int32(opts.ContainerPort),
			Protocol:      ecstypes.TransportProtocolTcp,
		}},
		Environment: []ecstypes.KeyValuePair{
			{Name: awssdk.String("SONAR_JDBC_URL"), Value: awssdk.String(jdbcURL)},
		},
		Secrets: []ecstypes.Secret{
			{Name: awssdk.String("SONAR_JDBC_USERNAME"), ValueFrom: awssdk.String(opts.SecretARN + ":username::")},
			{Name: awssdk.String("SONAR_JDBC_PASSWORD"), ValueFrom: awssdk.String(opts.SecretARN + ":password::")},
		},
		Ulimits: []ecstypes.Ulimit{{
			Name:      ecstypes.UlimitNameNofile,
			SoftLimit: 65536,
			HardLimit: 65536,
		}},
		LogConfiguration: &ecstypes.LogConfiguration{
			LogDriver: ecstypes.LogDriverAwslogs,
			Options: map[string]string{
				"awslogs-group":         opts.LogGroup,
				"awslogs-region":        opts.Region,
				"awslogs-stream-prefix": opts.Family,
			},
		},
	}

	out, err := c.ecs.RegisterTaskDefinition(ctx, &ecs.RegisterTaskDefinitionInput{
		Family:                  awssdk.String(opts.Family),
		RequiresCompatibilities: []ecstypes.Compatibility{ecstypes.CompatibilityFargate},
		NetworkMode:             ecstypes.NetworkModeAwsvpc,
		Cpu:                     awssdk.String(fmt.Sprintf("%d", opts.CPU)),
		Memory:                  awssdk.String(fmt.Sprintf("%d", opts.MemoryMiB)),
		ExecutionRoleArn:        awssdk.String(opts.ExecutionRoleARN),
		ContainerDefinitions:    []ecstypes.ContainerDefinition{container},
		Tags:                    ecsTags(tags),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register task definition %s: %w", opts.Family, err)
	}
	return taskDefinitionFromSDK(out.TaskDefinition), nil
}

// GetTaskDefinition returns the latest active revision of the family, or nil
// if none exists.
func (c *RealClient) GetTaskDefinition(ctx context.Context, family string) (*TaskDefinition, error) {
	out, err := c.ecs.DescribeTaskDefinition(ctx, &ecs.DescribeTaskDefinitionInput{
		TaskDefinition: awssdk.String(family),
	})
	if err != nil {
		if IsNotFound(err) || IsTaskDefinitionMissing(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to describe task definition %s: %w", family, err)
	}
	if out.TaskDefinition == nil || out.TaskDefinition.Status != ecstypes.TaskDefinitionStatusActive {
		return nil, nil
	}
	return taskDefinitionFromSDK(out.TaskDefinition), nil
}

// DeregisterTaskDefinition retires a single revision by ARN.
func (c *RealClient) DeregisterTaskDefinition(ctx context.Context, arn string) error {
	_, err := c.ecs.DeregisterTaskDefinition(ctx, &ecs.DeregisterTaskDefinitionInput{
		TaskDefinition: awssdk.String(arn),
	})
	if err != nil && !IsNotFound(err) && !IsTaskDefinitionMissing(err) {
		return fmt.Errorf("failed to deregister task definition %s: %w", arn, err)
	}
	return nil
}

// EnsureService creates the service, or points an existing one at the given
// task definition revision, then blocks until the deployment is stable.
func (c *RealClient) EnsureService(ctx context.Context, opts ServiceOpts, tags map[string]string) (*Service, error) {
	existing, err := c.GetService(ctx, opts.Cluster, opts.Name)
	if err != nil {
		return nil, err
	}

	networkConfig := &ecstypes.NetworkConfiguration{
		AwsvpcConfiguration: &ecstypes.AwsVpcConfiguration{
			Subnets:        opts.SubnetIDs,
			SecurityGroups: []string{opts.SecurityGroupID},
			// Public subnets without a NAT gateway, so tasks need a
			// public IP to pull the image.
			AssignPublicIp: ecstypes.AssignPublicIpEnabled,
		},
	}

	if existing == nil {
		_, err = c.ecs.CreateService(ctx, &ecs.CreateServiceInput{
			Cluster:              awssdk.String(opts.Cluster),
			ServiceName:          awssdk.String(opts.Name),
			TaskDefinition:       awssdk.String(opts.TaskDefinitionARN),
			DesiredCount:         awssdk.Int32(opts.DesiredCount),
			LaunchType:           ecstypes.LaunchTypeFargate,
			NetworkConfiguration: networkConfig,
			LoadBalancers: []ecstypes.LoadBalancer{{
				TargetGroupArn: awssdk.String(opts.TargetGroupARN),
				ContainerName:  awssdk.String(opts.ContainerName),
				ContainerPort:  awssdk.Int32(opts.ContainerPort),
			}},
			// The server takes a while to answer health checks on first
			// boot while it builds its search index.
			HealthCheckGracePeriodSeconds: awssdk.Int32(300),
			Tags:                          ecsTags(tags),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create service %s: %w", opts.Name, err)
		}
	} else if existing.TaskDefinitionARN != opts.TaskDefinitionARN || existing.DesiredCount != opts.DesiredCount {
		_, err = c.ecs.UpdateService(ctx, &ecs.UpdateServiceInput{
			Cluster:        awssdk.String(opts.Cluster),
			Service:        awssdk.String(opts.Name),
			TaskDefinition: awssdk.String(opts.TaskDefinitionARN),
			DesiredCount:   awssdk.Int32(opts.DesiredCount),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to update service %s: %w", opts.Name, err)
		}
	}

	waiter := ecs.NewServicesStableWaiter(c.ecs)
	err = waiter.Wait(ctx, &ecs.DescribeServicesInput{
		Cluster:  awssdk.String(opts.Cluster),
		Services: []string{opts.Name},
	}, c.timeouts.ServiceStable)
	if err != nil {
		return nil, fmt.Errorf("failed to wait for service %s: %w", opts.Name, err)
	}
	return c.GetService(ctx, opts.Cluster, opts.Name)
}

// GetService returns the active service, or nil if absent.
func (c *RealClient) GetService(ctx context.Context, cluster, name string) (*Service, error) {
	out, err := c.ecs.DescribeServices(ctx, &ecs.DescribeServicesInput{
		Cluster:  awssdk.String(cluster),
		Services: []string{name},
	})
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to describe service %s: %w", name, err)
	}
	for _, s := range out.Services {
		if awssdk.ToString(s.Status) == "INACTIVE" {
			continue
		}
		return &Service{
			ARN:               awssdk.ToString(s.ServiceArn),
			Name:              name,
			Status:            awssdk.ToString(s.Status),
			DesiredCount:      s.DesiredCount,
			RunningCount:      s.RunningCount,
			TaskDefinitionARN: awssdk.ToString(s.TaskDefinition),
		}, nil
	}
	return nil, nil
}

// DeleteService scales the service to zero and force-deletes it.
func (c *RealClient) DeleteService(ctx context.Context, cluster, name string) error {
	existing, err := c.GetService(ctx, cluster, name)
	if err != nil {
		return err
	}
	if existing == nil {
		return nil
	}

	_, err = c.ecs.UpdateService(ctx, &ecs.UpdateServiceInput{
		Cluster:      awssdk.String(cluster),
		Service:      awssdk.String(name),
		DesiredCount: awssdk.Int32(0),
	})
	if err != nil && !IsNotFound(err) {
		return fmt.Errorf("failed to scale down service %s: %w", name, err)
	}

	_, err = c.ecs.DeleteService(ctx, &ecs.DeleteServiceInput{
		Cluster: awssdk.String(cluster),
		Service: awssdk.String(name),
		Force:   awssdk.Bool(true),
	})
	if err != nil && !IsNotFound(err) {
		return fmt.Errorf("failed to delete service %s: %w", name, err)
	}

	waiter := ecs.NewServicesInactiveWaiter(c.ecs)
	err = waiter.Wait(ctx, &ecs.DescribeServicesInput{
		Cluster:  awssdk.String(cluster),
		Services: []string{name},
	}, c.timeouts.Delete)
	if err != nil {
		return fmt.Errorf("failed to wait for service %s deletion: %w", name, err)
	}
	return nil
}

func ecsTags(tags map[string]string) []ecstypes.Tag {
	var out []ecstypes.Tag
	for k, v := range tags {
		out = append(out, ecstypes.Tag{Key: awssdk.String(k), Value: awssdk.String(v)})
	}
	return out
}

func taskDefinitionFromSDK(td *ecstypes.TaskDefinition) *TaskDefinition {
	def := &TaskDefinition{
		ARN:      awssdk.ToString(td.TaskDefinitionArn),
		Family:   awssdk.ToString(td.Family),
		Revision: td.Revision,
	}
	if len(td.ContainerDefinitions) > 0 {
		def.Image = awssdk.ToString(td.ContainerDefinitions[0].Image)
	}
	fmt.Sscanf(awssdk.ToString(td.Cpu), "%d", &def.CPU)
	fmt.Sscanf(awssdk.ToString(td.Memory), "%d", &def.MemoryMiB)
	return def
}
