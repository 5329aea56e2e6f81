package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	elb "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	elbtypes "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"
)

// EnsureLoadBalancer ensures an internet-facing application load balancer
// exists across the given subnets and blocks until it is active.
func (c *RealClient) EnsureLoadBalancer(ctx context.Context, name string, subnetIDs []string, securityGroupID string, tags map[string]string) (*LoadBalancer, error) {
	existing, err := c.GetLoadBalancer(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		out, err := c.elb.CreateLoadBalancer(ctx, &elb.CreateLoadBalancerInput{
			Name:           awssdk.String(name),
			Type:           elbtypes.LoadBalancerTypeEnumApplication,
			Scheme:         elbtypes.LoadBalancerSchemeEnumInternetFacing,
			IpAddressType:  elbtypes.IpAddressTypeIpv4,
			Subnets:        subnetIDs,
			SecurityGroups: []string{securityGroupID},
			Tags:           elbTags(tags),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create load balancer %s: %w", name, err)
		}
		if len(out.LoadBalancers) == 0 {
			return nil, fmt.Errorf("load balancer %s creation returned no description", name)
		}
		existing = loadBalancerFromSDK(out.LoadBalancers[0], name)
	}

	waiter := elb.NewLoadBalancerAvailableWaiter(c.elb)
	err = waiter.Wait(ctx, &elb.DescribeLoadBalancersInput{
		LoadBalancerArns: []string{existing.ARN},
	}, c.timeouts.ServiceStable)
	if err != nil {
		return nil, fmt.Errorf("failed to wait for load balancer %s: %w", name, err)
	}
	return c.GetLoadBalancer(ctx, name)
}

// GetLoadBalancer returns the load balancer by name, or nil if absent.
func (c *RealClient) GetLoadBalancer(ctx context.Context, name string) (*LoadBalancer, error) {
	out, err := c.elb.DescribeLoadBalancers(ctx, &elb.DescribeLoadBalancersInput{
		Names: []string{name},
	})
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to describe load balancer %s: %w", name, err)
	}
	if len(out.LoadBalancers) == 0 {
		return nil, nil
	}
	return loadBalancerFromSDK(out.LoadBalancers[0], name), nil
}

// DeleteLoadBalancer removes the load balancer if it exists.
func (c *RealClient) DeleteLoadBalancer(ctx context.Context, name string) error {
	lb, err := c.GetLoadBalancer(ctx, name)
	if err != nil {
		return err
	}
	if lb == nil {
		return nil
	}
	_, err = c.elb.DeleteLoadBalancer(ctx, &elb.DeleteLoadBalancerInput{
		LoadBalancerArn: awssdk.String(lb.ARN),
	})
	if err != nil && !IsNotFound(err) {
		return fmt.Errorf("failed to delete load balancer %s: %w", name, err)
	}
	return nil
}

// EnsureTargetGroup ensures an IP-target group with an HTTP health check
// against the server's status endpoint.
func (c *RealClient) EnsureTargetGroup(ctx context.Context, opts TargetGroupOpts, tags map[string]string) (*TargetGroup, error) {
	existing, err := c.GetTargetGroup(ctx, opts.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	out, err := c.elb.CreateTargetGroup(ctx, &elb.CreateTargetGroupInput{
		Name:                awssdk.String(opts.Name),
		VpcId:               awssdk.String(opts.VPCID),
		Port:                awssdk.Int32(opts.Port),
		Protocol:            elbtypes.ProtocolEnumHttp,
		TargetType:          elbtypes.TargetTypeEnumIp,
		HealthCheckPath:     awssdk.String(opts.HealthCheckPath),
		HealthCheckProtocol: elbtypes.ProtocolEnumHttp,
		Matcher:             &elbtypes.Matcher{HttpCode: awssdk.String(opts.HealthCheckMatcher)},
		Tags:                elbTags(tags),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create target group %s: %w", opts.Name, err)
	}
	if len(out.TargetGroups) == 0 {
		return nil, fmt.Errorf("target group %s creation returned no description", opts.Name)
	}
	return targetGroupFromSDK(out.TargetGroups[0]), nil
}

// GetTargetGroup returns the target group by name, or nil if absent.
func (c *RealClient) GetTargetGroup(ctx context.Context, name string) (*TargetGroup, error) {
	out, err := c.elb.DescribeTargetGroups(ctx, &elb.DescribeTargetGroupsInput{
		Names: []string{name},
	})
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to describe target group %s: %w", name, err)
	}
	if len(out.TargetGroups) == 0 {
		return nil, nil
	}
	return targetGroupFromSDK(out.TargetGroups[0]), nil
}

// DeleteTargetGroup removes the target group if it exists.
func (c *RealClient) DeleteTargetGroup(ctx context.Context, name string) error {
	tg, err := c.GetTargetGroup(ctx, name)
	if err != nil {
		return err
	}
	if tg == nil {
		return nil
	}
	_, err = c.elb.DeleteTargetGroup(ctx, &elb.DeleteTargetGroupInput{
		TargetGroupArn: awssdk.String(tg.ARN),
	})
	if err != nil && !IsNotFound(err) {
		return fmt.Errorf("failed to delete target group %s: %w", name, err)
	}
	return nil
}

// EnsureListener ensures an HTTP listener forwarding the given port to the
// target group.
func (c *RealClient) EnsureListener(ctx context.Context, lbARN string, port int32, targetGroupARN string) (*Listener, error) {
	existing, err := c.GetListener(ctx, lbARN, port)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	out, err := c.elb.CreateListener(ctx, &elb.CreateListenerInput{
		LoadBalancerArn: awssdk.String(lbARN),
		Port:            awssdk.Int32(port),
		Protocol:        elbtypes.ProtocolEnumHttp,
		DefaultActions: []elbtypes.Action{{
			Type:           elbtypes.ActionTypeEnumForward,
			TargetGroupArn: awssdk.String(targetGroupARN),
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create listener on port %d: %w", port, err)
	}
	if len(out.Listeners) == 0 {
		return nil, fmt.Errorf("listener creation on port %d returned no description", port)
	}
	return &Listener{ARN: awssdk.ToString(out.Listeners[0].ListenerArn), Port: port}, nil
}

// GetListener returns the listener on the given port, or nil if absent.
func (c *RealClient) GetListener(ctx context.Context, lbARN string, port int32) (*Listener, error) {
	out, err := c.elb.DescribeListeners(ctx, &elb.DescribeListenersInput{
		LoadBalancerArn: awssdk.String(lbARN),
	})
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to describe listeners: %w", err)
	}
	for _, l := range out.Listeners {
		if awssdk.ToInt32(l.Port) == port {
			return &Listener{ARN: awssdk.ToString(l.ListenerArn), Port: port}, nil
		}
	}
	return nil, nil
}

// DeleteListener removes the listener on the given port if it exists.
func (c *RealClient) DeleteListener(ctx context.Context, lbARN string, port int32) error {
	listener, err := c.GetListener(ctx, lbARN, port)
	if err != nil {
		return err
	}
	if listener == nil {
		return nil
	}
	_, err = c.elb.DeleteListener(ctx, &elb.DeleteListenerInput{
		ListenerArn: awssdk.String(listener.ARN),
	})
	if err != nil && !IsNotFound(err) {
		return fmt.Errorf("failed to delete listener on port %d: %w", port, err)
	}
	return nil
}

func elbTags(tags map[string]string) []elbtypes.Tag {
	var out []elbtypes.Tag
	for k, v := range tags {
		out = append(out, elbtypes.Tag{Key: awssdk.String(k), Value: awssdk.String(v)})
	}
	return out
}

func loadBalancerFromSDK(lb elbtypes.LoadBalancer, name string) *LoadBalancer {
	out := &LoadBalancer{
		ARN:     awssdk.ToString(lb.LoadBalancerArn),
		Name:    name,
		DNSName: awssdk.ToString(lb.DNSName),
	}
	if lb.State != nil {
		out.State = string(lb.State.Code)
	}
	return out
}

func targetGroupFromSDK(tg elbtypes.TargetGroup) *TargetGroup {
	out := &TargetGroup{
		ARN:             awssdk.ToString(tg.TargetGroupArn),
		Name:            awssdk.ToString(tg.TargetGroupName),
		Port:            awssdk.ToInt32(tg.Port),
		HealthCheckPath: awssdk.ToString(tg.HealthCheckPath),
	}
	if tg.Matcher != nil {
		out.HealthCheckMatcher = awssdk.ToString(tg.Matcher.HttpCode)
	}
	return out
}
