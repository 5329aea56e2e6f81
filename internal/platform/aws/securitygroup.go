package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// EnsureSecurityGroup ensures a security group with the given single ingress
// rule exists in the VPC. The rule allows either a CIDR range or traffic from
// another security group, never both.
func (c *RealClient) EnsureSecurityGroup(ctx context.Context, name, vpcID string, rule IngressRule, tags map[string]string) (*SecurityGroup, error) {
	existing, err := c.GetSecurityGroup(ctx, name, vpcID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	createOut, err := c.ec2.CreateSecurityGroup(ctx, &ec2.CreateSecurityGroupInput{
		GroupName:   awssdk.String(name),
		Description: awssdk.String(rule.Description),
		VpcId:       awssdk.String(vpcID),
		TagSpecifications: []ec2types.TagSpecification{
			tagSpec(ec2types.ResourceTypeSecurityGroup, name, tags),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create security group %s: %w", name, err)
	}
	groupID := awssdk.ToString(createOut.GroupId)

	perm := ec2types.IpPermission{
		IpProtocol: awssdk.String(rule.Protocol),
		FromPort:   awssdk.Int32(rule.Port),
		ToPort:     awssdk.Int32(rule.Port),
	}
	if rule.SourceGroupID != "" {
		perm.UserIdGroupPairs = []ec2types.UserIdGroupPair{{
			GroupId:     awssdk.String(rule.SourceGroupID),
			Description: awssdk.String(rule.Description),
		}}
	} else {
		perm.IpRanges = []ec2types.IpRange{{
			CidrIp:      awssdk.String(rule.CIDR),
			Description: awssdk.String(rule.Description),
		}}
	}
	_, err = c.ec2.AuthorizeSecurityGroupIngress(ctx, &ec2.AuthorizeSecurityGroupIngressInput{
		GroupId:       awssdk.String(groupID),
		IpPermissions: []ec2types.IpPermission{perm},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to authorize ingress on %s: %w", name, err)
	}

	return &SecurityGroup{ID: groupID, Name: name, VPCID: vpcID, Rule: rule}, nil
}

// GetSecurityGroup returns the named security group in the VPC, or nil if
// absent.
func (c *RealClient) GetSecurityGroup(ctx context.Context, name, vpcID string) (*SecurityGroup, error) {
	out, err := c.ec2.DescribeSecurityGroups(ctx, &ec2.DescribeSecurityGroupsInput{
		Filters: []ec2types.Filter{
			{Name: awssdk.String("group-name"), Values: []string{name}},
			{Name: awssdk.String("vpc-id"), Values: []string{vpcID}},
		},
	})
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to describe security group %s: %w", name, err)
	}
	if len(out.SecurityGroups) == 0 {
		return nil, nil
	}
	g := out.SecurityGroups[0]
	sg := &SecurityGroup{
		ID:    awssdk.ToString(g.GroupId),
		Name:  name,
		VPCID: vpcID,
	}
	if len(g.IpPermissions) > 0 {
		p := g.IpPermissions[0]
		sg.Rule = IngressRule{
			Port:     awssdk.ToInt32(p.FromPort),
			Protocol: awssdk.ToString(p.IpProtocol),
		}
		if len(p.IpRanges) > 0 {
			sg.Rule.CIDR = awssdk.ToString(p.IpRanges[0].CidrIp)
			sg.Rule.Description = awssdk.ToString(p.IpRanges[0].Description)
		}
		if len(p.UserIdGroupPairs) > 0 {
			sg.Rule.SourceGroupID = awssdk.ToString(p.UserIdGroupPairs[0].GroupId)
			sg.Rule.Description = awssdk.ToString(p.UserIdGroupPairs[0].Description)
		}
	}
	return sg, nil
}

// DeleteSecurityGroup removes the named security group if it exists.
func (c *RealClient) DeleteSecurityGroup(ctx context.Context, name, vpcID string) error {
	sg, err := c.GetSecurityGroup(ctx, name, vpcID)
	if err != nil {
		return err
	}
	if sg == nil {
		return nil
	}
	err = c.withRetry(ctx, func() error {
		_, err := c.ec2.DeleteSecurityGroup(ctx, &ec2.DeleteSecurityGroupInput{
			GroupId: awssdk.String(sg.ID),
		})
		return err
	})
	if err != nil && !IsNotFound(err) {
		return fmt.Errorf("failed to delete security group %s: %w", name, err)
	}
	return nil
}
