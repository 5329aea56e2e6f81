package aws

import (
	"context"
	"fmt"
	"net"
	"sort"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// Subnet tier tag applied so subnets can be recovered on later runs.
const (
	tagTier     = "sonarup.io/tier"
	tierPublic  = "public"
	tierPrivate = "private"
)

// subnetCIDR carves a /24 out of the VPC's /16 by setting the third octet.
func subnetCIDR(vpcCIDR string, octet int) (string, error) {
	ip, ipNet, err := net.ParseCIDR(vpcCIDR)
	if err != nil {
		return "", fmt.Errorf("invalid VPC CIDR %q: %w", vpcCIDR, err)
	}
	ones, _ := ipNet.Mask.Size()
	if ones != 16 {
		return "", fmt.Errorf("VPC CIDR must be a /16, got %q", vpcCIDR)
	}
	v4 := ip.To4()
	if v4 == nil {
		return "", fmt.Errorf("VPC CIDR must be IPv4, got %q", vpcCIDR)
	}
	return fmt.Sprintf("%d.%d.%d.0/24", v4[0], v4[1], octet), nil
}

// EnsureVPC ensures the named VPC exists with two public and two private
// subnets, an internet gateway, and a public route table.
func (c *RealClient) EnsureVPC(ctx context.Context, name, cidr string, tags map[string]string) (*VPC, error) {
	existing, err := c.GetVPC(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.CIDR != cidr {
			return nil, fmt.Errorf("VPC %s exists but with different CIDR %s (expected %s)",
				name, existing.CIDR, cidr)
		}
		return existing, nil
	}

	createOut, err := c.ec2.CreateVpc(ctx, &ec2.CreateVpcInput{
		CidrBlock: awssdk.String(cidr),
		TagSpecifications: []ec2types.TagSpecification{
			tagSpec(ec2types.ResourceTypeVpc, name, tags),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create VPC: %w", err)
	}
	vpcID := awssdk.ToString(createOut.Vpc.VpcId)

	waiter := ec2.NewVpcAvailableWaiter(c.ec2)
	if err := waiter.Wait(ctx, &ec2.DescribeVpcsInput{VpcIds: []string{vpcID}}, c.timeouts.Delete); err != nil {
		return nil, fmt.Errorf("failed to wait for VPC %s: %w", vpcID, err)
	}

	// DNS hostnames are required for the database endpoint to resolve
	// inside the VPC.
	_, err = c.ec2.ModifyVpcAttribute(ctx, &ec2.ModifyVpcAttributeInput{
		VpcId:              awssdk.String(vpcID),
		EnableDnsHostnames: &ec2types.AttributeBooleanValue{Value: awssdk.Bool(true)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to enable DNS hostnames: %w", err)
	}

	zones, err := c.availabilityZones(ctx)
	if err != nil {
		return nil, err
	}

	vpc := &VPC{ID: vpcID, Name: name, CIDR: cidr}
	for i := 0; i < 2; i++ {
		subnetID, err := c.createSubnet(ctx, vpc, name, cidr, i, zones[i], tierPublic, tags)
		if err != nil {
			return nil, err
		}
		vpc.PublicSubnetIDs = append(vpc.PublicSubnetIDs, subnetID)
	}
	for i := 0; i < 2; i++ {
		subnetID, err := c.createSubnet(ctx, vpc, name, cidr, 10+i, zones[i], tierPrivate, tags)
		if err != nil {
			return nil, err
		}
		vpc.PrivateSubnetIDs = append(vpc.PrivateSubnetIDs, subnetID)
	}

	if err := c.wireInternetAccess(ctx, vpc, name, tags); err != nil {
		return nil, err
	}
	return vpc, nil
}

func (c *RealClient) availabilityZones(ctx context.Context) ([]string, error) {
	out, err := c.ec2.DescribeAvailabilityZones(ctx, &ec2.DescribeAvailabilityZonesInput{
		Filters: []ec2types.Filter{{
			Name:   awssdk.String("state"),
			Values: []string{"available"},
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list availability zones: %w", err)
	}
	var zones []string
	for _, az := range out.AvailabilityZones {
		zones = append(zones, awssdk.ToString(az.ZoneName))
	}
	sort.Strings(zones)
	if len(zones) < 2 {
		return nil, fmt.Errorf("region %s has fewer than two availability zones", c.region)
	}
	return zones, nil
}

func (c *RealClient) createSubnet(ctx context.Context, vpc *VPC, name, vpcCIDR string, octet int, zone, tier string, tags map[string]string) (string, error) {
	cidr, err := subnetCIDR(vpcCIDR, octet)
	if err != nil {
		return "", err
	}

	withTier := map[string]string{tagTier: tier}
	for k, v := range tags {
		withTier[k] = v
	}
	out, err := c.ec2.CreateSubnet(ctx, &ec2.CreateSubnetInput{
		VpcId:            awssdk.String(vpc.ID),
		CidrBlock:        awssdk.String(cidr),
		AvailabilityZone: awssdk.String(zone),
		TagSpecifications: []ec2types.TagSpecification{
			tagSpec(ec2types.ResourceTypeSubnet, fmt.Sprintf("%s-%s-%s", name, tier, zone), withTier),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create %s subnet in %s: %w", tier, zone, err)
	}
	subnetID := awssdk.ToString(out.Subnet.SubnetId)

	if tier == tierPublic {
		_, err = c.ec2.ModifySubnetAttribute(ctx, &ec2.ModifySubnetAttributeInput{
			SubnetId:            awssdk.String(subnetID),
			MapPublicIpOnLaunch: &ec2types.AttributeBooleanValue{Value: awssdk.Bool(true)},
		})
		if err != nil {
			return "", fmt.Errorf("failed to enable public IPs on subnet %s: %w", subnetID, err)
		}
	}
	return subnetID, nil
}

// wireInternetAccess attaches an internet gateway and routes the public
// subnets through it.
func (c *RealClient) wireInternetAccess(ctx context.Context, vpc *VPC, name string, tags map[string]string) error {
	igwOut, err := c.ec2.CreateInternetGateway(ctx, &ec2.CreateInternetGatewayInput{
		TagSpecifications: []ec2types.TagSpecification{
			tagSpec(ec2types.ResourceTypeInternetGateway, name+"-igw", tags),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create internet gateway: %w", err)
	}
	igwID := awssdk.ToString(igwOut.InternetGateway.InternetGatewayId)

	_, err = c.ec2.AttachInternetGateway(ctx, &ec2.AttachInternetGatewayInput{
		InternetGatewayId: awssdk.String(igwID),
		VpcId:             awssdk.String(vpc.ID),
	})
	if err != nil {
		return fmt.Errorf("failed to attach internet gateway: %w", err)
	}

	rtOut, err := c.ec2.CreateRouteTable(ctx, &ec2.CreateRouteTableInput{
		VpcId: awssdk.String(vpc.ID),
		TagSpecifications: []ec2types.TagSpecification{
			tagSpec(ec2types.ResourceTypeRouteTable, name+"-public", tags),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create route table: %w", err)
	}
	rtID := awssdk.ToString(rtOut.RouteTable.RouteTableId)

	_, err = c.ec2.CreateRoute(ctx, &ec2.CreateRouteInput{
		RouteTableId:         awssdk.String(rtID),
		DestinationCidrBlock: awssdk.String("0.0.0.0/0"),
		GatewayId:            awssdk.String(igwID),
	})
	if err != nil {
		return fmt.Errorf("failed to create default route: %w", err)
	}

	for _, subnetID := range vpc.PublicSubnetIDs {
		_, err = c.ec2.AssociateRouteTable(ctx, &ec2.AssociateRouteTableInput{
			RouteTableId: awssdk.String(rtID),
			SubnetId:     awssdk.String(subnetID),
		})
		if err != nil {
			return fmt.Errorf("failed to associate route table with subnet %s: %w", subnetID, err)
		}
	}
	return nil
}

// GetVPC returns the VPC tagged with the given name, or nil if absent.
func (c *RealClient) GetVPC(ctx context.Context, name string) (*VPC, error) {
	out, err := c.ec2.DescribeVpcs(ctx, &ec2.DescribeVpcsInput{
		Filters: []ec2types.Filter{{
			Name:   awssdk.String("tag:Name"),
			Values: []string{name},
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe VPCs: %w", err)
	}
	if len(out.Vpcs) == 0 {
		return nil, nil
	}
	v := out.Vpcs[0]
	vpc := &VPC{
		ID:   awssdk.ToString(v.VpcId),
		Name: name,
		CIDR: awssdk.ToString(v.CidrBlock),
	}

	subnets, err := c.ec2.DescribeSubnets(ctx, &ec2.DescribeSubnetsInput{
		Filters: []ec2types.Filter{{
			Name:   awssdk.String("vpc-id"),
			Values: []string{vpc.ID},
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe subnets: %w", err)
	}
	for _, s := range subnets.Subnets {
		id := awssdk.ToString(s.SubnetId)
		switch subnetTag(s.Tags, tagTier) {
		case tierPublic:
			vpc.PublicSubnetIDs = append(vpc.PublicSubnetIDs, id)
		case tierPrivate:
			vpc.PrivateSubnetIDs = append(vpc.PrivateSubnetIDs, id)
		}
	}
	sort.Strings(vpc.PublicSubnetIDs)
	sort.Strings(vpc.PrivateSubnetIDs)
	return vpc, nil
}

// DeleteVPC removes the VPC and everything created by EnsureVPC, in reverse
// order: route tables, internet gateway, subnets, then the VPC itself.
func (c *RealClient) DeleteVPC(ctx context.Context, name string) error {
	vpc, err := c.GetVPC(ctx, name)
	if err != nil {
		return err
	}
	if vpc == nil {
		return nil
	}

	// Non-main route tables.
	rts, err := c.ec2.DescribeRouteTables(ctx, &ec2.DescribeRouteTablesInput{
		Filters: []ec2types.Filter{{
			Name:   awssdk.String("vpc-id"),
			Values: []string{vpc.ID},
		}},
	})
	if err != nil {
		return fmt.Errorf("failed to describe route tables: %w", err)
	}
	for _, rt := range rts.RouteTables {
		main := false
		for _, assoc := range rt.Associations {
			if awssdk.ToBool(assoc.Main) {
				main = true
				continue
			}
			_, err = c.ec2.DisassociateRouteTable(ctx, &ec2.DisassociateRouteTableInput{
				AssociationId: assoc.RouteTableAssociationId,
			})
			if err != nil {
				return fmt.Errorf("failed to disassociate route table: %w", err)
			}
		}
		if main {
			continue
		}
		_, err = c.ec2.DeleteRouteTable(ctx, &ec2.DeleteRouteTableInput{RouteTableId: rt.RouteTableId})
		if err != nil {
			return fmt.Errorf("failed to delete route table: %w", err)
		}
	}

	igws, err := c.ec2.DescribeInternetGateways(ctx, &ec2.DescribeInternetGatewaysInput{
		Filters: []ec2types.Filter{{
			Name:   awssdk.String("attachment.vpc-id"),
			Values: []string{vpc.ID},
		}},
	})
	if err != nil {
		return fmt.Errorf("failed to describe internet gateways: %w", err)
	}
	for _, igw := range igws.InternetGateways {
		err = c.withRetry(ctx, func() error {
			_, err := c.ec2.DetachInternetGateway(ctx, &ec2.DetachInternetGatewayInput{
				InternetGatewayId: igw.InternetGatewayId,
				VpcId:             awssdk.String(vpc.ID),
			})
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to detach internet gateway: %w", err)
		}
		_, err = c.ec2.DeleteInternetGateway(ctx, &ec2.DeleteInternetGatewayInput{
			InternetGatewayId: igw.InternetGatewayId,
		})
		if err != nil {
			return fmt.Errorf("failed to delete internet gateway: %w", err)
		}
	}

	for _, subnetID := range append(vpc.PublicSubnetIDs, vpc.PrivateSubnetIDs...) {
		subnetID := subnetID
		err = c.withRetry(ctx, func() error {
			_, err := c.ec2.DeleteSubnet(ctx, &ec2.DeleteSubnetInput{SubnetId: awssdk.String(subnetID)})
			return err
		})
		if err != nil && !IsNotFound(err) {
			return fmt.Errorf("failed to delete subnet %s: %w", subnetID, err)
		}
	}

	err = c.withRetry(ctx, func() error {
		_, err := c.ec2.DeleteVpc(ctx, &ec2.DeleteVpcInput{VpcId: awssdk.String(vpc.ID)})
		return err
	})
	if err != nil && !IsNotFound(err) {
		return fmt.Errorf("failed to delete VPC: %w", err)
	}
	return nil
}

func tagSpec(resourceType ec2types.ResourceType, name string, tags map[string]string) ec2types.TagSpecification {
	ec2Tags := []ec2types.Tag{{Key: awssdk.String("Name"), Value: awssdk.String(name)}}
	for k, v := range tags {
		if k == "Name" {
			continue
		}
		ec2Tags = append(ec2Tags, ec2types.Tag{Key: awssdk.String(k), Value: awssdk.String(v)})
	}
	return ec2types.TagSpecification{ResourceType: resourceType, Tags: ec2Tags}
}

func subnetTag(tags []ec2types.Tag, key string) string {
	for _, t := range tags {
		if awssdk.ToString(t.Key) == key {
			return awssdk.ToString(t.Value)
		}
	}
	return ""
}
