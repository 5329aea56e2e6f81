package aws

import (
	"context"
	"fmt"
	"strings"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	rdstypes "github.com/aws/aws-sdk-go-v2/service/rds/types"
)

// EnsureDBSubnetGroup ensures the named subnet group exists.
func (c *RealClient) EnsureDBSubnetGroup(ctx context.Context, name string, subnetIDs []string, tags map[string]string) (*DBSubnetGroup, error) {
	existing, err := c.GetDBSubnetGroup(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	_, err = c.rds.CreateDBSubnetGroup(ctx, &rds.CreateDBSubnetGroupInput{
		DBSubnetGroupName:        awssdk.String(name),
		DBSubnetGroupDescription: awssdk.String("Database subnets for " + name),
		SubnetIds:                subnetIDs,
		Tags:                     rdsTags(tags),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create DB subnet group %s: %w", name, err)
	}
	return &DBSubnetGroup{Name: name, SubnetIDs: subnetIDs}, nil
}

// GetDBSubnetGroup returns the named subnet group, or nil if absent.
func (c *RealClient) GetDBSubnetGroup(ctx context.Context, name string) (*DBSubnetGroup, error) {
	out, err := c.rds.DescribeDBSubnetGroups(ctx, &rds.DescribeDBSubnetGroupsInput{
		DBSubnetGroupName: awssdk.String(name),
	})
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to describe DB subnet group %s: %w", name, err)
	}
	if len(out.DBSubnetGroups) == 0 {
		return nil, nil
	}
	g := out.DBSubnetGroups[0]
	group := &DBSubnetGroup{Name: name}
	for _, s := range g.Subnets {
		group.SubnetIDs = append(group.SubnetIDs, awssdk.ToString(s.SubnetIdentifier))
	}
	return group, nil
}

// DeleteDBSubnetGroup removes the named subnet group if it exists.
func (c *RealClient) DeleteDBSubnetGroup(ctx context.Context, name string) error {
	_, err := c.rds.DeleteDBSubnetGroup(ctx, &rds.DeleteDBSubnetGroupInput{
		DBSubnetGroupName: awssdk.String(name),
	})
	if err != nil && !IsNotFound(err) {
		return fmt.Errorf("failed to delete DB subnet group %s: %w", name, err)
	}
	return nil
}

// EnsureDatabase ensures the PostgreSQL instance exists and blocks until it
// reports available. The master password is only used on creation; rotating
// it afterwards goes through ModifyDatabase.
func (c *RealClient) EnsureDatabase(ctx context.Context, opts DatabaseOpts, tags map[string]string) (*Database, error) {
	existing, err := c.GetDatabase(ctx, opts.Identifier)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		_, err = c.rds.CreateDBInstance(ctx, &rds.CreateDBInstanceInput{
			DBInstanceIdentifier: awssdk.String(opts.Identifier),
			Engine:               awssdk.String("postgres"),
			EngineVersion:        awssdk.String(opts.EngineVersion),
			DBInstanceClass:      awssdk.String(opts.InstanceClass),
			AllocatedStorage:     awssdk.Int32(opts.AllocatedStorage),
			DBName:               awssdk.String(opts.DBName),
			MasterUsername:       awssdk.String(opts.Username),
			MasterUserPassword:   awssdk.String(opts.Password),
			DBSubnetGroupName:    awssdk.String(opts.SubnetGroup),
			VpcSecurityGroupIds:  []string{opts.SecurityGroupID},
			PubliclyAccessible:   awssdk.Bool(false),
			StorageEncrypted:     awssdk.Bool(true),
			Tags:                 rdsTags(tags),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create database %s: %w", opts.Identifier, err)
		}
	}

	waiter := rds.NewDBInstanceAvailableWaiter(c.rds)
	err = waiter.Wait(ctx, &rds.DescribeDBInstancesInput{
		DBInstanceIdentifier: awssdk.String(opts.Identifier),
	}, c.timeouts.DatabaseAvailable)
	if err != nil {
		return nil, fmt.Errorf("failed to wait for database %s: %w", opts.Identifier, err)
	}
	return c.GetDatabase(ctx, opts.Identifier)
}

// GetDatabase returns the instance by identifier, or nil if absent. The
// engine version is normalized to its major component so minor upgrades
// applied by the provider do not register as drift.
func (c *RealClient) GetDatabase(ctx context.Context, identifier string) (*Database, error) {
	out, err := c.rds.DescribeDBInstances(ctx, &rds.DescribeDBInstancesInput{
		DBInstanceIdentifier: awssdk.String(identifier),
	})
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to describe database %s: %w", identifier, err)
	}
	if len(out.DBInstances) == 0 {
		return nil, nil
	}
	inst := out.DBInstances[0]
	db := &Database{
		Identifier:       identifier,
		Status:           awssdk.ToString(inst.DBInstanceStatus),
		EngineVersion:    majorVersion(awssdk.ToString(inst.EngineVersion)),
		InstanceClass:    awssdk.ToString(inst.DBInstanceClass),
		AllocatedStorage: awssdk.ToInt32(inst.AllocatedStorage),
	}
	if inst.Endpoint != nil {
		db.Address = awssdk.ToString(inst.Endpoint.Address)
		db.Port = awssdk.ToInt32(inst.Endpoint.Port)
		db.Endpoint = fmt.Sprintf("%s:%d", db.Address, db.Port)
	}
	return db, nil
}

// ModifyDatabase applies engine version, instance class, storage, and
// password changes immediately and blocks until the instance is available
// again. Only fields that differ from the live instance are sent; RDS
// rejects a no-op version "upgrade".
func (c *RealClient) ModifyDatabase(ctx context.Context, opts DatabaseOpts) (*Database, error) {
	current, err := c.GetDatabase(ctx, opts.Identifier)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, fmt.Errorf("database %s not found", opts.Identifier)
	}

	input := &rds.ModifyDBInstanceInput{
		DBInstanceIdentifier: awssdk.String(opts.Identifier),
		ApplyImmediately:     awssdk.Bool(true),
	}
	if opts.EngineVersion != "" && majorVersion(opts.EngineVersion) != current.EngineVersion {
		input.EngineVersion = awssdk.String(opts.EngineVersion)
		input.AllowMajorVersionUpgrade = awssdk.Bool(true)
	}
	if opts.InstanceClass != "" && opts.InstanceClass != current.InstanceClass {
		input.DBInstanceClass = awssdk.String(opts.InstanceClass)
	}
	if opts.AllocatedStorage > 0 && opts.AllocatedStorage != current.AllocatedStorage {
		input.AllocatedStorage = awssdk.Int32(opts.AllocatedStorage)
	}
	if opts.Password != "" {
		input.MasterUserPassword = awssdk.String(opts.Password)
	}

	_, err = c.rds.ModifyDBInstance(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to modify database %s: %w", opts.Identifier, err)
	}

	waiter := rds.NewDBInstanceAvailableWaiter(c.rds)
	err = waiter.Wait(ctx, &rds.DescribeDBInstancesInput{
		DBInstanceIdentifier: awssdk.String(opts.Identifier),
	}, c.timeouts.DatabaseAvailable)
	if err != nil {
		return nil, fmt.Errorf("failed to wait for database %s: %w", opts.Identifier, err)
	}
	return c.GetDatabase(ctx, opts.Identifier)
}

// DeleteDatabase removes the instance without a final snapshot and blocks
// until it is gone.
func (c *RealClient) DeleteDatabase(ctx context.Context, identifier string) error {
	_, err := c.rds.DeleteDBInstance(ctx, &rds.DeleteDBInstanceInput{
		DBInstanceIdentifier:   awssdk.String(identifier),
		SkipFinalSnapshot:      awssdk.Bool(true),
		DeleteAutomatedBackups: awssdk.Bool(true),
	})
	if err != nil {
		if IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to delete database %s: %w", identifier, err)
	}

	waiter := rds.NewDBInstanceDeletedWaiter(c.rds)
	err = waiter.Wait(ctx, &rds.DescribeDBInstancesInput{
		DBInstanceIdentifier: awssdk.String(identifier),
	}, c.timeouts.DatabaseDeleted)
	if err != nil {
		return fmt.Errorf("failed to wait for database %s deletion: %w", identifier, err)
	}
	return nil
}

func majorVersion(version string) string {
	if i := strings.Index(version, "."); i > 0 {
		return version[:i]
	}
	return version
}

func rdsTags(tags map[string]string) []rdstypes.Tag {
	var out []rdstypes.Tag
	for k, v := range tags {
		out = append(out, rdstypes.Tag{Key: awssdk.String(k), Value: awssdk.String(v)})
	}
	return out
}
