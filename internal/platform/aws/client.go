package aws

import "context"

// NetworkManager defines the interface for managing the VPC and security
// groups.
type NetworkManager interface {
	// EnsureVPC ensures the VPC exists with the given CIDR, two public and
	// two private subnets, an internet gateway, and a public route table.
	EnsureVPC(ctx context.Context, name, cidr string, tags map[string]string) (*VPC, error)
	GetVPC(ctx context.Context, name string) (*VPC, error)
	DeleteVPC(ctx context.Context, name string) error

	EnsureSecurityGroup(ctx context.Context, name, vpcID string, rule IngressRule, tags map[string]string) (*SecurityGroup, error)
	GetSecurityGroup(ctx context.Context, name, vpcID string) (*SecurityGroup, error)
	DeleteSecurityGroup(ctx context.Context, name, vpcID string) error
}

// DatabaseManager defines the interface for the managed PostgreSQL instance.
type DatabaseManager interface {
	EnsureDBSubnetGroup(ctx context.Context, name string, subnetIDs []string, tags map[string]string) (*DBSubnetGroup, error)
	GetDBSubnetGroup(ctx context.Context, name string) (*DBSubnetGroup, error)
	DeleteDBSubnetGroup(ctx context.Context, name string) error

	// EnsureDatabase creates the instance if absent and blocks until it is
	// available.
	EnsureDatabase(ctx context.Context, opts DatabaseOpts, tags map[string]string) (*Database, error)
	GetDatabase(ctx context.Context, identifier string) (*Database, error)
	// ModifyDatabase applies engine version, instance class, storage, and
	// password changes in place.
	ModifyDatabase(ctx context.Context, opts DatabaseOpts) (*Database, error)
	// DeleteDatabase skips the final snapshot and blocks until the
	// instance is gone.
	DeleteDatabase(ctx context.Context, identifier string) error
}

// SecretStore defines the interface for the managed secret store.
type SecretStore interface {
	// EnsureSecret stores the value under name exactly once. An existing
	// secret is returned untouched, whatever its current value.
	EnsureSecret(ctx context.Context, name, value string, tags map[string]string) (*Secret, error)
	GetSecret(ctx context.Context, name string) (*Secret, error)
	GetSecretValue(ctx context.Context, name string) (string, error)
	// UpdateSecretValue writes a new version of an existing secret.
	UpdateSecretValue(ctx context.Context, name, value string) (*Secret, error)
	DeleteSecret(ctx context.Context, name string) error
}

// LogManager defines the interface for the log aggregation sink.
type LogManager interface {
	EnsureLogGroup(ctx context.Context, name string, retentionDays int32, tags map[string]string) (*LogGroup, error)
	GetLogGroup(ctx context.Context, name string) (*LogGroup, error)
	DeleteLogGroup(ctx context.Context, name string) error
}

// RoleManager defines the interface for IAM roles.
type RoleManager interface {
	// EnsureTaskExecutionRole ensures a role assumable by the container
	// service with the managed execution policy plus read access to the
	// given secret.
	EnsureTaskExecutionRole(ctx context.Context, name, secretARN string, tags map[string]string) (*Role, error)
	GetRole(ctx context.Context, name string) (*Role, error)
	DeleteRole(ctx context.Context, name string) error
}

// ContainerManager defines the interface for the container orchestration
// service.
type ContainerManager interface {
	EnsureCluster(ctx context.Context, name string, tags map[string]string) (*Cluster, error)
	GetCluster(ctx context.Context, name string) (*Cluster, error)
	DeleteCluster(ctx context.Context, name string) error

	// RegisterTaskDefinition registers a new revision unconditionally.
	RegisterTaskDefinition(ctx context.Context, opts TaskDefinitionOpts, tags map[string]string) (*TaskDefinition, error)
	// GetTaskDefinition returns the latest active revision of a family.
	GetTaskDefinition(ctx context.Context, family string) (*TaskDefinition, error)
	DeregisterTaskDefinition(ctx context.Context, arn string) error

	// EnsureService creates or updates the service and blocks until it is
	// stable.
	EnsureService(ctx context.Context, opts ServiceOpts, tags map[string]string) (*Service, error)
	GetService(ctx context.Context, cluster, name string) (*Service, error)
	DeleteService(ctx context.Context, cluster, name string) error
}

// LoadBalancerManager defines the interface for the load balancer, its
// target group, and its listener.
type LoadBalancerManager interface {
	EnsureLoadBalancer(ctx context.Context, name string, subnetIDs []string, securityGroupID string, tags map[string]string) (*LoadBalancer, error)
	GetLoadBalancer(ctx context.Context, name string) (*LoadBalancer, error)
	DeleteLoadBalancer(ctx context.Context, name string) error

	EnsureTargetGroup(ctx context.Context, opts TargetGroupOpts, tags map[string]string) (*TargetGroup, error)
	GetTargetGroup(ctx context.Context, name string) (*TargetGroup, error)
	DeleteTargetGroup(ctx context.Context, name string) error

	EnsureListener(ctx context.Context, lbARN string, port int32, targetGroupARN string) (*Listener, error)
	GetListener(ctx context.Context, lbARN string, port int32) (*Listener, error)
	DeleteListener(ctx context.Context, lbARN string, port int32) error
}

// IdentityManager confirms the operator's identity before mutating calls.
type IdentityManager interface {
	CallerIdentity(ctx context.Context) (*Identity, error)
}

// CloudManager combines all service interfaces.
type CloudManager interface {
	NetworkManager
	DatabaseManager
	SecretStore
	LogManager
	RoleManager
	ContainerManager
	LoadBalancerManager
	IdentityManager
	Region() string
}
