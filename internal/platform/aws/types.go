package aws

// VPC is a provisioned network with its subnets.
type VPC struct {
	ID               string
	Name             string
	CIDR             string
	PublicSubnetIDs  []string
	PrivateSubnetIDs []string
}

// IngressRule is the single ingress rule a security group carries. Exactly
// one of CIDR or SourceGroupID is set.
type IngressRule struct {
	Port          int32
	Protocol      string
	CIDR          string
	SourceGroupID string
	Description   string
}

// SecurityGroup is a provisioned security group.
type SecurityGroup struct {
	ID    string
	Name  string
	VPCID string
	Rule  IngressRule
}

// DBSubnetGroup groups the subnets an RDS instance may occupy.
type DBSubnetGroup struct {
	Name      string
	SubnetIDs []string
}

// DatabaseOpts holds all parameters for creating or modifying a managed
// PostgreSQL instance.
type DatabaseOpts struct {
	Identifier       string
	EngineVersion    string
	InstanceClass    string
	AllocatedStorage int32
	DBName           string
	Username         string
	Password         string
	SubnetGroup      string
	SecurityGroupID  string
}

// Database is a provisioned RDS instance.
type Database struct {
	Identifier       string
	Status           string
	Address          string
	Port             int32
	Endpoint         string
	EngineVersion    string
	InstanceClass    string
	AllocatedStorage int32
}

// Secret is a stored secret-store entry. The value itself is only returned
// by GetSecretValue.
type Secret struct {
	ARN     string
	Name    string
	Version string
}

// LogGroup is a provisioned log aggregation group.
type LogGroup struct {
	Name          string
	RetentionDays int32
}

// Role is a provisioned IAM role.
type Role struct {
	ARN  string
	Name string
}

// Cluster is a provisioned container cluster.
type Cluster struct {
	ARN    string
	Name   string
	Status string
}

// TaskDefinitionOpts holds all parameters for registering a task definition.
type TaskDefinitionOpts struct {
	Family           string
	Image            string
	CPU              int32
	MemoryMiB        int32
	ExecutionRoleARN string
	LogGroup         string
	Region           string
	ContainerPort    int32

	// Database connection wiring. The password is injected from the
	// secret store at task start, never inlined.
	DBAddress string
	DBPort    string
	DBName    string
	SecretARN string
}

// TaskDefinition is a registered task definition revision.
type TaskDefinition struct {
	ARN       string
	Family    string
	Revision  int32
	Image     string
	CPU       int32
	MemoryMiB int32
}

// TargetGroupOpts holds all parameters for creating a target group.
type TargetGroupOpts struct {
	Name               string
	VPCID              string
	Port               int32
	HealthCheckPath    string
	HealthCheckMatcher string
}

// TargetGroup is a provisioned target group.
type TargetGroup struct {
	ARN                string
	Name               string
	Port               int32
	HealthCheckPath    string
	HealthCheckMatcher string
}

// LoadBalancer is a provisioned application load balancer.
type LoadBalancer struct {
	ARN     string
	Name    string
	DNSName string
	State   string
}

// Listener is a provisioned load balancer listener.
type Listener struct {
	ARN  string
	Port int32
}

// ServiceOpts holds all parameters for creating or updating a container
// service.
type ServiceOpts struct {
	Cluster           string
	Name              string
	TaskDefinitionARN string
	DesiredCount      int32
	SubnetIDs         []string
	SecurityGroupID   string
	TargetGroupARN    string
	ContainerName     string
	ContainerPort     int32
}

// Service is a provisioned container service.
type Service struct {
	ARN               string
	Name              string
	Status            string
	DesiredCount      int32
	RunningCount      int32
	TaskDefinitionARN string
}

// Identity describes the authenticated caller.
type Identity struct {
	Account string
	ARN     string
	UserID  string
}
