// Package topology declares the fixed resource graph of a SonarQube stack:
// networking, database, credentials, and the Fargate service behind an
// application load balancer.
package topology

import (
	"fmt"
	"strconv"

	"github.com/sonarup/sonarup/internal/config"
	"github.com/sonarup/sonarup/internal/graph"
	"github.com/sonarup/sonarup/internal/platform/aws"
)

// Well-known ports of the stack.
const (
	HTTPPort      = 80
	SonarQubePort = 9000
	PostgresPort  = 5432
)

// HealthCheckPath is SonarQube's unauthenticated status endpoint.
const HealthCheckPath = "/api/system/status"

// Logical declaration names. These are graph node names, not physical
// resource names.
const (
	DeclNetwork        = "network"
	DeclALBSG          = "alb-sg"
	DeclServiceSG      = "service-sg"
	DeclDatabaseSG     = "database-sg"
	DeclDBSubnetGroup  = "db-subnet-group"
	DeclCredentials    = "credentials"
	DeclDatabase       = "database"
	DeclLogs           = "logs"
	DeclTaskRole       = "task-role"
	DeclCluster        = "cluster"
	DeclTaskDefinition = "task-definition"
	DeclTargetGroup    = "target-group"
	DeclLoadBalancer   = "load-balancer"
	DeclListener       = "listener"
	DeclService        = "service"
)

// StackName is the physical name prefix shared by every resource.
func StackName(cfg *config.Config) string {
	return fmt.Sprintf("%s-%s", cfg.Name, cfg.Environment)
}

// Tags returns the tags stamped onto every provisioned resource.
func Tags(cfg *config.Config) map[string]string {
	return map[string]string{
		"sonarup.io/stack":       cfg.Name,
		"sonarup.io/environment": cfg.Environment,
	}
}

// SecretName is the physical name of the credential secret.
func SecretName(cfg *config.Config) string {
	return StackName(cfg) + "-credentials"
}

// Build assembles the declaration graph for the stack. The password is the
// resolved database master password; the caller decides whether it comes
// from configuration, the secret store, or a fresh generation.
func Build(cfg *config.Config, password string) (*graph.Graph, error) {
	stack := StackName(cfg)
	g := graph.New()

	decls := []*graph.Declaration{
		{
			Kind: aws.KindNetwork,
			Name: DeclNetwork,
			Attrs: map[string]graph.Value{
				"name": graph.Lit(stack),
				"cidr": graph.Lit(cfg.Network.CIDR),
			},
		},
		{
			Kind: aws.KindSecurityGroup,
			Name: DeclALBSG,
			Attrs: map[string]graph.Value{
				"name":        graph.Lit(stack + "-alb"),
				"vpc_id":      graph.RefTo(DeclNetwork, "vpc_id"),
				"port":        graph.Lit(strconv.Itoa(HTTPPort)),
				"protocol":    graph.Lit("tcp"),
				"cidr":        graph.Lit("0.0.0.0/0"),
				"description": graph.Lit("Public HTTP to the load balancer"),
			},
		},
		{
			Kind: aws.KindSecurityGroup,
			Name: DeclServiceSG,
			Attrs: map[string]graph.Value{
				"name":        graph.Lit(stack + "-svc"),
				"vpc_id":      graph.RefTo(DeclNetwork, "vpc_id"),
				"port":        graph.Lit(strconv.Itoa(SonarQubePort)),
				"protocol":    graph.Lit("tcp"),
				"source_sg":   graph.RefTo(DeclALBSG, "sg_id"),
				"description": graph.Lit("SonarQube traffic from the load balancer"),
			},
		},
		{
			Kind: aws.KindSecurityGroup,
			Name: DeclDatabaseSG,
			Attrs: map[string]graph.Value{
				"name":        graph.Lit(stack + "-db"),
				"vpc_id":      graph.RefTo(DeclNetwork, "vpc_id"),
				"port":        graph.Lit(strconv.Itoa(PostgresPort)),
				"protocol":    graph.Lit("tcp"),
				"source_sg":   graph.RefTo(DeclServiceSG, "sg_id"),
				"description": graph.Lit("PostgreSQL from the SonarQube tasks"),
			},
		},
		{
			Kind: aws.KindDBSubnetGroup,
			Name: DeclDBSubnetGroup,
			Attrs: map[string]graph.Value{
				"name":       graph.Lit(stack + "-db"),
				"subnet_ids": graph.RefTo(DeclNetwork, "private_subnet_ids"),
			},
		},
		{
			Kind: aws.KindSecret,
			Name: DeclCredentials,
			Attrs: map[string]graph.Value{
				"name":     graph.Lit(SecretName(cfg)),
				"username": graph.Lit(cfg.Database.Username),
				"password": graph.Lit(password),
			},
			Sensitive: map[string]bool{"password": true},
		},
		{
			Kind: aws.KindDatabase,
			Name: DeclDatabase,
			Attrs: map[string]graph.Value{
				"name":              graph.Lit(stack + "-db"),
				"engine_version":    graph.Lit(cfg.Database.EngineVersion),
				"instance_class":    graph.Lit(cfg.Database.InstanceClass),
				"allocated_storage": graph.Lit(strconv.Itoa(cfg.Database.AllocatedStorage)),
				"db_name":           graph.Lit(cfg.Database.Name),
				"username":          graph.RefTo(DeclCredentials, "username"),
				"password":          graph.RefTo(DeclCredentials, "password"),
				"subnet_group":      graph.RefTo(DeclDBSubnetGroup, "subnet_group"),
				"sg_id":             graph.RefTo(DeclDatabaseSG, "sg_id"),
			},
			Sensitive: map[string]bool{"password": true},
		},
		{
			Kind: aws.KindLogGroup,
			Name: DeclLogs,
			Attrs: map[string]graph.Value{
				"name":           graph.Lit("/ecs/" + stack),
				"retention_days": graph.Lit(strconv.Itoa(cfg.LogRetentionDays)),
			},
		},
		{
			Kind: aws.KindIAMRole,
			Name: DeclTaskRole,
			Attrs: map[string]graph.Value{
				"name":       graph.Lit(stack + "-task-exec"),
				"secret_arn": graph.RefTo(DeclCredentials, "secret_arn"),
			},
		},
		{
			Kind: aws.KindCluster,
			Name: DeclCluster,
			Attrs: map[string]graph.Value{
				"name": graph.Lit(stack),
			},
		},
		{
			Kind: aws.KindTaskDefinition,
			Name: DeclTaskDefinition,
			Attrs: map[string]graph.Value{
				"name":               graph.Lit(stack),
				"image":              graph.Lit(cfg.Image),
				"cpu":                graph.Lit(strconv.Itoa(cfg.Service.CPU)),
				"memory":             graph.Lit(strconv.Itoa(cfg.Service.MemoryMiB)),
				"execution_role_arn": graph.RefTo(DeclTaskRole, "role_arn"),
				"log_group":          graph.RefTo(DeclLogs, "log_group"),
				"container_port":     graph.Lit(strconv.Itoa(SonarQubePort)),
				"db_address":         graph.RefTo(DeclDatabase, "address"),
				"db_port":            graph.RefTo(DeclDatabase, "port"),
				"db_name":            graph.Lit(cfg.Database.Name),
				"secret_arn":         graph.RefTo(DeclCredentials, "secret_arn"),
			},
		},
		{
			Kind: aws.KindTargetGroup,
			Name: DeclTargetGroup,
			Attrs: map[string]graph.Value{
				"name":              graph.Lit(stack + "-tg"),
				"vpc_id":            graph.RefTo(DeclNetwork, "vpc_id"),
				"port":              graph.Lit(strconv.Itoa(SonarQubePort)),
				"health_check_path": graph.Lit(HealthCheckPath),
				"matcher":           graph.Lit("200"),
			},
		},
		{
			Kind: aws.KindLoadBalancer,
			Name: DeclLoadBalancer,
			Attrs: map[string]graph.Value{
				"name":       graph.Lit(stack + "-alb"),
				"subnet_ids": graph.RefTo(DeclNetwork, "public_subnet_ids"),
				"sg_id":      graph.RefTo(DeclALBSG, "sg_id"),
			},
		},
		{
			Kind: aws.KindListener,
			Name: DeclListener,
			Attrs: map[string]graph.Value{
				"lb_arn":           graph.RefTo(DeclLoadBalancer, "lb_arn"),
				"port":             graph.Lit(strconv.Itoa(HTTPPort)),
				"target_group_arn": graph.RefTo(DeclTargetGroup, "target_group_arn"),
			},
		},
		{
			Kind: aws.KindService,
			Name: DeclService,
			Attrs: map[string]graph.Value{
				"name":             graph.Lit(stack + "-svc"),
				"cluster":          graph.RefTo(DeclCluster, "cluster_name"),
				"task_definition":  graph.RefTo(DeclTaskDefinition, "task_definition_arn"),
				"subnet_ids":       graph.RefTo(DeclNetwork, "public_subnet_ids"),
				"sg_id":            graph.RefTo(DeclServiceSG, "sg_id"),
				"target_group_arn": graph.RefTo(DeclTargetGroup, "target_group_arn"),
				"container_name":   graph.Lit(stack),
				"container_port":   graph.Lit(strconv.Itoa(SonarQubePort)),
				"desired_count":    graph.Lit(strconv.Itoa(cfg.Service.DesiredCount)),
			},
		},
	}

	for _, d := range decls {
		if err := g.Add(d); err != nil {
			return nil, err
		}
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}
