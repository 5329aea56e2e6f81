package aws

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sonarup/sonarup/internal/engine"
	"github.com/sonarup/sonarup/internal/graph"
	"github.com/sonarup/sonarup/internal/secret"
)

// Declaration kinds handled by this provider.
const (
	KindNetwork        graph.Kind = "network"
	KindSecurityGroup  graph.Kind = "security-group"
	KindDBSubnetGroup  graph.Kind = "db-subnet-group"
	KindSecret         graph.Kind = "secret"
	KindDatabase       graph.Kind = "database"
	KindLogGroup       graph.Kind = "log-group"
	KindIAMRole        graph.Kind = "iam-role"
	KindCluster        graph.Kind = "cluster"
	KindTaskDefinition graph.Kind = "task-definition"
	KindTargetGroup    graph.Kind = "target-group"
	KindLoadBalancer   graph.Kind = "load-balancer"
	KindListener       graph.Kind = "listener"
	KindService        graph.Kind = "service"
)

// Handlers builds the handler registry for every supported kind. The tags
// are stamped onto each created resource.
func Handlers(client CloudManager, tags map[string]string) engine.Registry {
	return engine.Registry{
		KindNetwork:        &networkHandler{client, tags},
		KindSecurityGroup:  &securityGroupHandler{client, tags},
		KindDBSubnetGroup:  &dbSubnetGroupHandler{client, tags},
		KindSecret:         &secretHandler{client, tags},
		KindDatabase:       &databaseHandler{client, tags},
		KindLogGroup:       &logGroupHandler{client, tags},
		KindIAMRole:        &iamRoleHandler{client, tags},
		KindCluster:        &clusterHandler{client, tags},
		KindTaskDefinition: &taskDefinitionHandler{client, tags},
		KindTargetGroup:    &targetGroupHandler{client, tags},
		KindLoadBalancer:   &loadBalancerHandler{client, tags},
		KindListener:       &listenerHandler{client, tags},
		KindService:        &serviceHandler{client, tags},
	}
}

// joinIDs and splitIDs move ID lists through string attributes.
func joinIDs(ids []string) string {
	return strings.Join(ids, ",")
}

func splitIDs(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func atoi32(attrs map[string]string, key string) int32 {
	n, _ := strconv.ParseInt(attrs[key], 10, 32)
	return int32(n)
}

// hasAttrs reports whether every key is present. Describe implementations
// use it to treat declarations with unresolved references as not found.
func hasAttrs(attrs map[string]string, keys ...string) bool {
	for _, k := range keys {
		if _, ok := attrs[k]; !ok {
			return false
		}
	}
	return true
}

type networkHandler struct {
	client CloudManager
	tags   map[string]string
}

func (h *networkHandler) Describe(ctx context.Context, _ *graph.Declaration, attrs map[string]string) (map[string]string, bool, error) {
	vpc, err := h.client.GetVPC(ctx, attrs["name"])
	if err != nil || vpc == nil {
		return nil, false, err
	}
	return networkOutputs(vpc), true, nil
}

func (h *networkHandler) Create(ctx context.Context, _ *graph.Declaration, attrs map[string]string) (map[string]string, error) {
	vpc, err := h.client.EnsureVPC(ctx, attrs["name"], attrs["cidr"], h.tags)
	if err != nil {
		return nil, err
	}
	return networkOutputs(vpc), nil
}

func (h *networkHandler) Update(ctx context.Context, d *graph.Declaration, attrs map[string]string) (map[string]string, error) {
	// A VPC's CIDR cannot change in place.
	return nil, fmt.Errorf("network %q cannot be updated in place, destroy and re-apply", d.Name)
}

func (h *networkHandler) Delete(ctx context.Context, _ *graph.Declaration, live map[string]string) error {
	return h.client.DeleteVPC(ctx, live["name"])
}

func networkOutputs(vpc *VPC) map[string]string {
	return map[string]string{
		"name":               vpc.Name,
		"cidr":               vpc.CIDR,
		"vpc_id":             vpc.ID,
		"public_subnet_ids":  joinIDs(vpc.PublicSubnetIDs),
		"private_subnet_ids": joinIDs(vpc.PrivateSubnetIDs),
	}
}

type securityGroupHandler struct {
	client CloudManager
	tags   map[string]string
}

func (h *securityGroupHandler) rule(attrs map[string]string) IngressRule {
	return IngressRule{
		Port:          atoi32(attrs, "port"),
		Protocol:      attrs["protocol"],
		CIDR:          attrs["cidr"],
		SourceGroupID: attrs["source_sg"],
		Description:   attrs["description"],
	}
}

func (h *securityGroupHandler) Describe(ctx context.Context, _ *graph.Declaration, attrs map[string]string) (map[string]string, bool, error) {
	if !hasAttrs(attrs, "vpc_id") {
		return nil, false, nil
	}
	sg, err := h.client.GetSecurityGroup(ctx, attrs["name"], attrs["vpc_id"])
	if err != nil || sg == nil {
		return nil, false, err
	}
	return securityGroupOutputs(sg), true, nil
}

func (h *securityGroupHandler) Create(ctx context.Context, _ *graph.Declaration, attrs map[string]string) (map[string]string, error) {
	sg, err := h.client.EnsureSecurityGroup(ctx, attrs["name"], attrs["vpc_id"], h.rule(attrs), h.tags)
	if err != nil {
		return nil, err
	}
	return securityGroupOutputs(sg), nil
}

func (h *securityGroupHandler) Update(ctx context.Context, _ *graph.Declaration, attrs map[string]string) (map[string]string, error) {
	// Recreate with the declared rule. The group carries exactly one rule,
	// so replace is simpler than revoke-and-authorize bookkeeping.
	if err := h.client.DeleteSecurityGroup(ctx, attrs["name"], attrs["vpc_id"]); err != nil {
		return nil, err
	}
	return h.Create(ctx, nil, attrs)
}

func (h *securityGroupHandler) Delete(ctx context.Context, _ *graph.Declaration, live map[string]string) error {
	return h.client.DeleteSecurityGroup(ctx, live["name"], live["vpc_id"])
}

func securityGroupOutputs(sg *SecurityGroup) map[string]string {
	out := map[string]string{
		"name":     sg.Name,
		"vpc_id":   sg.VPCID,
		"sg_id":    sg.ID,
		"port":     strconv.Itoa(int(sg.Rule.Port)),
		"protocol": sg.Rule.Protocol,
	}
	if sg.Rule.CIDR != "" {
		out["cidr"] = sg.Rule.CIDR
	}
	if sg.Rule.SourceGroupID != "" {
		out["source_sg"] = sg.Rule.SourceGroupID
	}
	return out
}

type dbSubnetGroupHandler struct {
	client CloudManager
	tags   map[string]string
}

func (h *dbSubnetGroupHandler) Describe(ctx context.Context, _ *graph.Declaration, attrs map[string]string) (map[string]string, bool, error) {
	g, err := h.client.GetDBSubnetGroup(ctx, attrs["name"])
	if err != nil || g == nil {
		return nil, false, err
	}
	return map[string]string{"name": g.Name, "subnet_group": g.Name}, true, nil
}

func (h *dbSubnetGroupHandler) Create(ctx context.Context, _ *graph.Declaration, attrs map[string]string) (map[string]string, error) {
	g, err := h.client.EnsureDBSubnetGroup(ctx, attrs["name"], splitIDs(attrs["subnet_ids"]), h.tags)
	if err != nil {
		return nil, err
	}
	return map[string]string{"name": g.Name, "subnet_group": g.Name}, nil
}

func (h *dbSubnetGroupHandler) Update(ctx context.Context, _ *graph.Declaration, attrs map[string]string) (map[string]string, error) {
	return h.Create(ctx, nil, attrs)
}

func (h *dbSubnetGroupHandler) Delete(ctx context.Context, _ *graph.Declaration, live map[string]string) error {
	return h.client.DeleteDBSubnetGroup(ctx, live["name"])
}

type secretHandler struct {
	client CloudManager
	tags   map[string]string
}

func (h *secretHandler) Describe(ctx context.Context, _ *graph.Declaration, attrs map[string]string) (map[string]string, bool, error) {
	s, err := h.client.GetSecret(ctx, attrs["name"])
	if err != nil || s == nil {
		return nil, false, err
	}
	raw, err := h.client.GetSecretValue(ctx, attrs["name"])
	if err != nil {
		return nil, false, err
	}
	v, err := secret.ParseCredential(raw)
	if err != nil {
		return nil, false, fmt.Errorf("secret %s: %w", attrs["name"], err)
	}
	return map[string]string{
		"name":       s.Name,
		"username":   v.Username,
		"password":   v.Password,
		"secret_arn": s.ARN,
	}, true, nil
}

func (h *secretHandler) Create(ctx context.Context, _ *graph.Declaration, attrs map[string]string) (map[string]string, error) {
	raw, err := secret.Credential{Username: attrs["username"], Password: attrs["password"]}.Marshal()
	if err != nil {
		return nil, err
	}
	s, err := h.client.EnsureSecret(ctx, attrs["name"], raw, h.tags)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		"name":       s.Name,
		"username":   attrs["username"],
		"password":   attrs["password"],
		"secret_arn": s.ARN,
	}, nil
}

func (h *secretHandler) Update(ctx context.Context, _ *graph.Declaration, attrs map[string]string) (map[string]string, error) {
	raw, err := secret.Credential{Username: attrs["username"], Password: attrs["password"]}.Marshal()
	if err != nil {
		return nil, err
	}
	s, err := h.client.UpdateSecretValue(ctx, attrs["name"], raw)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		"name":       s.Name,
		"username":   attrs["username"],
		"password":   attrs["password"],
		"secret_arn": s.ARN,
	}, nil
}

func (h *secretHandler) Delete(ctx context.Context, _ *graph.Declaration, live map[string]string) error {
	return h.client.DeleteSecret(ctx, live["name"])
}

type databaseHandler struct {
	client CloudManager
	tags   map[string]string
}

func (h *databaseHandler) opts(attrs map[string]string) DatabaseOpts {
	return DatabaseOpts{
		Identifier:       attrs["name"],
		EngineVersion:    attrs["engine_version"],
		InstanceClass:    attrs["instance_class"],
		AllocatedStorage: atoi32(attrs, "allocated_storage"),
		DBName:           attrs["db_name"],
		Username:         attrs["username"],
		Password:         attrs["password"],
		SubnetGroup:      attrs["subnet_group"],
		SecurityGroupID:  attrs["sg_id"],
	}
}

// Describe deliberately omits the master password from the live map. It
// cannot be read back, so declaring the same password never shows drift.
func (h *databaseHandler) Describe(ctx context.Context, _ *graph.Declaration, attrs map[string]string) (map[string]string, bool, error) {
	db, err := h.client.GetDatabase(ctx, attrs["name"])
	if err != nil || db == nil {
		return nil, false, err
	}
	return databaseOutputs(db), true, nil
}

func (h *databaseHandler) Create(ctx context.Context, _ *graph.Declaration, attrs map[string]string) (map[string]string, error) {
	db, err := h.client.EnsureDatabase(ctx, h.opts(attrs), h.tags)
	if err != nil {
		return nil, err
	}
	return databaseOutputs(db), nil
}

func (h *databaseHandler) Update(ctx context.Context, _ *graph.Declaration, attrs map[string]string) (map[string]string, error) {
	db, err := h.client.ModifyDatabase(ctx, h.opts(attrs))
	if err != nil {
		return nil, err
	}
	return databaseOutputs(db), nil
}

func (h *databaseHandler) Delete(ctx context.Context, _ *graph.Declaration, live map[string]string) error {
	return h.client.DeleteDatabase(ctx, live["name"])
}

func databaseOutputs(db *Database) map[string]string {
	return map[string]string{
		"name":              db.Identifier,
		"engine_version":    db.EngineVersion,
		"instance_class":    db.InstanceClass,
		"allocated_storage": strconv.Itoa(int(db.AllocatedStorage)),
		"address":           db.Address,
		"port":              strconv.Itoa(int(db.Port)),
		"endpoint":          db.Endpoint,
	}
}

type logGroupHandler struct {
	client CloudManager
	tags   map[string]string
}

func (h *logGroupHandler) Describe(ctx context.Context, _ *graph.Declaration, attrs map[string]string) (map[string]string, bool, error) {
	g, err := h.client.GetLogGroup(ctx, attrs["name"])
	if err != nil || g == nil {
		return nil, false, err
	}
	return logGroupOutputs(g), true, nil
}

func (h *logGroupHandler) Create(ctx context.Context, _ *graph.Declaration, attrs map[string]string) (map[string]string, error) {
	g, err := h.client.EnsureLogGroup(ctx, attrs["name"], atoi32(attrs, "retention_days"), h.tags)
	if err != nil {
		return nil, err
	}
	return logGroupOutputs(g), nil
}

func (h *logGroupHandler) Update(ctx context.Context, _ *graph.Declaration, attrs map[string]string) (map[string]string, error) {
	return h.Create(ctx, nil, attrs)
}

func (h *logGroupHandler) Delete(ctx context.Context, _ *graph.Declaration, live map[string]string) error {
	return h.client.DeleteLogGroup(ctx, live["name"])
}

func logGroupOutputs(g *LogGroup) map[string]string {
	return map[string]string{
		"name":           g.Name,
		"retention_days": strconv.Itoa(int(g.RetentionDays)),
		"log_group":      g.Name,
	}
}

type iamRoleHandler struct {
	client CloudManager
	tags   map[string]string
}

func (h *iamRoleHandler) Describe(ctx context.Context, _ *graph.Declaration, attrs map[string]string) (map[string]string, bool, error) {
	r, err := h.client.GetRole(ctx, attrs["name"])
	if err != nil || r == nil {
		return nil, false, err
	}
	return map[string]string{"name": r.Name, "role_arn": r.ARN}, true, nil
}

func (h *iamRoleHandler) Create(ctx context.Context, _ *graph.Declaration, attrs map[string]string) (map[string]string, error) {
	r, err := h.client.EnsureTaskExecutionRole(ctx, attrs["name"], attrs["secret_arn"], h.tags)
	if err != nil {
		return nil, err
	}
	return map[string]string{"name": r.Name, "role_arn": r.ARN}, nil
}

func (h *iamRoleHandler) Update(ctx context.Context, _ *graph.Declaration, attrs map[string]string) (map[string]string, error) {
	return h.Create(ctx, nil, attrs)
}

func (h *iamRoleHandler) Delete(ctx context.Context, _ *graph.Declaration, live map[string]string) error {
	return h.client.DeleteRole(ctx, live["name"])
}

type clusterHandler struct {
	client CloudManager
	tags   map[string]string
}

func (h *clusterHandler) Describe(ctx context.Context, _ *graph.Declaration, attrs map[string]string) (map[string]string, bool, error) {
	cl, err := h.client.GetCluster(ctx, attrs["name"])
	if err != nil || cl == nil {
		return nil, false, err
	}
	return clusterOutputs(cl), true, nil
}

func (h *clusterHandler) Create(ctx context.Context, _ *graph.Declaration, attrs map[string]string) (map[string]string, error) {
	cl, err := h.client.EnsureCluster(ctx, attrs["name"], h.tags)
	if err != nil {
		return nil, err
	}
	return clusterOutputs(cl), nil
}

func (h *clusterHandler) Update(ctx context.Context, _ *graph.Declaration, attrs map[string]string) (map[string]string, error) {
	return h.Create(ctx, nil, attrs)
}

func (h *clusterHandler) Delete(ctx context.Context, _ *graph.Declaration, live map[string]string) error {
	return h.client.DeleteCluster(ctx, live["name"])
}

func clusterOutputs(cl *Cluster) map[string]string {
	return map[string]string{
		"name":         cl.Name,
		"cluster_arn":  cl.ARN,
		"cluster_name": cl.Name,
	}
}

type taskDefinitionHandler struct {
	client CloudManager
	tags   map[string]string
}

func (h *taskDefinitionHandler) opts(attrs map[string]string) TaskDefinitionOpts {
	return TaskDefinitionOpts{
		Family:           attrs["name"],
		Image:            attrs["image"],
		CPU:              atoi32(attrs, "cpu"),
		MemoryMiB:        atoi32(attrs, "memory"),
		ExecutionRoleARN: attrs["execution_role_arn"],
		LogGroup:         attrs["log_group"],
		Region:           h.client.Region(),
		ContainerPort:    atoi32(attrs, "container_port"),
		DBAddress:        attrs["db_address"],
		DBPort:           attrs["db_port"],
		DBName:           attrs["db_name"],
		SecretARN:        attrs["secret_arn"],
	}
}

func (h *taskDefinitionHandler) Describe(ctx context.Context, _ *graph.Declaration, attrs map[string]string) (map[string]string, bool, error) {
	td, err := h.client.GetTaskDefinition(ctx, attrs["name"])
	if err != nil || td == nil {
		return nil, false, err
	}
	return taskDefinitionOutputs(td), true, nil
}

func (h *taskDefinitionHandler) Create(ctx context.Context, _ *graph.Declaration, attrs map[string]string) (map[string]string, error) {
	td, err := h.client.RegisterTaskDefinition(ctx, h.opts(attrs), h.tags)
	if err != nil {
		return nil, err
	}
	return taskDefinitionOutputs(td), nil
}

// Update registers a fresh revision. Task definitions are immutable, so any
// attribute change means a new revision for the service to roll onto.
func (h *taskDefinitionHandler) Update(ctx context.Context, d *graph.Declaration, attrs map[string]string) (map[string]string, error) {
	return h.Create(ctx, d, attrs)
}

func (h *taskDefinitionHandler) Delete(ctx context.Context, _ *graph.Declaration, live map[string]string) error {
	return h.client.DeregisterTaskDefinition(ctx, live["task_definition_arn"])
}

func taskDefinitionOutputs(td *TaskDefinition) map[string]string {
	return map[string]string{
		"name":                td.Family,
		"image":               td.Image,
		"cpu":                 strconv.Itoa(int(td.CPU)),
		"memory":              strconv.Itoa(int(td.MemoryMiB)),
		"task_definition_arn": td.ARN,
	}
}

type targetGroupHandler struct {
	client CloudManager
	tags   map[string]string
}

func (h *targetGroupHandler) Describe(ctx context.Context, _ *graph.Declaration, attrs map[string]string) (map[string]string, bool, error) {
	tg, err := h.client.GetTargetGroup(ctx, attrs["name"])
	if err != nil || tg == nil {
		return nil, false, err
	}
	return targetGroupOutputs(tg), true, nil
}

func (h *targetGroupHandler) Create(ctx context.Context, _ *graph.Declaration, attrs map[string]string) (map[string]string, error) {
	tg, err := h.client.EnsureTargetGroup(ctx, TargetGroupOpts{
		Name:               attrs["name"],
		VPCID:              attrs["vpc_id"],
		Port:               atoi32(attrs, "port"),
		HealthCheckPath:    attrs["health_check_path"],
		HealthCheckMatcher: attrs["matcher"],
	}, h.tags)
	if err != nil {
		return nil, err
	}
	return targetGroupOutputs(tg), nil
}

func (h *targetGroupHandler) Update(ctx context.Context, _ *graph.Declaration, attrs map[string]string) (map[string]string, error) {
	if err := h.client.DeleteTargetGroup(ctx, attrs["name"]); err != nil {
		return nil, err
	}
	return h.Create(ctx, nil, attrs)
}

func (h *targetGroupHandler) Delete(ctx context.Context, _ *graph.Declaration, live map[string]string) error {
	return h.client.DeleteTargetGroup(ctx, live["name"])
}

func targetGroupOutputs(tg *TargetGroup) map[string]string {
	return map[string]string{
		"name":              tg.Name,
		"port":              strconv.Itoa(int(tg.Port)),
		"health_check_path": tg.HealthCheckPath,
		"matcher":           tg.HealthCheckMatcher,
		"target_group_arn":  tg.ARN,
	}
}

type loadBalancerHandler struct {
	client CloudManager
	tags   map[string]string
}

func (h *loadBalancerHandler) Describe(ctx context.Context, _ *graph.Declaration, attrs map[string]string) (map[string]string, bool, error) {
	lb, err := h.client.GetLoadBalancer(ctx, attrs["name"])
	if err != nil || lb == nil {
		return nil, false, err
	}
	return loadBalancerOutputs(lb), true, nil
}

func (h *loadBalancerHandler) Create(ctx context.Context, _ *graph.Declaration, attrs map[string]string) (map[string]string, error) {
	lb, err := h.client.EnsureLoadBalancer(ctx, attrs["name"], splitIDs(attrs["subnet_ids"]), attrs["sg_id"], h.tags)
	if err != nil {
		return nil, err
	}
	return loadBalancerOutputs(lb), nil
}

func (h *loadBalancerHandler) Update(ctx context.Context, _ *graph.Declaration, attrs map[string]string) (map[string]string, error) {
	return h.Create(ctx, nil, attrs)
}

func (h *loadBalancerHandler) Delete(ctx context.Context, _ *graph.Declaration, live map[string]string) error {
	return h.client.DeleteLoadBalancer(ctx, live["name"])
}

func loadBalancerOutputs(lb *LoadBalancer) map[string]string {
	return map[string]string{
		"name":     lb.Name,
		"lb_arn":   lb.ARN,
		"dns_name": lb.DNSName,
	}
}

type listenerHandler struct {
	client CloudManager
	tags   map[string]string
}

func (h *listenerHandler) Describe(ctx context.Context, _ *graph.Declaration, attrs map[string]string) (map[string]string, bool, error) {
	if !hasAttrs(attrs, "lb_arn") {
		return nil, false, nil
	}
	l, err := h.client.GetListener(ctx, attrs["lb_arn"], atoi32(attrs, "port"))
	if err != nil || l == nil {
		return nil, false, err
	}
	return map[string]string{
		"lb_arn":       attrs["lb_arn"],
		"port":         strconv.Itoa(int(l.Port)),
		"listener_arn": l.ARN,
	}, true, nil
}

func (h *listenerHandler) Create(ctx context.Context, _ *graph.Declaration, attrs map[string]string) (map[string]string, error) {
	l, err := h.client.EnsureListener(ctx, attrs["lb_arn"], atoi32(attrs, "port"), attrs["target_group_arn"])
	if err != nil {
		return nil, err
	}
	return map[string]string{
		"lb_arn":       attrs["lb_arn"],
		"port":         strconv.Itoa(int(l.Port)),
		"listener_arn": l.ARN,
	}, nil
}

func (h *listenerHandler) Update(ctx context.Context, _ *graph.Declaration, attrs map[string]string) (map[string]string, error) {
	if err := h.client.DeleteListener(ctx, attrs["lb_arn"], atoi32(attrs, "port")); err != nil {
		return nil, err
	}
	return h.Create(ctx, nil, attrs)
}

func (h *listenerHandler) Delete(ctx context.Context, _ *graph.Declaration, live map[string]string) error {
	return h.client.DeleteListener(ctx, live["lb_arn"], atoi32(live, "port"))
}

type serviceHandler struct {
	client CloudManager
	tags   map[string]string
}

func (h *serviceHandler) opts(attrs map[string]string) ServiceOpts {
	return ServiceOpts{
		Cluster:           attrs["cluster"],
		Name:              attrs["name"],
		TaskDefinitionARN: attrs["task_definition"],
		DesiredCount:      atoi32(attrs, "desired_count"),
		SubnetIDs:         splitIDs(attrs["subnet_ids"]),
		SecurityGroupID:   attrs["sg_id"],
		TargetGroupARN:    attrs["target_group_arn"],
		ContainerName:     attrs["container_name"],
		ContainerPort:     atoi32(attrs, "container_port"),
	}
}

func (h *serviceHandler) Describe(ctx context.Context, _ *graph.Declaration, attrs map[string]string) (map[string]string, bool, error) {
	if !hasAttrs(attrs, "cluster") {
		return nil, false, nil
	}
	s, err := h.client.GetService(ctx, attrs["cluster"], attrs["name"])
	if err != nil || s == nil {
		return nil, false, err
	}
	return map[string]string{
		"name":            s.Name,
		"cluster":         attrs["cluster"],
		"task_definition": s.TaskDefinitionARN,
		"desired_count":   strconv.Itoa(int(s.DesiredCount)),
		"service_arn":     s.ARN,
	}, true, nil
}

func (h *serviceHandler) Create(ctx context.Context, _ *graph.Declaration, attrs map[string]string) (map[string]string, error) {
	s, err := h.client.EnsureService(ctx, h.opts(attrs), h.tags)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		"name":            s.Name,
		"cluster":         attrs["cluster"],
		"task_definition": s.TaskDefinitionARN,
		"desired_count":   strconv.Itoa(int(s.DesiredCount)),
		"service_arn":     s.ARN,
	}, nil
}

func (h *serviceHandler) Update(ctx context.Context, d *graph.Declaration, attrs map[string]string) (map[string]string, error) {
	return h.Create(ctx, d, attrs)
}

func (h *serviceHandler) Delete(ctx context.Context, _ *graph.Declaration, live map[string]string) error {
	return h.client.DeleteService(ctx, live["cluster"], live["name"])
}
