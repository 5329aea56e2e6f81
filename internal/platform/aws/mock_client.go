package aws

import (
	"context"
	"fmt"
	"sync"
)

// MockClient is an in-memory CloudManager for tests. All operations succeed
// unless an error is queued for them by name via FailWith.
type MockClient struct {
	mu sync.Mutex

	region string

	vpcs            map[string]*VPC
	securityGroups  map[string]*SecurityGroup
	subnetGroups    map[string]*DBSubnetGroup
	databases       map[string]*Database
	secrets         map[string]*Secret
	secretValues    map[string]string
	logGroups       map[string]*LogGroup
	roles           map[string]*Role
	clusters        map[string]*Cluster
	taskDefRevision map[string]int32
	taskDefs        map[string]*TaskDefinition
	services        map[string]*Service
	loadBalancers   map[string]*LoadBalancer
	targetGroups    map[string]*TargetGroup
	listeners       map[string]*Listener

	failures map[string]error

	nextID int
}

var _ CloudManager = (*MockClient)(nil)

// NewMockClient creates an empty mock for the given region.
func NewMockClient(region string) *MockClient {
	return &MockClient{
		region:          region,
		vpcs:            make(map[string]*VPC),
		securityGroups:  make(map[string]*SecurityGroup),
		subnetGroups:    make(map[string]*DBSubnetGroup),
		databases:       make(map[string]*Database),
		secrets:         make(map[string]*Secret),
		secretValues:    make(map[string]string),
		logGroups:       make(map[string]*LogGroup),
		roles:           make(map[string]*Role),
		clusters:        make(map[string]*Cluster),
		taskDefRevision: make(map[string]int32),
		taskDefs:        make(map[string]*TaskDefinition),
		services:        make(map[string]*Service),
		loadBalancers:   make(map[string]*LoadBalancer),
		targetGroups:    make(map[string]*TargetGroup),
		listeners:       make(map[string]*Listener),
		failures:        make(map[string]error),
	}
}

// FailWith makes the operation identified by "op/name" return err once
// matched, e.g. FailWith("EnsureDatabase/prod-db", errors.New("boom")).
func (m *MockClient) FailWith(key string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[key] = err
}

func (m *MockClient) failure(op, name string) error {
	return m.failures[op+"/"+name]
}

func (m *MockClient) id(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s-%08d", prefix, m.nextID)
}

// Region returns the configured region.
func (m *MockClient) Region() string {
	return m.region
}

// CallerIdentity returns a fixed test identity.
func (m *MockClient) CallerIdentity(ctx context.Context) (*Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("CallerIdentity", ""); err != nil {
		return nil, err
	}
	return &Identity{
		Account: "123456789012",
		ARN:     "arn:aws:iam::123456789012:user/tester",
		UserID:  "AIDATEST",
	}, nil
}

func (m *MockClient) EnsureVPC(ctx context.Context, name, cidr string, tags map[string]string) (*VPC, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("EnsureVPC", name); err != nil {
		return nil, err
	}
	if existing, ok := m.vpcs[name]; ok {
		return existing, nil
	}
	vpc := &VPC{
		ID:   m.id("vpc"),
		Name: name,
		CIDR: cidr,
		PublicSubnetIDs: []string{
			m.id("subnet"), m.id("subnet"),
		},
		PrivateSubnetIDs: []string{
			m.id("subnet"), m.id("subnet"),
		},
	}
	m.vpcs[name] = vpc
	return vpc, nil
}

func (m *MockClient) GetVPC(ctx context.Context, name string) (*VPC, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.vpcs[name], nil
}

func (m *MockClient) DeleteVPC(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("DeleteVPC", name); err != nil {
		return err
	}
	delete(m.vpcs, name)
	return nil
}

func (m *MockClient) EnsureSecurityGroup(ctx context.Context, name, vpcID string, rule IngressRule, tags map[string]string) (*SecurityGroup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("EnsureSecurityGroup", name); err != nil {
		return nil, err
	}
	if existing, ok := m.securityGroups[name]; ok {
		return existing, nil
	}
	sg := &SecurityGroup{ID: m.id("sg"), Name: name, VPCID: vpcID, Rule: rule}
	m.securityGroups[name] = sg
	return sg, nil
}

func (m *MockClient) GetSecurityGroup(ctx context.Context, name, vpcID string) (*SecurityGroup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.securityGroups[name], nil
}

func (m *MockClient) DeleteSecurityGroup(ctx context.Context, name, vpcID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.securityGroups, name)
	return nil
}

func (m *MockClient) EnsureDBSubnetGroup(ctx context.Context, name string, subnetIDs []string, tags map[string]string) (*DBSubnetGroup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("EnsureDBSubnetGroup", name); err != nil {
		return nil, err
	}
	if existing, ok := m.subnetGroups[name]; ok {
		return existing, nil
	}
	g := &DBSubnetGroup{Name: name, SubnetIDs: subnetIDs}
	m.subnetGroups[name] = g
	return g, nil
}

func (m *MockClient) GetDBSubnetGroup(ctx context.Context, name string) (*DBSubnetGroup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.subnetGroups[name], nil
}

func (m *MockClient) DeleteDBSubnetGroup(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subnetGroups, name)
	return nil
}

func (m *MockClient) EnsureDatabase(ctx context.Context, opts DatabaseOpts, tags map[string]string) (*Database, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("EnsureDatabase", opts.Identifier); err != nil {
		return nil, err
	}
	if existing, ok := m.databases[opts.Identifier]; ok {
		return existing, nil
	}
	db := &Database{
		Identifier:       opts.Identifier,
		Status:           "available",
		Address:          opts.Identifier + ".abc123.mock.rds.amazonaws.com",
		Port:             5432,
		EngineVersion:    opts.EngineVersion,
		InstanceClass:    opts.InstanceClass,
		AllocatedStorage: opts.AllocatedStorage,
	}
	db.Endpoint = fmt.Sprintf("%s:%d", db.Address, db.Port)
	m.databases[opts.Identifier] = db
	return db, nil
}

func (m *MockClient) GetDatabase(ctx context.Context, identifier string) (*Database, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.databases[identifier], nil
}

func (m *MockClient) ModifyDatabase(ctx context.Context, opts DatabaseOpts) (*Database, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("ModifyDatabase", opts.Identifier); err != nil {
		return nil, err
	}
	db, ok := m.databases[opts.Identifier]
	if !ok {
		return nil, fmt.Errorf("database %s not found", opts.Identifier)
	}
	if opts.EngineVersion != "" {
		db.EngineVersion = opts.EngineVersion
	}
	if opts.InstanceClass != "" {
		db.InstanceClass = opts.InstanceClass
	}
	if opts.AllocatedStorage > 0 {
		db.AllocatedStorage = opts.AllocatedStorage
	}
	return db, nil
}

func (m *MockClient) DeleteDatabase(ctx context.Context, identifier string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("DeleteDatabase", identifier); err != nil {
		return err
	}
	delete(m.databases, identifier)
	return nil
}

func (m *MockClient) EnsureSecret(ctx context.Context, name, value string, tags map[string]string) (*Secret, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("EnsureSecret", name); err != nil {
		return nil, err
	}
	if existing, ok := m.secrets[name]; ok {
		return existing, nil
	}
	s := &Secret{
		ARN:     fmt.Sprintf("arn:aws:secretsmanager:%s:123456789012:secret:%s", m.region, name),
		Name:    name,
		Version: m.id("ver"),
	}
	m.secrets[name] = s
	m.secretValues[name] = value
	return s, nil
}

func (m *MockClient) GetSecret(ctx context.Context, name string) (*Secret, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.secrets[name], nil
}

func (m *MockClient) GetSecretValue(ctx context.Context, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.secretValues[name]
	if !ok {
		return "", fmt.Errorf("secret %s not found", name)
	}
	return value, nil
}

func (m *MockClient) UpdateSecretValue(ctx context.Context, name, value string) (*Secret, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.secrets[name]
	if !ok {
		return nil, fmt.Errorf("secret %s not found", name)
	}
	m.secretValues[name] = value
	s.Version = m.id("ver")
	return s, nil
}

func (m *MockClient) DeleteSecret(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.secrets, name)
	delete(m.secretValues, name)
	return nil
}

func (m *MockClient) EnsureLogGroup(ctx context.Context, name string, retentionDays int32, tags map[string]string) (*LogGroup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("EnsureLogGroup", name); err != nil {
		return nil, err
	}
	g := &LogGroup{Name: name, RetentionDays: retentionDays}
	m.logGroups[name] = g
	return g, nil
}

func (m *MockClient) GetLogGroup(ctx context.Context, name string) (*LogGroup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.logGroups[name], nil
}

func (m *MockClient) DeleteLogGroup(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.logGroups, name)
	return nil
}

func (m *MockClient) EnsureTaskExecutionRole(ctx context.Context, name, secretARN string, tags map[string]string) (*Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("EnsureTaskExecutionRole", name); err != nil {
		return nil, err
	}
	if existing, ok := m.roles[name]; ok {
		return existing, nil
	}
	r := &Role{ARN: "arn:aws:iam::123456789012:role/" + name, Name: name}
	m.roles[name] = r
	return r, nil
}

func (m *MockClient) GetRole(ctx context.Context, name string) (*Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.roles[name], nil
}

func (m *MockClient) DeleteRole(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.roles, name)
	return nil
}

func (m *MockClient) EnsureCluster(ctx context.Context, name string, tags map[string]string) (*Cluster, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("EnsureCluster", name); err != nil {
		return nil, err
	}
	if existing, ok := m.clusters[name]; ok {
		return existing, nil
	}
	cl := &Cluster{
		ARN:    fmt.Sprintf("arn:aws:ecs:%s:123456789012:cluster/%s", m.region, name),
		Name:   name,
		Status: "ACTIVE",
	}
	m.clusters[name] = cl
	return cl, nil
}

func (m *MockClient) GetCluster(ctx context.Context, name string) (*Cluster, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clusters[name], nil
}

func (m *MockClient) DeleteCluster(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.clusters, name)
	return nil
}

func (m *MockClient) RegisterTaskDefinition(ctx context.Context, opts TaskDefinitionOpts, tags map[string]string) (*TaskDefinition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("RegisterTaskDefinition", opts.Family); err != nil {
		return nil, err
	}
	m.taskDefRevision[opts.Family]++
	td := &TaskDefinition{
		ARN: fmt.Sprintf("arn:aws:ecs:%s:123456789012:task-definition/%s:%d",
			m.region, opts.Family, m.taskDefRevision[opts.Family]),
		Family:    opts.Family,
		Revision:  m.taskDefRevision[opts.Family],
		Image:     opts.Image,
		CPU:       opts.CPU,
		MemoryMiB: opts.MemoryMiB,
	}
	m.taskDefs[opts.Family] = td
	return td, nil
}

func (m *MockClient) GetTaskDefinition(ctx context.Context, family string) (*TaskDefinition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.taskDefs[family], nil
}

func (m *MockClient) DeregisterTaskDefinition(ctx context.Context, arn string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for family, td := range m.taskDefs {
		if td.ARN == arn {
			delete(m.taskDefs, family)
		}
	}
	return nil
}

func (m *MockClient) EnsureService(ctx context.Context, opts ServiceOpts, tags map[string]string) (*Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("EnsureService", opts.Name); err != nil {
		return nil, err
	}
	key := opts.Cluster + "/" + opts.Name
	s, ok := m.services[key]
	if !ok {
		s = &Service{
			ARN: fmt.Sprintf("arn:aws:ecs:%s:123456789012:service/%s/%s",
				m.region, opts.Cluster, opts.Name),
			Name:   opts.Name,
			Status: "ACTIVE",
		}
		m.services[key] = s
	}
	s.TaskDefinitionARN = opts.TaskDefinitionARN
	s.DesiredCount = opts.DesiredCount
	s.RunningCount = opts.DesiredCount
	return s, nil
}

func (m *MockClient) GetService(ctx context.Context, cluster, name string) (*Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.services[cluster+"/"+name], nil
}

func (m *MockClient) DeleteService(ctx context.Context, cluster, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("DeleteService", name); err != nil {
		return err
	}
	delete(m.services, cluster+"/"+name)
	return nil
}

func (m *MockClient) EnsureLoadBalancer(ctx context.Context, name string, subnetIDs []string, securityGroupID string, tags map[string]string) (*LoadBalancer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("EnsureLoadBalancer", name); err != nil {
		return nil, err
	}
	if existing, ok := m.loadBalancers[name]; ok {
		return existing, nil
	}
	lb := &LoadBalancer{
		ARN: fmt.Sprintf("arn:aws:elasticloadbalancing:%s:123456789012:loadbalancer/app/%s",
			m.region, name),
		Name:    name,
		DNSName: fmt.Sprintf("%s-1234567890.%s.elb.amazonaws.com", name, m.region),
		State:   "active",
	}
	m.loadBalancers[name] = lb
	return lb, nil
}

func (m *MockClient) GetLoadBalancer(ctx context.Context, name string) (*LoadBalancer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadBalancers[name], nil
}

func (m *MockClient) DeleteLoadBalancer(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.loadBalancers, name)
	return nil
}

func (m *MockClient) EnsureTargetGroup(ctx context.Context, opts TargetGroupOpts, tags map[string]string) (*TargetGroup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("EnsureTargetGroup", opts.Name); err != nil {
		return nil, err
	}
	if existing, ok := m.targetGroups[opts.Name]; ok {
		return existing, nil
	}
	tg := &TargetGroup{
		ARN: fmt.Sprintf("arn:aws:elasticloadbalancing:%s:123456789012:targetgroup/%s",
			m.region, opts.Name),
		Name:               opts.Name,
		Port:               opts.Port,
		HealthCheckPath:    opts.HealthCheckPath,
		HealthCheckMatcher: opts.HealthCheckMatcher,
	}
	m.targetGroups[opts.Name] = tg
	return tg, nil
}

func (m *MockClient) GetTargetGroup(ctx context.Context, name string) (*TargetGroup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.targetGroups[name], nil
}

func (m *MockClient) DeleteTargetGroup(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.targetGroups, name)
	return nil
}

func (m *MockClient) EnsureListener(ctx context.Context, lbARN string, port int32, targetGroupARN string) (*Listener, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := fmt.Sprintf("%s:%d", lbARN, port)
	if err := m.failure("EnsureListener", key); err != nil {
		return nil, err
	}
	if existing, ok := m.listeners[key]; ok {
		return existing, nil
	}
	l := &Listener{ARN: key + "/listener", Port: port}
	m.listeners[key] = l
	return l, nil
}

func (m *MockClient) GetListener(ctx context.Context, lbARN string, port int32) (*Listener, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listeners[fmt.Sprintf("%s:%d", lbARN, port)], nil
}

func (m *MockClient) DeleteListener(ctx context.Context, lbARN string, port int32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.listeners, fmt.Sprintf("%s:%d", lbARN, port))
	return nil
}
