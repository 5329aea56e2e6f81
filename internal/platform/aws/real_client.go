package aws

import (
	"context"
	"fmt"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/sonarup/sonarup/internal/util/retry"
)

// Timeouts bounds the long-running waits against the provider.
type Timeouts struct {
	DatabaseAvailable time.Duration
	DatabaseDeleted   time.Duration
	ServiceStable     time.Duration
	Delete            time.Duration
	RetryMaxAttempts  int
	RetryInitialDelay time.Duration
}

// DefaultTimeouts returns production defaults. A managed database routinely
// takes ten minutes to come up.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		DatabaseAvailable: 20 * time.Minute,
		DatabaseDeleted:   20 * time.Minute,
		ServiceStable:     15 * time.Minute,
		Delete:            5 * time.Minute,
		RetryMaxAttempts:  5,
		RetryInitialDelay: 2 * time.Second,
	}
}

// RealClient implements CloudManager against the AWS SDK.
type RealClient struct {
	region   string
	timeouts Timeouts

	ec2     *ec2.Client
	rds     *rds.Client
	ecs     *ecs.Client
	elb     *elasticloadbalancingv2.Client
	secrets *secretsmanager.Client
	logs    *cloudwatchlogs.Client
	iam     *iam.Client
	sts     *sts.Client
}

var _ CloudManager = (*RealClient)(nil)

// ClientOption customizes RealClient construction.
type ClientOption func(*clientOptions)

type clientOptions struct {
	staticAccessKey string
	staticSecretKey string
	timeouts        *Timeouts
}

// WithStaticCredentials bypasses the default credential chain. Used by CI
// environments that inject short-lived keys directly.
func WithStaticCredentials(accessKey, secretKey string) ClientOption {
	return func(o *clientOptions) {
		o.staticAccessKey = accessKey
		o.staticSecretKey = secretKey
	}
}

// WithTimeouts overrides the default operation timeouts.
func WithTimeouts(t Timeouts) ClientOption {
	return func(o *clientOptions) {
		o.timeouts = &t
	}
}

// NewRealClient creates a client for the given region using the default
// credential chain (environment, shared config, instance metadata).
func NewRealClient(ctx context.Context, region string, opts ...ClientOption) (*RealClient, error) {
	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if o.staticAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(o.staticAccessKey, o.staticSecretKey, "")))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	timeouts := DefaultTimeouts()
	if o.timeouts != nil {
		timeouts = *o.timeouts
	}

	return &RealClient{
		region:   region,
		timeouts: timeouts,
		ec2:      ec2.NewFromConfig(cfg),
		rds:      rds.NewFromConfig(cfg),
		ecs:      ecs.NewFromConfig(cfg),
		elb:      elasticloadbalancingv2.NewFromConfig(cfg),
		secrets:  secretsmanager.NewFromConfig(cfg),
		logs:     cloudwatchlogs.NewFromConfig(cfg),
		iam:      iam.NewFromConfig(cfg),
		sts:      sts.NewFromConfig(cfg),
	}, nil
}

// withRetry retries throttled and conflicting calls with exponential
// backoff. Conflicts are common during teardown while network interfaces
// drain; anything else fails immediately.
func (c *RealClient) withRetry(ctx context.Context, op func() error) error {
	return retry.Do(ctx, op,
		retry.WithMaxAttempts(c.timeouts.RetryMaxAttempts),
		retry.WithInitialDelay(c.timeouts.RetryInitialDelay),
		retry.WithRetryable(func(err error) bool {
			return IsThrottled(err) || IsConflict(err)
		}),
	)
}

// Region returns the region the client talks to.
func (c *RealClient) Region() string {
	return c.region
}

// CallerIdentity confirms the operator's identity. An error here means the
// credential chain produced nothing usable and no mutating call should be
// attempted.
func (c *RealClient) CallerIdentity(ctx context.Context) (*Identity, error) {
	out, err := c.sts.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to confirm caller identity: %w", err)
	}
	id := &Identity{}
	if out.Account != nil {
		id.Account = *out.Account
	}
	if out.Arn != nil {
		id.ARN = *out.Arn
	}
	if out.UserId != nil {
		id.UserID = *out.UserId
	}
	return id, nil
}
