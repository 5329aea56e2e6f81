package aws

import (
	"errors"
	"strings"

	"github.com/aws/smithy-go"
)

// notFoundCodes are the per-service error codes meaning "does not exist".
var notFoundCodes = map[string]bool{
	"ResourceNotFoundException":  true, // secretsmanager, cloudwatchlogs
	"DBInstanceNotFound":         true, // rds
	"DBInstanceNotFoundFault":    true,
	"DBSubnetGroupNotFoundFault": true,
	"ClusterNotFoundException":   true, // ecs
	"ServiceNotFoundException":   true,
	"LoadBalancerNotFound":       true, // elbv2
	"TargetGroupNotFound":        true,
	"ListenerNotFound":           true,
	"NoSuchEntity":               true, // iam
	"InvalidVpcID.NotFound":      true, // ec2
	"InvalidGroup.NotFound":      true,
	"InvalidSubnetID.NotFound":   true,
}

var throttleCodes = map[string]bool{
	"Throttling":               true,
	"ThrottlingException":      true,
	"RequestLimitExceeded":     true,
	"TooManyRequestsException": true,
}

// IsNotFound reports whether the error means a resource does not exist.
func IsNotFound(err error) bool {
	return hasErrorCode(err, notFoundCodes)
}

// IsTaskDefinitionMissing reports whether the error is ECS telling us a task
// definition family has no revisions. DescribeTaskDefinition signals that
// with a generic ClientException instead of a dedicated not-found code, so
// the code alone cannot be used here.
func IsTaskDefinitionMissing(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.ErrorCode() == "ClientException" &&
		strings.Contains(apiErr.ErrorMessage(), "Unable to describe task definition")
}

// IsThrottled reports whether the error is a rate-limit response. These are
// retryable.
func IsThrottled(err error) bool {
	return hasErrorCode(err, throttleCodes)
}

// IsConflict reports whether the error indicates the resource changed or is
// busy mid-operation. These are retryable.
func IsConflict(err error) bool {
	return hasErrorCode(err, map[string]bool{
		"InvalidDBInstanceState":    true,
		"ResourceInUseException":    true,
		"DependencyViolation":       true,
		"OperationNotPermitted":     true,
		"IncompatibleNetwork":       true,
		"UpdateInProgressException": true,
	})
}

func hasErrorCode(err error, codes map[string]bool) bool {
	if err == nil {
		return false
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return codes[apiErr.ErrorCode()]
	}
	return false
}
