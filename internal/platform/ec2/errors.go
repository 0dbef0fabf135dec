package ec2

import (
	"errors"
	"strings"

	"github.com/aws/smithy-go"
)

// apiErrorCode extracts the EC2 API error code, or "" for non-API errors.
func apiErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

// IsNotFound checks if an error indicates a resource does not exist.
// EC2 reports missing resources per resource kind, e.g.
// InvalidInstanceID.NotFound or InvalidKeyPair.NotFound.
func IsNotFound(err error) bool {
	code := apiErrorCode(err)
	return code != "" && (strings.HasSuffix(code, ".NotFound") || strings.HasSuffix(code, ".Malformed"))
}

// isThrottled checks if an error indicates API rate limiting. These
// errors are retryable.
func isThrottled(err error) bool {
	switch apiErrorCode(err) {
	case "Throttling", "ThrottlingException", "RequestLimitExceeded":
		return true
	default:
		return false
	}
}

// isInvalidParameter checks if an error will never succeed on retry:
// malformed requests, missing permissions, and exhausted quotas.
func isInvalidParameter(err error) bool {
	switch apiErrorCode(err) {
	case "InvalidParameterValue",
		"InvalidParameterCombination",
		"MissingParameter",
		"InvalidAMIID.NotFound",
		"InvalidAMIID.Malformed",
		"InvalidSubnetID.NotFound",
		"InvalidGroup.NotFound",
		"InvalidKeyPair.NotFound",
		"Unsupported",
		"UnauthorizedOperation",
		"InstanceLimitExceeded",
		"VcpuLimitExceeded":
		return true
	default:
		return false
	}
}
