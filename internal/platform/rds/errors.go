package rds

import (
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/rds/types"
	"github.com/aws/smithy-go"
)

func apiErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

// isNotFound checks if an error indicates the database does not exist.
func isNotFound(err error) bool {
	var nf *types.DBInstanceNotFoundFault
	if errors.As(err, &nf) {
		return true
	}
	return apiErrorCode(err) == "DBInstanceNotFound"
}

// isAlreadyExists checks if an error indicates the identifier is taken.
func isAlreadyExists(err error) bool {
	var ae *types.DBInstanceAlreadyExistsFault
	if errors.As(err, &ae) {
		return true
	}
	return apiErrorCode(err) == "DBInstanceAlreadyExists"
}

// isInvalidState checks for operations rejected because the instance is
// mid-transition, e.g. deleting an instance that is already deleting.
func isInvalidState(err error) bool {
	var is *types.InvalidDBInstanceStateFault
	if errors.As(err, &is) {
		return true
	}
	return apiErrorCode(err) == "InvalidDBInstanceState"
}

// isInvalidParameter checks if an error will never succeed on retry.
func isInvalidParameter(err error) bool {
	switch apiErrorCode(err) {
	case "InvalidParameterValue",
		"InvalidParameterCombination",
		"MissingParameter",
		"DBSubnetGroupNotFoundFault",
		"InvalidSubnet",
		"InsufficientDBInstanceCapacity",
		"InstanceQuotaExceeded",
		"StorageQuotaExceeded",
		"AccessDenied",
		"UnauthorizedOperation":
		return true
	default:
		return false
	}
}
