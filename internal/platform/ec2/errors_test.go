package ec2

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
)

func apiError(code string) error {
	return &smithy.GenericAPIError{Code: code, Message: "test"}
}

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"instance not found", apiError("InvalidInstanceID.NotFound"), true},
		{"key pair not found", apiError("InvalidKeyPair.NotFound"), true},
		{"malformed id", apiError("InvalidInstanceID.Malformed"), true},
		{"wrapped", fmt.Errorf("terminating: %w", apiError("InvalidInstanceID.NotFound")), true},
		{"throttle", apiError("RequestLimitExceeded"), false},
		{"plain error", errors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNotFound(tt.err))
		})
	}
}

func TestIsThrottled(t *testing.T) {
	assert.True(t, isThrottled(apiError("RequestLimitExceeded")))
	assert.True(t, isThrottled(apiError("Throttling")))
	assert.False(t, isThrottled(apiError("InvalidParameterValue")))
	assert.False(t, isThrottled(errors.New("boom")))
}

func TestIsInvalidParameter(t *testing.T) {
	assert.True(t, isInvalidParameter(apiError("InvalidParameterValue")))
	assert.True(t, isInvalidParameter(apiError("InvalidAMIID.NotFound")))
	assert.True(t, isInvalidParameter(apiError("UnauthorizedOperation")))
	assert.True(t, isInvalidParameter(apiError("InstanceLimitExceeded")))
	assert.False(t, isInvalidParameter(apiError("RequestLimitExceeded")))
	assert.False(t, isInvalidParameter(apiError("InternalError")))
	assert.False(t, isInvalidParameter(nil))
}
