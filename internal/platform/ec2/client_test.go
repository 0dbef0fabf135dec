package ec2

import (
	"context"
	"encoding/base64"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsec2 "github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudera/director-aws/internal/cloud"
	"github.com/cloudera/director-aws/internal/config"
)

// fakeAPI implements API with overridable functions.
type fakeAPI struct {
	runInstances          func(ctx context.Context, params *awsec2.RunInstancesInput, optFns ...func(*awsec2.Options)) (*awsec2.RunInstancesOutput, error)
	describeInstances     func(ctx context.Context, params *awsec2.DescribeInstancesInput, optFns ...func(*awsec2.Options)) (*awsec2.DescribeInstancesOutput, error)
	createTags            func(ctx context.Context, params *awsec2.CreateTagsInput, optFns ...func(*awsec2.Options)) (*awsec2.CreateTagsOutput, error)
	terminateInstances    func(ctx context.Context, params *awsec2.TerminateInstancesInput, optFns ...func(*awsec2.Options)) (*awsec2.TerminateInstancesOutput, error)
	describeInstanceTypes func(ctx context.Context, params *awsec2.DescribeInstanceTypesInput, optFns ...func(*awsec2.Options)) (*awsec2.DescribeInstanceTypesOutput, error)
	importKeyPair         func(ctx context.Context, params *awsec2.ImportKeyPairInput, optFns ...func(*awsec2.Options)) (*awsec2.ImportKeyPairOutput, error)
}

var _ API = (*fakeAPI)(nil)

func (f *fakeAPI) RunInstances(ctx context.Context, params *awsec2.RunInstancesInput, optFns ...func(*awsec2.Options)) (*awsec2.RunInstancesOutput, error) {
	if f.runInstances == nil {
		return &awsec2.RunInstancesOutput{}, nil
	}
	return f.runInstances(ctx, params, optFns...)
}

func (f *fakeAPI) DescribeInstances(ctx context.Context, params *awsec2.DescribeInstancesInput, optFns ...func(*awsec2.Options)) (*awsec2.DescribeInstancesOutput, error) {
	if f.describeInstances == nil {
		return &awsec2.DescribeInstancesOutput{}, nil
	}
	return f.describeInstances(ctx, params, optFns...)
}

func (f *fakeAPI) CreateTags(ctx context.Context, params *awsec2.CreateTagsInput, optFns ...func(*awsec2.Options)) (*awsec2.CreateTagsOutput, error) {
	if f.createTags == nil {
		return &awsec2.CreateTagsOutput{}, nil
	}
	return f.createTags(ctx, params, optFns...)
}

func (f *fakeAPI) TerminateInstances(ctx context.Context, params *awsec2.TerminateInstancesInput, optFns ...func(*awsec2.Options)) (*awsec2.TerminateInstancesOutput, error) {
	if f.terminateInstances == nil {
		return &awsec2.TerminateInstancesOutput{}, nil
	}
	return f.terminateInstances(ctx, params, optFns...)
}

func (f *fakeAPI) DescribeInstanceTypes(ctx context.Context, params *awsec2.DescribeInstanceTypesInput, optFns ...func(*awsec2.Options)) (*awsec2.DescribeInstanceTypesOutput, error) {
	if f.describeInstanceTypes == nil {
		return &awsec2.DescribeInstanceTypesOutput{}, nil
	}
	return f.describeInstanceTypes(ctx, params, optFns...)
}

func (f *fakeAPI) ImportKeyPair(ctx context.Context, params *awsec2.ImportKeyPairInput, optFns ...func(*awsec2.Options)) (*awsec2.ImportKeyPairOutput, error) {
	if f.importKeyPair == nil {
		return &awsec2.ImportKeyPairOutput{}, nil
	}
	return f.importKeyPair(ctx, params, optFns...)
}

func testTimeouts() *config.Timeouts {
	return &config.Timeouts{
		PollInterval:          time.Millisecond,
		AllocationTimeout:     time.Second,
		LaunchTimeout:         time.Second,
		DeleteTimeout:         time.Second,
		RetryMaxAttempts:      2,
		RetryInitialDelay:     time.Millisecond,
		MaxConcurrentLaunches: 4,
	}
}

func testSpec() cloud.Spec {
	return cloud.Spec{
		NamePrefix: "director",
		Image:      "ami-0abcdef1234567890",
		Type:       "m5.large",
		Network:    "subnet-1234",
		Groups:     []string{"sg-1"},
		KeyName:    "ops",
		UserData:   "#!/bin/sh\necho hello",
	}
}

func TestLaunch_TagOnCreate(t *testing.T) {
	var captured *awsec2.RunInstancesInput
	api := &fakeAPI{
		runInstances: func(_ context.Context, params *awsec2.RunInstancesInput, _ ...func(*awsec2.Options)) (*awsec2.RunInstancesOutput, error) {
			captured = params
			return &awsec2.RunInstancesOutput{
				Instances: []types.Instance{{InstanceId: aws.String("i-0123")}},
			}, nil
		},
	}
	client := NewClient(api, WithTimeouts(testTimeouts()))

	id, err := client.Launch(context.Background(), "vm-001", testSpec(), map[string]string{
		"Cloudera-Director-Id": "vm-001",
		"Name":                 "director-vm-001",
	})
	require.NoError(t, err)
	assert.Equal(t, "i-0123", id)

	require.NotNil(t, captured)
	assert.Equal(t, "ami-0abcdef1234567890", aws.ToString(captured.ImageId))
	assert.Equal(t, types.InstanceType("m5.large"), captured.InstanceType)
	assert.Equal(t, "subnet-1234", aws.ToString(captured.SubnetId))
	assert.Equal(t, []string{"sg-1"}, captured.SecurityGroupIds)
	assert.Equal(t, "ops", aws.ToString(captured.KeyName))

	decoded, err := base64.StdEncoding.DecodeString(aws.ToString(captured.UserData))
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/sh\necho hello", string(decoded))

	require.Len(t, captured.TagSpecifications, 2)
	assert.Equal(t, types.ResourceTypeInstance, captured.TagSpecifications[0].ResourceType)
	assert.Equal(t, types.ResourceTypeVolume, captured.TagSpecifications[1].ResourceType)
	assert.Equal(t, "Cloudera-Director-Id", aws.ToString(captured.TagSpecifications[0].Tags[0].Key))
	assert.Equal(t, "vm-001", aws.ToString(captured.TagSpecifications[0].Tags[0].Value))
}

func TestLaunch_NilTagsOmitsTagSpecifications(t *testing.T) {
	var captured *awsec2.RunInstancesInput
	api := &fakeAPI{
		runInstances: func(_ context.Context, params *awsec2.RunInstancesInput, _ ...func(*awsec2.Options)) (*awsec2.RunInstancesOutput, error) {
			captured = params
			return &awsec2.RunInstancesOutput{
				Instances: []types.Instance{{InstanceId: aws.String("i-0123")}},
			}, nil
		},
	}
	client := NewClient(api, WithTimeouts(testTimeouts()))

	_, err := client.Launch(context.Background(), "vm-001", testSpec(), nil)
	require.NoError(t, err)
	assert.Empty(t, captured.TagSpecifications)
}

func TestLaunch_RetriesThrottling(t *testing.T) {
	var calls atomic.Int32
	api := &fakeAPI{
		runInstances: func(_ context.Context, _ *awsec2.RunInstancesInput, _ ...func(*awsec2.Options)) (*awsec2.RunInstancesOutput, error) {
			if calls.Add(1) == 1 {
				return nil, &smithy.GenericAPIError{Code: "RequestLimitExceeded", Message: "slow down"}
			}
			return &awsec2.RunInstancesOutput{
				Instances: []types.Instance{{InstanceId: aws.String("i-0123")}},
			}, nil
		},
	}
	client := NewClient(api, WithTimeouts(testTimeouts()))

	id, err := client.Launch(context.Background(), "vm-001", testSpec(), nil)
	require.NoError(t, err)
	assert.Equal(t, "i-0123", id)
	assert.Equal(t, int32(2), calls.Load())
}

func TestLaunch_PermanentErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	api := &fakeAPI{
		runInstances: func(_ context.Context, _ *awsec2.RunInstancesInput, _ ...func(*awsec2.Options)) (*awsec2.RunInstancesOutput, error) {
			calls.Add(1)
			return nil, &smithy.GenericAPIError{Code: "InvalidParameterValue", Message: "bad subnet"}
		},
	}
	client := NewClient(api, WithTimeouts(testTimeouts()))

	_, err := client.Launch(context.Background(), "vm-001", testSpec(), nil)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestTag_SkipsEmptyTagSet(t *testing.T) {
	called := false
	api := &fakeAPI{
		createTags: func(_ context.Context, _ *awsec2.CreateTagsInput, _ ...func(*awsec2.Options)) (*awsec2.CreateTagsOutput, error) {
			called = true
			return &awsec2.CreateTagsOutput{}, nil
		},
	}
	client := NewClient(api, WithTimeouts(testTimeouts()))

	require.NoError(t, client.Tag(context.Background(), "i-0123", nil))
	assert.False(t, called)
}

func TestTag_SendsTags(t *testing.T) {
	var captured *awsec2.CreateTagsInput
	api := &fakeAPI{
		createTags: func(_ context.Context, params *awsec2.CreateTagsInput, _ ...func(*awsec2.Options)) (*awsec2.CreateTagsOutput, error) {
			captured = params
			return &awsec2.CreateTagsOutput{}, nil
		},
	}
	client := NewClient(api, WithTimeouts(testTimeouts()))

	err := client.Tag(context.Background(), "i-0123", map[string]string{"Cloudera-Director-Id": "vm-001"})
	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.Equal(t, []string{"i-0123"}, captured.Resources)
	require.Len(t, captured.Tags, 1)
	assert.Equal(t, "Cloudera-Director-Id", aws.ToString(captured.Tags[0].Key))
}

func TestTerminate_IgnoresUnknownIDs(t *testing.T) {
	var batchCalls, singleCalls atomic.Int32
	api := &fakeAPI{
		terminateInstances: func(_ context.Context, params *awsec2.TerminateInstancesInput, _ ...func(*awsec2.Options)) (*awsec2.TerminateInstancesOutput, error) {
			if len(params.InstanceIds) > 1 {
				batchCalls.Add(1)
				return nil, &smithy.GenericAPIError{Code: "InvalidInstanceID.NotFound", Message: "i-gone does not exist"}
			}
			singleCalls.Add(1)
			if params.InstanceIds[0] == "i-gone" {
				return nil, &smithy.GenericAPIError{Code: "InvalidInstanceID.NotFound", Message: "does not exist"}
			}
			return &awsec2.TerminateInstancesOutput{}, nil
		},
	}
	client := NewClient(api, WithTimeouts(testTimeouts()))

	err := client.Terminate(context.Background(), []string{"i-0123", "i-gone"})
	require.NoError(t, err)
	assert.Equal(t, int32(1), batchCalls.Load())
	assert.Equal(t, int32(2), singleCalls.Load())
}

func TestTerminate_PropagatesRealErrors(t *testing.T) {
	api := &fakeAPI{
		terminateInstances: func(_ context.Context, _ *awsec2.TerminateInstancesInput, _ ...func(*awsec2.Options)) (*awsec2.TerminateInstancesOutput, error) {
			return nil, &smithy.GenericAPIError{Code: "UnauthorizedOperation", Message: "denied"}
		},
	}
	client := NewClient(api, WithTimeouts(testTimeouts()))

	err := client.Terminate(context.Background(), []string{"i-0123"})
	require.Error(t, err)
}

func TestTerminate_NoIDsNoCall(t *testing.T) {
	called := false
	api := &fakeAPI{
		terminateInstances: func(_ context.Context, _ *awsec2.TerminateInstancesInput, _ ...func(*awsec2.Options)) (*awsec2.TerminateInstancesOutput, error) {
			called = true
			return &awsec2.TerminateInstancesOutput{}, nil
		},
	}
	client := NewClient(api, WithTimeouts(testTimeouts()))

	require.NoError(t, client.Terminate(context.Background(), nil))
	assert.False(t, called)
}

func TestImportKeyPair(t *testing.T) {
	var captured *awsec2.ImportKeyPairInput
	api := &fakeAPI{
		importKeyPair: func(_ context.Context, params *awsec2.ImportKeyPairInput, _ ...func(*awsec2.Options)) (*awsec2.ImportKeyPairOutput, error) {
			captured = params
			return &awsec2.ImportKeyPairOutput{
				KeyPairId:      aws.String("key-0abc"),
				KeyName:        aws.String("director-ops"),
				KeyFingerprint: aws.String("ab:cd"),
			}, nil
		},
	}
	client := NewClient(api, WithTimeouts(testTimeouts()))

	kp, err := client.ImportKeyPair(context.Background(), "director-ops", []byte("ssh-rsa AAAA"), map[string]string{"Name": "director-ops"})
	require.NoError(t, err)
	assert.Equal(t, "key-0abc", kp.ID)
	assert.Equal(t, "director-ops", kp.Name)
	assert.Equal(t, "ab:cd", kp.Fingerprint)

	require.NotNil(t, captured)
	assert.Equal(t, []byte("ssh-rsa AAAA"), captured.PublicKeyMaterial)
	require.Len(t, captured.TagSpecifications, 1)
	assert.Equal(t, types.ResourceTypeKeyPair, captured.TagSpecifications[0].ResourceType)
}
