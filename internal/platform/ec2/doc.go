// Package ec2 provides a wrapper around the Amazon EC2 API with retry
// logic, timeout management, and error classification.
//
// # Architecture
//
// The package is organized into operation-specific modules:
//
//   - client.go: Client initialization and the narrow SDK interface
//   - launch.go: Instance launch with atomic tag-on-create support
//   - describe.go: Batched describe by tag or instance ID
//   - lifecycle.go: Tagging and termination
//   - details.go: Best-effort hardware detail lookups
//   - keypair.go: SSH key pair import
//   - errors.go: Error classification for retry logic
//
// # Correlation
//
// Instances are located exclusively through tag filters. Describe calls
// use the tag and instance-id filters rather than the InstanceIds
// parameter, because the parameter form fails the entire request when any
// single ID is unknown, while the filter form simply omits unknown IDs
// from the response.
//
// # Retry Behavior
//
// Mutating calls retry transient failures (throttling, request limits,
// internal errors) with exponential backoff. Validation failures, missing
// permissions, and exhausted quotas abort immediately.
package ec2
