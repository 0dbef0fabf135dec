// Package retry provides exponential backoff retry logic for transient
// cloud API failures.
//
// The [WithExponentialBackoff] function retries an operation with
// configurable max attempts, initial delay, and maximum delay. Provider
// throttling and eventual-consistency errors are retried; errors wrapped
// with [Permanent] abort immediately.
package retry
