// Package async provides utilities for parallel task execution with
// per-task error collection.
//
// The [RunParallel] function executes multiple operations concurrently,
// bounded by an optional concurrency limit, and returns one result per
// task. Allocation uses it to launch instance batches where individual
// failures must be recorded rather than aborting the batch.
package async
