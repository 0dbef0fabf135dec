package async

import (
	"context"
	"errors"
	"fmt"
)

// Task represents an asynchronous operation with a name and function.
type Task struct {
	Name string
	Func func(context.Context) error
}

// Result pairs a task name with its outcome.
type Result struct {
	Name string
	Err  error
}

// RunParallel executes tasks concurrently and returns one Result per task,
// in completion order. At most limit tasks run at a time; limit <= 0 means
// no bound. All tasks are always waited for, including after failures, so
// callers can account for every task individually.
//
// Example:
//
//	tasks := []Task{
//	    {Name: "vm-001", Func: launchOne},
//	    {Name: "vm-002", Func: launchOne},
//	}
//	for _, res := range RunParallel(ctx, tasks, 16) {
//	    if res.Err != nil {
//	        record(res.Name, res.Err)
//	    }
//	}
func RunParallel(ctx context.Context, tasks []Task, limit int) []Result {
	if len(tasks) == 0 {
		return nil
	}

	resultChan := make(chan Result, len(tasks))

	var sem chan struct{}
	if limit > 0 {
		sem = make(chan struct{}, limit)
	}

	for _, task := range tasks {
		go func() {
			if sem != nil {
				sem <- struct{}{}
				defer func() { <-sem }()
			}
			resultChan <- Result{Name: task.Name, Err: task.Func(ctx)}
		}()
	}

	results := make([]Result, 0, len(tasks))
	for range len(tasks) {
		results = append(results, <-resultChan)
	}

	return results
}

// Join collapses results into a single error, or nil when every task
// succeeded. Each failed task contributes a named, unwrappable error.
func Join(results []Result) error {
	var errs []error
	for _, res := range results {
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", res.Name, res.Err))
		}
	}
	return errors.Join(errs...)
}
