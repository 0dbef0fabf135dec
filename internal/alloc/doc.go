// Package alloc implements the allocation engine: it reconciles a batch of
// caller-assigned virtual instance IDs against the resources a provider
// actually has, launches what is missing, waits for network readiness, and
// returns a best-effort result bounded by a minimum success count.
//
// # Correlation
//
// Virtual instance IDs are stable across retries and crashes; the engine
// itself stores nothing between calls. The only durable linkage is the
// correlation tag written onto each provider resource (see the tags
// package). Every operation starts by resolving the requested IDs through
// one batched describe-by-tag query; resources already in a terminal state
// are treated as absent, so a stale tag never blocks a relaunch.
//
// # Partial failure
//
// Failures of a single instance - a rejected launch, a resource that
// terminates before it gets an address - are recorded on that instance's
// record and never abort the batch. Allocation fails as a whole only when
// fewer than the requested minimum become ready; the returned *Error then
// enumerates the terminal outcome of every requested ID. Context
// cancellation is the one exception: it always propagates immediately.
//
// # Readiness
//
// An instance is ready when its provider state maps to running and it has
// a network address. Everything a poll cycle needs travels in one batched
// describe-by-ID call; auxiliary display details are fetched best-effort
// and never gate readiness.
package alloc
