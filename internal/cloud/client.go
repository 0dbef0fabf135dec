package cloud

import "context"

// Client is the provider boundary of the allocation engine. Implementations
// wrap one cloud SDK and one already-resolved endpoint/region; they do not
// retry beyond what their SDK transport does, and they never interpret
// virtual instance IDs beyond storing them in tags.
//
// Implementations must be safe for concurrent use: the engine issues
// launches and describes from multiple goroutines.
type Client interface {
	// Launch requests creation of a single resource for virtualID. When
	// tags is non-nil it is attached atomically as part of the creation
	// request; callers that need tag-after-create semantics pass nil and
	// call Tag separately. Returns the provider-assigned ID.
	Launch(ctx context.Context, virtualID string, spec Spec, tags map[string]string) (string, error)

	// DescribeByTag returns every live-or-dead resource whose tag under
	// key matches one of values, in a single batched (paginated) query.
	DescribeByTag(ctx context.Context, key string, values []string) ([]Description, error)

	// DescribeByID returns the current description of the given provider
	// IDs in a single batched query. IDs the provider no longer reports
	// are absent from the result, not an error.
	DescribeByID(ctx context.Context, providerIDs []string) ([]Description, error)

	// Tag attaches tags to an existing resource, merging with whatever
	// is already present.
	Tag(ctx context.Context, providerID string, tags map[string]string) error

	// Terminate requests destruction of the given resources. Unknown or
	// already-terminated IDs are ignored.
	Terminate(ctx context.Context, providerIDs []string) error
}

// DetailSource is implemented by clients that can fetch auxiliary display
// attributes for a resource. Lookups are best-effort: the engine swallows
// errors and leaves the attributes empty, since none of this data gates
// readiness.
type DetailSource interface {
	DescribeDetails(ctx context.Context, providerID string) (map[string]string, error)
}
