// Package tags builds the provider tags that link remote resources back to
// their virtual instance IDs.
//
// The correlation tag is the wire contract of the whole system: it is the
// only persisted linkage between a virtual instance ID and a provider
// resource, and it is what makes retries idempotent. Provider limits bound
// what a virtual instance ID may look like: EC2 and RDS accept tag values up
// to 256 characters, Hetzner Cloud label values are capped at 63 characters
// drawn from [a-zA-Z0-9._-]. Callers targeting multiple providers must keep
// their IDs within the strictest of those.
package tags

// Tag keys attached to every resource the engine launches.
const (
	// KeyInstanceID carries the virtual instance ID. Resources without
	// this tag are invisible to the correlation index.
	KeyInstanceID = "Cloudera-Director-Id"

	// KeyTemplateName records which instance template produced the
	// resource. Display only, never used for correlation.
	KeyTemplateName = "Cloudera-Director-Template-Name"

	// KeyName is the provider's conventional display-name tag.
	KeyName = "Name"
)

// Builder assembles the tag set for one resource.
type Builder struct {
	tags map[string]string
}

// NewBuilder starts a tag set correlating a resource to virtualID.
func NewBuilder(virtualID string) *Builder {
	return &Builder{
		tags: map[string]string{
			KeyInstanceID: virtualID,
		},
	}
}

// WithTemplate records the instance template name.
func (b *Builder) WithTemplate(name string) *Builder {
	if name != "" {
		b.tags[KeyTemplateName] = name
	}
	return b
}

// WithName sets the display name.
func (b *Builder) WithName(name string) *Builder {
	if name != "" {
		b.tags[KeyName] = name
	}
	return b
}

// Merge adds caller-supplied tags. Reserved keys are not overridable: a user
// tag colliding with the correlation key is dropped.
func (b *Builder) Merge(extra map[string]string) *Builder {
	for k, v := range extra {
		if k == KeyInstanceID {
			continue
		}
		b.tags[k] = v
	}
	return b
}

// Build returns a copy of the assembled tags.
func (b *Builder) Build() map[string]string {
	out := make(map[string]string, len(b.tags))
	for k, v := range b.tags {
		out[k] = v
	}
	return out
}
