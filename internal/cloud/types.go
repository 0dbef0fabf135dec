// Package cloud defines the provider-neutral vocabulary of the allocation
// engine: instance templates, resource descriptions and records, the abstract
// instance status set, and the Client interface every provider implements.
package cloud

// Status is the abstract instance status the engine reasons about. Provider
// packages map their native state vocabulary into this closed set; anything
// they do not recognize becomes StatusUnknown, never an error.
type Status string

const (
	StatusPending  Status = "pending"
	StatusRunning  Status = "running"
	StatusStopping Status = "stopping"
	StatusStopped  Status = "stopped"
	StatusDeleting Status = "deleting"
	StatusDeleted  Status = "deleted"
	StatusFailed   Status = "failed"
	StatusUnknown  Status = "unknown"
)

// Dead reports whether the status is terminal and the resource unusable.
// Dead resources are invisible to the correlation index and count as gone
// during readiness polling.
func (s Status) Dead() bool {
	return s == StatusDeleting || s == StatusDeleted || s == StatusFailed
}

// Spec is the desired shape of a resource, shared by every instance in an
// allocation batch. Fields a provider has no use for are ignored by it;
// provider-specific settings travel in Options (for example the RDS engine
// name or allocated storage).
type Spec struct {
	// NamePrefix seeds the human-readable resource name. The full name is
	// prefix plus the virtual instance ID, sanitized per provider rules.
	NamePrefix string

	// Image names the machine image: an AMI ID for EC2, an image or
	// snapshot selector for Hetzner Cloud. Unused by RDS.
	Image string

	// Type is the instance size: EC2 instance type, RDS instance class,
	// or Hetzner server type.
	Type string

	// Network is the subnet or network the resource attaches to.
	Network string

	// Groups are security group identifiers.
	Groups []string

	// KeyName names a provider-registered SSH key pair, when supported.
	KeyName string

	// UserData is passed verbatim to the instance on first boot.
	UserData string

	// Tags are caller-supplied tags attached alongside the correlation
	// tags on every resource of the batch.
	Tags map[string]string

	// Options carries provider-specific settings. Each provider package
	// documents the keys it reads.
	Options map[string]string
}

// Description is one provider resource as reported by a describe call.
type Description struct {
	// ProviderID is the provider-assigned identifier.
	ProviderID string

	// VirtualID is the value of the correlation tag, empty when the
	// resource is untagged.
	VirtualID string

	// State is the provider-native state string, kept for display.
	State string

	// Status is State mapped into the abstract set.
	Status Status

	// Address is the network address, empty until the provider assigns
	// one. For EC2 this is the private IP (public as fallback), for RDS
	// the endpoint hostname, for Hetzner Cloud the public IPv4.
	Address string

	// Details holds auxiliary display attributes. Always best-effort.
	Details map[string]string
}

// Record tracks one virtual instance ID through an allocation call. Records
// live only for the duration of the call; the tag written onto the remote
// resource is the only durable linkage.
type Record struct {
	VirtualID  string
	ProviderID string
	Status     Status
	Address    string
	Details    map[string]string

	// Err is the failure recorded against this instance, if any. Per-ID
	// failures never abort the surrounding batch.
	Err error
}

// Ready reports whether the resource is usable: running with an address.
func (r *Record) Ready() bool {
	return r.Status == StatusRunning && r.Address != ""
}

// ApplyDescription folds a describe result into the record.
func (r *Record) ApplyDescription(d Description) {
	r.ProviderID = d.ProviderID
	r.Status = d.Status
	r.Address = d.Address
	if len(d.Details) > 0 {
		r.Details = d.Details
	}
}
