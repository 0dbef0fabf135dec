package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/cloudera/director-aws/internal/cloud"
)

// prefixRegex accepts the characters every supported provider tolerates in
// resource names.
var prefixRegex = regexp.MustCompile(`^[a-z]([a-z0-9-]*[a-z0-9])?$`)

// Config is the director configuration.
type Config struct {
	// Provider selects the backend resources are allocated on.
	Provider Provider `yaml:"provider"`

	// Region is the provider region or location instances land in.
	Region string `yaml:"region"`

	// Endpoint optionally redirects all provider API calls, used to run
	// against simulators. Empty means the provider's real endpoint.
	Endpoint string `yaml:"endpoint,omitempty"`

	// NamePrefix is prepended to virtual instance IDs when deriving
	// display names and provider identifiers.
	// Must be lowercase alphanumeric with hyphens, starting with a letter.
	NamePrefix string `yaml:"name_prefix"`

	// Tagging selects when the correlation tag is attached.
	Tagging Tagging `yaml:"tagging,omitempty"`

	// PollInterval is the delay between readiness polling rounds.
	PollInterval time.Duration `yaml:"poll_interval,omitempty"`

	// AllocationTimeout bounds a whole allocation attempt.
	AllocationTimeout time.Duration `yaml:"allocation_timeout,omitempty"`

	// MaxConcurrentLaunches caps parallel instance creation calls.
	MaxConcurrentLaunches int `yaml:"max_concurrent_launches,omitempty"`

	// UserTags are attached to every launched resource in addition to
	// the director's own tags.
	UserTags map[string]string `yaml:"user_tags,omitempty"`

	// Template describes the instances to launch.
	Template Template `yaml:"template"`
}

// Template describes the shape of the instances a batch launches.
type Template struct {
	// Image is the machine image: an AMI ID on EC2, an engine name on
	// RDS, an image name or ID on Hetzner Cloud.
	Image string `yaml:"image"`

	// Type is the instance type or server size.
	Type string `yaml:"type"`

	// Network is the subnet or network the instances join.
	Network string `yaml:"network,omitempty"`

	// Groups are security group IDs applied to the instances.
	Groups []string `yaml:"groups,omitempty"`

	// KeyName is the provider-side SSH key pair name.
	KeyName string `yaml:"key_name,omitempty"`

	// UserData is passed verbatim to instance bootstrap.
	UserData string `yaml:"user_data,omitempty"`

	// Options holds provider-specific template settings, such as the RDS
	// engine version or master credentials.
	Options map[string]string `yaml:"options,omitempty"`
}

// Provider selects the cloud backend.
type Provider string

const (
	// ProviderEC2 allocates EC2 instances.
	ProviderEC2 Provider = "ec2"
	// ProviderRDS allocates RDS database instances.
	ProviderRDS Provider = "rds"
	// ProviderHCloud allocates Hetzner Cloud servers.
	ProviderHCloud Provider = "hcloud"
)

// ValidProviders returns all valid providers.
func ValidProviders() []Provider {
	return []Provider{ProviderEC2, ProviderRDS, ProviderHCloud}
}

// IsValid returns true if the provider is supported.
func (p Provider) IsValid() bool {
	switch p {
	case ProviderEC2, ProviderRDS, ProviderHCloud:
		return true
	default:
		return false
	}
}

// String returns a human-readable description of the provider.
func (p Provider) String() string {
	switch p {
	case ProviderEC2:
		return "ec2 (Amazon EC2 instances)"
	case ProviderRDS:
		return "rds (Amazon RDS databases)"
	case ProviderHCloud:
		return "hcloud (Hetzner Cloud servers)"
	default:
		return string(p)
	}
}

// Tagging selects when the correlation tag is attached to a new resource.
type Tagging string

const (
	// TagOnCreate attaches tags atomically in the create call. The
	// default: a resource is never visible without its correlation tag.
	TagOnCreate Tagging = "on-create"

	// TagAfterCreate creates first and tags in a separate call, for
	// accounts whose policies reject tag-on-create. A crash between the
	// two calls can leak an untagged resource.
	TagAfterCreate Tagging = "after-create"
)

// ValidTaggingModes returns all valid tagging modes.
func ValidTaggingModes() []Tagging {
	return []Tagging{TagOnCreate, TagAfterCreate}
}

// IsValid returns true if the tagging mode is valid.
func (t Tagging) IsValid() bool {
	switch t {
	case TagOnCreate, TagAfterCreate:
		return true
	default:
		return false
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	var errs []error

	if !c.Provider.IsValid() {
		errs = append(errs, fmt.Errorf("provider must be one of: %v", ValidProviders()))
	}

	if c.Region == "" && c.Endpoint == "" {
		errs = append(errs, errors.New("region is required unless an endpoint override is set"))
	}

	if c.NamePrefix != "" && !prefixRegex.MatchString(c.NamePrefix) {
		errs = append(errs, errors.New("name_prefix must be lowercase alphanumeric and hyphens, starting with a letter"))
	}

	if c.Tagging != "" && !c.Tagging.IsValid() {
		errs = append(errs, fmt.Errorf("tagging must be one of: %v", ValidTaggingModes()))
	}

	if c.PollInterval < 0 {
		errs = append(errs, errors.New("poll_interval must not be negative"))
	}
	if c.AllocationTimeout < 0 {
		errs = append(errs, errors.New("allocation_timeout must not be negative"))
	}
	if c.MaxConcurrentLaunches < 0 {
		errs = append(errs, errors.New("max_concurrent_launches must not be negative"))
	}

	if c.Template.Image == "" {
		errs = append(errs, errors.New("template.image is required"))
	}
	if c.Template.Type == "" {
		errs = append(errs, errors.New("template.type is required"))
	}

	if c.Provider == ProviderHCloud && os.Getenv("HCLOUD_TOKEN") == "" {
		errs = append(errs, errors.New("HCLOUD_TOKEN environment variable required for the hcloud provider"))
	}

	return errors.Join(errs...)
}

// TaggingMode returns the configured tagging mode, defaulting to on-create.
func (c *Config) TaggingMode() Tagging {
	if c.Tagging == "" {
		return TagOnCreate
	}
	return c.Tagging
}

// Spec converts the template into the provider-neutral instance spec.
func (c *Config) Spec() cloud.Spec {
	opts := make(map[string]string, len(c.Template.Options))
	for k, v := range c.Template.Options {
		opts[k] = v
	}
	tags := make(map[string]string, len(c.UserTags))
	for k, v := range c.UserTags {
		tags[k] = v
	}
	return cloud.Spec{
		NamePrefix: c.NamePrefix,
		Image:      c.Template.Image,
		Type:       c.Template.Type,
		Network:    c.Template.Network,
		Groups:     append([]string(nil), c.Template.Groups...),
		KeyName:    c.Template.KeyName,
		UserData:   c.Template.UserData,
		Tags:       tags,
		Options:    opts,
	}
}
