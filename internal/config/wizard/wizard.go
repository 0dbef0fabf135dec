// Package wizard implements the interactive director.yaml builder behind
// the init command.
package wizard

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/cloudera/director-aws/internal/config"
)

// Result holds the user's choices from the init wizard.
type Result struct {
	Provider   config.Provider
	Region     string
	NamePrefix string
	Tagging    config.Tagging
	Image      string
	Type       string
	Network    string
	Groups     string
	KeyName    string
}

// Run walks the user through a director configuration.
func Run(ctx context.Context) (*Result, error) {
	result := &Result{
		// Defaults
		Provider:   config.ProviderEC2,
		NamePrefix: "director",
		Tagging:    config.TagOnCreate,
	}

	form := huh.NewForm(
		// Provider selection
		huh.NewGroup(
			huh.NewSelect[config.Provider]().
				Title("Provider").
				Description("Backend the instances are allocated on").
				Options(
					huh.NewOption("Amazon EC2 instances", config.ProviderEC2),
					huh.NewOption("Amazon RDS databases", config.ProviderRDS),
					huh.NewOption("Hetzner Cloud servers", config.ProviderHCloud),
				).
				Value(&result.Provider),
		),

		// Placement and naming
		huh.NewGroup(
			huh.NewInput().
				Title("Region").
				Description("Provider region, e.g. us-east-1 (AWS) or fsn1 (Hetzner)").
				Placeholder("us-east-1").
				Value(&result.Region).
				Validate(validateRequired("region")),

			huh.NewInput().
				Title("Name prefix").
				Description("Prepended to instance display names (lowercase, hyphens)").
				Value(&result.NamePrefix).
				Validate(validateNamePrefix),
		),

		// Tagging mode
		huh.NewGroup(
			huh.NewSelect[config.Tagging]().
				Title("Tagging mode").
				Description("after-create suits accounts whose policies reject tags inside create calls").
				Options(
					huh.NewOption("Tag atomically on create (default)", config.TagOnCreate),
					huh.NewOption("Tag in a separate call after create", config.TagAfterCreate),
				).
				Value(&result.Tagging),
		),

		// Instance template
		huh.NewGroup(
			huh.NewInput().
				Title("Image").
				Description("AMI ID, database engine, or image name, depending on provider").
				Placeholder("ami-0abcdef1234567890").
				Value(&result.Image).
				Validate(validateRequired("image")),

			huh.NewInput().
				Title("Instance type").
				Placeholder("t3.micro").
				Value(&result.Type).
				Validate(validateRequired("instance type")),
		),

		// Optional networking and access
		huh.NewGroup(
			huh.NewInput().
				Title("Network (optional)").
				Description("Subnet or network ID. Leave empty for the provider default.").
				Value(&result.Network),

			huh.NewInput().
				Title("Security groups (optional)").
				Description("Comma-separated group IDs").
				Value(&result.Groups),

			huh.NewInput().
				Title("SSH key pair name (optional)").
				Description("Provider-side key pair referenced by launched instances").
				Value(&result.KeyName),
		),
	)

	if err := form.RunWithContext(ctx); err != nil {
		return nil, fmt.Errorf("wizard canceled: %w", err)
	}

	return result, nil
}

// ToConfig converts the wizard result into a director configuration.
func (r *Result) ToConfig() *config.Config {
	return &config.Config{
		Provider:   r.Provider,
		Region:     strings.TrimSpace(r.Region),
		NamePrefix: strings.TrimSpace(r.NamePrefix),
		Tagging:    r.Tagging,
		Template: config.Template{
			Image:   strings.TrimSpace(r.Image),
			Type:    strings.TrimSpace(r.Type),
			Network: strings.TrimSpace(r.Network),
			Groups:  splitGroups(r.Groups),
			KeyName: strings.TrimSpace(r.KeyName),
		},
	}
}

// splitGroups turns comma-separated input into a clean ID list.
func splitGroups(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

var namePrefixPattern = regexp.MustCompile(`^[a-z]([a-z0-9-]*[a-z0-9])?$`)

// validateNamePrefix enforces the naming rules every supported provider
// tolerates. The prefix is kept short so derived names stay inside RDS's
// 63-character identifier limit with room for virtual instance IDs.
func validateNamePrefix(s string) error {
	if s == "" {
		return fmt.Errorf("name prefix is required")
	}
	if len(s) > 32 {
		return fmt.Errorf("name prefix must be 32 characters or less")
	}
	if !namePrefixPattern.MatchString(s) {
		return fmt.Errorf("name prefix can only contain lowercase letters, numbers, and hyphens, and must start with a letter")
	}
	return nil
}
