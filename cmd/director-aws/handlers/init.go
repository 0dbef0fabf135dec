package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/cloudera/director-aws/internal/config"
	"github.com/cloudera/director-aws/internal/config/wizard"
)

// Factory function variables for init - can be replaced in tests.
var (
	// fileExists checks if a file exists.
	fileExists = func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	}

	// runWizard runs the configuration wizard.
	runWizard = wizard.Run

	// saveConfig writes the config to a file.
	saveConfig = config.Save
)

// Init runs the configuration wizard and writes the result to a file.
func Init(ctx context.Context, outputPath string) error {
	if fileExists(outputPath) {
		fmt.Printf("Warning: %s already exists and will be overwritten.\n\n", outputPath)
	}

	printWelcome()

	result, err := runWizard(ctx)
	if err != nil {
		return err
	}

	cfg := result.ToConfig()

	if err := saveConfig(cfg, outputPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printInitSuccess(outputPath, cfg)

	return nil
}

// printWelcome prints the welcome message.
func printWelcome() {
	fmt.Println()
	fmt.Println("director-aws - instance group allocation")
	fmt.Println("========================================")
	fmt.Println()
	fmt.Println("This wizard creates a deployment configuration with sensible defaults.")
	fmt.Println("Edit the generated YAML afterwards for settings the wizard skips,")
	fmt.Println("such as user tags, timeouts, and provider-specific template options.")
	fmt.Println()
}

// printInitSuccess prints the success message with summary and next steps.
func printInitSuccess(outputPath string, cfg *config.Config) {
	fmt.Println()
	fmt.Println("Configuration saved!")
	fmt.Println()
	fmt.Printf("  File: %s\n", outputPath)
	fmt.Println()

	fmt.Println("Deployment Summary")
	fmt.Println("------------------")
	fmt.Printf("  Provider:    %s\n", cfg.Provider)
	fmt.Printf("  Region:      %s\n", cfg.Region)
	fmt.Printf("  Name Prefix: %s\n", cfg.NamePrefix)
	fmt.Printf("  Tagging:     %s\n", cfg.TaggingMode())
	fmt.Printf("  Image:       %s\n", cfg.Template.Image)
	fmt.Printf("  Type:        %s\n", cfg.Template.Type)
	if cfg.Template.Network != "" {
		fmt.Printf("  Network:     %s\n", cfg.Template.Network)
	}
	if len(cfg.Template.Groups) > 0 {
		fmt.Printf("  Groups:      %v\n", cfg.Template.Groups)
	}
	if cfg.Template.KeyName != "" {
		fmt.Printf("  Key Name:    %s\n", cfg.Template.KeyName)
	}
	fmt.Println()

	fmt.Println("Next Steps")
	fmt.Println("----------")
	if cfg.Provider == config.ProviderHCloud {
		fmt.Println("  1. Set your Hetzner Cloud API token:")
		fmt.Println("     export HCLOUD_TOKEN=<your-token>")
	} else {
		fmt.Println("  1. Make sure your AWS credentials are available")
		fmt.Println("     (environment, shared config, or instance profile)")
	}
	fmt.Println()
	fmt.Printf("  2. Review %s if needed\n", outputPath)
	fmt.Println()
	fmt.Println("  3. Allocate your first instances:")
	fmt.Println("     director-aws allocate node-1 node-2 node-3")
	fmt.Println()
}
