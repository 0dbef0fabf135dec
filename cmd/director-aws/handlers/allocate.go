// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command
// definitions in the commands package. Handlers are framework-agnostic and
// can be tested independently of the CLI framework.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cloudera/director-aws/internal/alloc"
	"github.com/cloudera/director-aws/internal/cloud"
	"github.com/cloudera/director-aws/internal/config"
	"github.com/cloudera/director-aws/internal/platform/awsconf"
	"github.com/cloudera/director-aws/internal/platform/ec2"
	"github.com/cloudera/director-aws/internal/platform/hcloud"
	"github.com/cloudera/director-aws/internal/platform/rds"
	"github.com/cloudera/director-aws/internal/ui/tui"
)

// Allocator interface for testing - matches alloc.Allocator.
type Allocator interface {
	Allocate(ctx context.Context, req alloc.Request) (*alloc.Result, error)
	Find(ctx context.Context, virtualIDs []string) (map[string]*cloud.Record, error)
	InstanceStates(ctx context.Context, virtualIDs []string) (map[string]cloud.Status, error)
	Delete(ctx context.Context, virtualIDs []string) error
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// findConfigFile finds the default config file.
	findConfigFile = config.FindConfigFile

	// loadConfigFile loads and validates config from a file.
	loadConfigFile = config.Load

	// newCloudClient creates the provider client for a configuration.
	newCloudClient = buildCloudClient

	// newAllocator creates the allocation engine over a provider client.
	newAllocator = func(client cloud.Client, cfg *config.Config, timeouts *config.Timeouts, log logr.Logger, obs alloc.Observer) Allocator {
		return alloc.New(alloc.InstrumentClient(client),
			alloc.WithTagging(cfg.TaggingMode()),
			alloc.WithTimeouts(timeouts),
			alloc.WithLogger(log),
			alloc.WithObserver(obs),
		)
	}

	// runAllocateTUI drives the live progress view around an allocation.
	runAllocateTUI = tui.RunAllocate

	// interactiveTTY reports whether stdout is an interactive terminal.
	interactiveTTY = isInteractiveTTY
)

// Allocate reconciles the requested virtual instance IDs to ready instances.
//
// This function drives the complete allocation workflow:
//  1. Loads and validates the director configuration
//  2. Layers environment variable overrides on the configured timing values
//  3. Initializes the provider client selected by the configuration
//  4. Runs the allocation engine, streaming progress to a live TUI on
//     interactive terminals or to the structured logger otherwise
//  5. Prints the per-instance summary once the batch settles
//
// Re-running allocate with the same IDs is safe: instances that survived an
// earlier attempt are reused, and only the missing ones are launched.
//
// When fewer than minCount instances become ready the per-instance outcomes
// are printed and the shortfall is returned as the command error.
func Allocate(ctx context.Context, configPath string, virtualIDs []string, minCount int, plain bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	timeouts := loadTimeouts(cfg)

	client, err := newCloudClient(ctx, cfg, timeouts)
	if err != nil {
		return err
	}

	req := alloc.Request{
		VirtualIDs: virtualIDs,
		MinCount:   minCount,
		Spec:       cfg.Spec(),
	}

	var result *alloc.Result
	run := func(ctx context.Context, log logr.Logger, obs alloc.Observer) error {
		allocator := newAllocator(client, cfg, timeouts, log, obs)
		res, err := allocator.Allocate(ctx, req)
		if err != nil {
			return err
		}
		result = res
		return nil
	}

	if !plain && interactiveTTY() {
		// Engine logging is discarded while the alternate screen is up;
		// progress reaches the user through observer events instead.
		err = runAllocateTUI(ctx, virtualIDs, timeouts.AllocationTimeout, func(ctx context.Context, obs alloc.Observer) error {
			return run(ctx, logr.Discard(), obs)
		})
	} else {
		log := newLogger()
		log.Info("allocating instances",
			"count", len(virtualIDs), "min", minCount, "provider", string(cfg.Provider))
		err = run(ctx, log, alloc.NewLogObserver(log))
	}

	var shortfall *alloc.Error
	if errors.As(err, &shortfall) {
		fmt.Print(renderOutcomes(shortfall.Outcomes))
		return err
	}
	if err != nil {
		return fmt.Errorf("allocation failed: %w", err)
	}

	fmt.Print(renderAllocationResult(virtualIDs, result))
	return nil
}

// loadConfig loads and validates the director configuration.
// If configPath is empty, it looks for director.yaml in the current
// directory and its parents.
func loadConfig(configPath string) (*config.Config, error) {
	if configPath == "" {
		path, err := findConfigFile()
		if err != nil {
			return nil, fmt.Errorf("no config file found: %w\nRun 'director-aws init' to create one", err)
		}
		configPath = path
	}

	cfg, err := loadConfigFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// loadTimeouts layers the environment variable overrides on the timing
// values the config file sets.
func loadTimeouts(cfg *config.Config) *config.Timeouts {
	return config.LoadTimeoutsFrom(cfg.Timeouts())
}

// buildCloudClient initializes the provider client the configuration
// selects. AWS credentials come from the SDK default chain; the Hetzner
// Cloud token comes from HCLOUD_TOKEN.
func buildCloudClient(ctx context.Context, cfg *config.Config, timeouts *config.Timeouts) (cloud.Client, error) {
	switch cfg.Provider {
	case config.ProviderEC2:
		clients, err := awsconf.NewClients(ctx, cfg.Region, cfg.Endpoint)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize AWS clients: %w", err)
		}
		return ec2.NewClient(clients.EC2, ec2.WithTimeouts(timeouts)), nil

	case config.ProviderRDS:
		clients, err := awsconf.NewClients(ctx, cfg.Region, cfg.Endpoint)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize AWS clients: %w", err)
		}
		return rds.NewClient(clients.RDS, rds.WithTimeouts(timeouts)), nil

	case config.ProviderHCloud:
		token := os.Getenv("HCLOUD_TOKEN")
		if token == "" {
			return nil, fmt.Errorf("HCLOUD_TOKEN environment variable is required for the hcloud provider")
		}
		return hcloud.NewClient(token, hcloud.WithTimeouts(timeouts)), nil

	default:
		return nil, fmt.Errorf("unsupported provider %q", cfg.Provider)
	}
}

// newLogger builds the logger for plain-mode runs. DEBUG=true switches to
// the development encoder with debug-level output.
func newLogger() logr.Logger {
	var zc zap.Config
	if os.Getenv("DEBUG") == "true" {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
		zc.Encoding = "console"
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}

	z, err := zc.Build()
	if err != nil {
		return logr.Discard()
	}
	return zapr.NewLogger(z)
}

// isInteractiveTTY checks if we're running in an interactive terminal.
func isInteractiveTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}
