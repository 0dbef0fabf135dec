// Package main is the entry point for the director-aws CLI.
//
// director-aws allocates groups of cloud instances against caller-chosen
// virtual instance IDs and reconciles them to a ready state. Instances
// are correlated to their IDs through provider tags, so interrupted runs
// can simply be retried.
//
// Commands: init, allocate, find, state, delete, keypair.
//
// For detailed usage information, run:
//
//	director-aws --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cloudera/director-aws/cmd/director-aws/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)

	// Interrupts cancel the command context; in-flight allocations stop
	// between provider calls and report what settled.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := commands.Root().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
