package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ezix/ezix/pkg/events"
	"github.com/ezix/ezix/pkg/reconciler"
	"github.com/ezix/ezix/pkg/types"
	"github.com/spf13/cobra"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply a configuration file",
	Long: `Apply a configuration file to this host.

Every known module receives exactly one action: declared modules are enabled
or disabled as written, every other module is disabled.

Examples:
  # Apply a configuration
  ezix apply -f system.yaml

  # Keep going after a failure and report every error at the end
  ezix apply -f system.toml --policy continue-on-error`,
	RunE: runApply,
}

var convergeCmd = &cobra.Command{
	Use:   "converge",
	Short: "Converge the enabled tree-shaped modules",
	Long: `Walk the enabled tree-shaped modules (xserver, shell) depth-first and
enable every node whose check does not hold. A node's children are only
visited once the node itself is satisfied. Nothing is disabled.

Examples:
  ezix converge -f system.yaml`,
	RunE: runConverge,
}

func init() {
	addConfigFlags(applyCmd)
	addRunFlags(applyCmd)
	addConfigFlags(convergeCmd)
	addRunFlags(convergeCmd)

	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(convergeCmd)
}

// pass runs fn with a started broker and a progress printer attached
func pass(cmd *cobra.Command, fn func(ctx context.Context, broker *events.Broker) (*types.Run, error)) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	broker := events.NewBroker()
	broker.Start()
	done := make(chan struct{})
	go printProgress(cmd.OutOrStdout(), broker.Subscribe(), done)

	run, err := fn(ctx, broker)
	broker.Stop()
	<-done

	if run == nil {
		return err
	}
	recordRun(cmd, run)
	printSummary(cmd, run)
	return err
}

func runApply(cmd *cobra.Command, args []string) error {
	return pass(cmd, func(ctx context.Context, broker *events.Broker) (*types.Run, error) {
		d, err := loadDesired(cmd, reconciler.WithPublisher(broker))
		if err != nil {
			return nil, err
		}

		registry, err := d.catalog.Registry()
		if err != nil {
			return nil, fmt.Errorf("failed to build module registry: %w", err)
		}
		set, err := d.doc.Set(d.catalog)
		if err != nil {
			return nil, err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Applying %d declared module(s) (%s)\n", set.Len(), d.policy)
		rec := reconciler.New(registry, reconciler.WithPolicy(d.policy), reconciler.WithPublisher(broker))
		return rec.Apply(ctx, set)
	})
}

func runConverge(cmd *cobra.Command, args []string) error {
	return pass(cmd, func(ctx context.Context, broker *events.Broker) (*types.Run, error) {
		d, err := loadDesired(cmd)
		if err != nil {
			return nil, err
		}

		mgr, err := d.doc.Manager(d.catalog, reconciler.WithPolicy(d.policy), reconciler.WithPublisher(broker))
		if err != nil {
			return nil, err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Converging %d module tree(s) (%s)\n", len(mgr.Modules()), d.policy)
		return mgr.Apply(ctx)
	})
}
