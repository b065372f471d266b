package main

import (
	"fmt"
	"os"
	"time"

	"github.com/ezix/ezix/pkg/cmdrun"
	"github.com/ezix/ezix/pkg/config"
	"github.com/ezix/ezix/pkg/log"
	"github.com/ezix/ezix/pkg/metrics"
	"github.com/ezix/ezix/pkg/modules"
	"github.com/ezix/ezix/pkg/policy"
	"github.com/ezix/ezix/pkg/reconciler"
	"github.com/ezix/ezix/pkg/storage"
	"github.com/ezix/ezix/pkg/types"
	"github.com/spf13/cobra"
)

const (
	defaultDataDir = "/var/lib/ezix"

	// journalKeep bounds the journal; older runs are pruned after each apply
	journalKeep = 500
)

func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("file", "f", "", "Configuration file, .yaml or .toml (required)")
	cmd.Flags().String("policy", "", "Failure policy: fail-fast or continue-on-error (overrides the file)")
	cmd.Flags().String("root", "", "Filesystem root for files written by modules")
	_ = cmd.MarkFlagRequired("file")
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().String("data-dir", defaultDataDir, "Directory holding the apply journal")
	cmd.Flags().Bool("no-journal", false, "Do not record the run in the journal")
	cmd.Flags().String("metrics-file", "", "Write Prometheus metrics to this textfile after the run")
}

// desired is a loaded configuration with everything needed to reconcile it
type desired struct {
	doc     *config.Document
	catalog *modules.Catalog
	policy  reconciler.Policy
}

func loadDesired(cmd *cobra.Command, opts ...reconciler.Option) (*desired, error) {
	file, _ := cmd.Flags().GetString("file")
	policyFlag, _ := cmd.Flags().GetString("policy")
	root, _ := cmd.Flags().GetString("root")

	doc, err := config.Load(file)
	if err != nil {
		return nil, err
	}

	name := doc.Policy
	if policyFlag != "" {
		name = policyFlag
	}
	p, err := reconciler.ParsePolicy(name)
	if err != nil {
		return nil, err
	}

	cat := modules.NewCatalog(modules.Env{
		Runner:  cmdrun.ExecRunner{},
		Policy:  policy.NewSystemWriter(),
		Root:    root,
		Options: append([]reconciler.Option{reconciler.WithPolicy(p)}, opts...),
	})
	return &desired{doc: doc, catalog: cat, policy: p}, nil
}

// recordRun writes the run to the journal and the metrics textfile. Failures
// here never change the result of the apply.
func recordRun(cmd *cobra.Command, run *types.Run) {
	logger := log.WithRunID(run.ID)

	noJournal, _ := cmd.Flags().GetBool("no-journal")
	if !noJournal {
		dataDir, _ := cmd.Flags().GetString("data-dir")
		if err := journal(dataDir, run); err != nil {
			logger.Warn().Err(err).Msg("failed to record run")
		}
	}

	if path, _ := cmd.Flags().GetString("metrics-file"); path != "" {
		if err := metrics.WriteTextfile(path); err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("failed to write metrics")
		}
	}
}

func journal(dataDir string, run *types.Run) error {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	store, err := storage.NewBoltStore(dataDir)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.RecordRun(run); err != nil {
		return err
	}
	if _, err := store.Prune(journalKeep); err != nil {
		return fmt.Errorf("failed to prune journal: %w", err)
	}
	return nil
}

func printSummary(cmd *cobra.Command, run *types.Run) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	if run.Status == types.RunSucceeded {
		fmt.Fprintf(out, "✓ Apply succeeded: %d action(s) in %s (run %s)\n",
			len(run.Outcomes), run.Duration().Round(time.Millisecond), run.ID)
		return
	}
	fmt.Fprintf(out, "✗ Apply failed: %d of %d action(s) failed (run %s)\n",
		len(run.Failed()), len(run.Outcomes), run.ID)
}
