package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/ezix/ezix/pkg/cmdrun"
	"github.com/ezix/ezix/pkg/health"
	"github.com/ezix/ezix/pkg/modules"
	"github.com/ezix/ezix/pkg/policy"
	"github.com/spf13/cobra"
)

// doctorRunner executes the command probes; tests replace it
var doctorRunner cmdrun.Runner = cmdrun.ExecRunner{}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that this host can run module actions",
	Long: `Doctor probes the commands each module kind runs, the policy registry
and the journal directory. It changes nothing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dataDir, _ := cmd.Flags().GetString("data-dir")

		results := health.RunAll(cmd.Context(), doctorChecks(dataDir)...)

		out := cmd.OutOrStdout()
		failed := 0
		for _, r := range results {
			mark := "✓"
			if !r.Healthy {
				mark = "✗"
				failed++
			}
			fmt.Fprintf(out, "%s %-24s %s\n", mark, r.Name, r.Message)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d check(s) failed", failed, len(results))
		}
		return nil
	},
}

func doctorChecks(dataDir string) []health.Checker {
	var checks []health.Checker
	for _, k := range modules.NewCatalog(modules.Env{Runner: doctorRunner}).Kinds() {
		for _, tool := range k.Requires {
			checks = append(checks, health.NewExecChecker(doctorRunner, tool, "--version").
				WithLabel(k.ID+": "+tool))
		}
	}

	checks = append(checks,
		health.FuncChecker{Label: "control_panel: registry", Fn: probePolicy},
		health.WritableDirChecker{Label: "journal", Dir: dataDir},
	)
	return checks
}

// probePolicy deletes a value that never exists, which succeeds wherever
// the registry is writable
func probePolicy(ctx context.Context) (string, error) {
	err := policy.NewSystemWriter().DeleteValue(`Software\ezix`, "doctor-probe")
	switch {
	case errors.Is(err, policy.ErrUnsupported):
		return "not supported on this platform, module is a no-op", nil
	case err != nil:
		return "", err
	}
	return "writable", nil
}

func init() {
	doctorCmd.Flags().String("data-dir", defaultDataDir, "Directory holding the apply journal")
	rootCmd.AddCommand(doctorCmd)
}
