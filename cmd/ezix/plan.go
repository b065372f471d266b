package main

import (
	"fmt"

	"github.com/ezix/ezix/pkg/reconciler"
	"github.com/ezix/ezix/pkg/types"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show what apply would do",
	Long: `Show the action apply would take for every known module without
running anything.

Examples:
  ezix plan -f system.yaml`,
	RunE: runPlan,
}

func init() {
	addConfigFlags(planCmd)
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	d, err := loadDesired(cmd)
	if err != nil {
		return err
	}
	registry, err := d.catalog.Registry()
	if err != nil {
		return fmt.Errorf("failed to build module registry: %w", err)
	}
	set, err := d.doc.Set(d.catalog)
	if err != nil {
		return err
	}

	steps, err := reconciler.New(registry, reconciler.WithPolicy(d.policy)).Plan(set)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-16s %-8s %s\n", "MODULE", "ACTION", "REASON")
	for _, step := range steps {
		fmt.Fprintf(out, "%-16s %-8s %s\n", step.Module, step.Phase, reason(step))
	}
	for _, id := range set.Replaced() {
		fmt.Fprintf(out, "\nnote: %s is declared more than once, the last entry wins\n", id)
	}
	return nil
}

func reason(step types.Step) string {
	if step.Source == types.SourceDefault {
		return "not declared"
	}
	if step.Phase == types.PhaseEnable {
		return "declared enabled"
	}
	return "declared disabled"
}
