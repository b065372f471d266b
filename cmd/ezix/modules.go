package main

import (
	"fmt"

	"github.com/ezix/ezix/pkg/modules"
	"github.com/spf13/cobra"
)

var modulesCmd = &cobra.Command{
	Use:   "modules",
	Short: "List known modules",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-16s %-6s %s\n", "ID", "SHAPE", "DESCRIPTION")
		for _, k := range modules.NewCatalog(modules.Env{}).Kinds() {
			shape := "flat"
			if k.Tree {
				shape = "tree"
			}
			fmt.Fprintf(out, "%-16s %-6s %s\n", k.ID, shape, k.Summary)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modulesCmd)
}
