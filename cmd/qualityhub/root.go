package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/qualityhub/internal/app"
	"github.com/MrSnakeDoc/qualityhub/internal/version"
)

// loadCore builds the shared components. Swapped in tests.
var loadCore = app.NewCore

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "qualityhub",
		Short: "Aggregate code-quality findings across instances",
		Long: `qualityhub resolves a configured code-quality instance and summarizes the
findings of a component: security counters plus averaged repository metrics.

Configuration is read from QH_* environment variables; instances are declared
in the YAML file named by QH_INSTANCES_FILE.`,
		Version:      version.String(),
		SilenceUsage: true,
		RunE:         runServe,
	}

	root.AddCommand(
		newServeCmd(),
		newFindingsCmd(),
		newInstancesCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := app.New()
	if err != nil {
		return err
	}
	return a.Run()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "qualityhub "+version.String())
		},
	}
}
