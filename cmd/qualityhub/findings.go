package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newFindingsCmd() *cobra.Command {
	var instanceName string

	cmd := &cobra.Command{
		Use:   "findings <componentKey>",
		Short: "Print the findings summary of a component as JSON",
		Long: `Fetch the security counters and repository analyses of a component and
print the aggregated summary as JSON.

Examples:
  # Use the default instance
  qualityhub findings acme

  # Use a named instance
  qualityhub findings acme --instance eu`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := loadCore()
			if err != nil {
				return err
			}
			defer core.Close()

			metrics, err := core.Findings.GetFindings(cmd.Context(), args[0], instanceName)
			if err != nil {
				return err
			}
			if metrics == nil {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no data")
				return nil
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(metrics)
		},
	}

	cmd.Flags().StringVarP(&instanceName, "instance", "i", "", "instance name (default: the default instance)")
	return cmd
}
