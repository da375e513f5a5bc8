package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newInstancesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "instances",
		Short: "List configured instances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := loadCore()
			if err != nil {
				return err
			}
			defer core.Close()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "NAME\tBASE URL\tEXTERNAL URL\tDEFAULT")
			for _, inst := range core.Findings.Registry().Instances() {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%t\n",
					inst.Name, inst.BaseURL, inst.ExternalBaseURL, inst.IsDefault())
			}
			return tw.Flush()
		},
	}
}
