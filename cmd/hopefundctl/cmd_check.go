package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate a catalog file",
		Long:  "Parses the catalog and reports the first problem found, such as a missing id or an unknown category.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			campaigns, err := opts.campaigns()
			if err != nil {
				return err
			}

			urgent := 0
			for _, c := range campaigns {
				if c.Urgent {
					urgent++
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d campaigns (%d urgent)\n", len(campaigns), urgent)
			return nil
		},
	}
}
