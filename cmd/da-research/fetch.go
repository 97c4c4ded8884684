// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <url>",
	Short: "Fetch a web page and print its cleaned text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer p.close()

		page, err := p.fetcher.Fetch(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return writeOutput(cmd, cmd.OutOrStdout(), page)
	},
}

func init() {
	addFormatFlag(fetchCmd)
	rootCmd.AddCommand(fetchCmd)
}
