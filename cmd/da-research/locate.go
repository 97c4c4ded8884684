// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var locateCmd = &cobra.Command{
	Use:   "locate <reference>",
	Short: "List the documents a council portal holds for a reference",
	Long: `Locate looks up a development application on its council records portal
and lists the document links found. Only Ryde Council is supported.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jurisdiction, _ := cmd.Flags().GetString("jurisdiction")

		p, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer p.close()

		res, err := p.locator.Locate(cmd.Context(), args[0], jurisdiction)
		if err != nil {
			return err
		}
		if res.Info != "" {
			fmt.Fprintln(cmd.ErrOrStderr(), res.Info)
		}
		return writeOutput(cmd, cmd.OutOrStdout(), res)
	},
}

func init() {
	locateCmd.Flags().String("jurisdiction", "RYDE", "council jurisdiction (LGA) code")
	addFormatFlag(locateCmd)
	rootCmd.AddCommand(locateCmd)
}
