// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdiddy/da-research/pkg/types"
)

var researchCmd = &cobra.Command{
	Use:   "research [query]",
	Short: "Run the full research pipeline for a query",
	Long: `Research routes a query to council document analysis (when a council
reference is given), web and document-store search (when there is query text
or no reference), or both. It prints the merged findings, a synthesis, and
any partial failures.

Use --text to print only the synthesis.`,
	Args: cobra.ArbitraryArgs,
	RunE: runResearch,
}

func runResearch(cmd *cobra.Command, args []string) error {
	reference, _ := cmd.Flags().GetString("reference")
	jurisdiction, _ := cmd.Flags().GetString("jurisdiction")
	textOnly, _ := cmd.Flags().GetBool("text")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, err := setup(ctx)
	if err != nil {
		return err
	}
	defer p.close()

	res, err := p.coordinator.Run(ctx, types.Query{
		Text:             strings.Join(args, " "),
		CouncilReference: reference,
		Jurisdiction:     jurisdiction,
	})
	if err != nil {
		return err
	}

	if textOnly {
		fmt.Fprintln(cmd.OutOrStdout(), res.Synthesis)
		for _, f := range res.PartialFailures {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", f)
		}
		return nil
	}
	return writeOutput(cmd, cmd.OutOrStdout(), res)
}

func init() {
	researchCmd.Flags().String("reference", "", "council reference / DA number (e.g. LDA2021/0138)")
	researchCmd.Flags().String("jurisdiction", "", "council jurisdiction (LGA) code, e.g. RYDE")
	researchCmd.Flags().Bool("text", false, "print only the synthesis")
	addFormatFlag(researchCmd)

	rootCmd.AddCommand(researchCmd)
}
