// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/da-research/internal/pdftext"
)

var extractCmd = &cobra.Command{
	Use:   "extract <pdf-url>...",
	Short: "Download PDFs and extract their text",
	Long: `Extract downloads each PDF and extracts the text of up to --max-pages
pages (0 reads every page, -1 applies pdf.max_pages). A document that fails is reported and the
others continue.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		maxPages, _ := cmd.Flags().GetInt("max-pages")

		p, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer p.close()

		batch := p.extractor.ExtractURLs(cmd.Context(), args, maxPages)
		if err := writeOutput(cmd, cmd.OutOrStdout(), batch.Results); err != nil {
			return err
		}
		if !batch.Success() {
			return fmt.Errorf("no document produced text (%d failed)", batch.Failed())
		}
		return nil
	},
}

func init() {
	extractCmd.Flags().Int("max-pages", pdftext.ConfiguredPages, "maximum pages per document (0 = all, -1 = pdf.max_pages)")
	addFormatFlag(extractCmd)
	rootCmd.AddCommand(extractCmd)
}
