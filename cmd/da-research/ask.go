// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/da-research/internal/reasoner"
)

var agentInstructions = map[string]string{
	"coordinator": reasoner.CoordinatorInstruction,
	"search":      reasoner.SearchInstruction,
	"documents":   reasoner.DocumentInstruction,
}

var askCmd = &cobra.Command{
	Use:   "ask <prompt>",
	Short: "Let a reasoner agent answer a prompt using the registered tools",
	Long: `Ask runs one reasoner agent over the capability registry. The agent
chooses which tools to call (web search, browse, council lookup, PDF
extraction) within the step budget, then answers. Requires a reasoner
API key.

--agent selects the instruction: coordinator (default), search, or documents.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("agent")
		showSteps, _ := cmd.Flags().GetBool("steps")
		instruction, ok := agentInstructions[name]
		if !ok {
			return fmt.Errorf("unknown agent %q: use coordinator, search, or documents", name)
		}

		p, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer p.close()
		if p.reasoner == nil {
			return fmt.Errorf("ask requires a reasoner API key (.secrets/gemini-api-key or GEMINI_API_KEY)")
		}

		tr, err := p.agent(instruction, name, logger).Run(cmd.Context(), []reasoner.Message{
			{Role: reasoner.RoleUser, Text: strings.Join(args, " ")},
		})
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if showSteps {
			for i, s := range tr.Steps {
				status := "ok"
				if !s.Result.OK() {
					status = s.Result.Failure.Error()
				}
				fmt.Fprintf(w, "step %d: %s (%s)\n", i+1, s.Invocation.ToolName, status)
			}
		}
		fmt.Fprintln(w, tr.Text)
		return nil
	},
}

func init() {
	askCmd.Flags().String("agent", "coordinator", "agent instruction: coordinator, search, or documents")
	askCmd.Flags().Bool("steps", false, "print the tool calls the agent made")
	rootCmd.AddCommand(askCmd)
}
