// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List or invoke the registered capabilities",
	Long: `Tools lists the capabilities the reasoner can call (name, description,
and arguments). Use "tools invoke" to call one directly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer p.close()

		w := cmd.OutOrStdout()
		for _, c := range p.registry.All() {
			s := c.Schema()
			var params []string
			for name := range s.Properties {
				params = append(params, name)
			}
			fmt.Fprintf(w, "%-24s %s\n", c.Name(), c.Description())
			sort.Strings(params)
			if len(params) > 0 {
				fmt.Fprintf(w, "%-24s args: %s (required: %s)\n", "", strings.Join(params, ", "), strings.Join(s.Required, ", "))
			}
		}
		return nil
	},
}

var toolsInvokeCmd = &cobra.Command{
	Use:   "invoke <name>",
	Short: "Invoke one capability with JSON arguments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rawArgs, _ := cmd.Flags().GetString("args")
		var callArgs map[string]any
		if err := json.Unmarshal([]byte(rawArgs), &callArgs); err != nil {
			return fmt.Errorf("parsing --args: %w", err)
		}

		p, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer p.close()

		res := p.registry.Invoke(cmd.Context(), args[0], callArgs)
		if err := writeOutput(cmd, cmd.OutOrStdout(), res); err != nil {
			return err
		}
		if !res.OK() {
			return res.Failure
		}
		return nil
	},
}

func init() {
	toolsInvokeCmd.Flags().String("args", "{}", `JSON object of arguments, e.g. '{"url":"https://example.com"}'`)
	addFormatFlag(toolsInvokeCmd)
	toolsCmd.AddCommand(toolsInvokeCmd)
	rootCmd.AddCommand(toolsCmd)
}
