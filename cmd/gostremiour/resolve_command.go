package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newResolveCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "resolve <type> <id>",
		Short: "Print the streams found for one identifier",
		Long:  "Runs the full resolution pipeline once, e.g. `gostremiour resolve series tt0000001:3:14`.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			a, err := newApp(cfg, ctx.logger, appOptions{})
			if err != nil {
				return err
			}
			defer a.Close()

			results := a.container.Resolver.ResolveStreams(cmd.Context(), args[0], args[1])

			out := cmd.OutOrStdout()
			if jsonOutput {
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(results)
			}

			if len(results) == 0 {
				fmt.Fprintln(out, "No streams found")
				return nil
			}
			for i, r := range results {
				fmt.Fprintf(out, "%d. [%s] %s\n   %s\n", i+1, r.Source, r.Title, r.URL)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")
	return cmd
}
