package main

import (
	"github.com/aretw0/ltree/internal/cli"
	"github.com/spf13/cobra"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Summarize a tree as markdown",
	Long: `Prints the parameters, signature stats and, optionally, a Mermaid chart
of the branch structure. On a terminal the report is rendered in place.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mermaid, _ := cmd.Flags().GetBool("mermaid")
		depth, _ := cmd.Flags().GetInt("depth")
		raw, _ := cmd.Flags().GetBool("raw")

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		return cli.Inspect(sigCtx, commonOptions(cmd), requestFromFlags(cmd), cli.InspectOptions{
			Mermaid: mermaid,
			Depth:   depth,
			Raw:     raw,
		})
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	addRequestFlags(inspectCmd)
	inspectCmd.Flags().Bool("mermaid", false, "Include a Mermaid chart of the branches")
	inspectCmd.Flags().Int("depth", 3, "Branch depth shown in the chart")
	inspectCmd.Flags().Bool("raw", false, "Print plain markdown even on a terminal")
}
