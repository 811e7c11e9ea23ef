package main

import (
	"github.com/aretw0/ltree/internal/cli"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Draw a tree to an SVG or PNG file",
	Long: `Expands the rule and draws the tree. The output format follows the file
extension (.svg or .png). Without -o the SVG document is written to stdout.`,
	Example: `  ltree render -o tree.png --preset bush
  ltree render --rule "F[+X]F[-X]+X" --angle 22.5 --iterations 5 > tree.svg`,
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		return cli.Render(sigCtx, commonOptions(cmd), requestFromFlags(cmd), output)
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	addRequestFlags(renderCmd)
	renderCmd.Flags().StringP("output", "o", "", "Output file (.svg or .png)")
}
