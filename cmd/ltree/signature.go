package main

import (
	"github.com/aretw0/ltree/internal/cli"
	"github.com/spf13/cobra"
)

var signatureCmd = &cobra.Command{
	Use:   "signature",
	Short: "Print the expanded signature",
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, _ := cmd.Flags().GetBool("stats")

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		return cli.Signature(sigCtx, commonOptions(cmd), requestFromFlags(cmd), stats)
	},
}

func init() {
	rootCmd.AddCommand(signatureCmd)
	addRequestFlags(signatureCmd)
	signatureCmd.Flags().Bool("stats", false, "Print JSON with the signature and its stats")
}
