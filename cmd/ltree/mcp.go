package main

import (
	"github.com/aretw0/ltree/internal/cli"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes ltree as MCP tools (generate_signature, render_svg, render_png)
and the ltree://presets resource.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: set --sse-port to serve Server-Sent Events over HTTP.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetInt("sse-port")

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		return cli.ServeMCP(sigCtx, commonOptions(cmd), port)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().Int("sse-port", 0, "Serve over SSE on this port instead of stdio")
}
