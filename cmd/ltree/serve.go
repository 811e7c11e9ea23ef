package main

import (
	"github.com/aretw0/ltree/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Serves tree renders over HTTP: /tree.svg, /tree.png, /signature, /presets,
a websocket stream on /ws, lifecycle events on /events and a canvas viewer on /.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")
		metrics, _ := cmd.Flags().GetBool("metrics")
		jsonLog, _ := cmd.Flags().GetBool("log-json")
		quiet, _ := cmd.Flags().GetBool("quiet")

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		return cli.Serve(sigCtx, commonOptions(cmd), cli.ServeOptions{
			Addr:    ":" + port,
			Metrics: metrics,
			Banner:  !quiet,
			JSONLog: jsonLog,
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().Bool("metrics", true, "Expose Prometheus metrics on /metrics")
	serveCmd.Flags().Bool("log-json", false, "Write logs as JSON")
	serveCmd.Flags().BoolP("quiet", "q", false, "Skip the banner")
}
