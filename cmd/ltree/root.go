package main

import (
	"fmt"
	"os"
	"time"

	"github.com/aretw0/ltree/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ltree",
	Short: "ltree grows and draws L-system trees",
	Long: `ltree expands a single-rule L-system into a signature and draws it with a
turtle interpreter onto SVG or PNG canvases, over HTTP, or as MCP tools.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().Bool("debug", false, "Log debug output to stderr")
	rootCmd.PersistentFlags().Int("max-iterations", 0, "Reject generations deeper than this (0 = no cap)")
	rootCmd.PersistentFlags().Int("max-length", cli.DefaultMaxLength, "Reject generations whose signature would exceed this many symbols (negative = no cap)")
	rootCmd.PersistentFlags().String("presets", "", "YAML or JSON preset file (defaults to the builtin presets)")
	rootCmd.PersistentFlags().String("cache", "", "Signature cache: memory, redis://..., or sqlite:path")
	rootCmd.PersistentFlags().Duration("cache-ttl", 24*time.Hour, "Expiration of cached signatures (redis only)")
}

// commonOptions reads the persistent flags.
func commonOptions(cmd *cobra.Command) cli.Options {
	flags := cmd.Flags()
	debug, _ := flags.GetBool("debug")
	maxIter, _ := flags.GetInt("max-iterations")
	maxLength, _ := flags.GetInt("max-length")
	presets, _ := flags.GetString("presets")
	cache, _ := flags.GetString("cache")
	ttl, _ := flags.GetDuration("cache-ttl")

	return cli.Options{
		Debug:         debug,
		MaxIterations: maxIter,
		MaxLength:     maxLength,
		PresetsPath:   presets,
		Cache:         cache,
		CacheTTL:      ttl,
		Stdout:        cmd.OutOrStdout(),
		Stderr:        cmd.ErrOrStderr(),
	}
}
