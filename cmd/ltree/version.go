package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/ltree"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of ltree",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "ltree version %s\n", strings.TrimSpace(ltree.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
