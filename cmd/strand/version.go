package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/strand"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of strand",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "strand version %s\n", strings.TrimSpace(strand.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
