package main

import (
	"github.com/aretw0/strand/internal/cli"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <manifest>",
	Short: "Export the design hierarchy visualization",
	Long:  `Outputs a Mermaid diagram (graph TD) of the designs declared by a manifest.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		focus, _ := cmd.Flags().GetString("focus")
		compiled, _ := cmd.Flags().GetBool("compiled")
		return cli.RunGraph(cmd.Context(), cfg, logger, args[0], focus, compiled, cmd.OutOrStdout())
	},
}

func init() {
	graphCmd.Flags().String("focus", "", "Highlight a design")
	graphCmd.Flags().Bool("compiled", false, "Compile pending designs before drawing")
	rootCmd.AddCommand(graphCmd)
}
