package main

import (
	"github.com/aretw0/strand/internal/cli"
	"github.com/spf13/cobra"
)

var resumeCmd = &cobra.Command{
	Use:   "resume <document>",
	Short: "Compile the designs a stored document left pending",
	Long: `Loads a stored document under its lock, compiles every pending design
(or only --design) and saves it back. Use it after "compile --design" or a
failed compile left designs pending.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		design, _ := cmd.Flags().GetString("design")
		return cli.RunResume(cmd.Context(), cfg, logger, args[0], design, cmd.OutOrStdout())
	},
}

func init() {
	resumeCmd.Flags().String("design", "", "Compile only this design (display id or identity)")
	rootCmd.AddCommand(resumeCmd)
}
