package main

import (
	"github.com/aretw0/strand/internal/cli"
	"github.com/aretw0/strand/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var compileCmd = &cobra.Command{
	Use:   "compile <manifest>",
	Short: "Compile the pending designs of a manifest",
	Long: `Loads a manifest, compiles every pending design (or only --design),
prints a report of the compiled sequences and saves the document to the
configured store. With --design, the pending designs it depends on are
compiled too; the others stay pending (see "strand resume").`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		design, _ := cmd.Flags().GetString("design")
		docID, _ := cmd.Flags().GetString("doc")
		noSave, _ := cmd.Flags().GetBool("no-save")
		metrics, _ := cmd.Flags().GetBool("metrics")
		quiet, _ := cmd.Flags().GetBool("quiet")

		if !quiet && tui.IsTerminal(cmd.OutOrStdout()) {
			tui.PrintBanner(cmd.OutOrStdout())
		}
		return cli.RunCompile(cmd.Context(), cfg, logger, cli.CompileOptions{
			Manifest: args[0],
			Design:   design,
			DocID:    docID,
			NoSave:   noSave,
			Metrics:  metrics,
		}, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	compileCmd.Flags().String("design", "", "Compile only this design (display id or identity)")
	compileCmd.Flags().String("doc", "", "Override the document ID declared by the manifest")
	compileCmd.Flags().Bool("no-save", false, "Do not persist the compiled document")
	compileCmd.Flags().Bool("metrics", false, "Print Prometheus metrics to stderr when done")
	compileCmd.Flags().BoolP("quiet", "q", false, "Do not print the banner")
	rootCmd.AddCommand(compileCmd)
}
