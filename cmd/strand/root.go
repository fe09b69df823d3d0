package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/strand/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "strand",
	Short: "strand compiles hierarchical genetic designs",
	Long: `strand reads design manifests (YAML or JSON), compiles insertions and
assemblies into concrete sequences with annotations, and stores the result.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Config file (default ./"+cli.DefaultConfigFile+" when present)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("store", "", "Document store backend: memory, file, sqlite or redis")
	rootCmd.PersistentFlags().String("library", "", "Directory of the parts library")
}

// setup reads the global flags and loads the configuration.
func setup(cmd *cobra.Command) (cli.Config, *slog.Logger, error) {
	configPath, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")
	store, _ := cmd.Flags().GetString("store")
	library, _ := cmd.Flags().GetString("library")

	return cli.Setup(cli.Options{
		ConfigPath: configPath,
		Debug:      debug,
		Store:      store,
		Library:    library,
	})
}
