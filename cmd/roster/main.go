package main

import (
	"os"

	"github.com/spf13/cobra"

	"roster/internal/platform/config"
)

var (
	configPath string
	verbose    bool
)

// rootCmd is the roster binary. Subcommands share the config and store setup.
var rootCmd = &cobra.Command{
	Use:          "roster",
	Short:        "Manage person records stored in a CSV file",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(consoleCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}
