// Command productsctl manages the products API's backing stores.
//
// Usage:
//
//	productsctl tables create          Create the DynamoDB tables
//	productsctl seed -f products.yaml  Load products from a YAML file
//	productsctl migrate up|down|status Manage the SQLite schema
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"products-api/internal/config"
)

func main() {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:          "productsctl",
		Short:        "Manage the products API stores",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	loadConfig := func() (*config.Config, *logrus.Logger, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, nil, err
		}
		logger := config.NewLogger(cfg, false)
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		}
		return cfg, logger, nil
	}

	rootCmd.AddCommand(
		newTablesCmd(loadConfig),
		newSeedCmd(loadConfig),
		newMigrateCmd(loadConfig),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type configLoader func() (*config.Config, *logrus.Logger, error)
