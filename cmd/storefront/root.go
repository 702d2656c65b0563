package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/wsapp/storefront/internal/infrastructure/config"
	"github.com/wsapp/storefront/pkg/logger"
)

var (
	// databaseURL is set by the --database-url flag and overrides DATABASE_URL.
	databaseURL string

	// cfg and log are initialized by PersistentPreRunE.
	cfg *config.Config
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Storefront serves the users, products and orders commands",
	Long: `Storefront owns the relational store behind the desktop front end.
Without a subcommand it runs serve.

Configuration is read from the environment (DATABASE_URL, ADDR, REDIS_ADDR, ...).
DATABASE_URL accepts postgres:// and sqlite:// URLs.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE:              runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "database URL (overrides DATABASE_URL)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(initSchemaCmd)
	rootCmd.AddCommand(invokeCmd)
	rootCmd.AddCommand(commandsCmd)
}

// setup loads configuration and initializes the logger. Logs go to stderr so
// stdout stays clean for command output.
func setup(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(cmd.Context(), nil)
	if err != nil {
		return err
	}
	if databaseURL != "" {
		c.Database.URL = databaseURL
	}
	cfg = c

	log = logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.IsDevelopment(),
		Output: os.Stderr,
		File:   cfg.LogFile,
	})
	return nil
}

func printJSON(out []byte) {
	fmt.Fprintln(os.Stdout, string(out))
}
