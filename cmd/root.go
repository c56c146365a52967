// Package cmd provides the CLI commands for the shelf pricer console.
package cmd

import (
	"github.com/dynamic-shelf-pricer/console/internal/config"
	"github.com/dynamic-shelf-pricer/console/internal/shelfapi"
	logx "github.com/dynamic-shelf-pricer/console/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	envFile  string
	apiBase  string
	logLevel string

	appCfg config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "shelfpricer",
	Short: "Web console and CLI for the Dynamic Shelf Pricer backend",
	Long: `shelfpricer lists the product catalog of a pricing backend and asks it
for price recommendations under a shared pricing context.

Run without a subcommand it serves the web console.

Examples:
  shelfpricer serve --addr :5173
  shelfpricer products --api-base http://localhost:8000
  shelfpricer recommend P001 --days-to-expiry 1 --inventory 80`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE:              runServe,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	rootCmd.PersistentFlags().StringVar(&apiBase, "api-base", "", "pricing backend origin (overrides API_BASE)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (overrides LOG_LEVEL)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(productsCmd)
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(healthCmd)
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	if apiBase != "" {
		cfg.API.Base = apiBase
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	appCfg = cfg

	logx.Init(logx.LoggerOpts{
		Environment: cfg.Environment,
		Level:       cfg.LogLevel,
		Output:      cmd.ErrOrStderr(),
	})
	return nil
}

func newClient() *shelfapi.Client {
	return appCfg.API.New()
}
