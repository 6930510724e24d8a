// Command plantctl is the operator CLI for the plant store: schema
// migrations, seeding, upload cleanup and catalog access over the API.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"plant-store/internal/client"
	"plant-store/internal/config"
	"plant-store/internal/database"
	"plant-store/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfg     *config.Config
	log     *zap.Logger
	verbose bool
	apiURL  string
	timeout time.Duration
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:           "plantctl",
	Short:         "Operate the plant store",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()

		level := cfg.Server.LogLevel
		if verbose {
			level = "debug"
		} else if level == "" {
			level = "warn"
		}

		var err error
		log, err = logger.New(cfg.Server.Env, level)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if apiURL != "" {
			cfg.Client.BaseURL = apiURL
		}
		if timeout > 0 {
			cfg.Client.Timeout = timeout
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Plant store API base URL (or set API_BASE_URL env)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Operation timeout (or set API_TIMEOUT env)")

	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateStatusCmd)

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(addCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// openStore connects to the configured store for commands that work on it
// directly rather than through the API.
func openStore(ctx context.Context, migrate bool) (*database.Store, error) {
	return database.Open(ctx, cfg, migrate, log)
}

func newAPIClient() *client.Client {
	return client.New(cfg.Client.BaseURL, cfg.Client.Timeout, log)
}

// commandContext bounds a command by the configured timeout
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Client.Timeout > 0 {
		return context.WithTimeout(ctx, cfg.Client.Timeout)
	}
	return context.WithCancel(ctx)
}
