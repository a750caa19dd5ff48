package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"sovereign/internal/platform/config"
	"sovereign/internal/platform/logger"
)

var (
	// Global flags
	configFile string
	logLevel   string
	apiAddr    string

	version = "dev"

	cfg config.Config
	log *slog.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "guard",
	Short: "Sovereign guard - cohesion verification and device lock",
	Long: `guard verifies the owner through position, device, face and finger
anchors, holds the device in the sovereign lock until verification succeeds,
and records intruder evidence while locked.

Run "guard run" to start the guard and its local control API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configFile != "" {
			if err := os.Setenv("GUARD_CONFIG_FILE", configFile); err != nil {
				return err
			}
		}
		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if logLevel != "" {
			loaded.LogLevel = logLevel
		}
		cfg = loaded
		log = logger.New(cfg.LogLevel)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the guard version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML config file (overrides GUARD_CONFIG_FILE)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	statusCmd.Flags().StringVar(&apiAddr, "api", "", "control API base URL (default derived from server address)")
	lockCmd.Flags().StringVar(&apiAddr, "api", "", "control API base URL (default derived from server address)")

	rootCmd.AddCommand(runCmd, statusCmd, lockCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
