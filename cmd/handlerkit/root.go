package main

import (
	"fmt"
	"os"

	"github.com/artpar/handlerkit/bootstrap"
	"github.com/artpar/handlerkit/config"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "handlerkit",
	Short: "Route dispatch, access guards and timing for plain Go handlers",
	Long: `handlerkit dispatches requests to handlers registered under one or more
paths, with optional group-based access control and timing reports.

Walkthroughs:
  handlerkit route      # Route dispatch with aliases and a miss
  handlerkit security   # Admin-only paths
  handlerkit mark       # Marked function names
  handlerkit timing     # Timed counter

Against the configured route table:
  handlerkit exec /user Manager
  handlerkit request "/admin?group=Admin"
  handlerkit routes
  handlerkit shell --watch`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "handlerkit.yaml", "config file path")
}

// loadConfig loads .env, then the config file if present, then env overrides.
func loadConfig() (*config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}
	cfg, err := config.LoadWithFallback(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	return cfg, nil
}

// loadApp builds the application with reports going to the command's output.
func loadApp(cmd *cobra.Command) (*bootstrap.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return newApp(cmd, cfg)
}

func newApp(cmd *cobra.Command, cfg *config.Config) (*bootstrap.App, error) {
	a, err := bootstrap.New(cfg, bootstrap.Options{
		Out:    cmd.OutOrStdout(),
		LogOut: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, fmt.Errorf("initialize: %w", err)
	}
	return a, nil
}
