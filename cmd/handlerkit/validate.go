package main

import (
	"fmt"
	"os"

	"github.com/artpar/handlerkit/catalog"
	"github.com/artpar/handlerkit/config"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration",
	Long: `Validate the handlerkit configuration file.

Checks:
  - YAML syntax is valid
  - Log level and format are known
  - Every route names a catalog handler and at least one path

Examples:
  handlerkit validate
  handlerkit validate --config ./deploy/handlerkit.yaml`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Validating %s...\n\n", cfgFile)

	if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
		fmt.Fprintf(out, "  %s Config file exists\n", crossMark)
		return fmt.Errorf("config file not found: %s", cfgFile)
	}
	fmt.Fprintf(out, "  %s Config file exists\n", checkMark)

	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(out, "  %s Config syntax valid\n", crossMark)
		return fmt.Errorf("config error: %w", err)
	}
	fmt.Fprintf(out, "  %s Config syntax valid\n", checkMark)

	known := catalog.New(nil, 0)
	for i, r := range cfg.Routes {
		if _, ok := known.Lookup(r.Handler); !ok {
			fmt.Fprintf(out, "  %s Route handlers known\n", crossMark)
			return fmt.Errorf("routes[%d]: unknown handler %q (available: %v)", i, r.Handler, known.Names())
		}
	}
	fmt.Fprintf(out, "  %s Route handlers known\n", checkMark)

	fmt.Fprintf(out, "  %s Log: %s (%s)\n", checkMark, cfg.Logging.Level, cfg.Logging.Format)
	fmt.Fprintf(out, "  %s Allowed groups: %v\n", checkMark, cfg.Access.AllowedGroups)
	fmt.Fprintf(out, "  %s Routes configured: %d\n", checkMark, len(cfg.Routes))

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Configuration is valid.")
	return nil
}

const (
	checkMark = "\033[32m✓\033[0m"
	crossMark = "\033[31m✗\033[0m"
)
