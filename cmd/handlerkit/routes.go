package main

import (
	"fmt"
	"strings"

	"github.com/artpar/handlerkit/core/formatter"
	"github.com/spf13/cobra"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List the configured routes",
	Long: `List the route table and the keys registered from it.

Restricted routes without their own groups follow access.allowed_groups;
their groups are shown as currently configured.

Examples:
  handlerkit routes
  handlerkit routes -o json
  handlerkit routes -o yaml
  handlerkit routes --no-header --max-width 20
  handlerkit routes -o json --compact`,
	Args: cobra.NoArgs,
	RunE: runRoutes,
}

var (
	routesOutput   string
	routesNoHeader bool
	routesCompact  bool
	routesMaxWidth int
)

func init() {
	rootCmd.AddCommand(routesCmd)

	routesCmd.Flags().StringVarP(&routesOutput, "output", "o", "table", "output format (table, json, yaml)")
	routesCmd.Flags().BoolVar(&routesNoHeader, "no-header", false, "disable header row (table format)")
	routesCmd.Flags().BoolVar(&routesCompact, "compact", false, "compact output (json)")
	routesCmd.Flags().IntVar(&routesMaxWidth, "max-width", 0, "truncate table values longer than this (0 = no limit)")
}

func runRoutes(cmd *cobra.Command, args []string) error {
	formats := formatter.Standard()
	f, ok := formats.Get(routesOutput)
	if !ok {
		def, _ := formats.Get("")
		return formatError(cmd, def, fmt.Errorf("unknown output format %q (available: %s)", routesOutput, strings.Join(formats.List(), ", ")))
	}
	if routesMaxWidth < 0 {
		return formatError(cmd, f, fmt.Errorf("--max-width must not be negative, got %d", routesMaxWidth))
	}

	a, err := loadApp(cmd)
	if err != nil {
		return formatError(cmd, f, err)
	}

	records := make([]map[string]any, 0, len(a.Config.Routes))
	for _, r := range a.Config.Routes {
		var groups []string
		if r.Restricted {
			groups = r.Groups
			if len(groups) == 0 {
				groups = a.Guard.Policy().Groups()
			}
		}
		records = append(records, map[string]any{
			"paths":      r.Paths,
			"handler":    r.Handler,
			"restricted": r.Restricted,
			"groups":     groups,
			"timed":      r.Timed,
		})
	}

	out := cmd.OutOrStdout()
	opts := formatter.FormatOptions{
		Columns:  []string{"paths", "handler", "restricted", "groups", "timed"},
		NoHeader: routesNoHeader,
		Compact:  routesCompact,
		MaxWidth: routesMaxWidth,
	}
	if err := f.FormatList(out, "routes", records, opts); err != nil {
		return formatError(cmd, f, err)
	}

	if f.Name() == "table" {
		fmt.Fprintf(out, "\n%d keys registered: %s\n", a.Registry.Len(), strings.Join(a.Registry.Keys(), " "))
	}
	return nil
}

// formatError writes err to stderr in the selected output format and returns it.
func formatError(cmd *cobra.Command, f formatter.Formatter, err error) error {
	f.FormatError(cmd.ErrOrStderr(), err)
	return err
}
