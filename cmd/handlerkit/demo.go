package main

import (
	"fmt"

	"github.com/artpar/handlerkit/adapters/clock"
	"github.com/artpar/handlerkit/demo"
	"github.com/spf13/cobra"
)

var routeCmd = &cobra.Command{
	Use:   "route",
	Short: "Run the route dispatch walkthrough",
	Long: `Register "/" and the "/user" + "/usr" aliases, then dispatch:

  /              -> root handler
  /user Manager  -> user handler
  /usr Admin     -> user handler (alias)
  /notexisting   -> 404 page not Found`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd)
		if err != nil {
			return err
		}
		return demo.Route(cmd.Context(), a.Reporter, a.Logger)
	},
}

var securityCmd = &cobra.Command{
	Use:   "security",
	Short: "Run the access guard walkthrough",
	Long: `Same routes as "route", with the user paths restricted to the Admin group.
The group is passed once positionally and once as a named argument.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd)
		if err != nil {
			return err
		}
		return demo.Security(cmd.Context(), a.Reporter, a.Logger)
	},
}

var markCmd = &cobra.Command{
	Use:   "mark",
	Short: "Print marked function names, then call every example function",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd)
		if err != nil {
			return err
		}
		demo.Mark(cmd.Context(), a.Reporter)
		return nil
	},
}

var timingCount int

var timingCmd = &cobra.Command{
	Use:   "timing",
	Short: "Run the timed counter",
	Long: `Print 0..N-1 through a timed handler, report how long it took, then
print the handler's name. N defaults to timing.count_to.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd)
		if err != nil {
			return err
		}
		n := a.Config.Timing.CountTo
		if cmd.Flags().Changed("n") {
			if timingCount <= 0 {
				return fmt.Errorf("--n must be positive, got %d", timingCount)
			}
			n = timingCount
		}
		return demo.Timing(cmd.Context(), a.Reporter, a.Logger, clock.Real{}, n)
	},
}

func init() {
	rootCmd.AddCommand(routeCmd)
	rootCmd.AddCommand(securityCmd)
	rootCmd.AddCommand(markCmd)
	rootCmd.AddCommand(timingCmd)

	timingCmd.Flags().IntVarP(&timingCount, "n", "n", 0, "numbers to print (default timing.count_to)")
}
