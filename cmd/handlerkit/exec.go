package main

import (
	"fmt"
	"strings"

	"github.com/artpar/handlerkit/domain/access"
	"github.com/artpar/handlerkit/domain/request"
	"github.com/spf13/cobra"
)

var execCmd = &cobra.Command{
	Use:   "exec PATH [ARGS...]",
	Short: "Dispatch one request against the configured route table",
	Long: `Dispatch a single request. ARGS become positional arguments; --group and
--set add named arguments.

Examples:
  handlerkit exec /
  handlerkit exec /user Manager
  handlerkit exec /admin --group Admin
  handlerkit exec /count --set n=5`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExec,
}

var (
	execGroup string
	execSet   []string
)

func init() {
	rootCmd.AddCommand(execCmd)

	execCmd.Flags().StringVarP(&execGroup, "group", "g", "", "named group argument")
	execCmd.Flags().StringArrayVar(&execSet, "set", nil, "named argument as key=value (repeatable)")
}

func runExec(cmd *cobra.Command, args []string) error {
	req, err := buildRequest(args[1:], execGroup, execSet)
	if err != nil {
		return err
	}

	a, err := loadApp(cmd)
	if err != nil {
		return err
	}

	status, err := a.Dispatcher.Execute(cmd.Context(), args[0], req)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	a.Logger.Debug().Str("path", args[0]).Stringer("status", status).Msg("exec finished")
	return nil
}

func buildRequest(positional []string, group string, set []string) (request.Request, error) {
	req := request.New(positional...)
	for _, kv := range set {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return request.Request{}, fmt.Errorf("invalid --set %q: want key=value", kv)
		}
		req = req.WithNamed(k, v)
	}
	if group != "" {
		req = req.WithNamed(access.GroupArg, group)
	}
	return req, nil
}
