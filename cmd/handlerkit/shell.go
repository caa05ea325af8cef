package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/artpar/handlerkit/config"
	"github.com/artpar/handlerkit/domain/request"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Dispatch requests read from stdin",
	Long: `Start an interactive loop over the configured route table.

Each input line is a path followed by arguments. Arguments of the form
key=value are named, everything else is positional.

With --watch the config file is reloaded on change or SIGHUP; allowed groups
and the log level apply without restarting.

Examples:
  handlerkit shell
  handlerkit shell --watch

Input:
  /user Manager
  /admin group=Admin
  quit`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

var shellWatch bool

func init() {
	rootCmd.AddCommand(shellCmd)

	shellCmd.Flags().BoolVarP(&shellWatch, "watch", "w", false, "reload the config file on change")
}

func runShell(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	var cfg *config.Config
	var holder *config.Holder

	if shellWatch {
		h, err := config.NewHolder(cfgFile, zerolog.New(cmd.ErrOrStderr()).With().Timestamp().Logger())
		if err != nil {
			return err
		}
		defer h.Stop()
		holder = h
		cfg = h.Get()
	} else {
		c, err := config.LoadWithFallback(cfgFile)
		if err != nil {
			return fmt.Errorf("config error: %w", err)
		}
		cfg = c
	}

	a, err := newApp(cmd, cfg)
	if err != nil {
		return err
	}

	if holder != nil {
		a.Watch(holder)
		if err := holder.WatchFile(); err != nil {
			return err
		}
		holder.WatchSignals()
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(cmd.InOrStdin())

	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return nil
		}

		req := parseShellArgs(fields[1:])
		if _, err := a.Dispatcher.Execute(ctx, fields[0], req); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
		}
	}
}

func parseShellArgs(fields []string) request.Request {
	var positional []string
	named := map[string]string{}
	for _, f := range fields {
		if k, v, ok := strings.Cut(f, "="); ok && k != "" {
			named[k] = v
			continue
		}
		positional = append(positional, f)
	}

	req := request.New(positional...)
	for k, v := range named {
		req = req.WithNamed(k, v)
	}
	return req
}
