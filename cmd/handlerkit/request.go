package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/spf13/cobra"
)

var requestCmd = &cobra.Command{
	Use:   "request TARGET",
	Short: "Send one request through the HTTP adapter in-process",
	Long: `Serve a single GET request through the HTTP router without opening a
listener. Query "arg" values are positional arguments, any other query key
is a named argument.

Examples:
  handlerkit request /
  handlerkit request "/user?arg=Manager"
  handlerkit request "/admin?group=Admin"
  handlerkit request /metrics`,
	Args: cobra.ExactArgs(1),
	RunE: runRequest,
}

func init() {
	rootCmd.AddCommand(requestCmd)
}

func runRequest(cmd *cobra.Command, args []string) error {
	target := args[0]
	if !strings.HasPrefix(target, "/") {
		target = "/" + target
	}

	a, err := loadApp(cmd)
	if err != nil {
		return err
	}

	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "HTTP %d %s\n", rec.Code, http.StatusText(rec.Code))
	fmt.Fprint(out, rec.Body.String())

	if rec.Code >= http.StatusInternalServerError {
		return fmt.Errorf("request failed with status %d", rec.Code)
	}
	return nil
}
