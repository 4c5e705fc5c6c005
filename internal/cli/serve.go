package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/five82/explorer/internal/app"
)

func newServeCmd(global *globalFlags) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the explorer page and JSON API over HTTP",
		Long: `Starts an HTTP server with the explorer page at /, the snapshot at
/api/v1/snapshot, parameter updates at /api/v1/params, and Prometheus
metrics at /metrics. A fetch cycle starts immediately.`,
		Example: `  explorer serve
  explorer serve --listen :9090 --log-level debug`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := global.options(app.ModeServe)
			opts.Listen = listen
			opts.LogWriter = cmd.ErrOrStderr()

			a, err := app.New(opts)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()
			return a.Serve(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default 127.0.0.1:8080)")
	return cmd
}

func newVersionCmd(ver string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the explorer version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "explorer %s (%s %s/%s)\n", ver, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
