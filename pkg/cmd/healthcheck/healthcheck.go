package healthcheck

import (
	"time"

	"github.com/spf13/cobra"

	cmdutil "github.com/apex-racing/grcup-analytics/pkg/cmd/util"
	"github.com/apex-racing/grcup-analytics/pkg/utils"
)

var (
	url     string
	timeout time.Duration
)

// NewHealthCheckCmd checks a running server, e.g. as container HEALTHCHECK
func NewHealthCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "healthcheck",
		Short:        "checks if the http server responds",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdutil.SetupLogger()
			return utils.WaitForHTTPResponse(url, timeout)
		},
	}
	cmd.Flags().StringVar(&url,
		"url",
		"http://localhost:8000/health",
		"url to check")
	cmd.Flags().DurationVar(&timeout,
		"timeout",
		5*time.Second,
		"max duration to wait for a response")
	return cmd
}
