// Package tcnats runs a jetstream enabled NATS server for tests
package tcnats

import (
	"context"

	"github.com/apex-racing/grcup-analytics/testsupport/tccontainer"
)

// SetupNats starts (or reuses) the test server and returns its client url
func SetupNats(ctx context.Context) (string, error) {
	c, err := tccontainer.Start(ctx, "nats:2.11", "4222",
		tccontainer.WithName("grcup-analytics-test-nats"),
		tccontainer.WithCmd("-js"),
		tccontainer.WithWaitForLog("Server is ready", 1))
	if err != nil {
		return "", err
	}
	addr, err := c.Addr(ctx)
	if err != nil {
		return "", err
	}
	return "nats://" + addr, nil
}
