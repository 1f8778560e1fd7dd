// Package tccontainer starts reusable service containers for tests
package tccontainer

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type (
	Option func(req *testcontainers.ContainerRequest)
	// Container is a started container exposing one service port
	Container struct {
		testcontainers.Container
		port nat.Port
	}
)

func WithName(name string) Option {
	return func(req *testcontainers.ContainerRequest) {
		req.Name = name
	}
}

func WithEnv(key, value string) Option {
	return func(req *testcontainers.ContainerRequest) {
		req.Env[key] = value
	}
}

func WithCmd(cmd ...string) Option {
	return func(req *testcontainers.ContainerRequest) {
		req.Cmd = cmd
	}
}

// WithWaitForLog waits until msg was logged occurrence times
func WithWaitForLog(msg string, occurrence int) Option {
	return func(req *testcontainers.ContainerRequest) {
		req.WaitingFor = wait.ForLog(msg).
			WithOccurrence(occurrence).
			WithStartupTimeout(time.Minute)
	}
}

// Start starts image (or reuses a running container of the same name)
// and exposes the tcp port servicePort.
//
//nolint:whitespace // editor/linter issue
func Start(
	ctx context.Context, image, servicePort string, opts ...Option,
) (*Container, error) {
	port, err := nat.NewPort("tcp", servicePort)
	if err != nil {
		return nil, err
	}
	req := testcontainers.ContainerRequest{
		Image:        image,
		Env:          map[string]string{},
		ExposedPorts: []string{string(port)},
	}
	for _, opt := range opts {
		opt(&req)
	}
	c, err := testcontainers.GenericContainer(ctx,
		testcontainers.GenericContainerRequest{
			ContainerRequest: req,
			Started:          true,
			Reuse:            req.Name != "",
		})
	if err != nil {
		return nil, err
	}
	return &Container{Container: c, port: port}, nil
}

// Addr returns host:port of the service port as seen from the test
func (c *Container) Addr(ctx context.Context) (string, error) {
	mapped, err := c.MappedPort(ctx, c.port)
	if err != nil {
		return "", err
	}
	host, err := c.Host(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%s", host, mapped.Port()), nil
}
