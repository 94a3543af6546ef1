//go:build !windows

// Package eacom talks to the real Enterprise Architect application through
// its COM automation interface, which only exists on Windows. On other
// platforms the constructor still builds, but opening fails with a hint
// toward the memory backend.
package eacom

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sparxtools/eabridge/internal/usecase"
)

// Client is the non-Windows placeholder for the COM automation client.
type Client struct {
	logger *slog.Logger
}

// New creates the placeholder client.
func New(logger *slog.Logger) *Client {
	return &Client{logger: logger.With("component", "eacom")}
}

// Open always fails off Windows.
func (c *Client) Open(_ context.Context) (usecase.Repository, error) {
	return nil, errors.New("EA COM automation requires Windows; use the memory backend on this platform")
}
