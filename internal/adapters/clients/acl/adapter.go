package acl

import (
	"context"
	"fmt"
	"io"

	"github.com/jsamuelsen/daily-quote/internal/adapters/clients"
)

// DefaultMaxBodyBytes caps a response body read through BaseAdapter.
const DefaultMaxBodyBytes = 4 << 20

// BaseAdapter provides common functionality for ACL adapters.
// Embed this in resource-specific adapters.
type BaseAdapter struct {
	client       *clients.Client
	serviceName  string
	maxBodyBytes int64
}

// NewBaseAdapter creates a new base adapter with the given client and service name.
func NewBaseAdapter(client *clients.Client, serviceName string) BaseAdapter {
	return BaseAdapter{
		client:       client,
		serviceName:  serviceName,
		maxBodyBytes: DefaultMaxBodyBytes,
	}
}

// Client returns the underlying HTTP client.
func (a *BaseAdapter) Client() *clients.Client {
	return a.client
}

// ServiceName returns the name of the remote resource.
func (a *BaseAdapter) ServiceName() string {
	return a.serviceName
}

// Fetch GETs path and returns the whole body.
// Failures are returned as mapped domain errors.
func (a *BaseAdapter) Fetch(ctx context.Context, path, operation string) ([]byte, error) {
	resp, err := a.client.Get(ctx, path)
	if err != nil {
		return nil, MapHTTPError(nil, err, a.serviceName, operation)
	}
	defer func() { _ = resp.Body.Close() }()

	if mapped := MapHTTPError(resp, nil, a.serviceName, operation); mapped != nil {
		return nil, mapped
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, a.maxBodyBytes+1))
	if err != nil {
		return nil, MapHTTPError(nil, fmt.Errorf("reading body: %w", err), a.serviceName, operation)
	}

	if int64(len(body)) > a.maxBodyBytes {
		return nil, MapHTTPError(nil,
			fmt.Errorf("body exceeds %d bytes", a.maxBodyBytes), a.serviceName, operation)
	}

	return body, nil
}

// Head sends a HEAD for path and maps anything but a 2xx to a domain error.
func (a *BaseAdapter) Head(ctx context.Context, path, operation string) error {
	resp, err := a.client.Head(ctx, path)
	if err != nil {
		return MapHTTPError(nil, err, a.serviceName, operation)
	}
	defer func() { _ = resp.Body.Close() }()

	return MapHTTPError(resp, nil, a.serviceName, operation)
}
