// Package resumer exposes the resumable HTTP GET client builder.
package resumer

import (
	"context"
	"net/url"

	"github.com/adamwoolhether/resumer/client"
)

// NewClient instantiates a new *Client with the provided options.
// If not specified, a default http.Client and http.Transport are used.
func NewClient(opts ...client.Option) (*client.Client, error) {
	return client.Build(opts...)
}

// Get is a shortcut performing a resumable GET against reqURL with a
// client built from default options.
func Get(ctx context.Context, reqURL *url.URL) (*client.Response, error) {
	return client.Get(ctx, reqURL)
}
