package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/adamwoolhether/resumer/client/download"
	"github.com/adamwoolhether/resumer/client/throttle"
)

// Client wraps the std-lib *http.Client with resumable GET semantics.
// It sets a default *http.Client and *http.Transport, which
// can be customized via optional funcs.
type Client struct {
	c           *http.Client
	logger      *slog.Logger
	tracer      trace.Tracer
	retryDelay  time.Duration
	maxAttempts int
}

func Build(opts ...Option) (*Client, error) {
	client := &Client{
		c:          &http.Client{},
		logger:     slog.Default(),
		retryDelay: DefaultRetryDelay,
	}

	var settings options
	for _, opt := range opts {
		if err := opt(&settings); err != nil {
			return nil, fmt.Errorf("applying client option: %w", err)
		}
	}

	if settings.client != nil {
		client.c = settings.client
	}

	if settings.logger != nil {
		client.logger = settings.logger
	}

	if settings.timeout != nil {
		client.c.Timeout = *settings.timeout
	}
	if settings.noFollowRedirects {
		client.c.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	if settings.retryDelay != nil {
		client.retryDelay = *settings.retryDelay
	}
	client.maxAttempts = settings.maxAttempts

	client.tracer = settings.tracer
	if client.tracer == nil {
		client.tracer = noop.NewTracerProvider().Tracer("github.com/adamwoolhether/resumer")
	}

	var transport http.RoundTripper
	switch {
	case settings.rt != nil:
		transport = settings.rt
	case settings.client != nil && settings.client.Transport != nil:
		transport = settings.client.Transport
	default:
		transport = http.DefaultTransport
	}
	if settings.userAgent != "" {
		transport = userAgent{value: settings.userAgent, base: transport}
	}
	if settings.throttle != nil {
		rt, err := throttle.NewRoundTripper(settings.throttle.RPS, settings.throttle.Burst, func() *slog.Logger { return client.logger }, transport)
		if err != nil {
			return nil, fmt.Errorf("configuring throttle: %w", err)
		}
		transport = rt
	}
	client.c.Transport = transport

	return client, nil
}

// Get returns a GET request builder bound to reqURL.
func (c *Client) Get(reqURL *url.URL, opts ...GetOption) *GetRequest {
	g := &GetRequest{
		client: c,
		url:    reqURL,
		header: make(http.Header),
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Download performs a resumable GET against reqURL and streams the body to
// destPath. Data streams to a temp file in the same directory, then the temp
// file is renamed to destPath on success or removed on failure. Mid-transfer
// faults are recovered through range resumption before they ever reach the
// file, when the server allows it.
func (c *Client) Download(ctx context.Context, reqURL *url.URL, destPath string, opts ...DownloadOption) error {
	if destPath == "" {
		return errors.New("destPath must not be empty")
	}

	resp, err := c.Get(reqURL).Send(ctx)
	if err != nil {
		return err
	}

	body := resp.Body()
	defer func() {
		if cerr := body.Close(); cerr != nil {
			c.logger.Error("failed to close response body", "error", cerr)
		}
	}()

	if err := download.Handle(ctx, body, resp.ContentLength(), destPath, c.logger, opts...); err != nil {
		return fmt.Errorf("download: %w", err)
	}

	return nil
}

// DownloadAsync starts Download in a managed goroutine and returns a
// [download.Result] for tracking it. Use [WithBatch] on the first call to
// bound the concurrency of a batch, then [download.Result.Add] to enqueue
// more files into the same batch.
func (c *Client) DownloadAsync(ctx context.Context, reqURL *url.URL, destPath string, opts ...DownloadOption) (*download.Result, error) {
	if destPath == "" {
		return nil, errors.New("destPath must not be empty")
	}

	queue, err := download.QueueFrom(opts)
	if err != nil {
		return nil, err
	}

	work := func(ctx context.Context) error {
		return c.Download(ctx, reqURL, destPath, opts...)
	}

	return queue.Start(ctx, work, c.asyncAdder()), nil
}

// asyncAdder lets download.Result.Add enqueue follow-up downloads
// without the download package depending on this one.
func (c *Client) asyncAdder() download.Adder {
	return func(ctx context.Context, reqURL *url.URL, destPath string, opts ...download.Option) (*download.Result, error) {
		return c.DownloadAsync(ctx, reqURL, destPath, opts...)
	}
}

// URL creates a url.URL for use in [Client.Get].
// It's just a convenience method that wraps the public URL func.
func (c *Client) URL(scheme, host, path string, opts ...URLOption) *url.URL {
	return URL(scheme, host, path, opts...)
}

// Get performs a resumable GET against reqURL with a [Client] built from
// default options.
func Get(ctx context.Context, reqURL *url.URL) (*Response, error) {
	c, err := Build()
	if err != nil {
		return nil, err
	}

	return c.Get(reqURL).Send(ctx)
}

// URL creates a url.URL for use in [Client.Get].
func URL(scheme, host, path string, opts ...URLOption) *url.URL {
	var settings urlOpts
	for _, opt := range opts {
		opt(&settings)
	}

	if settings.port != nil {
		host = fmt.Sprintf("%s:%d", host, *settings.port)
	}

	endpoint := url.URL{
		Scheme: scheme,
		Host:   host,
		Path:   path,
	}

	if settings.queryStrings != nil {
		queryParams := url.Values{}
		for k, v := range settings.queryStrings {
			queryParams.Add(k, v)
		}

		endpoint.RawQuery = queryParams.Encode()
	}

	return &endpoint
}
