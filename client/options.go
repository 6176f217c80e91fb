package client

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/adamwoolhether/resumer/client/throttle"
)

// Option is a functional option for configuring a [Client] via [Build].
type Option func(*options) error

type options struct {
	client            *http.Client
	rt                http.RoundTripper
	timeout           *time.Duration
	userAgent         string
	throttle          *throttle.Config
	noFollowRedirects bool
	logger            *slog.Logger
	retryDelay        *time.Duration
	maxAttempts       int
	tracer            trace.Tracer
}

// WithClient replaces the default [http.Client] used by the [Client].
func WithClient(hc *http.Client) Option {
	return func(c *options) error {
		if hc == nil {
			return errors.New("client must not be nil")
		}
		c.client = hc
		return nil
	}
}

// WithTransport sets a custom [http.RoundTripper] as the base transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *options) error {
		if rt == nil {
			return errors.New("transport must not be nil")
		}
		c.rt = rt
		return nil
	}
}

// WithTimeout sets the overall request timeout on the underlying [http.Client].
// The timeout covers each underlying attempt and the full read of its body, so
// a download that resumes mid-stream is still bounded by it.
func WithTimeout(d time.Duration) Option {
	return func(c *options) error {
		if d < 0 {
			return errors.New("timeout must not be negative")
		}
		c.timeout = &d
		return nil
	}
}

// WithUserAgent adds a persistent User-Agent header to all outgoing requests,
// including resume re-issues.
func WithUserAgent(header string) Option {
	return func(c *options) error {
		c.userAgent = header
		return nil
	}
}

// WithThrottle enables token-bucket rate limiting with the given requests per
// second and burst capacity. Retries and resume re-issues consume tokens like
// any other request.
func WithThrottle(rps, burst int) Option {
	return func(c *options) error {
		if rps <= 0 || burst <= 0 {
			return fmt.Errorf("rps[%d] and burst[%d] %w", rps, burst, throttle.ErrMustNotBeZero)
		}
		c.throttle = &throttle.Config{RPS: rps, Burst: burst}
		return nil
	}
}

// WithNoFollowRedirects prevents the [Client] from following HTTP redirects.
func WithNoFollowRedirects() Option {
	return func(c *options) error {
		c.noFollowRedirects = true
		return nil
	}
}

// WithLogger injects a custom [slog.Logger] into the [Client].
func WithLogger(logger *slog.Logger) Option {
	return func(c *options) error {
		c.logger = logger
		return nil
	}
}

// WithRetryDelay overrides [DefaultRetryDelay] as the fixed pause before
// initial-send retries and mid-stream resumes.
func WithRetryDelay(d time.Duration) Option {
	return func(c *options) error {
		if d < 0 {
			return errors.New("retry delay must not be negative")
		}
		c.retryDelay = &d
		return nil
	}
}

// WithMaxAttempts caps the total number of initial-send attempts.
// Zero (the default) means unbounded: the send loop retries transport
// failures until it succeeds or the context ends.
func WithMaxAttempts(n int) Option {
	return func(c *options) error {
		if n < 0 {
			return errors.New("max attempts must not be negative")
		}
		c.maxAttempts = n
		return nil
	}
}

// WithTracer records one span per logical download on the given tracer,
// with span events for every initial-send retry and every mid-stream resume.
// Without it, tracing is a no-op.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *options) error {
		if tracer == nil {
			return errors.New("tracer must not be nil")
		}
		c.tracer = tracer
		return nil
	}
}

// userAgent is an http.RoundTripper, enabling the persistent User-Agent header.
type userAgent struct {
	value string
	base  http.RoundTripper
}

func (ua userAgent) RoundTrip(r *http.Request) (*http.Response, error) {
	cpy := r.Clone(r.Context())
	cpy.Header.Set("User-Agent", ua.value)
	return ua.base.RoundTrip(cpy)
}

// GetOption is a functional option for [Client.Get].
type GetOption func(*GetRequest)

// WithHeaders adds custom headers to the outgoing request. They are carried
// by every re-issued attempt of the same logical download.
func WithHeaders(headers map[string][]string) GetOption {
	return func(g *GetRequest) {
		for k, v := range headers {
			for _, element := range v {
				g.header.Add(k, element)
			}
		}
	}
}

// WithCookies attaches the given cookies to the outgoing request.
func WithCookies(cookies ...*http.Cookie) GetOption {
	return func(g *GetRequest) {
		g.cookies = append(g.cookies, cookies...)
	}
}

// URLOption is a functional option for [URL].
type URLOption func(options *urlOpts)

type urlOpts struct {
	queryStrings map[string]string
	port         *int
}

// WithQueryStrings appends query parameters to the URL.
func WithQueryStrings(queryKV map[string]string) URLOption {
	return func(opts *urlOpts) {
		opts.queryStrings = queryKV
	}
}

// WithPort sets the port number on the URL's host.
func WithPort(port int) URLOption {
	return func(opts *urlOpts) {
		opts.port = &port
	}
}
