package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// GetRequest is a GET request builder bound to a single URL.
// It is the unit of one logical download: every underlying attempt,
// including mid-stream resumes, targets the same client, method, and URL.
type GetRequest struct {
	client  *Client
	url     *url.URL
	header  http.Header
	cookies []*http.Cookie
}

// Send issues the request and blocks until a response arrives.
//
// Transport-class failures (connection refused/reset, timeouts at the socket
// level, a peer hanging up before the response) are retried after the client's
// fixed retry delay, unbounded unless [WithMaxAttempts] was set. Failures that
// are deterministic for this request — a malformed URL, a redirect-policy
// rejection, a cancelled context, or a status other than 200/206 — surface
// immediately and are never retried.
//
// The returned [Response] knows whether the server advertises byte-range
// support and starts its byte position counter at zero.
func (g *GetRequest) Send(ctx context.Context) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.url.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("instantiating request: %w", err)
	}

	for k, v := range g.header {
		for _, element := range v {
			req.Header.Add(k, element)
		}
	}
	for _, cookie := range g.cookies {
		req.AddCookie(cookie)
	}

	id := uuid.NewString()
	ctx, span := g.client.tracer.Start(ctx, "resumer.get", trace.WithAttributes(
		attribute.String("url.full", g.url.String()),
		attribute.String("download.id", id),
	))
	req = req.WithContext(ctx)

	var resp *http.Response
	for attempt := 1; ; attempt++ {
		resp, err = g.client.c.Do(req.Clone(ctx))
		if err == nil {
			break
		}

		if !retryable(err) {
			span.End()
			return nil, fmt.Errorf("sending request: %w", err)
		}

		if max := g.client.maxAttempts; max > 0 && attempt >= max {
			span.End()
			return nil, fmt.Errorf("giving up after %d attempts: %w", attempt, err)
		}

		g.client.logger.Warn("transport failure on send, retrying",
			"download_id", id,
			"url", g.url.String(),
			"attempt", attempt,
			"error", err,
		)
		span.AddEvent("retry", trace.WithAttributes(attribute.Int("attempt", attempt)))

		if werr := wait(ctx, g.client.retryDelay); werr != nil {
			span.End()
			return nil, werr
		}
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		span.End()
		return nil, statusError(resp, g.client.logger)
	}

	return &Response{
		client:       g.client,
		req:          req,
		resp:         resp,
		acceptRanges: AcceptsByteRanges(resp.Header),
		id:           id,
		span:         span,
	}, nil
}
