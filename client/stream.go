package client

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// bodyReader is the resumable body stream. It forwards reads from the
// current underlying body, counting every byte delivered to the caller.
// When a read fails mid-stream and the server advertised byte-range
// support, it re-issues the request with "Range: bytes=<pos>-" after the
// client's fixed retry delay and splices the new body in place, so the
// caller observes one gap-free, duplicate-free byte sequence across any
// number of underlying connections.
//
// Exactly one underlying body is live at a time. The re-issue goes through
// the client's raw send, not the initial-send retry loop: a failed resume
// terminates the stream rather than looping, keeping mid-stream recovery
// to one attempt per fault.
type bodyReader struct {
	client *Client
	req    *http.Request // endpoint template; Clone per re-issue
	body   io.ReadCloser // current live source, nil while a resume is owed

	acceptRanges bool
	pos          uint64 // bytes delivered to the caller since inception

	err    error // sticky terminal outcome, io.EOF included
	closed bool

	id   string
	span trace.Span
	done bool // span ended
}

func (b *bodyReader) Read(p []byte) (int, error) {
	if b.closed {
		return 0, http.ErrBodyReadAfterClose
	}
	if b.err != nil {
		return 0, b.err
	}

	for {
		if b.body == nil { // a resume is owed from a previous fault
			if err := b.resume(); err != nil {
				b.err = fmt.Errorf("%w at offset %d: %w", ErrResumeFailed, b.pos, err)
				b.finish(b.err)
				return 0, b.err
			}
		}

		n, err := b.body.Read(p)
		b.pos += uint64(n)

		switch {
		case err == nil:
			return n, nil

		case errors.Is(err, io.EOF):
			b.err = io.EOF
			b.finish(nil)
			return n, io.EOF

		case !b.acceptRanges:
			// Server position can't be re-anchored; the fault is the caller's.
			b.err = err
			b.finish(err)
			return n, err

		default:
			b.client.logger.Warn("body stream interrupted, resuming",
				"download_id", b.id,
				"offset", b.pos,
				"error", err,
			)
			if cerr := b.body.Close(); cerr != nil {
				b.client.logger.Error("failed to close interrupted body", "error", cerr)
			}
			b.body = nil

			// Deliver what arrived alongside the fault first; the
			// resume happens on the caller's next read.
			if n > 0 {
				return n, nil
			}
		}
	}
}

// resume waits out the retry delay, then re-issues the request anchored at
// the byte position counter and installs the new body.
func (b *bodyReader) resume() error {
	ctx := b.req.Context()

	if err := wait(ctx, b.client.retryDelay); err != nil {
		return err
	}

	req := b.req.Clone(ctx)
	req.Header.Set("Range", fmt.Sprintf("bytes=%d-", b.pos))

	b.span.AddEvent("resume", trace.WithAttributes(attribute.Int64("offset", int64(b.pos))))

	resp, err := b.client.c.Do(req)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return statusError(resp, b.client.logger)
	}

	b.body = resp.Body

	return nil
}

// Close releases the current underlying body, if any. Abandoning the stream
// mid-download carries no further side effects: no request is in flight
// between reads, and pending resume timers only run inside Read.
func (b *bodyReader) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	b.finish(nil)

	if b.body == nil {
		return nil
	}

	return b.body.Close()
}

// finish ends the download span exactly once.
func (b *bodyReader) finish(err error) {
	if b.done {
		return
	}
	b.done = true

	b.span.SetAttributes(attribute.Int64("bytes.delivered", int64(b.pos)))
	if err != nil {
		b.span.RecordError(err)
		b.span.SetStatus(codes.Error, "stream terminated")
	}
	b.span.End()
}
