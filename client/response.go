package client

import (
	"bytes"
	"errors"
	"io"
	"iter"
	"net/http"

	"go.opentelemetry.io/otel/trace"
)

// Response is the outcome of a successful [GetRequest.Send]. It wraps the
// underlying *http.Response together with everything needed to re-issue the
// request during stream resumption.
type Response struct {
	client       *Client
	req          *http.Request // endpoint template, cloned for every re-issued attempt
	resp         *http.Response
	acceptRanges bool
	id           string
	span         trace.Span
}

// StatusCode returns the HTTP status of the initial response: 200, or 206
// when the request carried a Range header.
func (r *Response) StatusCode() int { return r.resp.StatusCode }

// Header returns the initial response's headers.
func (r *Response) Header() http.Header { return r.resp.Header }

// ContentLength reports the length of the full body as declared by the
// initial response, or -1 when unknown.
func (r *Response) ContentLength() int64 { return r.resp.ContentLength }

// AcceptsRanges reports whether the server advertised byte-range support on
// the initial response. When false, a mid-stream fault is unrecoverable and
// terminates the body with the underlying error.
func (r *Response) AcceptsRanges() bool { return r.acceptRanges }

// Body returns the response body as a stream that transparently resumes
// after mid-transfer faults. Read it exactly as any response body; Close it
// when done. Call Body once per Response: the returned reader takes
// ownership of the underlying connection.
//
// Resumed requests are not re-validated against the original resource (no
// ETag/If-Range check). If the resource changes on the server between the
// original request and a resume, bytes after the splice point may be
// inconsistent with bytes before it.
func (r *Response) Body() io.ReadCloser {
	return &bodyReader{
		client:       r.client,
		req:          r.req,
		body:         r.resp.Body,
		acceptRanges: r.acceptRanges,
		id:           r.id,
		span:         r.span,
	}
}

// Chunks adapts [Response.Body] to a range-over-func sequence of byte
// chunks. Iteration stops at natural end-of-body, after yielding a non-nil
// error, or when the consumer breaks; in every case the body is closed.
func (r *Response) Chunks() iter.Seq2[[]byte, error] {
	body := r.Body()

	return func(yield func([]byte, error) bool) {
		defer body.Close()

		buf := make([]byte, 32*1024)
		for {
			n, err := body.Read(buf)
			if n > 0 {
				if !yield(bytes.Clone(buf[:n]), nil) {
					return
				}
			}

			switch {
			case errors.Is(err, io.EOF):
				return
			case err != nil:
				yield(nil, err)
				return
			}
		}
	}
}
