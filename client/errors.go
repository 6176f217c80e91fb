package client

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// maxErrBodySize caps the amount of response body read when
// building an error for an unexpected status code. This prevents
// unbounded memory usage when a large response arrives with a
// wrong status.
const maxErrBodySize = 4 << 10 // 4KB

var (
	// ErrUnexpectedStatusCode is the sentinel error wrapped by [UnexpectedStatusError].
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	// ErrAuthFailure is joined with [ErrUnexpectedStatusCode] when the server
	// responds with 401 Unauthorized or 403 Forbidden.
	ErrAuthFailure = errors.New("auth failure")
	// ErrResumeFailed wraps the error that terminated a resumable body after
	// its single in-place resume attempt did not produce a usable response.
	ErrResumeFailed = errors.New("resume failed")
)

// UnexpectedStatusError is returned when the HTTP response status code
// is not 200 OK or 206 Partial Content.
type UnexpectedStatusError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("%v: %d, body: %s", e.Err, e.StatusCode, e.Body)
}

func (e *UnexpectedStatusError) Unwrap() error {
	return e.Err
}

// statusError drains and closes resp.Body and builds an
// *UnexpectedStatusError carrying a capped excerpt of the body.
func statusError(resp *http.Response, logger *slog.Logger) error {
	defer func() {
		if _, err := io.Copy(io.Discard, resp.Body); err != nil {
			logger.Error("failed to discard error response body", "error", err)
		}
		if err := resp.Body.Close(); err != nil {
			logger.Error("failed to close error response body", "error", err)
		}
	}()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxErrBodySize))
	if err != nil {
		b = []byte("unable to read body")
	}

	serr := &UnexpectedStatusError{
		StatusCode: resp.StatusCode,
		Body:       string(b),
		Err:        ErrUnexpectedStatusCode,
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		serr.Err = fmt.Errorf("%w: %w", ErrAuthFailure, ErrUnexpectedStatusCode)
	}

	return serr
}
