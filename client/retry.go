package client

import (
	"context"
	"errors"
	"io"
	"net"
	"net/url"
	"time"
)

// DefaultRetryDelay is the fixed pause between attempts, both for the
// initial-send retry loop and before a mid-stream resume. It is a backoff,
// not a timeout. Override with [WithRetryDelay].
const DefaultRetryDelay = time.Second

// retryable reports whether err is a transport-class failure worth a blind
// retry. Build errors, redirect-policy errors, status errors, and context
// cancellation are deterministic for a given request and will recur forever,
// so they are never retried.
func retryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// http.Client wraps every failure in *url.Error, which itself satisfies
	// net.Error. Classify the wrapped error instead, or redirect-policy
	// rejections would look like transport faults.
	var uerr *url.Error
	if errors.As(err, &uerr) {
		err = uerr.Err
	}

	var nerr net.Error
	if errors.As(err, &nerr) {
		return true
	}

	// A peer hanging up before the response arrives surfaces as a bare EOF.
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}

// wait pauses for d or until ctx is done, whichever comes first.
func wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
