package client_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/adamwoolhether/resumer/client"
)

func TestSend_RetriesTransportFailure(t *testing.T) {
	expBody := []byte("eventually delivered")

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(expBody)))
		_, _ = w.Write(expBody)
	}))
	defer ts.Close()

	// First two attempts fail at the socket level, third goes through.
	var calls int32
	flaky := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			return nil, &net.OpError{Op: "read", Net: "tcp", Err: errors.New("connection reset by peer")}
		}
		return http.DefaultTransport.RoundTrip(r)
	})

	c, err := client.Build(
		client.WithTransport(flaky),
		client.WithRetryDelay(time.Millisecond),
		client.WithLogger(discardLogger()),
	)
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}

	resp, err := c.Get(mustParse(t, ts.URL)).Send(t.Context())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	body := resp.Body()
	defer body.Close()

	got, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	if !bytes.Equal(got, expBody) {
		t.Errorf("body mismatch; got %q, want %q", got, expBody)
	}

	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
}

func TestSend_NonTransportErrorNotRetried(t *testing.T) {
	var calls int32
	broken := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		atomic.AddInt32(&calls, 1)
		return nil, errors.New("proxy misconfigured")
	})

	c, err := client.Build(
		client.WithTransport(broken),
		client.WithRetryDelay(time.Millisecond),
		client.WithLogger(discardLogger()),
	)
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}

	u := c.URL("http", "localhost", "/whatever")
	if _, err := c.Get(u).Send(t.Context()); err == nil {
		t.Fatal("expected error, got nil")
	}

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("expected exactly 1 attempt for a non-transport error, got %d", got)
	}
}

func TestSend_StatusErrorNotRetried(t *testing.T) {
	var requests int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("no such file"))
	}))
	defer ts.Close()

	c, err := client.Build(
		client.WithRetryDelay(time.Millisecond),
		client.WithLogger(discardLogger()),
	)
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}

	_, err = c.Get(mustParse(t, ts.URL)).Send(t.Context())
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var serr *client.UnexpectedStatusError
	if !errors.As(err, &serr) {
		t.Fatalf("expected UnexpectedStatusError, got: %v", err)
	}
	if serr.StatusCode != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", serr.StatusCode)
	}
	if serr.Body != "no such file" {
		t.Errorf("expected error body excerpt, got %q", serr.Body)
	}
	if !errors.Is(err, client.ErrUnexpectedStatusCode) {
		t.Errorf("expected ErrUnexpectedStatusCode sentinel, got: %v", err)
	}

	if got := atomic.LoadInt32(&requests); got != 1 {
		t.Errorf("status errors must not be retried; got %d requests", got)
	}
}

func TestSend_AuthFailureSentinel(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	c, err := client.Build(client.WithLogger(discardLogger()))
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}

	_, err = c.Get(mustParse(t, ts.URL)).Send(t.Context())
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	if !errors.Is(err, client.ErrAuthFailure) {
		t.Errorf("expected ErrAuthFailure, got: %v", err)
	}
	if !errors.Is(err, client.ErrUnexpectedStatusCode) {
		t.Errorf("expected ErrUnexpectedStatusCode, got: %v", err)
	}
}

func TestSend_PartialContentAccepted(t *testing.T) {
	expBody := []byte("tail of the file")

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(expBody)))
		w.WriteHeader(http.StatusPartialContent)
		_, _ = w.Write(expBody)
	}))
	defer ts.Close()

	c, err := client.Build()
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}

	resp, err := c.Get(mustParse(t, ts.URL)).Send(t.Context())
	if err != nil {
		t.Fatalf("206 must be accepted, got: %v", err)
	}

	if resp.StatusCode() != http.StatusPartialContent {
		t.Errorf("expected status 206, got %d", resp.StatusCode())
	}

	body := resp.Body()
	defer body.Close()

	got, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	if !bytes.Equal(got, expBody) {
		t.Errorf("body mismatch; got %q, want %q", got, expBody)
	}
}

func TestSend_MaxAttempts(t *testing.T) {
	var calls int32
	alwaysDown := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		atomic.AddInt32(&calls, 1)
		return nil, &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	})

	c, err := client.Build(
		client.WithTransport(alwaysDown),
		client.WithRetryDelay(time.Millisecond),
		client.WithMaxAttempts(3),
		client.WithLogger(discardLogger()),
	)
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}

	u := c.URL("http", "localhost", "/whatever")
	if _, err := c.Get(u).Send(t.Context()); err == nil {
		t.Fatal("expected error after exhausting attempts")
	}

	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("expected exactly 3 attempts, got %d", got)
	}
}

func TestSend_CancelDuringRetryWait(t *testing.T) {
	alwaysDown := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return nil, &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	})

	c, err := client.Build(
		client.WithTransport(alwaysDown),
		client.WithRetryDelay(10*time.Second),
		client.WithLogger(discardLogger()),
	)
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}

	ctx, cancel := context.WithCancel(t.Context())
	time.AfterFunc(50*time.Millisecond, cancel)

	u := c.URL("http", "localhost", "/whatever")

	start := time.Now()
	_, err = c.Get(u).Send(ctx)
	if err == nil {
		t.Fatal("expected error after cancellation")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got: %v", err)
	}
	if d := time.Since(start); d > 5*time.Second {
		t.Errorf("cancellation should interrupt the retry wait, took %v", d)
	}
}

func TestDefaultRetryDelay(t *testing.T) {
	if client.DefaultRetryDelay != time.Second {
		t.Errorf("expected 1s default retry delay, got %v", client.DefaultRetryDelay)
	}
}
