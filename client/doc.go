// Package client implements a resumable HTTP GET client built on [net/http].
//
// A download started with [GetRequest.Send] survives mid-transfer transport
// faults: when the server advertises byte-range support, the response body
// returned by [Response.Body] transparently re-issues the request with a
// Range header anchored at the last delivered byte offset, so consumers see
// one unbroken byte stream across any number of underlying connections.
//
// # Building a Client
//
// Use [Build] to create a [Client] with functional options:
//
//	c, err := client.Build(
//		client.WithRetryDelay(2 * time.Second),
//		client.WithUserAgent("myapp/1.0"),
//	)
//
// # Fetching
//
// Construct a [URL], bind a GET request to it, and send:
//
//	u := client.URL("https", "example.com", "/big-file.gz")
//	resp, err := c.Get(u).Send(ctx)
//	if err != nil { ... }
//
//	body := resp.Body() // io.ReadCloser that resumes on failure
//	defer body.Close()
//	_, err = io.Copy(dst, body)
//
// The initial send retries transport failures with a fixed delay until it
// succeeds; deterministic failures (malformed request, redirect policy,
// unexpected status, cancelled context) surface immediately. By default the
// retry loop is unbounded, on the assumption that long-running bulk fetches
// bound it with an outer context; cap it with [WithMaxAttempts].
//
// # Downloading Files
//
// Stream a resource directly to disk with optional checksum verification
// and progress reporting:
//
//	err = c.Download(ctx, u, "/tmp/file.bin",
//		client.WithChecksum(sha256.New(), expectedHex),
//		client.WithProgress(),
//	)
//
// Asynchronous and batched downloads are available through
// [Client.DownloadAsync] and [WithBatch]; see the
// [github.com/adamwoolhether/resumer/client/download] package.
package client
