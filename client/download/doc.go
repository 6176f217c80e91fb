// Package download streams HTTP response bodies to disk with optional
// checksum validation and progress reporting.
//
// # Single Download
//
// [Handle] writes the body to a temporary file alongside the destination
// path, then atomically renames it on success:
//
//	err := download.Handle(ctx, body, contentLength, destPath, logger)
//
// Handle is source-agnostic: it reads any io.Reader. Fed the resumable body
// from the client package, a download survives mid-transfer faults without
// ever producing a truncated destination file.
//
// Most callers should use the higher-level
// [github.com/adamwoolhether/resumer/client] package, which invokes Handle
// internally and re-exports all download options as client.With* functions.
package download
