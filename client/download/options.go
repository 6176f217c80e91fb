package download

import (
	"errors"
	"hash"
)

// Option defines optional settings for downloading files.
type Option func(*options) error

type options struct {
	checksum     *checksumVerifier
	progress     bool
	skipExisting bool

	queue    *Queue // existing batch injected by Result.Add
	newBatch bool
	batchMax int
}

// WithChecksum enables checksum validation of the downloaded file.
// h is a [hash.Hash] instance (e.g. sha256.New()), and expected is the
// hex-encoded expected checksum string.
func WithChecksum(h hash.Hash, expected string) Option {
	return func(opts *options) error {
		if h == nil {
			return errors.New("hash must not be nil")
		}

		if expected == "" {
			return errors.New("expected checksum must not be empty")
		}

		opts.checksum = &checksumVerifier{hash: h, expected: expected}
		return nil
	}
}

// WithProgress enables periodic download progress logging via the
// logger supplied to Handle.
func WithProgress() Option {
	return func(opts *options) error {
		opts.progress = true
		return nil
	}
}

// WithSkipExisting causes a download to return nil immediately when
// the destination file already exists, avoiding a redundant download.
func WithSkipExisting() Option {
	return func(opts *options) error {
		opts.skipExisting = true
		return nil
	}
}

// WithBatch activates batch mode by creating a download queue with the given
// concurrency limit. If maxConcurrent <= 0, concurrency is unlimited.
func WithBatch(maxConcurrent int) Option {
	return func(opts *options) error {
		opts.newBatch = true
		opts.batchMax = maxConcurrent
		return nil
	}
}

// withBatch reuses an existing queue; injected by [Result.Add].
func withBatch(q *Queue) Option {
	return func(opts *options) error {
		opts.queue = q
		return nil
	}
}

// QueueFrom resolves the queue an async download belongs to from its
// options: the batch injected by [Result.Add], a fresh bounded batch from
// [WithBatch], or a fresh unbounded one.
func QueueFrom(opts []Option) (*Queue, error) {
	var settings options
	for _, opt := range opts {
		if err := opt(&settings); err != nil {
			return nil, err
		}
	}

	if settings.queue != nil {
		if settings.newBatch {
			return nil, errors.New("WithBatch cannot be combined with Result.Add")
		}
		return settings.queue, nil
	}

	return newQueue(settings.batchMax), nil
}
