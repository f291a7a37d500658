package dispatch

import "time"

type Config struct {
	// MaxConcurrency bounds in-flight requests per batch. Zero means one
	// goroutine per descriptor.
	MaxConcurrency int

	// DefaultTimeout applies to descriptors that carry no timeout of their own.
	DefaultTimeout time.Duration

	// FailOnHTTPError converts non-2xx responses into descriptor errors.
	// Off by default: a status is a result, not a failure.
	FailOnHTTPError bool

	// AnnotateHTML extracts page titles from HTML responses into outcomes.
	AnnotateHTML bool
}
