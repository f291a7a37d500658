package webclient

import "context"

// WebClient is the transport the dispatcher issues requests through.
// Implementations share a connection pool across concurrent requests and must
// be safe for concurrent use.
type WebClient interface {
	Do(ctx context.Context, req *Request) (*Response, error)

	// Get is a convenience method for simple GET requests.
	Get(ctx context.Context, url string) (*Response, error)

	Close() error
}
