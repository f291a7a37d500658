package webclient

import "time"

type Client string

const (
	ClientNetHTTP  Client = "nethttp"
	ClientChromedp Client = "chromedp"
)

// Config is the minimal set of knobs required for constructing a WebClient.
type Config struct {
	Client Client

	// Timeout is the hard cap on a single request when the caller's context
	// carries no deadline of its own.
	Timeout time.Duration

	// Connection pool sizing for the nethttp backend.
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration

	// EnableHTTP2 negotiates HTTP/2 on TLS connections.
	EnableHTTP2 bool

	// ChromedpIdleAfter is how long the chromedp backend waits for the
	// network to stay quiet before capturing the rendered page.
	ChromedpIdleAfter time.Duration
}
