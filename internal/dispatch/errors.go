package dispatch

import (
	"context"
	"errors"
	"net"
	"net/url"
)

// classifyError maps transport failures onto the outcome error taxonomy:
// "timeout: ...", "canceled: ..." or "network: ...".
func classifyError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout: " + context.DeadlineExceeded.Error()
	}
	if errors.Is(err, context.Canceled) {
		return "canceled: " + context.Canceled.Error()
	}

	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return "timeout: " + err.Error()
	}

	var ue *url.Error
	if errors.As(err, &ue) {
		return "network: " + ue.Err.Error()
	}
	return "network: " + err.Error()
}
