package dispatch

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/kamalkashyapp/fanout/internal/logging"
	"github.com/kamalkashyapp/fanout/internal/webclient"
)

// ProgressFunc receives each outcome as it completes. index is the
// descriptor's position in the input batch.
type ProgressFunc func(index int, outcome Outcome)

// Dispatcher executes descriptor batches concurrently over a shared
// webclient. One attempt per descriptor; a failing descriptor never cancels
// or affects its siblings.
type Dispatcher struct {
	cfg    Config
	wc     webclient.WebClient
	logger logging.Logger
}

// New creates a new Dispatcher with the given webclient and logger.
func New(cfg Config, wc webclient.WebClient, logger logging.Logger) (*Dispatcher, error) {
	if wc == nil {
		return nil, fmt.Errorf("dispatch: webclient is nil")
	}
	return &Dispatcher{
		cfg:    cfg,
		wc:     wc,
		logger: logger,
	}, nil
}

// Dispatch runs every descriptor concurrently and returns one outcome per
// descriptor, in input order regardless of completion order. overall bounds
// the whole batch; zero means the caller's context rules.
func (d *Dispatcher) Dispatch(ctx context.Context, descs []Descriptor, overall time.Duration) ([]Outcome, error) {
	return d.DispatchWithProgress(ctx, descs, overall, nil)
}

// DispatchWithProgress is Dispatch with a per-outcome callback, used by the
// orchestrator to stream batch progress. progress may be called from multiple
// goroutines but never twice for the same index.
func (d *Dispatcher) DispatchWithProgress(ctx context.Context, descs []Descriptor, overall time.Duration, progress ProgressFunc) ([]Outcome, error) {
	if err := ValidateAll(descs); err != nil {
		return nil, err
	}

	batchCtx := ctx
	if overall > 0 {
		var cancel context.CancelFunc
		batchCtx, cancel = context.WithTimeout(ctx, overall)
		defer cancel()
	}

	maxConcurrency := d.cfg.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = len(descs)
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, maxConcurrency)
	// Collected positionally so the output order matches the input no matter
	// which descriptor finishes first.
	outcomes := make([]Outcome, len(descs))

	for i, desc := range descs {
		wg.Add(1)

		go func(i int, desc Descriptor) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			outcomes[i] = d.execute(batchCtx, desc)
			if progress != nil {
				progress(i, outcomes[i])
			}
		}(i, desc)
	}

	wg.Wait()
	return outcomes, nil
}

// execute performs the single attempt for one descriptor and converts every
// failure into an outcome. It never returns an error to the batch.
func (d *Dispatcher) execute(ctx context.Context, desc Descriptor) Outcome {
	out := Outcome{URL: desc.URL}

	method := strings.ToUpper(strings.TrimSpace(desc.Method))
	if method == "" {
		method = MethodPost
	}
	if method != MethodGet && method != MethodPost {
		out.Err = fmt.Sprintf("unsupported method %s", method)
		return out
	}

	timeout := desc.Timeout
	if timeout <= 0 {
		timeout = d.cfg.DefaultTimeout
	}
	reqCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req := &webclient.Request{Method: method, URL: desc.URL}
	if desc.Body != "" {
		req.Body = []byte(desc.Body)
	}
	if len(desc.Headers) > 0 {
		req.Headers = make(http.Header, len(desc.Headers))
		for k, v := range desc.Headers {
			req.Headers.Set(k, v)
		}
	}

	resp, err := d.wc.Do(reqCtx, req)
	if err != nil {
		out.Err = classifyError(err)
		if d.logger != nil {
			d.logger.Debug("descriptor failed",
				logging.Field{Key: "url", Value: desc.URL},
				logging.Field{Key: "error", Value: out.Err})
		}
		return out
	}

	if d.cfg.FailOnHTTPError && (resp.StatusCode < 200 || resp.StatusCode > 299) {
		out.Err = fmt.Sprintf("http error: status %d", resp.StatusCode)
		return out
	}

	// Record the size, not the body, to bound memory per batch.
	out.Status = resp.StatusCode
	out.Bytes = int64(len(resp.Body))
	if d.cfg.AnnotateHTML {
		out.Title = htmlTitle(resp)
	}
	return out
}
