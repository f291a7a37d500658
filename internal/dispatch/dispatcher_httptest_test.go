package dispatch_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kamalkashyapp/fanout/internal/dispatch"
	"github.com/kamalkashyapp/fanout/internal/testutil"
	"github.com/kamalkashyapp/fanout/internal/webclient"
)

// ─── Real HTTP round-trips via httptest ─────────────────────────────────

func TestDispatch_RealServer_MixedOutcomes(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			_, _ = io.WriteString(w, "hello")
		case "/slow":
			select {
			case <-time.After(2 * time.Second):
			case <-r.Context().Done():
			}
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	wc, err := webclient.NewNetHTTPClient(webclient.Config{}, &testutil.DummyLogger{}, ts.Client())
	if err != nil {
		t.Fatalf("NewNetHTTPClient: %v", err)
	}
	defer wc.Close()

	d, err := dispatch.New(dispatch.Config{MaxConcurrency: 4}, wc, &testutil.DummyLogger{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	batch := []dispatch.Descriptor{
		{Method: "GET", URL: ts.URL + "/ok"},
		{Method: "GET", URL: ts.URL + "/slow"},
	}
	outcomes, err := d.Dispatch(context.Background(), batch, 300*time.Millisecond)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	if !outcomes[0].OK() {
		t.Errorf("ok outcome: %+v", outcomes[0])
	}
	if outcomes[0].Status != 200 || outcomes[0].Bytes != int64(len("hello")) {
		t.Errorf("expected 200/5, got %d/%d", outcomes[0].Status, outcomes[0].Bytes)
	}
	if outcomes[1].OK() || !strings.HasPrefix(outcomes[1].Err, "timeout: ") {
		t.Errorf("expected timeout outcome for slow url, got %+v", outcomes[1])
	}
}

func TestDispatch_RealServer_UnreachableHost(t *testing.T) {
	t.Parallel()
	wc, err := webclient.NewNetHTTPClient(webclient.Config{Timeout: time.Second}, &testutil.DummyLogger{}, nil)
	if err != nil {
		t.Fatalf("NewNetHTTPClient: %v", err)
	}
	defer wc.Close()

	d, err := dispatch.New(dispatch.Config{}, wc, &testutil.DummyLogger{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// Nothing listens on loopback port 1
	outcomes, err := d.Dispatch(context.Background(), []dispatch.Descriptor{
		{Method: "GET", URL: "http://127.0.0.1:1", Timeout: 500 * time.Millisecond},
	}, 2*time.Second)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if outcomes[0].OK() {
		t.Fatalf("expected error outcome, got %+v", outcomes[0])
	}
}

func TestDispatch_RealServer_PostBody(t *testing.T) {
	t.Parallel()
	var received string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		received = string(b)
		w.WriteHeader(http.StatusCreated)
	}))
	defer ts.Close()

	wc, err := webclient.NewNetHTTPClient(webclient.Config{}, &testutil.DummyLogger{}, ts.Client())
	if err != nil {
		t.Fatalf("NewNetHTTPClient: %v", err)
	}
	defer wc.Close()

	d, err := dispatch.New(dispatch.Config{}, wc, &testutil.DummyLogger{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	outcomes, err := d.Dispatch(context.Background(), []dispatch.Descriptor{
		{Method: "POST", URL: ts.URL + "/submit", Body: "subject=demo", Headers: map[string]string{"Content-Type": "application/x-www-form-urlencoded"}},
	}, time.Second)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	if received != "subject=demo" {
		t.Errorf("server received %q", received)
	}
	if outcomes[0].Status != 201 {
		t.Errorf("expected 201, got %+v", outcomes[0])
	}
}
