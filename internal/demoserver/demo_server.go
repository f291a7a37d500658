package demoserver

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// DemoServer is a small local HTTP target for exercising the dispatcher. It
// serves predictable status codes, an echo endpoint and a deliberately slow
// endpoint for timeout demonstrations.
type DemoServer struct {
	cfg Config

	mu        sync.RWMutex
	slowDelay time.Duration
}

// NewDemoServer creates a new demo server instance.
func NewDemoServer(cfg Config) *DemoServer {
	if cfg.SlowDelay <= 0 {
		cfg.SlowDelay = DefaultConfig().SlowDelay
	}
	return &DemoServer{
		cfg:       cfg,
		slowDelay: cfg.SlowDelay,
	}
}

// Handler returns the demo server's route table, usable directly in tests.
func (s *DemoServer) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/ok", s.okHandler)
	mux.HandleFunc("/created", s.createdHandler)
	mux.HandleFunc("/status/", s.statusHandler)
	mux.HandleFunc("/slow", s.slowHandler)
	mux.HandleFunc("/echo", s.echoHandler)

	// Control endpoint for adjusting the slow delay at runtime
	mux.HandleFunc("/demo/set-delay", s.setDelayHandler)

	return mux
}

// Start starts the demo server.
func (s *DemoServer) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	fmt.Printf("Demo server starting on http://localhost%s\n", addr)
	fmt.Printf("Endpoints: /ok /created /status/{code} /slow /echo\n")
	return http.ListenAndServe(addr, s.Handler())
}

func (s *DemoServer) okHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	_, _ = w.Write([]byte("<html><head><title>demo ok</title></head><body>ok</body></html>"))
}

func (s *DemoServer) createdHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write([]byte("created"))
}

// statusHandler responds with whatever status code the path names, e.g.
// /status/204 or /status/503.
func (s *DemoServer) statusHandler(w http.ResponseWriter, r *http.Request) {
	codeStr := strings.TrimPrefix(r.URL.Path, "/status/")
	code, err := strconv.Atoi(codeStr)
	if err != nil || code < 100 || code > 599 {
		http.Error(w, "invalid status code", http.StatusBadRequest)
		return
	}
	w.WriteHeader(code)
	if code >= 200 && code != http.StatusNoContent && code != http.StatusNotModified {
		fmt.Fprintf(w, "status %d", code)
	}
}

// slowHandler sleeps before responding. The delay comes from the ?d= query
// parameter when present, otherwise the configured default.
func (s *DemoServer) slowHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	delay := s.slowDelay
	s.mu.RUnlock()

	if ds := r.URL.Query().Get("d"); ds != "" {
		if d, err := time.ParseDuration(ds); err == nil && d > 0 {
			delay = d
		}
	}

	select {
	case <-time.After(delay):
	case <-r.Context().Done():
		return
	}
	_, _ = w.Write([]byte("slow response"))
}

// echoHandler accepts a POST body and reports how many bytes it received.
func (s *DemoServer) echoHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "reading body", http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]int{"received": len(body)})
}

func (s *DemoServer) setDelayHandler(w http.ResponseWriter, r *http.Request) {
	ds := r.URL.Query().Get("d")
	d, err := time.ParseDuration(ds)
	if err != nil || d <= 0 {
		http.Error(w, "invalid duration", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.slowDelay = d
	s.mu.Unlock()
	fmt.Fprintf(w, "slow delay set to %s", d)
}
