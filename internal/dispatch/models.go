package dispatch

import (
	"encoding/json"
	"fmt"
	"time"
)

// Methods the dispatcher will execute. Anything else is a descriptor-level
// error, never a batch failure.
const (
	MethodGet  = "GET"
	MethodPost = "POST"
)

// Descriptor is a fully specified single HTTP request to execute. It is
// immutable once constructed; the dispatcher never modifies it.
type Descriptor struct {
	Name    string
	Method  string
	URL     string
	Headers map[string]string
	Body    string
	Timeout time.Duration
}

// descriptorJSON is the wire form. Timeout travels as seconds on the HTTP API
// and in batch files.
type descriptorJSON struct {
	Name    string            `json:"name,omitempty"`
	Method  string            `json:"method,omitempty"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    string            `json:"body,omitempty"`
	Timeout float64           `json:"timeout,omitempty"`
}

func (d Descriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(descriptorJSON{
		Name:    d.Name,
		Method:  d.Method,
		URL:     d.URL,
		Headers: d.Headers,
		Body:    d.Body,
		Timeout: d.Timeout.Seconds(),
	})
}

func (d *Descriptor) UnmarshalJSON(data []byte) error {
	var w descriptorJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	d.Name = w.Name
	d.Method = w.Method
	d.URL = w.URL
	d.Headers = w.Headers
	d.Body = w.Body
	d.Timeout = time.Duration(w.Timeout * float64(time.Second))
	return nil
}

// Outcome is the terminal result of attempting one descriptor. Exactly one of
// (Status, Bytes) or Err is populated.
type Outcome struct {
	URL    string
	Status int
	Bytes  int64
	Title  string
	Err    string
}

// OK reports whether the descriptor completed with a response.
func (o Outcome) OK() bool { return o.Err == "" }

type outcomeJSON struct {
	URL    string `json:"url"`
	Status *int   `json:"status,omitempty"`
	Bytes  *int64 `json:"bytes,omitempty"`
	Title  string `json:"title,omitempty"`
	Error  string `json:"error,omitempty"`
}

func (o Outcome) MarshalJSON() ([]byte, error) {
	w := outcomeJSON{URL: o.URL, Title: o.Title}
	if o.Err != "" {
		w.Error = o.Err
	} else {
		status, size := o.Status, o.Bytes
		w.Status = &status
		w.Bytes = &size
	}
	return json.Marshal(w)
}

func (o *Outcome) UnmarshalJSON(data []byte) error {
	var w outcomeJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	o.URL = w.URL
	o.Title = w.Title
	o.Err = w.Error
	o.Status = 0
	o.Bytes = 0
	if w.Status != nil {
		o.Status = *w.Status
	}
	if w.Bytes != nil {
		o.Bytes = *w.Bytes
	}
	return nil
}

// ValidateAll checks that a batch is well formed before any dispatch begins.
// A malformed descriptor fails the whole call; nothing is attempted.
func ValidateAll(descs []Descriptor) error {
	if len(descs) == 0 {
		return fmt.Errorf("empty descriptor list")
	}
	for i, d := range descs {
		if d.URL == "" {
			return fmt.Errorf("descriptor %d: missing url", i)
		}
	}
	return nil
}
