// Package batchfile loads descriptor batches from JSON definition files.
package batchfile

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kamalkashyapp/fanout/internal/dispatch"
)

// file is the on-disk schema: {"requests": [{method, url, headers, body, timeout}]}.
type file struct {
	Requests []dispatch.Descriptor `json:"requests"`
}

// Load reads a batch definition file. A file that cannot be parsed or defines
// no requests fails the whole call; nothing is dispatched from a bad file.
func Load(path string) ([]dispatch.Descriptor, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch file: %w", err)
	}

	var f file
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse batch file %s: %w", path, err)
	}
	if len(f.Requests) == 0 {
		return nil, fmt.Errorf("batch file %s defines no requests", path)
	}
	return f.Requests, nil
}
