package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"

	"github.com/kamalkashyapp/fanout/internal/logging"
)

func TestZerologLogger_EmitsFields(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	zl := zerolog.New(&buf)
	logger := logging.NewZerologLogger(zl)

	logger.Info("batch complete",
		logging.Field{Key: "requested", Value: 3},
		logging.Field{Key: "mode", Value: "mock"})

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal log line: %v (%s)", err, buf.String())
	}
	if entry["message"] != "batch complete" {
		t.Errorf("message: %v", entry["message"])
	}
	if entry["level"] != "info" {
		t.Errorf("level: %v", entry["level"])
	}
	if entry["requested"] != float64(3) {
		t.Errorf("requested field: %v", entry["requested"])
	}
	if entry["mode"] != "mock" {
		t.Errorf("mode field: %v", entry["mode"])
	}
}

func TestZerologLogger_WithAddsPersistentFields(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	zl := zerolog.New(&buf)
	logger := logging.NewZerologLogger(zl).With(logging.Field{Key: "component", Value: "dispatch"})

	logger.Warn("descriptor failed")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if entry["component"] != "dispatch" {
		t.Errorf("component field: %v", entry["component"])
	}
	if entry["level"] != "warn" {
		t.Errorf("level: %v", entry["level"])
	}
}
