package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewConsoleLine(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "debug", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	WithComponent(logger, "converter").Info("copied segment",
		String("book", "Genesis"),
		Int("ordinal", 3),
	)

	line := buf.String()
	for _, want := range []string{"INFO", "converter: copied segment", "book=Genesis", "ordinal=3"} {
		if !strings.Contains(line, want) {
			t.Errorf("console line %q missing %q", line, want)
		}
	}
	if strings.Contains(line, "component=") {
		t.Errorf("component attr should fold into the prefix, got %q", line)
	}
}

func TestNewConsoleQuotesValues(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Info("msg", String("title", "Song of Songs"))
	if !strings.Contains(buf.String(), `title="Song of Songs"`) {
		t.Errorf("values with spaces must be quoted, got %q", buf.String())
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Info("converted", String("book", "Exodus"))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("json output does not parse: %v", err)
	}
	if record["msg"] != "converted" || record["book"] != "Exodus" {
		t.Errorf("json record = %v", record)
	}
	if _, ok := record["ts"]; !ok {
		t.Errorf("json record missing ts key")
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Errorf("New() should reject unknown formats")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Info("hidden")
	logger.Warn("visible")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "visible") {
		t.Errorf("level filtering broken: %q", out)
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	// Must not panic and must stay silent.
	NewNop().Error("nothing", Error(nil))
	WithComponent(nil, "x").Info("still nothing")
}
