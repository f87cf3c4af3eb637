package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
)

func reset() {
	SetVerbose(false)
	SetOutput(os.Stderr)
	_ = SetFormat(FormatConsole)
}

func TestSetVerbose(t *testing.T) {
	defer reset()

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false initially")
	}

	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected verbose to be true after SetVerbose(true)")
	}

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false after SetVerbose(false)")
	}
}

func TestDebug_WhenVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Debug("test message %s", "arg")

	if !strings.Contains(buf.String(), "test message arg") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestDebug_WhenNotVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Debug("test message")

	if buf.Len() > 0 {
		t.Error("expected no output when verbose is disabled")
	}
}

func TestSection(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Section("Batch")

	if !strings.Contains(buf.String(), "=== Batch ===") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestInfo_AlwaysWritten(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Info("processed %d records", 3)
	Warn("skipping %s", "row")

	out := buf.String()
	if !strings.Contains(out, "processed 3 records") {
		t.Errorf("missing info line: %q", out)
	}
	if !strings.Contains(out, "skipping row") {
		t.Errorf("missing warn line: %q", out)
	}
}

func TestTable_JSONFields(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	if err := SetFormat(FormatJSON); err != nil {
		t.Fatalf("SetFormat: %v", err)
	}

	Table("cities").Error("page %d failed", 2)

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if line["table"] != "cities" {
		t.Errorf("table field = %v", line["table"])
	}
	if line["level"] != "error" {
		t.Errorf("level field = %v", line["level"])
	}
	if line["message"] != "page 2 failed" {
		t.Errorf("message field = %v", line["message"])
	}
}

func TestSetFormat_Invalid(t *testing.T) {
	defer reset()

	if err := SetFormat("xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}
