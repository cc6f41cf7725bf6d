package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/user/framerec/pkg/ports"
)

func TestJSONLogger_WritesFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewJSONWriter(&buf, ports.LevelDebug).WithComponent("persist")
	l.Warn("Failed to persist frame %d: %v", 7, "disk full")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["level"] != "warn" {
		t.Errorf("level = %v", entry["level"])
	}
	if entry["component"] != "persist" {
		t.Errorf("component = %v", entry["component"])
	}
	if entry["message"] != "Failed to persist frame 7: disk full" {
		t.Errorf("message = %v", entry["message"])
	}
}

func TestJSONLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := NewJSONWriter(&buf, ports.LevelWarn)
	l.Debug("hidden")
	l.Info("hidden")
	l.Error("shown")

	out := strings.TrimSpace(buf.String())
	if strings.Count(out, "\n") != 0 || !strings.Contains(out, "shown") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestJSONLogger_Quiet(t *testing.T) {
	var buf bytes.Buffer
	l := NewJSONWriter(&buf, ports.LevelQuiet)
	l.Error("hidden")
	if buf.Len() != 0 {
		t.Errorf("quiet logger wrote %q", buf.String())
	}
}
