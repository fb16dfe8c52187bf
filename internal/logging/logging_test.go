package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestSetupLevelAndComponent(t *testing.T) {
	var buf bytes.Buffer
	if _, err := Setup(Options{Level: "warn", Output: &buf}); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	For("manager").Info("hidden")
	For("manager").Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line should be filtered at warn, got %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "component=manager") {
		t.Errorf("expected warn line with component, got %q", out)
	}
}

func TestSetupJSON(t *testing.T) {
	var buf bytes.Buffer
	if _, err := Setup(Options{Format: "json", Output: &buf}); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	For("player").WithField("entering", 3).Info("plan")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected one JSON line, got %q: %v", buf.String(), err)
	}
	if line["component"] != "player" || line["msg"] != "plan" {
		t.Errorf("unexpected fields %v", line)
	}
}

func TestSetupRejectsBadOptions(t *testing.T) {
	if _, err := Setup(Options{Level: "loud"}); err == nil {
		t.Error("expected an error for an unknown level")
	}
	if _, err := Setup(Options{Format: "xml"}); err == nil {
		t.Error("expected an error for an unknown format")
	}
}

func TestDiscardByDefault(t *testing.T) {
	l, err := Setup(Options{})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if l.GetLevel() != logrus.InfoLevel {
		t.Errorf("default level: expected info, got %v", l.GetLevel())
	}
	// Must not panic or write anywhere.
	For("ui").Info("nothing")
}

func TestLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clustermap.log")
	if _, err := Setup(Options{File: path}); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	For("cmd").Info("to file")
	if err := Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "to file") {
		t.Errorf("log file: expected line, got %q", data)
	}
}
