package logging

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitAndLoggingToFile(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "nested", "perfcompare.log")

	if err := Init(logPath); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	t.Cleanup(func() {
		_ = Close()
	})

	LogEvent("hello %s", "world")
	LogFileEvent("load", "a/b.csv", 3)
	_ = Close()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "hello world") {
		t.Fatalf("expected LogEvent content, got: %s", content)
	}
	if !strings.Contains(content, "[LOAD] path=a/b.csv rows=3") {
		t.Fatalf("expected LogFileEvent content, got: %s", content)
	}
}

func TestBuildFileMessageDefaults(t *testing.T) {
	msg := buildFileMessage(" ", " ", -1)
	if msg != "[FILE] path=unknown" {
		t.Fatalf("unexpected message: %s", msg)
	}
	msg = buildFileMessage("write", "out.csv", 0)
	if msg != "[WRITE] path=out.csv rows=0" {
		t.Fatalf("unexpected message: %s", msg)
	}
}

func TestDebugfRespectsToggle(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		SetDebug(false)
	})

	Debugf("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected no debug output, got: %s", buf.String())
	}
	SetDebug(true)
	Debugf("shown %d", 1)
	if !strings.Contains(buf.String(), "[DEBUG] shown 1") {
		t.Fatalf("expected debug output, got: %s", buf.String())
	}
}
