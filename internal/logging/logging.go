// Package logging routes the standard logger to stderr and an optional log file.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	mu      sync.Mutex
	logFile *os.File
	debug   bool
)

// Init points the standard logger at stderr plus, when logPath is not empty,
// an append-mode log file. Stdout stays reserved for report output.
func Init(logPath string) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}

	var writers []io.Writer
	writers = append(writers, os.Stderr)

	if logPath != "" {
		if dir := filepath.Dir(logPath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		logFile = file
		writers = append(writers, logFile)
	}

	log.SetOutput(io.MultiWriter(writers...))
	return nil
}

// Close releases the log file, if any, and restores stderr output.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return nil
	}
	log.SetOutput(os.Stderr)
	err := logFile.Close()
	logFile = nil
	return err
}

// SetDebug toggles Debugf output.
func SetDebug(enabled bool) {
	mu.Lock()
	debug = enabled
	mu.Unlock()
}

func debugEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return debug
}

func LogEvent(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Println(msg)
}

// Debugf logs only when debug output is enabled.
func Debugf(format string, args ...any) {
	if !debugEnabled() {
		return
	}
	log.Println("[DEBUG] " + fmt.Sprintf(format, args...))
}

// LogFileEvent records one step of file processing, e.g. a load or a write.
func LogFileEvent(phase, path string, rows int) {
	log.Println(buildFileMessage(phase, path, rows))
}

func buildFileMessage(phase, path string, rows int) string {
	p := strings.ToUpper(strings.TrimSpace(phase))
	if p == "" {
		p = "FILE"
	}
	pathValue := strings.TrimSpace(path)
	if pathValue == "" {
		pathValue = "unknown"
	}
	parts := []string{fmt.Sprintf("[%s]", p), fmt.Sprintf("path=%s", pathValue)}
	if rows >= 0 {
		parts = append(parts, fmt.Sprintf("rows=%d", rows))
	}
	return strings.Join(parts, " ")
}
