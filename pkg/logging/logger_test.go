package logging

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func newTestFileLogger(t *testing.T, format Format, level Level) (*LogrusLogger, string) {
	t.Helper()
	logPath := filepath.Join(t.TempDir(), "test.log")
	logger, err := NewFileLogger(FileLoggerConfig{
		Path:   logPath,
		Format: format,
		Level:  level,
	})
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	return logger, logPath
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	return string(content)
}

func TestNewFileLogger_CreatesDirectory(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "nested", "dir", "test.log")
	logger, err := NewFileLogger(FileLoggerConfig{Path: logPath, Format: FormatText, Level: InfoLevel})
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	defer logger.Close()

	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		t.Error("Log file was not created")
	}
}

func TestFileLogger_LogLevels(t *testing.T) {
	logger, logPath := newTestFileLogger(t, FormatText, InfoLevel)
	ctx := context.Background()

	logger.Debug(ctx, "debug message", nil)
	logger.Info(ctx, "info message", nil)
	logger.Warn(ctx, "warn message", nil)
	logger.Error(ctx, "error message", nil, nil)
	logger.Close()

	logContent := readLog(t, logPath)
	if strings.Contains(logContent, "debug message") {
		t.Error("Debug message should be filtered at INFO level")
	}
	for _, want := range []string{"info message", "warn message", "error message"} {
		if !strings.Contains(logContent, want) {
			t.Errorf("%q should be present", want)
		}
	}
}

func TestFileLogger_JSONFormat(t *testing.T) {
	logger, logPath := newTestFileLogger(t, FormatJSON, DebugLevel)
	ctx := context.Background()

	logger.Error(ctx, "unreadable file", errors.New("permission denied"), Fields{"path": "/a/b"})
	logger.Close()

	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(readLog(t, logPath))), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}

	if entry["message"] != "unreadable file" {
		t.Errorf("message = %v", entry["message"])
	}
	if entry["level"] != "error" {
		t.Errorf("level = %v", entry["level"])
	}
	if entry["error"] != "permission denied" {
		t.Errorf("error = %v", entry["error"])
	}
	if entry["path"] != "/a/b" {
		t.Errorf("path = %v", entry["path"])
	}
	if _, ok := entry["time"]; !ok {
		t.Error("timestamp missing")
	}
}

func TestFileLogger_WithFields(t *testing.T) {
	logger, logPath := newTestFileLogger(t, FormatText, InfoLevel)
	ctx := context.Background()

	session := logger.WithFields(Fields{"session": "abc"})
	session.Info(ctx, "walk started", Fields{"left": "/l"})
	logger.Info(ctx, "plain", nil)
	logger.Close()

	lines := strings.Split(strings.TrimSpace(readLog(t, logPath)), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "session=abc") || !strings.Contains(lines[0], "left=/l") {
		t.Errorf("first line missing fields: %s", lines[0])
	}
	if strings.Contains(lines[1], "session=") {
		t.Errorf("parent logger should not inherit child fields: %s", lines[1])
	}
}

func TestFileLogger_Rotation(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "rotate.log")
	logger, err := NewFileLogger(FileLoggerConfig{
		Path:       logPath,
		Format:     FormatText,
		Level:      InfoLevel,
		MaxSize:    200,
		MaxBackups: 2,
	})
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}

	ctx := context.Background()
	for i := 0; i < 50; i++ {
		logger.Info(ctx, fmt.Sprintf("message number %d with some padding", i), nil)
	}
	logger.Close()

	if _, err := os.Stat(logPath + ".1"); err != nil {
		t.Errorf("expected first backup: %v", err)
	}
	if _, err := os.Stat(logPath + ".2"); err != nil {
		t.Errorf("expected second backup: %v", err)
	}
	if _, err := os.Stat(logPath + ".3"); !os.IsNotExist(err) {
		t.Error("backups beyond MaxBackups should be removed")
	}
}

func TestFileLogger_ConcurrentWrites(t *testing.T) {
	logger, logPath := newTestFileLogger(t, FormatJSON, InfoLevel)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				logger.Info(ctx, "hashing", Fields{"worker": n, "file": j})
			}
		}(i)
	}
	wg.Wait()
	logger.Close()

	f, err := os.Open(logPath)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry map[string]interface{}
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			t.Fatalf("corrupt line %q: %v", scanner.Text(), err)
		}
		count++
	}
	if count != 200 {
		t.Errorf("got %d lines, want 200", count)
	}
}

func TestConsoleLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLogger(&buf, FormatText, WarnLevel)
	ctx := context.Background()

	logger.Info(ctx, "quiet", nil)
	logger.Warn(ctx, "skipping unreadable file", Fields{"path": "/x"})

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Error("info should be filtered at WARN level")
	}
	if !strings.Contains(out, "skipping unreadable file") || !strings.Contains(out, "path=/x") {
		t.Errorf("unexpected console output: %q", out)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
}

func TestNullLogger(t *testing.T) {
	logger := NewNullLogger()
	ctx := context.Background()

	logger.Debug(ctx, "debug", nil)
	logger.Info(ctx, "info", nil)
	logger.Warn(ctx, "warn", nil)
	logger.Error(ctx, "error", errors.New("boom"), nil)

	if logger.WithFields(Fields{"k": "v"}) != Logger(logger) {
		t.Error("WithFields should return the same null logger")
	}
	if err := logger.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
	if OrNull(nil) == nil {
		t.Error("OrNull(nil) should return a logger")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", DebugLevel},
		{"DEBUG", DebugLevel},
		{"info", InfoLevel},
		{"warn", WarnLevel},
		{"WARNING", WarnLevel},
		{"error", ErrorLevel},
		{"bogus", InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLevelString(t *testing.T) {
	if LevelString(WarnLevel) != "WARN" {
		t.Errorf("LevelString(WarnLevel) = %s", LevelString(WarnLevel))
	}
	if LevelString(Level(42)) != "UNKNOWN" {
		t.Errorf("LevelString(42) = %s", LevelString(Level(42)))
	}
}
