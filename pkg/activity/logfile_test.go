package activity

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestAppendRecord(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	ts := time.Date(2024, 1, 15, 9, 30, 0, 0, time.Local)

	if err := AppendRecord(dir, Record{Timestamp: ts, WindowTitle: "editor"}); err != nil {
		t.Fatalf("AppendRecord failed: %v", err)
	}
	if err := AppendRecord(dir, Record{Timestamp: ts.Add(time.Minute), WindowTitle: "browser"}); err != nil {
		t.Fatalf("AppendRecord failed: %v", err)
	}

	path := LogFilePath(dir, ts)
	if filepath.Base(path) != "waid-2024-01-15.log" {
		t.Errorf("unexpected log file name %q", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	var rec Record
	if err := json.Unmarshal([]byte(splitFirstLine(string(data))), &rec); err != nil {
		t.Fatalf("failed to parse first record: %v", err)
	}
	if rec.WindowTitle != "editor" {
		t.Errorf("first record title = %q, want editor", rec.WindowTitle)
	}
	if !rec.Timestamp.Equal(ts) {
		t.Errorf("first record timestamp = %v, want %v", rec.Timestamp, ts)
	}
}

func splitFirstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i]
		}
	}
	return s
}

func TestCleanupLogs(t *testing.T) {
	dir := t.TempDir()

	old := time.Now().AddDate(0, 0, -30)
	recent := time.Now().AddDate(0, 0, -1)
	for _, date := range []time.Time{old, recent} {
		if err := AppendRecord(dir, Record{Timestamp: date, WindowTitle: "x"}); err != nil {
			t.Fatalf("AppendRecord failed: %v", err)
		}
	}
	// A file outside the naming scheme must survive cleanup.
	stray := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(stray, []byte("keep me"), 0o600); err != nil {
		t.Fatalf("failed to write stray file: %v", err)
	}

	removed, err := CleanupLogs(dir, 14)
	if err != nil {
		t.Fatalf("CleanupLogs failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if _, err := os.Stat(LogFilePath(dir, old)); !os.IsNotExist(err) {
		t.Error("old log should be gone")
	}
	if _, err := os.Stat(LogFilePath(dir, recent)); err != nil {
		t.Error("recent log should survive")
	}
	if _, err := os.Stat(stray); err != nil {
		t.Error("stray file should survive")
	}
}

func TestCleanupLogsZeroDaysRemovesAll(t *testing.T) {
	dir := t.TempDir()
	for _, offset := range []int{0, -5, -40} {
		date := time.Now().AddDate(0, 0, offset)
		if err := AppendRecord(dir, Record{Timestamp: date, WindowTitle: "x"}); err != nil {
			t.Fatalf("AppendRecord failed: %v", err)
		}
	}

	removed, err := CleanupLogs(dir, 0)
	if err != nil {
		t.Fatalf("CleanupLogs failed: %v", err)
	}
	if removed != 3 {
		t.Errorf("removed = %d, want 3", removed)
	}
}

func TestCleanupLogsMissingDir(t *testing.T) {
	removed, err := CleanupLogs(filepath.Join(t.TempDir(), "absent"), 7)
	if err != nil {
		t.Fatalf("CleanupLogs on missing dir should succeed, got %v", err)
	}
	if removed != 0 {
		t.Errorf("removed = %d, want 0", removed)
	}
}
