package activity

import (
	"os"
	"testing"
)

func TestPIDFileLifecycle(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())

	if IsRunning() {
		t.Fatal("no PID file yet, IsRunning should be false")
	}

	if err := WritePIDFile(); err != nil {
		t.Fatalf("WritePIDFile failed: %v", err)
	}

	pid, err := ReadPIDFile()
	if err != nil {
		t.Fatalf("ReadPIDFile failed: %v", err)
	}
	if pid != os.Getpid() {
		t.Errorf("pid = %d, want %d", pid, os.Getpid())
	}

	// The test process itself is alive, so the probe succeeds.
	if !IsRunning() {
		t.Error("IsRunning should be true while the PID file names a live process")
	}

	if err := RemovePIDFile(); err != nil {
		t.Fatalf("RemovePIDFile failed: %v", err)
	}
	if IsRunning() {
		t.Error("IsRunning should be false after the PID file is removed")
	}
}

func TestIsRunningStalePID(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())

	if err := os.MkdirAll(runDir(), 0o700); err != nil {
		t.Fatalf("failed to create runtime dir: %v", err)
	}
	// 999999 is above the default pid_max, so no such process exists.
	if err := os.WriteFile(PIDFilePath(), []byte("999999"), 0o600); err != nil {
		t.Fatalf("failed to write pid file: %v", err)
	}
	if IsRunning() {
		t.Error("IsRunning should be false for a dead PID")
	}
}
