package activity

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"qed42.com/waid/pkg/errors"
)

const (
	runDirName  = "waid"
	pidFileName = "waid-watch.pid"
)

// PIDFilePath returns the absolute path to the watcher's PID file.
func PIDFilePath() string {
	return filepath.Join(runDir(), pidFileName)
}

// runDir returns the directory where watcher runtime artifacts are stored.
func runDir() string {
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, runDirName)
}

// WritePIDFile writes the current process ID to the PID file.
func WritePIDFile() error {
	dir := runDir()
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errors.Wrapf(err, "failed to create runtime directory %q", dir)
	}
	pid := os.Getpid()
	return os.WriteFile(PIDFilePath(), []byte(strconv.Itoa(pid)), 0o600)
}

// ReadPIDFile reads the process ID from the PID file.
func ReadPIDFile() (int, error) {
	data, err := os.ReadFile(PIDFilePath())
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

// RemovePIDFile removes the PID file.
func RemovePIDFile() error {
	return os.Remove(PIDFilePath())
}

// IsRunning checks if a watcher process is currently running by verifying
// the PID file and probing the process with signal 0.
func IsRunning() bool {
	pid, err := ReadPIDFile()
	if err != nil {
		return false
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}

// StopRunning signals the running watcher process with SIGTERM.
// Returns the stopped PID.
func StopRunning() (int, error) {
	pid, err := ReadPIDFile()
	if err != nil {
		return 0, errors.Wrap(err, "no watcher PID file found")
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return 0, errors.Wrapf(err, "watcher process %d not found", pid)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return 0, errors.Wrapf(err, "failed to signal watcher process %d", pid)
	}
	return pid, nil
}
