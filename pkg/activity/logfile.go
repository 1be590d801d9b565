package activity

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
)

// logFilePrefix and logFileExt bound the dated log file naming scheme:
// waid-YYYY-MM-DD.log, one file per calendar day.
const (
	logFilePrefix = "waid-"
	logFileExt    = ".log"
	dateLayout    = "2006-01-02"
)

// LogFilePath returns the log file path for the given date inside dir.
func LogFilePath(dir string, date time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("%s%s%s", logFilePrefix, date.Format(dateLayout), logFileExt))
}

// AppendRecord appends one serialized record to the dated log file for the
// record's own timestamp, creating the directory and file as needed. The
// format is line-oriented so concurrent readers always see a consistent
// prefix of complete lines.
func AppendRecord(dir string, rec Record) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errors.Wrapf(err, "failed to create log directory %q", dir)
	}

	line, err := rec.MarshalJSON()
	if err != nil {
		return errors.Wrap(err, "failed to serialize activity record")
	}

	path := LogFilePath(dir, rec.Timestamp)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return errors.Wrapf(err, "failed to open log file %q", path)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return errors.Wrapf(err, "failed to append to log file %q", path)
	}
	return nil
}

// CleanupLogs deletes activity log files in dir older than the given number
// of days. days == 0 deletes all log files. Files that don't follow the
// dated naming scheme are left alone. Returns the number of files removed.
func CleanupLogs(dir string, days int) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, errors.Wrapf(err, "failed to read log directory %q", dir)
	}

	var cutoff time.Time
	if days > 0 {
		cutoff = time.Now().AddDate(0, 0, -days)
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if len(name) <= len(logFilePrefix)+len(logFileExt) ||
			name[:len(logFilePrefix)] != logFilePrefix ||
			filepath.Ext(name) != logFileExt {
			continue
		}

		dateStr := name[len(logFilePrefix) : len(name)-len(logFileExt)]
		fileDate, err := time.ParseInLocation(dateLayout, dateStr, time.Local)
		if err != nil {
			continue
		}

		if days == 0 || fileDate.Before(cutoff) {
			if err := os.Remove(filepath.Join(dir, name)); err != nil {
				return removed, errors.Wrapf(err, "failed to remove log file %q", name)
			}
			removed++
		}
	}
	return removed, nil
}
