// Package activity captures window focus changes into dated, append-only
// JSONL log files.
//
// Detection is event-driven: a pointer-click event triggers a query of the
// focused window title, and a record is appended only when the title changed
// since the previous click. Window switches that happen without an
// intervening click are not observed. This is an accepted approximation of
// the capture model, not a bug.
package activity

import (
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
)

// TimestampLayout is the wire format for record timestamps (local time).
const TimestampLayout = "2006-01-02 15:04:05"

// Record is one observed window change. Records are immutable once written.
type Record struct {
	Timestamp   time.Time
	WindowTitle string
}

// recordJSON is the serialized line form of a Record.
type recordJSON struct {
	Timestamp   string `json:"timestamp"`
	WindowTitle string `json:"window_title"`
}

// MarshalJSON serializes the record with the fixed timestamp layout.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(recordJSON{
		Timestamp:   r.Timestamp.Format(TimestampLayout),
		WindowTitle: r.WindowTitle,
	})
}

// UnmarshalJSON parses the serialized line form.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw recordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Timestamp == "" {
		return errors.New("record has no timestamp")
	}
	ts, err := time.ParseInLocation(TimestampLayout, raw.Timestamp, time.Local)
	if err != nil {
		return errors.Wrap(err, "failed to parse record timestamp")
	}
	r.Timestamp = ts
	r.WindowTitle = raw.WindowTitle
	return nil
}
