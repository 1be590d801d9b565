package activity

import (
	"testing"
	"time"
)

func TestRecordWireFormat(t *testing.T) {
	ts := time.Date(2024, 1, 15, 9, 30, 5, 0, time.Local)
	rec := Record{Timestamp: ts, WindowTitle: "editor - main.go"}

	data, err := rec.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON failed: %v", err)
	}
	want := `{"timestamp":"2024-01-15 09:30:05","window_title":"editor - main.go"}`
	if string(data) != want {
		t.Errorf("wire form = %s, want %s", data, want)
	}

	var back Record
	if err := back.UnmarshalJSON(data); err != nil {
		t.Fatalf("UnmarshalJSON failed: %v", err)
	}
	if !back.Timestamp.Equal(ts) || back.WindowTitle != rec.WindowTitle {
		t.Errorf("round trip mismatch: %+v", back)
	}
}

func TestRecordUnmarshalRejectsMissingTimestamp(t *testing.T) {
	var rec Record
	if err := rec.UnmarshalJSON([]byte(`{"window_title":"x"}`)); err == nil {
		t.Error("expected error for record without timestamp")
	}
	if err := rec.UnmarshalJSON([]byte(`{"timestamp":"yesterday","window_title":"x"}`)); err == nil {
		t.Error("expected error for unparseable timestamp")
	}
}
