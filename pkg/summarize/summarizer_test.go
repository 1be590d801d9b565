package summarize

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"qed42.com/waid/pkg/errors"
)

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "waid-2024-01-15.log")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write log: %v", err)
	}
	return path
}

func TestSummarizeTooFewRecords(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty file", ""},
		{"single record", `{"timestamp":"2024-01-15 09:00:00","window_title":"editor"}` + "\n"},
		{"only garbage", "not json\nalso not json\n"},
		{"one valid among garbage", "junk\n" + `{"timestamp":"2024-01-15 09:00:00","window_title":"editor"}` + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(nil, "", false)
			summary, err := s.Summarize(context.Background(), writeLog(t, tt.content))
			if !errors.Is(err, ErrTooFewRecords) {
				t.Errorf("expected ErrTooFewRecords, got %v", err)
			}
			if summary != nil {
				t.Errorf("expected nil summary, got %+v", summary)
			}
		})
	}
}

func TestSummarizeDurationTooShort(t *testing.T) {
	content := `{"timestamp":"2024-01-15 09:00:00","window_title":"editor"}
{"timestamp":"2024-01-15 09:00:45","window_title":"browser"}
`
	s := New(nil, "", false)
	summary, err := s.Summarize(context.Background(), writeLog(t, content))
	if !errors.Is(err, ErrDurationTooShort) {
		t.Errorf("expected ErrDurationTooShort, got %v", err)
	}
	if summary != nil {
		t.Errorf("expected nil summary, got %+v", summary)
	}
}

func TestSummarizeNinetyMinuteSession(t *testing.T) {
	content := `{"timestamp":"2024-01-15 09:00:00","window_title":"editor"}
{"timestamp":"2024-01-15 09:40:00","window_title":"browser"}
{"timestamp":"2024-01-15 10:30:00","window_title":"editor"}
`
	s := New(nil, "", false)
	summary, err := s.Summarize(context.Background(), writeLog(t, content))
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	if summary.DurationMinutes != 90 {
		t.Errorf("DurationMinutes = %d, want 90", summary.DurationMinutes)
	}
	if summary.DurationSeconds() != 5400 {
		t.Errorf("DurationSeconds = %d, want 5400", summary.DurationSeconds())
	}
	if summary.GenAIEfficiency != 1.5 {
		t.Errorf("GenAIEfficiency = %v, want 1.5", summary.GenAIEfficiency)
	}
	if summary.Date != "2024-01-15" {
		t.Errorf("Date = %q, want 2024-01-15", summary.Date)
	}
	if summary.Summary != "Work Log Summary" {
		t.Errorf("Summary = %q", summary.Summary)
	}
	// Distinct titles in first-seen order; editor appears once.
	want := []string{"editor", "browser"}
	if len(summary.Tasks) != len(want) {
		t.Fatalf("Tasks = %v, want %v", summary.Tasks, want)
	}
	for i := range want {
		if summary.Tasks[i] != want[i] {
			t.Errorf("Tasks[%d] = %q, want %q", i, summary.Tasks[i], want[i])
		}
	}
}

func TestSummarizeSkipsMalformedLines(t *testing.T) {
	content := `2024-01-15 09:00:00 - {"timestamp":"2024-01-15 09:00:00","window_title":"editor"}
this line is noise
{"timestamp":"not a timestamp","window_title":"ghost"}
{"timestamp":"2024-01-15 10:00:00","window_title":"browser"}
`
	s := New(nil, "", false)
	summary, err := s.Summarize(context.Background(), writeLog(t, content))
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if summary.DurationMinutes != 60 {
		t.Errorf("DurationMinutes = %d, want 60", summary.DurationMinutes)
	}
	if len(summary.Tasks) != 2 {
		t.Errorf("Tasks = %v, want editor and browser only", summary.Tasks)
	}
}

// stubProvider returns a canned generation result.
type stubProvider struct {
	reply string
	err   error
	seen  string
}

func (s *stubProvider) Name() string      { return "stub" }
func (s *stubProvider) IsAvailable() bool { return true }
func (s *stubProvider) Generate(ctx context.Context, prompt string) (string, error) {
	s.seen = prompt
	return s.reply, s.err
}

func TestSummarizeWithProvider(t *testing.T) {
	content := `{"timestamp":"2024-01-15 09:00:00","window_title":"editor"}
{"timestamp":"2024-01-15 10:00:00","window_title":"browser"}
`
	provider := &stubProvider{reply: "Worked on the editor and browser."}
	s := New(provider, "Summarize the day.", false)

	summary, err := s.Summarize(context.Background(), writeLog(t, content))
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if summary.Description != "Worked on the editor and browser." {
		t.Errorf("Description = %q", summary.Description)
	}
	if !strings.HasPrefix(provider.seen, "Summarize the day.") {
		t.Errorf("prompt should start with the configured prefix, got %q", provider.seen)
	}
	if !strings.Contains(provider.seen, "editor") {
		t.Errorf("prompt should carry the raw log, got %q", provider.seen)
	}
}

func TestSummarizeProviderFailure(t *testing.T) {
	content := `{"timestamp":"2024-01-15 09:00:00","window_title":"editor"}
{"timestamp":"2024-01-15 10:00:00","window_title":"browser"}
`
	provider := &stubProvider{err: errors.New("rate limited")}
	s := New(provider, "p", false)

	if _, err := s.Summarize(context.Background(), writeLog(t, content)); err == nil {
		t.Fatal("expected generation failure to surface")
	}
}

func TestSummarizeTemplateFallback(t *testing.T) {
	content := `{"timestamp":"2024-01-15 09:00:00","window_title":"editor"}
{"timestamp":"2024-01-15 10:30:00","window_title":"browser"}
`
	s := New(nil, "", false)
	summary, err := s.Summarize(context.Background(), writeLog(t, content))
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	for _, want := range []string{"09:00:00", "10:30:00", "90 minutes", "- editor", "- browser"} {
		if !strings.Contains(summary.Description, want) {
			t.Errorf("template description missing %q:\n%s", want, summary.Description)
		}
	}
}
