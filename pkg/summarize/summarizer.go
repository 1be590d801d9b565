package summarize

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"regexp"
	"strings"

	"qed42.com/waid/pkg/activity"
	"qed42.com/waid/pkg/ai"
	"qed42.com/waid/pkg/errors"
)

// Sentinel diagnostics for sessions that are not billable. Callers treat
// both as "nothing to file", not as failures.
var (
	// ErrTooFewRecords means the log held fewer than two valid records, so
	// no interval can be derived.
	ErrTooFewRecords = errors.New("log has fewer than two valid activity records")

	// ErrDurationTooShort means the derived session was under one minute
	// and is treated as noise.
	ErrDurationTooShort = errors.New("session duration under one minute")
)

// jsonObjectRE extracts the JSON-object substring of a log line. Lines may
// carry a plain JSON object or a "timestamp - {json}" prefix from older
// logger generations; anything that doesn't contain an object is skipped.
var jsonObjectRE = regexp.MustCompile(`\{.*\}`)

// Summarizer derives WorkSummary values from activity log files and renders
// them with an optional text-generation provider.
type Summarizer struct {
	provider ai.Provider
	prompt   string
	verbose  bool
}

// New creates a summarizer. provider may be nil, in which case rendering
// always uses the literal template path.
func New(provider ai.Provider, prompt string, verbose bool) *Summarizer {
	return &Summarizer{provider: provider, prompt: prompt, verbose: verbose}
}

// Summarize reads the log file at path and derives a WorkSummary.
//
// Lines that fail to parse are discarded. At least two valid records are
// required (first = session start, last = session end); sessions shorter
// than one minute are rejected as noise. Both conditions surface as sentinel
// errors with a nil summary.
func (s *Summarizer) Summarize(ctx context.Context, path string) (*WorkSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read log file %q", path)
	}

	records := extractRecords(string(data))
	if len(records) < 2 {
		return nil, ErrTooFewRecords
	}

	first := records[0]
	last := records[len(records)-1]

	minutes := int(last.Timestamp.Sub(first.Timestamp).Minutes())
	if minutes < 1 {
		return nil, ErrDurationTooShort
	}

	summary := &WorkSummary{
		Summary:         "Work Log Summary",
		DurationMinutes: minutes,
		StartTime:       first.Timestamp,
		EndTime:         last.Timestamp,
		Date:            first.Timestamp.Format("2006-01-02"),
		GenAIEfficiency: math.Round(float64(minutes)/60*100) / 100,
		Tasks:           distinctTitles(records),
	}

	description, err := s.render(ctx, summary, string(data))
	if err != nil {
		return nil, err
	}
	summary.Description = description

	return summary, nil
}

// render produces the summary description, delegating to the AI provider
// when one is configured and falling back to literal templating otherwise.
func (s *Summarizer) render(ctx context.Context, summary *WorkSummary, rawLog string) (string, error) {
	if s.provider == nil || !s.provider.IsAvailable() {
		return summary.renderTemplate(), nil
	}

	prompt := s.buildPrompt(summary, rawLog)
	text, err := s.provider.Generate(ctx, prompt)
	if err != nil {
		return "", errors.Wrap(err, "summary generation failed")
	}
	return text, nil
}

// buildPrompt embeds the raw log content and derived session facts into the
// configured prompt.
func (s *Summarizer) buildPrompt(summary *WorkSummary, rawLog string) string {
	var sb strings.Builder
	sb.WriteString(s.prompt)
	sb.WriteString(fmt.Sprintf("\n\nSession: %s, %d minutes (%s to %s).\n",
		summary.Date, summary.DurationMinutes,
		summary.StartTime.Format("15:04:05"), summary.EndTime.Format("15:04:05")))
	sb.WriteString("Distinct windows:\n")
	for _, task := range summary.Tasks {
		sb.WriteString("- " + task + "\n")
	}
	sb.WriteString("\nRaw activity log:\n\n")
	sb.WriteString(rawLog)
	return sb.String()
}

// extractRecords pulls every parseable activity record out of the log
// content, one JSON object per line, skipping lines that fail to parse.
func extractRecords(content string) []activity.Record {
	var records []activity.Record
	for _, line := range strings.Split(content, "\n") {
		match := jsonObjectRE.FindString(line)
		if match == "" {
			continue
		}
		var rec activity.Record
		if err := json.Unmarshal([]byte(match), &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	return records
}

// distinctTitles returns the unique window titles across the records in
// first-seen order.
func distinctTitles(records []activity.Record) []string {
	seen := make(map[string]bool, len(records))
	var titles []string
	for _, rec := range records {
		if rec.WindowTitle == "" || seen[rec.WindowTitle] {
			continue
		}
		seen[rec.WindowTitle] = true
		titles = append(titles, rec.WindowTitle)
	}
	return titles
}
