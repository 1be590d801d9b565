// Package summarize derives a billable work summary from a day's activity
// log and renders it as Jira-ready ticket text, either through literal
// templating or a text-generation provider.
package summarize

import (
	"fmt"
	"strings"
	"time"
)

// WorkSummary is the derived aggregate of one logging session. It is never
// persisted; it is consumed once by the worklog submission path and
// discarded.
type WorkSummary struct {
	Summary         string
	Description     string
	DurationMinutes int
	StartTime       time.Time
	EndTime         time.Time
	Date            string  // YYYY-MM-DD
	GenAIEfficiency float64 // duration_minutes / 60, rounded to two decimals
	Tasks           []string
}

// DurationSeconds returns the session length in seconds for worklog filing.
func (s *WorkSummary) DurationSeconds() int {
	return s.DurationMinutes * 60
}

// renderTemplate produces the legacy string-templated description when no AI
// provider is in play.
func (s *WorkSummary) renderTemplate() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Worked from %s to %s (%d minutes).\n\n",
		s.StartTime.Format("15:04:05"), s.EndTime.Format("15:04:05"), s.DurationMinutes))
	sb.WriteString("Windows touched:\n")
	for _, task := range s.Tasks {
		sb.WriteString("- " + task + "\n")
	}
	return sb.String()
}
