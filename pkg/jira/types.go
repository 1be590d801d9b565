// Package jira wraps the Jira Cloud REST API v3 and the Tempo worklog API,
// and parses the user-authored structured worklog format.
package jira

import "time"

// Ticket is a Jira issue summary row from a search.
type Ticket struct {
	ID      string // Numeric issue id (needed by Tempo)
	Key     string // e.g. "AT-123"
	Summary string
	Status  string
}

// User is the authenticated Jira user.
type User struct {
	AccountID   string
	DisplayName string
	Email       string
}

// StructuredEntry is a fully validated worklog record parsed from the
// field-labeled text format. All seven required fields are guaranteed
// present; a missing field fails the whole parse.
type StructuredEntry struct {
	Title                   string
	Description             string
	Date                    time.Time // Parsed from DD/Mon/YY
	StartDate               string    // YYYY-MM-DD, derived from Date
	StartTime               string    // HH:MM:SS as authored
	DurationSeconds         int       // Decimal hours * 3600, truncated
	GenAIEfficiency         float64
	GenAIUseCaseDescription string
	Summary                 string // Optional; defaults to "Work Log Summary"
}

// WorklogRequest carries one Tempo worklog submission.
type WorklogRequest struct {
	IssueID          string
	IssueKey         string
	TimeSpentSeconds int
	StartDate        string // YYYY-MM-DD
	StartTime        string // HH:MM:SS
	Description      string
	AuthorAccountID  string
	GenAIEfficiency  float64
	GenAIUseCaseDesc string
}
