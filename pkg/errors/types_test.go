package errors

import (
	"testing"

	"github.com/cockroachdb/errors"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("boom"), false},
		{"ai 429", NewAIErrorWithStatus("groq", "Generate", 429, "rate limited"), true},
		{"ai 400", NewAIErrorWithStatus("groq", "Generate", 400, "bad request"), false},
		{"jira 503", NewJiraErrorWithStatus("SearchTickets", "", 503, "unavailable"), true},
		{"jira 401", NewJiraErrorWithStatus("SearchTickets", "", 401, "unauthorized"), false},
		{"tempo 502", NewTempoErrorWithStatus("AT-1", 502, "bad gateway"), true},
		{"config error", NewConfigError("jira.token", "missing"), false},
		{
			name: "wrapped retryable",
			err:  errors.Wrap(NewTempoErrorWithStatus("AT-1", 429, "slow down"), "submission failed"),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTypePredicates(t *testing.T) {
	parseErr := errors.Wrap(NewParseError("Duration", "not a number"), "worklog rejected")
	if !IsParseError(parseErr) {
		t.Error("IsParseError should see through wrapping")
	}
	if IsJiraError(parseErr) {
		t.Error("IsJiraError should not match a ParseError")
	}

	jiraErr := NewJiraErrorWithCause("AddComment", "AT-1", "post failed", errors.New("io"))
	if !IsJiraError(jiraErr) {
		t.Error("IsJiraError should match")
	}

	var typed *JiraError
	if !As(jiraErr, &typed) {
		t.Fatal("As should extract the JiraError")
	}
	if typed.Ticket != "AT-1" {
		t.Errorf("Ticket = %q, want AT-1", typed.Ticket)
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{NewConfigError("jira.email", "required"), `config error in jira.email: required`},
		{NewSecretError("Get", "groq_api_key", "vault locked"), `secret Get groq_api_key failed: vault locked`},
		{NewAIErrorWithStatus("groq", "Generate", 429, "slow down"), `ai groq Generate failed (HTTP 429): slow down`},
		{NewJiraErrorWithStatus("AddComment", "AT-1", 404, "not found"), `jira AddComment for AT-1 failed (HTTP 404): not found`},
		{NewTempoErrorWithStatus("AT-1", 401, "bad token"), `tempo worklog for AT-1 failed (HTTP 401): bad token`},
		{NewParseError("Date", "expected DD/Mon/YY"), `log parse error in field "Date": expected DD/Mon/YY`},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestUnwrapChains(t *testing.T) {
	root := errors.New("connection refused")
	err := NewTempoErrorWithCause("AT-1", "request failed", root)
	if !Is(err, root) {
		t.Error("Is should find the root cause through Unwrap")
	}
}
