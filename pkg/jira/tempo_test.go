package jira

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"qed42.com/waid/pkg/config"
	waiderrors "qed42.com/waid/pkg/errors"
)

func newTestTempoClient(t *testing.T, handler http.Handler) *TempoClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewTempoClient(&config.TempoConfig{
		APIURL: server.URL,
		Token:  "tempo-token",
	}, false)
	if err != nil {
		t.Fatalf("NewTempoClient failed: %v", err)
	}
	client.httpClient = server.Client()
	return client
}

func testWorklog() *WorklogRequest {
	return &WorklogRequest{
		IssueID:          "10042",
		IssueKey:         "AT-7",
		TimeSpentSeconds: 5400,
		StartDate:        "2024-01-01",
		StartTime:        "09:30:00",
		Description:      "Daily work log",
		AuthorAccountID:  "abc123",
		GenAIEfficiency:  0.75,
		GenAIUseCaseDesc: "Drafted with an assistant",
	}
}

func TestLogWork(t *testing.T) {
	var gotBody []byte
	client := newTestTempoClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tempo-token" {
			t.Errorf("unexpected Authorization header: %q", got)
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("failed to read body: %v", err)
		}
		gotBody = body
		w.WriteHeader(http.StatusCreated)
	}))

	if err := client.LogWork(context.Background(), testWorklog()); err != nil {
		t.Fatalf("LogWork failed: %v", err)
	}

	var payload tempoWorklogPayload
	if err := json.Unmarshal(gotBody, &payload); err != nil {
		t.Fatalf("failed to parse payload: %v", err)
	}
	if payload.IssueID != 10042 {
		t.Errorf("issueId = %d, want 10042", payload.IssueID)
	}
	if payload.TimeSpentSeconds != 5400 {
		t.Errorf("timeSpentSeconds = %d, want 5400", payload.TimeSpentSeconds)
	}
	if payload.StartDate != "2024-01-01" || payload.StartTime != "09:30:00" {
		t.Errorf("unexpected start: %s %s", payload.StartDate, payload.StartTime)
	}
	if payload.AuthorAccountID != "abc123" {
		t.Errorf("authorAccountId = %q", payload.AuthorAccountID)
	}

	attrs := map[string]string{}
	for _, a := range payload.Attributes {
		attrs[a.Key] = a.Value
	}
	if attrs["_GenAIEfficiency_"] != "0.75" {
		t.Errorf("efficiency attribute = %q, want 0.75", attrs["_GenAIEfficiency_"])
	}
	if attrs["_GenAIusecasedescription_"] != "Drafted with an assistant" {
		t.Errorf("use case attribute = %q", attrs["_GenAIusecasedescription_"])
	}
}

func TestLogWorkAcceptsOK(t *testing.T) {
	client := newTestTempoClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	if err := client.LogWork(context.Background(), testWorklog()); err != nil {
		t.Fatalf("LogWork should accept HTTP 200: %v", err)
	}
}

func TestLogWorkErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantRetry bool
	}{
		{"unauthorized", http.StatusUnauthorized, "", false},
		{"forbidden", http.StatusForbidden, "", false},
		{"validation error", http.StatusBadRequest, `{"errors":[{"message":"startDate is required"}]}`, false},
		{"server error", http.StatusBadGateway, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestTempoClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))

			err := client.LogWork(context.Background(), testWorklog())
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !waiderrors.IsTempoError(err) {
				t.Errorf("expected TempoError, got %T", err)
			}
			if waiderrors.IsRetryable(err) != tt.wantRetry {
				t.Errorf("IsRetryable = %v, want %v", waiderrors.IsRetryable(err), tt.wantRetry)
			}
		})
	}
}

func TestLogWorkNonNumericIssueID(t *testing.T) {
	client := newTestTempoClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be sent for a bad issue id")
	}))

	wl := testWorklog()
	wl.IssueID = "AT-7"
	if err := client.LogWork(context.Background(), wl); err == nil {
		t.Fatal("expected error for non-numeric issue id")
	}
}
