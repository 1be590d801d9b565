package keka

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"qed42.com/waid/pkg/config"
)

func newKekaServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/connect/token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("failed to parse token form: %v", err)
		}
		if r.Form.Get("grant_type") != "client_credentials" {
			t.Errorf("grant_type = %q", r.Form.Get("grant_type"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"test-token","token_type":"Bearer","expires_in":3600}`))
	})

	mux.HandleFunc("/api/v1/time/holidayscalendar", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("unexpected Authorization header: %q", got)
		}
		w.Write([]byte(`{"data":[
			{"name":"Republic Day","date":"2024-01-26T00:00:00"},
			{"name":"Holi","date":"2024-03-25T00:00:00"}
		]}`))
	})

	mux.HandleFunc("/api/v1/time/leaverequests", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[
			{"leaveType":"Casual Leave","fromDate":"2024-02-05T00:00:00","toDate":"2024-02-06T00:00:00","status":1},
			{"leaveType":"Sick Leave","fromDate":"2024-02-07T00:00:00","toDate":"2024-02-07T00:00:00","status":2}
		]}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	server := newKekaServer(t)
	client, err := NewClient(context.Background(), &config.KekaConfig{
		Enabled:      true,
		BaseURL:      server.URL,
		ClientID:     "client-id",
		ClientSecret: "client-secret",
	}, false)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return client
}

func TestNewClientValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.KekaConfig
	}{
		{"missing base url", config.KekaConfig{ClientID: "c", ClientSecret: "s"}},
		{"missing client id", config.KekaConfig{BaseURL: "https://x", ClientSecret: "s"}},
		{"missing secret", config.KekaConfig{BaseURL: "https://x", ClientID: "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewClient(context.Background(), &tt.cfg, false); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestHolidays(t *testing.T) {
	client := newTestClient(t)

	holidays, err := client.Holidays(context.Background(), 2024)
	if err != nil {
		t.Fatalf("Holidays failed: %v", err)
	}
	if len(holidays) != 2 {
		t.Fatalf("expected 2 holidays, got %d", len(holidays))
	}
	if holidays[0].Name != "Republic Day" || holidays[0].Date != "2024-01-26" {
		t.Errorf("unexpected holiday: %+v", holidays[0])
	}
}

func TestMyLeavesFiltersUnapproved(t *testing.T) {
	client := newTestClient(t)

	leaves, err := client.MyLeaves(context.Background(), "2024-02-01", "2024-02-29")
	if err != nil {
		t.Fatalf("MyLeaves failed: %v", err)
	}
	if len(leaves) != 1 {
		t.Fatalf("expected 1 approved leave, got %d", len(leaves))
	}
	if leaves[0].Type != "Casual Leave" || leaves[0].From != "2024-02-05" || leaves[0].To != "2024-02-06" {
		t.Errorf("unexpected leave: %+v", leaves[0])
	}
}

func TestCheckDate(t *testing.T) {
	client := newTestClient(t)

	tests := []struct {
		date     string
		wantWarn bool
	}{
		{"2024-01-26", true},  // holiday
		{"2024-02-05", true},  // approved leave
		{"2024-02-07", false}, // leave request was not approved
		{"2024-02-12", false}, // plain working day
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			warning, err := client.CheckDate(context.Background(), tt.date)
			if err != nil {
				t.Fatalf("CheckDate failed: %v", err)
			}
			if (warning != "") != tt.wantWarn {
				t.Errorf("CheckDate(%s) warning = %q, wantWarn %v", tt.date, warning, tt.wantWarn)
			}
		})
	}
}
