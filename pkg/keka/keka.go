// Package keka queries the Keka HR API for holidays and approved leave, so
// worklog filing can warn when time is being logged against a non-working
// day. All failures here are advisory; callers degrade to a warning.
package keka

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"golang.org/x/oauth2/clientcredentials"

	"qed42.com/waid/pkg/config"
	waiderrors "qed42.com/waid/pkg/errors"
)

// Holiday is one entry from the company holiday calendar.
type Holiday struct {
	Name string
	Date string // YYYY-MM-DD
}

// Leave is one approved leave day for the authenticated employee.
type Leave struct {
	Type string
	From string // YYYY-MM-DD
	To   string // YYYY-MM-DD
}

// Client talks to the Keka HR API using OAuth2 client credentials.
type Client struct {
	baseURL    string
	httpClient *http.Client
	verbose    bool
}

// NewClient creates a Keka client. The client secret lookup precedence is
// KEKA_CLIENT_SECRET env var > config.
func NewClient(ctx context.Context, cfg *config.KekaConfig, verbose bool) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, waiderrors.NewConfigError("keka.base_url", "keka base_url is required")
	}
	if cfg.ClientID == "" {
		return nil, waiderrors.NewConfigError("keka.client_id", "keka client_id is required")
	}

	secret := os.Getenv("KEKA_CLIENT_SECRET")
	if secret == "" {
		secret = cfg.ClientSecret
	}
	if secret == "" {
		return nil, waiderrors.NewConfigError("keka.client_secret",
			"keka client_secret is required (set KEKA_CLIENT_SECRET env var or config)")
	}

	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	oauthCfg := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: secret,
		TokenURL:     baseURL + "/connect/token",
		Scopes:       []string{"kekaapi"},
	}

	httpClient := oauthCfg.Client(ctx)
	httpClient.Timeout = 30 * time.Second

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		verbose:    verbose,
	}, nil
}

// get fetches path and decodes the "data" envelope Keka wraps responses in.
func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "failed to execute request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read response body")
	}

	if resp.StatusCode != http.StatusOK {
		return errors.Newf("keka request %s failed (HTTP %d): %s",
			path, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	envelope := struct {
		Data json.RawMessage `json:"data"`
	}{}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return errors.Wrap(err, "failed to parse keka response")
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return errors.Wrap(err, "failed to parse keka response data")
	}
	return nil
}

// Holidays returns the company holiday calendar for a year.
func (c *Client) Holidays(ctx context.Context, year int) ([]Holiday, error) {
	var raw []struct {
		Name string `json:"name"`
		Date string `json:"date"`
	}
	path := fmt.Sprintf("/api/v1/time/holidayscalendar?year=%d", year)
	if err := c.get(ctx, path, &raw); err != nil {
		return nil, err
	}

	holidays := make([]Holiday, len(raw))
	for i, h := range raw {
		holidays[i] = Holiday{Name: h.Name, Date: normalizeDate(h.Date)}
	}
	return holidays, nil
}

// MyLeaves returns the authenticated employee's approved leave requests
// overlapping [from, to], both YYYY-MM-DD.
func (c *Client) MyLeaves(ctx context.Context, from, to string) ([]Leave, error) {
	var raw []struct {
		LeaveType string `json:"leaveType"`
		FromDate  string `json:"fromDate"`
		ToDate    string `json:"toDate"`
		Status    int    `json:"status"` // 1 = approved
	}
	path := fmt.Sprintf("/api/v1/time/leaverequests?from=%s&to=%s", from, to)
	if err := c.get(ctx, path, &raw); err != nil {
		return nil, err
	}

	var leaves []Leave
	for _, l := range raw {
		if l.Status != 1 {
			continue
		}
		leaves = append(leaves, Leave{
			Type: l.LeaveType,
			From: normalizeDate(l.FromDate),
			To:   normalizeDate(l.ToDate),
		})
	}
	return leaves, nil
}

// CheckDate returns a human-readable warning when date (YYYY-MM-DD) falls
// on a holiday or approved leave, or "" when it is a regular working day.
func (c *Client) CheckDate(ctx context.Context, date string) (string, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", errors.Wrapf(err, "invalid date %q", date)
	}

	holidays, err := c.Holidays(ctx, day.Year())
	if err != nil {
		return "", err
	}
	for _, h := range holidays {
		if h.Date == date {
			return fmt.Sprintf("%s is a holiday (%s)", date, h.Name), nil
		}
	}

	leaves, err := c.MyLeaves(ctx, date, date)
	if err != nil {
		return "", err
	}
	for _, l := range leaves {
		if date >= l.From && date <= l.To {
			return fmt.Sprintf("%s falls within approved leave (%s)", date, l.Type), nil
		}
	}

	return "", nil
}

// normalizeDate trims a timestamp like "2024-01-01T00:00:00" to its date.
func normalizeDate(s string) string {
	if i := strings.IndexByte(s, 'T'); i > 0 {
		return s[:i]
	}
	return s
}
