package jira

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"qed42.com/waid/pkg/config"
	waiderrors "qed42.com/waid/pkg/errors"
)

// Rate limit retry configuration
const (
	maxRetries   = 3
	baseDelay    = time.Second
	maxDelay     = 30 * time.Second
	jitterFactor = 0.4 // multiplier range [0.8, 1.2], ±20% variation around 1.0
)

// Client talks to the Jira Cloud REST API v3 using Basic auth.
type Client struct {
	baseURL    string
	email      string
	token      string
	projectKey string
	maxResults int
	httpClient *http.Client
	verbose    bool
}

// NewClient creates a Jira API client.
// Token lookup precedence: JIRA_API_KEY env var > config token.
func NewClient(cfg *config.JiraConfig, verbose bool) (*Client, error) {
	token := os.Getenv("JIRA_API_KEY")
	if token == "" {
		token = cfg.Token
	}

	if cfg.BaseURL == "" {
		return nil, waiderrors.NewConfigError("jira.base_url", "jira base_url is required")
	}
	if cfg.Email == "" {
		return nil, waiderrors.NewConfigError("jira.email", "jira email is required")
	}
	if token == "" {
		return nil, waiderrors.NewConfigError("jira.token",
			"jira token is required (set JIRA_API_KEY env var or config)")
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 50
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		email:      cfg.Email,
		token:      token,
		projectKey: cfg.ProjectKey,
		maxResults: maxResults,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		verbose:    verbose,
	}, nil
}

// IsAvailable checks if the client is configured and ready to use.
func (c *Client) IsAvailable() bool {
	return c.baseURL != "" && c.email != "" && c.token != ""
}

// calculateBackoff computes the delay for a retry attempt using exponential
// backoff with jitter: delay = min(base * 2^attempt, max) * (0.8 + 0.4*rand()).
func calculateBackoff(base, max time.Duration, attempt int) time.Duration {
	expDelay := float64(base) * math.Pow(2, float64(attempt))
	if expDelay > float64(max) {
		expDelay = float64(max)
	}
	jitter := 0.8 + jitterFactor*rand.Float64()
	return time.Duration(expDelay * jitter)
}

// parseRetryAfter extracts the delay from a Retry-After header.
// Returns the duration if present and valid, otherwise returns 0.
func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}

	if t, err := time.Parse(time.RFC1123, header); err == nil {
		delay := time.Until(t)
		if delay > 0 {
			return delay
		}
	}

	return 0
}

// doRequestWithRetry executes an HTTP request, retrying rate-limited calls
// with exponential backoff and respecting Retry-After headers. The request
// body, when present, is provided through req.GetBody so it can be replayed.
func (c *Client) doRequestWithRetry(req *http.Request) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, errors.Wrap(err, "failed to rewind request body")
			}
			req.Body = body
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, errors.Wrap(err, "failed to execute request")
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		resp.Body.Close()

		if attempt == maxRetries {
			lastErr = errors.Newf("rate limited after %d retries", maxRetries)
			break
		}

		delay := parseRetryAfter(resp.Header.Get("Retry-After"))
		if delay == 0 {
			delay = calculateBackoff(baseDelay, maxDelay, attempt)
		}

		if c.verbose {
			fmt.Printf("Rate limited (HTTP 429), retrying in %v (attempt %d/%d)...\n",
				delay.Round(time.Millisecond), attempt+1, maxRetries)
		}

		time.Sleep(delay)
	}

	return nil, lastErr
}

// newRequest builds an authenticated JSON request against the Jira API.
func (c *Client) newRequest(ctx context.Context, method, path string, body []byte) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}

	auth := base64.StdEncoding.EncodeToString([]byte(c.email + ":" + c.token))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// handleHTTPError returns an appropriate error for non-2xx responses.
// HTTP 429 is handled by doRequestWithRetry before this is called.
func (c *Client) handleHTTPError(operation, ticket string, statusCode int, body []byte) error {
	switch statusCode {
	case http.StatusUnauthorized:
		return waiderrors.NewJiraErrorWithStatus(operation, ticket, statusCode,
			"authentication failed: check your email and API token")
	case http.StatusForbidden:
		return waiderrors.NewJiraErrorWithStatus(operation, ticket, statusCode,
			"access denied: check your permissions")
	case http.StatusNotFound:
		return waiderrors.NewJiraErrorWithStatus(operation, ticket, statusCode, "not found")
	default:
		var errResp struct {
			ErrorMessages []string `json:"errorMessages"`
		}
		if err := json.Unmarshal(body, &errResp); err == nil && len(errResp.ErrorMessages) > 0 {
			return waiderrors.NewJiraErrorWithStatus(operation, ticket, statusCode,
				strings.Join(errResp.ErrorMessages, "; "))
		}
		return waiderrors.NewJiraErrorWithStatus(operation, ticket, statusCode,
			http.StatusText(statusCode))
	}
}

// jiraSearchResponse represents the relevant parts of a search response.
type jiraSearchResponse struct {
	Issues []struct {
		ID     string `json:"id"`
		Key    string `json:"key"`
		Fields struct {
			Summary string `json:"summary"`
			Status  struct {
				Name string `json:"name"`
			} `json:"status"`
		} `json:"fields"`
	} `json:"issues"`
}

// SearchTickets returns the current user's tickets in the configured
// project, newest first, optionally filtered by status name. The page size
// is the configured max_results.
func (c *Client) SearchTickets(ctx context.Context, status string) ([]Ticket, error) {
	if !c.IsAvailable() {
		return nil, waiderrors.NewJiraError("SearchTickets", "jira client is not configured")
	}

	jql := fmt.Sprintf("project = %q AND assignee = currentUser()", c.projectKey)
	if status != "" {
		jql += fmt.Sprintf(" AND status = %q", status)
	}
	jql += " ORDER BY created DESC"

	params := url.Values{}
	params.Set("jql", jql)
	params.Set("maxResults", strconv.Itoa(c.maxResults))
	params.Set("fields", "summary,status")

	req, err := c.newRequest(ctx, http.MethodGet, "/rest/api/3/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	if c.verbose {
		fmt.Printf("Searching Jira tickets: %s\n", jql)
	}

	resp, err := c.doRequestWithRetry(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleHTTPError("SearchTickets", "", resp.StatusCode, body)
	}

	var searchResp jiraSearchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, errors.Wrap(err, "failed to parse search response")
	}

	tickets := make([]Ticket, len(searchResp.Issues))
	for i, issue := range searchResp.Issues {
		tickets[i] = Ticket{
			ID:      issue.ID,
			Key:     issue.Key,
			Summary: issue.Fields.Summary,
			Status:  issue.Fields.Status.Name,
		}
	}

	if c.verbose {
		fmt.Printf("Found %d tickets\n", len(tickets))
	}

	return tickets, nil
}

// Myself returns the authenticated user; the accountId is required by the
// Tempo worklog API.
func (c *Client) Myself(ctx context.Context) (*User, error) {
	if !c.IsAvailable() {
		return nil, waiderrors.NewJiraError("Myself", "jira client is not configured")
	}

	req, err := c.newRequest(ctx, http.MethodGet, "/rest/api/3/myself", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.doRequestWithRetry(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleHTTPError("Myself", "", resp.StatusCode, body)
	}

	var raw struct {
		AccountID    string `json:"accountId"`
		DisplayName  string `json:"displayName"`
		EmailAddress string `json:"emailAddress"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, errors.Wrap(err, "failed to parse myself response")
	}

	return &User{
		AccountID:   raw.AccountID,
		DisplayName: raw.DisplayName,
		Email:       raw.EmailAddress,
	}, nil
}

// GetIssueID resolves an issue key to its numeric id.
func (c *Client) GetIssueID(ctx context.Context, key string) (string, error) {
	if !c.IsAvailable() {
		return "", waiderrors.NewJiraErrorWithTicket("GetIssueID", key, "jira client is not configured")
	}

	req, err := c.newRequest(ctx, http.MethodGet, "/rest/api/3/issue/"+key+"?fields=id", nil)
	if err != nil {
		return "", err
	}

	resp, err := c.doRequestWithRetry(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "failed to read response body")
	}

	if resp.StatusCode != http.StatusOK {
		return "", c.handleHTTPError("GetIssueID", key, resp.StatusCode, body)
	}

	var raw struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", errors.Wrap(err, "failed to parse issue response")
	}
	return raw.ID, nil
}

// adfNode is a minimal Atlassian Document Format node.
type adfNode struct {
	Type    string         `json:"type"`
	Text    string         `json:"text,omitempty"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Content []adfNode      `json:"content,omitempty"`
	Version int            `json:"version,omitempty"`
}

// commentBody builds an ADF document with a level-3 heading (the title)
// followed by one paragraph per description line.
func commentBody(title, description string) adfNode {
	content := []adfNode{
		{
			Type:    "heading",
			Attrs:   map[string]any{"level": 3},
			Content: []adfNode{{Type: "text", Text: title}},
		},
	}
	for _, line := range strings.Split(description, "\n") {
		if line == "" {
			continue
		}
		content = append(content, adfNode{
			Type:    "paragraph",
			Content: []adfNode{{Type: "text", Text: line}},
		})
	}
	return adfNode{Type: "doc", Version: 1, Content: content}
}

// AddComment posts a formatted comment to the ticket. The call is never
// retried on non-429 failures.
func (c *Client) AddComment(ctx context.Context, key, title, description string) error {
	if !c.IsAvailable() {
		return waiderrors.NewJiraErrorWithTicket("AddComment", key, "jira client is not configured")
	}

	payload := struct {
		Body adfNode `json:"body"`
	}{Body: commentBody(title, description)}

	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "failed to marshal comment")
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/rest/api/3/issue/"+key+"/comment", body)
	if err != nil {
		return err
	}

	resp, err := c.doRequestWithRetry(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read response body")
	}

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return c.handleHTTPError("AddComment", key, resp.StatusCode, respBody)
	}

	if c.verbose {
		fmt.Printf("Added comment to %s\n", key)
	}
	return nil
}
