package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"qed42.com/waid/pkg/config"
	waiderrors "qed42.com/waid/pkg/errors"
)

// Tempo worklog attribute keys. These are account-level custom attributes
// and must match the keys defined in the Tempo workspace.
const (
	attrGenAIEfficiency = "_GenAIEfficiency_"
	attrGenAIUseCase    = "_GenAIusecasedescription_"
)

// TempoClient submits worklogs to the Tempo REST API v4 using Bearer auth.
type TempoClient struct {
	apiURL     string
	token      string
	httpClient *http.Client
	verbose    bool
}

// NewTempoClient creates a Tempo worklog client.
// Token lookup precedence: TEMPO_API_KEY env var > config token.
func NewTempoClient(cfg *config.TempoConfig, verbose bool) (*TempoClient, error) {
	token := os.Getenv("TEMPO_API_KEY")
	if token == "" {
		token = cfg.Token
	}
	if token == "" {
		return nil, waiderrors.NewConfigError("tempo.token",
			"tempo token is required (set TEMPO_API_KEY env var or config)")
	}
	if cfg.APIURL == "" {
		return nil, waiderrors.NewConfigError("tempo.api_url", "tempo api_url is required")
	}

	return &TempoClient{
		apiURL:     strings.TrimSuffix(cfg.APIURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		verbose:    verbose,
	}, nil
}

// IsAvailable checks if the client is configured and ready to use.
func (c *TempoClient) IsAvailable() bool {
	return c.apiURL != "" && c.token != ""
}

// tempoAttribute is one key/value pair in a worklog's attribute list.
type tempoAttribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// tempoWorklogPayload is the Tempo v4 worklog creation body.
type tempoWorklogPayload struct {
	IssueID          int              `json:"issueId"`
	TimeSpentSeconds int              `json:"timeSpentSeconds"`
	StartDate        string           `json:"startDate"`
	StartTime        string           `json:"startTime"`
	Description      string           `json:"description"`
	AuthorAccountID  string           `json:"authorAccountId"`
	Attributes       []tempoAttribute `json:"attributes,omitempty"`
}

// LogWork submits one worklog. Both HTTP 200 and 201 count as success;
// HTTP 429 is retried with backoff like the Jira client.
func (c *TempoClient) LogWork(ctx context.Context, wl *WorklogRequest) error {
	if !c.IsAvailable() {
		return waiderrors.NewTempoError(wl.IssueKey, "tempo client is not configured")
	}

	issueID, err := strconv.Atoi(wl.IssueID)
	if err != nil {
		return waiderrors.NewTempoErrorWithCause(wl.IssueKey,
			fmt.Sprintf("issue id %q is not numeric", wl.IssueID), err)
	}

	payload := tempoWorklogPayload{
		IssueID:          issueID,
		TimeSpentSeconds: wl.TimeSpentSeconds,
		StartDate:        wl.StartDate,
		StartTime:        wl.StartTime,
		Description:      wl.Description,
		AuthorAccountID:  wl.AuthorAccountID,
		Attributes: []tempoAttribute{
			{Key: attrGenAIEfficiency, Value: strconv.FormatFloat(wl.GenAIEfficiency, 'f', -1, 64)},
			{Key: attrGenAIUseCase, Value: wl.GenAIUseCaseDesc},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "failed to marshal worklog")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if c.verbose {
		fmt.Printf("Logging %d seconds to %s on %s\n",
			wl.TimeSpentSeconds, wl.IssueKey, wl.StartDate)
	}

	resp, err := c.doWithRetry(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read response body")
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return c.handleHTTPError(wl.IssueKey, resp.StatusCode, respBody)
	}

	if c.verbose {
		fmt.Printf("Worklog created on %s\n", wl.IssueKey)
	}
	return nil
}

// doWithRetry mirrors the Jira client's rate-limit handling for Tempo calls.
func (c *TempoClient) doWithRetry(req *http.Request) (*http.Response, error) {
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

// handleHTTPError returns an appropriate error for non-2xx Tempo responses.
func (c *TempoClient) handleHTTPError(issue string, statusCode int, body []byte) error {
	switch statusCode {
	case http.StatusUnauthorized:
		return waiderrors.NewTempoErrorWithStatus(issue, statusCode,
			"authentication failed: check your Tempo API token")
	case http.StatusForbidden:
		return waiderrors.NewTempoErrorWithStatus(issue, statusCode,
			"access denied: check Tempo permissions for the issue")
	default:
		var errResp struct {
			Errors []struct {
				Message string `json:"message"`
			} `json:"errors"`
		}
		if err := json.Unmarshal(body, &errResp); err == nil && len(errResp.Errors) > 0 {
			msgs := make([]string, len(errResp.Errors))
			for i, e := range errResp.Errors {
				msgs[i] = e.Message
			}
			return waiderrors.NewTempoErrorWithStatus(issue, statusCode, strings.Join(msgs, "; "))
		}
		return waiderrors.NewTempoErrorWithStatus(issue, statusCode, http.StatusText(statusCode))
	}
}
