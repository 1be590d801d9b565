// Package errors provides typed errors for the waid project.
//
// This package defines domain-specific error types that provide structured
// error information for different subsystems (config, secrets, AI, Jira,
// Tempo, log parsing). All error types implement the standard error interface
// and support errors.Is() and errors.As() from the standard library and
// cockroachdb/errors.
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// ConfigError represents configuration-related errors.
type ConfigError struct {
	Field   string // Which config field has the issue
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
	}
	return "config error: " + e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{Field: field, Message: message}
}

// NewConfigErrorWithCause creates a new ConfigError with an underlying cause.
func NewConfigErrorWithCause(field, message string, cause error) *ConfigError {
	return &ConfigError{Field: field, Message: message, Cause: cause}
}

// SecretError represents OS keyring errors.
type SecretError struct {
	Key     string // Logical secret name, e.g. "gemini_api_key"
	Op      string // "Get", "Set", "Delete"
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *SecretError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("secret %s %s failed: %s", e.Op, e.Key, e.Message)
	}
	return fmt.Sprintf("secret %s failed: %s", e.Op, e.Message)
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *SecretError) Unwrap() error {
	return e.Cause
}

// NewSecretError creates a new SecretError.
func NewSecretError(op, key, message string) *SecretError {
	return &SecretError{Op: op, Key: key, Message: message}
}

// NewSecretErrorWithCause creates a new SecretError with an underlying cause.
func NewSecretErrorWithCause(op, key, message string, cause error) *SecretError {
	return &SecretError{Op: op, Key: key, Message: message, Cause: cause}
}

// AIError represents AI provider errors.
type AIError struct {
	Provider   string // e.g., "groq", "gemini"
	Operation  string // e.g., "Generate"
	StatusCode int
	Message    string
	Retryable  bool
	Cause      error
}

// Error implements the error interface.
func (e *AIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("ai %s %s failed (HTTP %d): %s", e.Provider, e.Operation, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("ai %s %s failed: %s", e.Provider, e.Operation, e.Message)
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *AIError) Unwrap() error {
	return e.Cause
}

// NewAIError creates a new AIError.
func NewAIError(provider, operation, message string) *AIError {
	return &AIError{Provider: provider, Operation: operation, Message: message}
}

// NewAIErrorWithStatus creates a new AIError with HTTP status code.
func NewAIErrorWithStatus(provider, operation string, statusCode int, message string) *AIError {
	return &AIError{
		Provider:   provider,
		Operation:  operation,
		StatusCode: statusCode,
		Message:    message,
		Retryable:  isRetryableHTTPStatus(statusCode),
	}
}

// NewAIErrorWithCause creates a new AIError with an underlying cause.
func NewAIErrorWithCause(provider, operation, message string, cause error) *AIError {
	return &AIError{
		Provider:  provider,
		Operation: operation,
		Message:   message,
		Retryable: IsRetryable(cause),
		Cause:     cause,
	}
}

// JiraError represents Jira API errors.
type JiraError struct {
	Operation  string
	Ticket     string
	StatusCode int
	Message    string
	Retryable  bool
	Cause      error
}

// Error implements the error interface.
func (e *JiraError) Error() string {
	if e.Ticket != "" && e.StatusCode > 0 {
		return fmt.Sprintf("jira %s for %s failed (HTTP %d): %s", e.Operation, e.Ticket, e.StatusCode, e.Message)
	}
	if e.Ticket != "" {
		return fmt.Sprintf("jira %s for %s failed: %s", e.Operation, e.Ticket, e.Message)
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("jira %s failed (HTTP %d): %s", e.Operation, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("jira %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *JiraError) Unwrap() error {
	return e.Cause
}

// NewJiraError creates a new JiraError.
func NewJiraError(operation, message string) *JiraError {
	return &JiraError{Operation: operation, Message: message}
}

// NewJiraErrorWithTicket creates a new JiraError for a specific ticket.
func NewJiraErrorWithTicket(operation, ticket, message string) *JiraError {
	return &JiraError{Operation: operation, Ticket: ticket, Message: message}
}

// NewJiraErrorWithStatus creates a new JiraError with HTTP status code.
func NewJiraErrorWithStatus(operation, ticket string, statusCode int, message string) *JiraError {
	return &JiraError{
		Operation:  operation,
		Ticket:     ticket,
		StatusCode: statusCode,
		Message:    message,
		Retryable:  isRetryableHTTPStatus(statusCode),
	}
}

// NewJiraErrorWithCause creates a new JiraError with an underlying cause.
func NewJiraErrorWithCause(operation, ticket, message string, cause error) *JiraError {
	return &JiraError{
		Operation: operation,
		Ticket:    ticket,
		Message:   message,
		Retryable: IsRetryable(cause),
		Cause:     cause,
	}
}

// TempoError represents Tempo worklog API errors.
type TempoError struct {
	Issue      string
	StatusCode int
	Message    string
	Retryable  bool
	Cause      error
}

// Error implements the error interface.
func (e *TempoError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("tempo worklog for %s failed (HTTP %d): %s", e.Issue, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("tempo worklog for %s failed: %s", e.Issue, e.Message)
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *TempoError) Unwrap() error {
	return e.Cause
}

// NewTempoError creates a new TempoError.
func NewTempoError(issue, message string) *TempoError {
	return &TempoError{Issue: issue, Message: message}
}

// NewTempoErrorWithStatus creates a new TempoError with HTTP status code.
func NewTempoErrorWithStatus(issue string, statusCode int, message string) *TempoError {
	return &TempoError{
		Issue:      issue,
		StatusCode: statusCode,
		Message:    message,
		Retryable:  isRetryableHTTPStatus(statusCode),
	}
}

// NewTempoErrorWithCause creates a new TempoError with an underlying cause.
func NewTempoErrorWithCause(issue, message string, cause error) *TempoError {
	return &TempoError{
		Issue:     issue,
		Message:   message,
		Retryable: IsRetryable(cause),
		Cause:     cause,
	}
}

// ParseError represents malformed log input. The parse contract is
// all-or-nothing, so a ParseError always means no record was produced.
type ParseError struct {
	Field   string // The offending field, when known
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("log parse error in field %q: %s", e.Field, e.Message)
	}
	return "log parse error: " + e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// NewParseError creates a new ParseError.
func NewParseError(field, message string) *ParseError {
	return &ParseError{Field: field, Message: message}
}

// NewParseErrorWithCause creates a new ParseError with an underlying cause.
func NewParseErrorWithCause(field, message string, cause error) *ParseError {
	return &ParseError{Field: field, Message: message, Cause: cause}
}

// IsRetryable checks if an error or any error in its chain is retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var aiErr *AIError
	if errors.As(err, &aiErr) {
		return aiErr.Retryable
	}

	var jiraErr *JiraError
	if errors.As(err, &jiraErr) {
		return jiraErr.Retryable
	}

	var tempoErr *TempoError
	if errors.As(err, &tempoErr) {
		return tempoErr.Retryable
	}

	return false
}

// IsConfigError checks if an error or any error in its chain is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsSecretError checks if an error or any error in its chain is a SecretError.
func IsSecretError(err error) bool {
	var secretErr *SecretError
	return errors.As(err, &secretErr)
}

// IsAIError checks if an error or any error in its chain is an AIError.
func IsAIError(err error) bool {
	var aiErr *AIError
	return errors.As(err, &aiErr)
}

// IsJiraError checks if an error or any error in its chain is a JiraError.
func IsJiraError(err error) bool {
	var jiraErr *JiraError
	return errors.As(err, &jiraErr)
}

// IsTempoError checks if an error or any error in its chain is a TempoError.
func IsTempoError(err error) bool {
	var tempoErr *TempoError
	return errors.As(err, &tempoErr)
}

// IsParseError checks if an error or any error in its chain is a ParseError.
func IsParseError(err error) bool {
	var parseErr *ParseError
	return errors.As(err, &parseErr)
}

// isRetryableHTTPStatus returns true for HTTP status codes that are typically retryable.
func isRetryableHTTPStatus(statusCode int) bool {
	switch statusCode {
	case 408, // Request Timeout
		429, // Too Many Requests
		500, // Internal Server Error
		502, // Bad Gateway
		503, // Service Unavailable
		504: // Gateway Timeout
		return true
	default:
		return false
	}
}

// Re-export commonly used functions from cockroachdb/errors for convenience.
// This allows consumers to use waiderrors.Wrap() instead of importing two packages.
var (
	// New creates a new error with the given message.
	New = errors.New

	// Newf creates a new error with formatted message.
	Newf = errors.Newf

	// Wrap wraps an error with additional context.
	Wrap = errors.Wrap

	// Wrapf wraps an error with formatted additional context.
	Wrapf = errors.Wrapf

	// Is reports whether any error in err's chain matches target.
	Is = errors.Is

	// As finds the first error in err's chain that matches target.
	As = errors.As

	// Cause returns the root cause of an error.
	Cause = errors.Cause
)
