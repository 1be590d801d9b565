// Package ledger records worklog submissions in a local SQLite database so
// a retried or repeated `waid worklog` run never files the same worklog
// twice. Each submission attempt gets a UUID token; the row moves from
// pending to submitted or failed as the Tempo call resolves.
package ledger

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS submissions (
	token       TEXT PRIMARY KEY,
	issue_key   TEXT NOT NULL,
	start_date  TEXT NOT NULL,
	seconds     INTEGER NOT NULL,
	state       TEXT NOT NULL DEFAULT 'pending',
	created_at  TEXT NOT NULL,
	resolved_at TEXT,
	detail      TEXT
);
CREATE INDEX IF NOT EXISTS idx_submissions_issue_date
	ON submissions (issue_key, start_date);
`

// Submission states.
const (
	StatePending   = "pending"
	StateSubmitted = "submitted"
	StateFailed    = "failed"
)

// Submission is one recorded worklog attempt.
type Submission struct {
	Token      string
	IssueKey   string
	StartDate  string
	Seconds    int
	State      string
	CreatedAt  time.Time
	ResolvedAt time.Time
	Detail     string
}

// Ledger is the submission store. Safe for use from a single process; the
// CLI opens it per command invocation.
type Ledger struct {
	db *sql.DB
}

// Open opens (creating if needed) the ledger database at path.
func Open(path string) (*Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, errors.Wrap(err, "failed to create ledger directory")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open ledger database")
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to initialize ledger schema")
	}

	return &Ledger{db: db}, nil
}

// Close closes the underlying database.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// AlreadySubmitted reports whether a submitted worklog with the same issue,
// date and duration exists. Pending and failed rows do not count.
func (l *Ledger) AlreadySubmitted(ctx context.Context, issueKey, startDate string, seconds int) (bool, error) {
	var count int
	err := l.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM submissions
		 WHERE issue_key = ? AND start_date = ? AND seconds = ? AND state = ?`,
		issueKey, startDate, seconds, StateSubmitted).Scan(&count)
	if err != nil {
		return false, errors.Wrap(err, "failed to query submissions")
	}
	return count > 0, nil
}

// Begin records a pending submission and returns its token.
func (l *Ledger) Begin(ctx context.Context, issueKey, startDate string, seconds int) (string, error) {
	token := uuid.NewString()
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO submissions (token, issue_key, start_date, seconds, state, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		token, issueKey, startDate, seconds, StatePending,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", errors.Wrap(err, "failed to record pending submission")
	}
	return token, nil
}

// MarkSubmitted resolves a pending submission as filed.
func (l *Ledger) MarkSubmitted(ctx context.Context, token string) error {
	return l.resolve(ctx, token, StateSubmitted, "")
}

// MarkFailed resolves a pending submission as failed, keeping the error
// text for later inspection.
func (l *Ledger) MarkFailed(ctx context.Context, token, detail string) error {
	return l.resolve(ctx, token, StateFailed, detail)
}

func (l *Ledger) resolve(ctx context.Context, token, state, detail string) error {
	res, err := l.db.ExecContext(ctx,
		`UPDATE submissions SET state = ?, resolved_at = ?, detail = ? WHERE token = ?`,
		state, time.Now().UTC().Format(time.RFC3339), detail, token)
	if err != nil {
		return errors.Wrap(err, "failed to update submission")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to read update result")
	}
	if n == 0 {
		return errors.Newf("no submission with token %s", token)
	}
	return nil
}

// History returns the most recent submissions, newest first.
func (l *Ledger) History(ctx context.Context, limit int) ([]Submission, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := l.db.QueryContext(ctx,
		`SELECT token, issue_key, start_date, seconds, state, created_at,
		        COALESCE(resolved_at, ''), COALESCE(detail, '')
		 FROM submissions ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query submissions")
	}
	defer rows.Close()

	var subs []Submission
	for rows.Next() {
		var s Submission
		var createdAt, resolvedAt string
		if err := rows.Scan(&s.Token, &s.IssueKey, &s.StartDate, &s.Seconds,
			&s.State, &createdAt, &resolvedAt, &s.Detail); err != nil {
			return nil, errors.Wrap(err, "failed to scan submission")
		}
		s.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		if resolvedAt != "" {
			s.ResolvedAt, _ = time.Parse(time.RFC3339, resolvedAt)
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}
