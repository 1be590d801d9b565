package ledger

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestLedger(t *testing.T) *Ledger {
	t.Helper()
	led, err := Open(filepath.Join(t.TempDir(), "state", "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { led.Close() })
	return led
}

func TestSubmissionLifecycle(t *testing.T) {
	ctx := context.Background()
	led := openTestLedger(t)

	dup, err := led.AlreadySubmitted(ctx, "AT-7", "2024-01-01", 5400)
	require.NoError(t, err)
	assert.False(t, dup, "fresh ledger has no submissions")

	token, err := led.Begin(ctx, "AT-7", "2024-01-01", 5400)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	// Pending rows do not count as submitted.
	dup, err = led.AlreadySubmitted(ctx, "AT-7", "2024-01-01", 5400)
	require.NoError(t, err)
	assert.False(t, dup)

	require.NoError(t, led.MarkSubmitted(ctx, token))

	dup, err = led.AlreadySubmitted(ctx, "AT-7", "2024-01-01", 5400)
	require.NoError(t, err)
	assert.True(t, dup)

	// A different duration on the same day is a distinct worklog.
	dup, err = led.AlreadySubmitted(ctx, "AT-7", "2024-01-01", 3600)
	require.NoError(t, err)
	assert.False(t, dup)
}

func TestFailedSubmissionDoesNotBlockRetry(t *testing.T) {
	ctx := context.Background()
	led := openTestLedger(t)

	token, err := led.Begin(ctx, "AT-7", "2024-01-01", 5400)
	require.NoError(t, err)
	require.NoError(t, led.MarkFailed(ctx, token, "tempo worklog for AT-7 failed (HTTP 503)"))

	dup, err := led.AlreadySubmitted(ctx, "AT-7", "2024-01-01", 5400)
	require.NoError(t, err)
	assert.False(t, dup, "failed submissions must not block retries")
}

func TestResolveUnknownToken(t *testing.T) {
	led := openTestLedger(t)
	err := led.MarkSubmitted(context.Background(), "no-such-token")
	assert.Error(t, err)
}

func TestHistory(t *testing.T) {
	ctx := context.Background()
	led := openTestLedger(t)

	t1, err := led.Begin(ctx, "AT-1", "2024-01-01", 3600)
	require.NoError(t, err)
	require.NoError(t, led.MarkSubmitted(ctx, t1))

	t2, err := led.Begin(ctx, "AT-2", "2024-01-02", 1800)
	require.NoError(t, err)
	require.NoError(t, led.MarkFailed(ctx, t2, "boom"))

	subs, err := led.History(ctx, 10)
	require.NoError(t, err)
	require.Len(t, subs, 2)

	states := map[string]string{}
	for _, s := range subs {
		states[s.IssueKey] = s.State
		assert.False(t, s.CreatedAt.IsZero())
	}
	assert.Equal(t, StateSubmitted, states["AT-1"])
	assert.Equal(t, StateFailed, states["AT-2"])
}

func TestLedgerPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger.db")

	led, err := Open(path)
	require.NoError(t, err)
	token, err := led.Begin(ctx, "AT-7", "2024-01-01", 5400)
	require.NoError(t, err)
	require.NoError(t, led.MarkSubmitted(ctx, token))
	require.NoError(t, led.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	dup, err := reopened.AlreadySubmitted(ctx, "AT-7", "2024-01-01", 5400)
	require.NoError(t, err)
	assert.True(t, dup)
}
