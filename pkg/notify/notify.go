// Package notify sends best-effort desktop notifications through
// notify-send. Missing binary or a failed send is silently ignored; the
// notification is a convenience, never part of the contract.
package notify

import (
	"context"
	"os/exec"
	"time"
)

const sendTimeout = 5 * time.Second

// Send shows a desktop notification. It is a no-op when notify-send is not
// installed and never returns an error to the caller's flow.
func Send(summary, body string) {
	path, err := exec.LookPath("notify-send")
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	// Errors are deliberately dropped.
	_ = exec.CommandContext(ctx, path, "--app-name=waid", summary, body).Run()
}
