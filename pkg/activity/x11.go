package activity

import (
	"bufio"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// titleQueryTimeout bounds the xdotool subprocess; the window manager query
// must never stall the click handler.
const titleQueryTimeout = 2 * time.Second

// XdotoolQuerier implements TitleQuerier by shelling out to xdotool.
type XdotoolQuerier struct{}

// ActiveWindowTitle returns the focused window's title via
// `xdotool getwindowfocus getwindowname`.
func (XdotoolQuerier) ActiveWindowTitle(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, titleQueryTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "xdotool", "getwindowfocus", "getwindowname").Output()
	if err != nil {
		return "", errors.Wrap(err, "xdotool query failed")
	}
	return strings.TrimSpace(string(out)), nil
}

// XinputClickSource implements ClickSource by streaming raw X input events
// from `xinput test-xi2 --root` and emitting one event per RawButtonPress.
type XinputClickSource struct{}

// Start runs the xinput subprocess until ctx is cancelled or the process
// exits. Each RawButtonPress line produces one click event; releases and
// motion events are ignored.
func (XinputClickSource) Start(ctx context.Context, clicks chan<- struct{}) error {
	cmd := exec.CommandContext(ctx, "xinput", "test-xi2", "--root")

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return errors.Wrap(err, "failed to open xinput pipe")
	}
	if err := cmd.Start(); err != nil {
		return errors.Wrap(err, "failed to start xinput (is it installed?)")
	}

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		if !strings.Contains(scanner.Text(), "RawButtonPress") {
			continue
		}
		select {
		case clicks <- struct{}{}:
		case <-ctx.Done():
			_ = cmd.Wait()
			return ctx.Err()
		default:
			// Drop the click rather than block the event stream.
		}
	}

	if err := cmd.Wait(); err != nil && ctx.Err() == nil {
		return errors.Wrap(err, "xinput event stream ended")
	}
	return ctx.Err()
}
