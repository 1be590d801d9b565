package activity

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"
)

// TitleQuerier looks up the title of the currently focused window.
// The query goes to the window manager and may fail or time out.
type TitleQuerier interface {
	ActiveWindowTitle(ctx context.Context) (string, error)
}

// ClickSource emits one event per pointer button press. Start blocks until
// ctx is cancelled or the underlying source fails; it sends on the channel
// for every press it observes.
type ClickSource interface {
	Start(ctx context.Context, clicks chan<- struct{}) error
}

// Watcher turns click events into activity records. It keeps only one piece
// of state, the last seen window title, which is not persisted: the first
// click after a restart always records.
type Watcher struct {
	dir     string
	titles  TitleQuerier
	clicks  ClickSource
	logger  *slog.Logger
	verbose bool

	lastTitle string
}

// NewWatcher creates a watcher that appends records to dated log files in dir.
func NewWatcher(dir string, titles TitleQuerier, clicks ClickSource, verbose bool) *Watcher {
	var logger *slog.Logger
	if verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return &Watcher{
		dir:     dir,
		titles:  titles,
		clicks:  clicks,
		logger:  logger,
		verbose: verbose,
	}
}

// Run consumes click events until ctx is cancelled. Click-handling errors
// are reported and swallowed; the watcher only stops when the click source
// itself stops.
func (w *Watcher) Run(ctx context.Context) error {
	clicks := make(chan struct{}, 16)

	errCh := make(chan error, 1)
	go func() {
		errCh <- w.clicks.Start(ctx, clicks)
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errCh:
			return err
		case <-clicks:
			if err := w.OnClick(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "waid: %v\n", err)
			}
		}
	}
}

// OnClick handles a single pointer press: query the focused window title and
// append a record when it changed. A failed title query is a warning and
// counts as "no change".
func (w *Watcher) OnClick(ctx context.Context) error {
	title, err := w.titles.ActiveWindowTitle(ctx)
	if err != nil {
		w.logDebug("window title query failed", "error", err)
		fmt.Fprintf(os.Stderr, "Warning: could not query focused window: %v\n", err)
		return nil
	}

	if title == "" || title == w.lastTitle {
		return nil
	}

	rec := Record{Timestamp: time.Now(), WindowTitle: title}
	if err := AppendRecord(w.dir, rec); err != nil {
		return err
	}

	w.lastTitle = title
	w.logDebug("recorded window change", "title", title)
	return nil
}

// LastTitle returns the most recently recorded window title.
func (w *Watcher) LastTitle() string {
	return w.lastTitle
}

// logDebug logs a debug message if verbose logging is enabled.
func (w *Watcher) logDebug(msg string, args ...any) {
	if w.logger != nil {
		w.logger.Debug(msg, args...)
	}
}
