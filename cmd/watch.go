package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"qed42.com/waid/pkg/activity"
	"qed42.com/waid/pkg/notify"
)

// watchCmd runs the activity watcher in the foreground.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Record window activity on every click",
	Long: `Watch runs the activity logger in the foreground: every pointer click
queries the focused window title and, when it changed, appends a timestamped
record to today's log file.

Requires xdotool and xinput (X11). Stop with Ctrl-C or "waid watch stop".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if activity.IsRunning() {
			pid, _ := activity.ReadPIDFile()
			return fmt.Errorf("watcher is already running (pid %d)", pid)
		}

		if err := activity.WritePIDFile(); err != nil {
			return err
		}
		defer func() { _ = activity.RemovePIDFile() }()

		ctx, stop := signal.NotifyContext(context.Background(),
			os.Interrupt, syscall.SIGTERM)
		defer stop()

		watcher := activity.NewWatcher(cfg.Logger.LogDir,
			activity.XdotoolQuerier{}, activity.XinputClickSource{}, verbose)

		fmt.Printf("Watching window activity, logging to %s\n", cfg.Logger.LogDir)
		notify.Send("WAID", "Activity watcher started")

		err = watcher.Run(ctx)
		notify.Send("WAID", "Activity watcher stopped")

		if err == context.Canceled {
			fmt.Println("Watcher stopped.")
			return nil
		}
		return err
	},
}

// watchStopCmd signals a running watcher to stop.
var watchStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop a running watcher",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !activity.IsRunning() {
			return fmt.Errorf("no watcher is running")
		}
		pid, err := activity.StopRunning()
		if err != nil {
			return err
		}
		fmt.Printf("Stopped watcher (pid %d)\n", pid)
		return nil
	},
}

// watchStatusCmd reports whether a watcher is running.
var watchStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show watcher status",
	RunE: func(cmd *cobra.Command, args []string) error {
		if activity.IsRunning() {
			pid, _ := activity.ReadPIDFile()
			fmt.Printf("Watcher is running (pid %d)\n", pid)
			return nil
		}
		fmt.Println("Watcher is not running")
		return nil
	},
}

func init() {
	watchCmd.AddCommand(watchStopCmd)
	watchCmd.AddCommand(watchStatusCmd)
	rootCmd.AddCommand(watchCmd)
}
