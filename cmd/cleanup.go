package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"qed42.com/waid/pkg/activity"
)

var cleanupDays int

// cleanupCmd deletes old activity log files.
var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete old activity logs",
	Long: `Cleanup removes dated activity log files older than the retention
window. --days 0 removes all logs; when --days is not given the configured
retention_days applies.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		days := cfg.Logger.RetentionDays
		if cmd.Flags().Changed("days") {
			if cleanupDays < 0 {
				return fmt.Errorf("--days must be non-negative, got %d", cleanupDays)
			}
			days = cleanupDays
		}

		removed, err := activity.CleanupLogs(cfg.Logger.LogDir, days)
		if err != nil {
			return err
		}

		fmt.Printf("Removed %d log file(s) from %s\n", removed, cfg.Logger.LogDir)
		return nil
	},
}

func init() {
	cleanupCmd.Flags().IntVar(&cleanupDays, "days", 0, "delete logs older than this many days (0 = all)")
	rootCmd.AddCommand(cleanupCmd)
}
