package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"qed42.com/waid/pkg/config"
	"qed42.com/waid/pkg/jira"
	"qed42.com/waid/pkg/keka"
	"qed42.com/waid/pkg/ledger"
	"qed42.com/waid/pkg/notify"
)

var (
	worklogFile   string
	worklogDryRun bool
)

// worklogCmd files the structured worklog as a Jira comment and Tempo worklog.
var worklogCmd = &cobra.Command{
	Use:   "worklog <ISSUE-KEY>",
	Short: "File the structured worklog against a Jira ticket",
	Long: `Worklog parses the structured summary file, posts its content as a
comment on the given ticket, and files a Tempo worklog with the parsed
duration, start time, and GenAI attributes.

The parse is all-or-nothing: a missing or malformed field aborts before
anything is sent. A ledger of past submissions prevents filing the same
worklog twice, even across retried runs.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		issueKey := args[0]
		ctx := cmd.Context()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		logPath := worklogFile
		if logPath == "" {
			logPath = cfg.Logger.SummaryFile
		}

		entry, err := jira.NewParser().ParseFile(logPath)
		if err != nil {
			return err
		}

		if cfg.Keka.Enabled {
			warnNonWorkingDay(cmd, &cfg.Keka, entry.StartDate)
		}

		if worklogDryRun {
			fmt.Printf("Would comment on %s:\n  h3. %s\n\n%s\n\n", issueKey, entry.Title, entry.Description)
			fmt.Printf("Would log %d seconds on %s starting %s %s (efficiency %.2f)\n",
				entry.DurationSeconds, issueKey, entry.StartDate, entry.StartTime, entry.GenAIEfficiency)
			return nil
		}

		client, err := jira.NewClient(&cfg.Jira, verbose)
		if err != nil {
			return err
		}

		issueID, err := client.GetIssueID(ctx, issueKey)
		if err != nil {
			return err
		}
		me, err := client.Myself(ctx)
		if err != nil {
			return err
		}

		if err := client.AddComment(ctx, issueKey, entry.Title, entry.Description); err != nil {
			return err
		}
		fmt.Printf("Comment added to %s\n", issueKey)

		led, err := ledger.Open(cfg.Ledger.DatabasePath)
		if err != nil {
			return err
		}
		defer led.Close()

		dup, err := led.AlreadySubmitted(ctx, issueKey, entry.StartDate, entry.DurationSeconds)
		if err != nil {
			return err
		}
		if dup {
			fmt.Printf("Worklog for %s on %s (%ds) was already filed; skipping Tempo submission.\n",
				issueKey, entry.StartDate, entry.DurationSeconds)
			return nil
		}

		token, err := led.Begin(ctx, issueKey, entry.StartDate, entry.DurationSeconds)
		if err != nil {
			return err
		}

		tempo, err := jira.NewTempoClient(&cfg.Tempo, verbose)
		if err != nil {
			return err
		}

		wl := &jira.WorklogRequest{
			IssueID:          issueID,
			IssueKey:         issueKey,
			TimeSpentSeconds: entry.DurationSeconds,
			StartDate:        entry.StartDate,
			StartTime:        entry.StartTime,
			Description:      entry.Summary,
			AuthorAccountID:  me.AccountID,
			GenAIEfficiency:  entry.GenAIEfficiency,
			GenAIUseCaseDesc: entry.GenAIUseCaseDescription,
		}

		if err := tempo.LogWork(ctx, wl); err != nil {
			_ = led.MarkFailed(ctx, token, err.Error())
			return err
		}
		if err := led.MarkSubmitted(ctx, token); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: worklog filed but ledger update failed: %v\n", err)
		}

		fmt.Printf("Logged %d seconds to %s on %s\n", entry.DurationSeconds, issueKey, entry.StartDate)
		notify.Send("WAID", fmt.Sprintf("Worklog filed on %s", issueKey))
		return nil
	},
}

// warnNonWorkingDay prints a warning when the worklog date falls on a
// company holiday or approved leave. Keka failures never block filing.
func warnNonWorkingDay(cmd *cobra.Command, cfg *config.KekaConfig, date string) {
	client, err := keka.NewClient(cmd.Context(), cfg, verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Keka check skipped: %v\n", err)
		return
	}
	warning, err := client.CheckDate(cmd.Context(), date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Keka check failed: %v\n", err)
		return
	}
	if warning != "" {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", warning)
	}
}

func init() {
	worklogCmd.Flags().StringVar(&worklogFile, "log", "", "structured worklog file (default is the configured summary file)")
	worklogCmd.Flags().BoolVar(&worklogDryRun, "dry-run", false, "parse and print what would be filed without sending anything")
	rootCmd.AddCommand(worklogCmd)
}
