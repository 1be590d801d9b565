package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"qed42.com/waid/pkg/activity"
	"qed42.com/waid/pkg/ai"
	"qed42.com/waid/pkg/errors"
	"qed42.com/waid/pkg/secrets"
	"qed42.com/waid/pkg/summarize"
)

var (
	summarizeDate     string
	summarizeTemplate bool
)

// summarizeCmd derives and prints a ticket-ready summary of one day's log.
var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Summarize a day's activity log into ticket text",
	Long: `Summarize reads the dated activity log, derives the session interval
from the first and last records, and prints a Jira-ready description.

The description is AI-generated using the configured provider unless
--template is given (or no provider is configured), in which case a plain
templated summary of the windows touched is printed instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		date := time.Now()
		if summarizeDate != "" {
			date, err = time.ParseInLocation("2006-01-02", summarizeDate, time.Local)
			if err != nil {
				return errors.Wrapf(err, "invalid --date %q, expected YYYY-MM-DD", summarizeDate)
			}
		}
		path := activity.LogFilePath(cfg.Logger.LogDir, date)

		var provider ai.Provider
		if !summarizeTemplate && cfg.AI.Enabled {
			provider, err = ai.NewProvider(&cfg.AI, secrets.NewStore(), verbose)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: AI unavailable, using template: %v\n", err)
				provider = nil
			}
		}

		summarizer := summarize.New(provider, cfg.AI.Prompt, verbose)
		summary, err := summarizer.Summarize(cmd.Context(), path)
		if err != nil {
			if errors.Is(err, summarize.ErrTooFewRecords) {
				fmt.Printf("Not enough activity in %s to summarize.\n", path)
				return nil
			}
			if errors.Is(err, summarize.ErrDurationTooShort) {
				fmt.Println("Session was under a minute; nothing to summarize.")
				return nil
			}
			return err
		}

		fmt.Printf("Title: %s\n", summary.Summary)
		fmt.Printf("Date: %s\n", date.Format("02/Jan/06"))
		fmt.Printf("Duration: %.2f\n", float64(summary.DurationMinutes)/60)
		fmt.Printf("Start time: %s\n", summary.StartTime.Format("15:04:05"))
		fmt.Printf("GenAI Efficiency: %.2f\n", summary.GenAIEfficiency)
		fmt.Printf("GenAI use case description: summarized %d distinct windows\n", len(summary.Tasks))
		fmt.Printf("Description: %s\n", summary.Description)
		return nil
	},
}

func init() {
	summarizeCmd.Flags().StringVar(&summarizeDate, "date", "", "log date to summarize (YYYY-MM-DD, default today)")
	summarizeCmd.Flags().BoolVar(&summarizeTemplate, "template", false, "use the literal template instead of AI generation")
	rootCmd.AddCommand(summarizeCmd)
}
