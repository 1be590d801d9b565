package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"qed42.com/waid/pkg/ledger"
)

var historyLimit int

// historyCmd lists recent worklog submission attempts from the ledger.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent worklog submissions",
	Long: `History lists the most recent worklog submission attempts recorded in
the local ledger, including pending and failed ones.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		led, err := ledger.Open(cfg.Ledger.DatabasePath)
		if err != nil {
			return err
		}
		defer led.Close()

		subs, err := led.History(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}

		if len(subs) == 0 {
			fmt.Println("No worklog submissions recorded.")
			return nil
		}

		for _, s := range subs {
			line := fmt.Sprintf("%s  %-12s %s  %5ds  %s",
				s.CreatedAt.Local().Format("2006-01-02 15:04"),
				s.IssueKey, s.StartDate, s.Seconds, s.State)
			if s.State == ledger.StateFailed && s.Detail != "" {
				line += "  (" + s.Detail + ")"
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of entries to show")
	rootCmd.AddCommand(historyCmd)
}
