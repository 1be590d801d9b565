package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"qed42.com/waid/pkg/jira"
)

var ticketsStatus string

// ticketsCmd lists the current user's tickets in the configured project.
var ticketsCmd = &cobra.Command{
	Use:   "tickets",
	Short: "List my Jira tickets",
	Long: `Tickets lists issues in the configured project that are assigned to
you, newest first, optionally filtered by status name.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		client, err := jira.NewClient(&cfg.Jira, verbose)
		if err != nil {
			return err
		}

		tickets, err := client.SearchTickets(cmd.Context(), ticketsStatus)
		if err != nil {
			return err
		}

		if len(tickets) == 0 {
			fmt.Println("No tickets found.")
			return nil
		}

		for _, t := range tickets {
			fmt.Printf("%-12s %-16s %s\n", t.Key, t.Status, t.Summary)
		}
		return nil
	},
}

func init() {
	ticketsCmd.Flags().StringVar(&ticketsStatus, "status", "", "filter by status name (e.g. \"In Progress\")")
	rootCmd.AddCommand(ticketsCmd)
}
