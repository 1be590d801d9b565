package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"qed42.com/waid/pkg/errors"
	"qed42.com/waid/pkg/secrets"
)

// secretCmd groups the OS keyring subcommands.
var secretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Manage API credentials in the OS keyring",
	Long: `Secret stores API credentials in the OS-native keyring instead of the
config file. Known keys: ` + strings.Join(knownSecretKeys, ", ") + `.`,
}

var knownSecretKeys = []string{
	secrets.KeyGeminiAPIKey,
	secrets.KeyOpenAIAPIKey,
	secrets.KeyGroqAPIKey,
	secrets.KeyJiraToken,
	secrets.KeyTempoToken,
}

var secretSetCmd = &cobra.Command{
	Use:   "set <key>",
	Short: "Store a secret (value read from stdin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(os.Stderr, "Enter value for %s: ", args[0])
		reader := bufio.NewReader(cmd.InOrStdin())
		value, err := reader.ReadString('\n')
		if err != nil && value == "" {
			return errors.Wrap(err, "failed to read secret value")
		}
		value = strings.TrimRight(value, "\r\n")
		if value == "" {
			return errors.New("empty secret value")
		}

		if err := secrets.NewStore().Set(args[0], value); err != nil {
			return err
		}
		fmt.Printf("Stored %s\n", args[0])
		return nil
	},
}

var secretDeleteCmd = &cobra.Command{
	Use:   "delete <key>",
	Short: "Remove a secret",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := secrets.NewStore().Delete(args[0]); err != nil {
			return err
		}
		fmt.Printf("Removed %s\n", args[0])
		return nil
	},
}

var secretListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show which known secrets are stored",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := secrets.NewStore()
		for _, key := range knownSecretKeys {
			state := "not set"
			if store.Exists(key) {
				state = "set"
			}
			fmt.Printf("%-18s %s\n", key, state)
		}
		return nil
	},
}

func init() {
	secretCmd.AddCommand(secretSetCmd)
	secretCmd.AddCommand(secretDeleteCmd)
	secretCmd.AddCommand(secretListCmd)
	rootCmd.AddCommand(secretCmd)
}
