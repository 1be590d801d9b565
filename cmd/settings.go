package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"qed42.com/waid/pkg/config"
)

// settingsCmd groups the mutable key/value settings subcommands.
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Read and write persistent settings",
	Long: `Settings manages the flat key/value settings file shared with the
tray shell (~/.config/waid/settings.json). Unlike the main config file these
values are written by waid itself and survive restarts.`,
}

var settingsGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a setting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openSettings()
		if err != nil {
			return err
		}
		v, err := store.Get(args[0])
		if err != nil {
			return err
		}
		if v == nil {
			fmt.Printf("%s is not set\n", args[0])
			return nil
		}
		fmt.Println(v)
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Store a setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openSettings()
		if err != nil {
			return err
		}
		if err := store.Set(args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("Set %s\n", args[0])
		return nil
	},
}

var settingsUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Remove a setting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openSettings()
		if err != nil {
			return err
		}
		if err := store.Delete(args[0]); err != nil {
			return err
		}
		fmt.Printf("Removed %s\n", args[0])
		return nil
	},
}

func openSettings() (*config.Store, error) {
	path, err := config.DefaultStorePath()
	if err != nil {
		return nil, err
	}
	return config.NewStore(path), nil
}

func init() {
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsUnsetCmd)
	rootCmd.AddCommand(settingsCmd)
}
