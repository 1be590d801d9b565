package cmd

import (
	"testing"
)

func TestCommandRegistration(t *testing.T) {
	want := []string{"watch", "summarize", "worklog", "tickets", "cleanup", "history", "secret", "settings"}

	registered := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}

	for _, name := range want {
		if !registered[name] {
			t.Errorf("command %q is not registered", name)
		}
	}
}

func TestWatchSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range watchCmd.Commands() {
		names[c.Name()] = true
	}
	if !names["stop"] || !names["status"] {
		t.Errorf("watch should have stop and status subcommands, got %v", names)
	}
}

func TestGlobalFlags(t *testing.T) {
	if rootCmd.PersistentFlags().Lookup("config") == nil {
		t.Error("missing --config flag")
	}
	if rootCmd.PersistentFlags().Lookup("verbose") == nil {
		t.Error("missing --verbose flag")
	}
}

func TestWorklogRequiresIssueKey(t *testing.T) {
	if err := worklogCmd.Args(worklogCmd, []string{}); err == nil {
		t.Error("worklog should require an issue key argument")
	}
	if err := worklogCmd.Args(worklogCmd, []string{"AT-1"}); err != nil {
		t.Errorf("worklog with one arg should be accepted: %v", err)
	}
}
