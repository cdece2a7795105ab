package cmd

import (
	"testing"
)

func TestRootCmd_Structure(t *testing.T) {
	if rootCmd == nil {
		t.Fatal("rootCmd should not be nil")
	}
	if rootCmd.Use != "tempo" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "tempo")
	}
}

// TestRootCmd_Flags tests that global flags are registered
func TestRootCmd_Flags(t *testing.T) {
	for _, name := range []string{"db", "json", "date"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("--%s flag should be registered", name)
		}
	}
}

// TestRootCmd_Subcommands verifies the full command surface.
func TestRootCmd_Subcommands(t *testing.T) {
	want := []string{
		"add", "list", "move", "update", "complete", "delete",
		"start", "toggle", "skip", "status", "day", "config", "mcp",
	}

	registered := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}

	for _, name := range want {
		if !registered[name] {
			t.Errorf("subcommand %q should be registered", name)
		}
	}
}

func TestAddCmd_Flags(t *testing.T) {
	flag := addCmd.Flags().Lookup("duration")
	if flag == nil {
		t.Fatal("addCmd should have --duration flag")
	}
	if flag.Shorthand != "d" {
		t.Errorf("duration flag shorthand = %q, want %q", flag.Shorthand, "d")
	}
	for _, name := range []string{"at", "index", "color", "notes"} {
		if addCmd.Flags().Lookup(name) == nil {
			t.Errorf("addCmd should have --%s flag", name)
		}
	}
}

func TestUpdateCmd_Flags(t *testing.T) {
	for _, name := range []string{"title", "duration", "at", "clear-anchor", "color", "notes"} {
		if updateCmd.Flags().Lookup(name) == nil {
			t.Errorf("updateCmd should have --%s flag", name)
		}
	}
}
