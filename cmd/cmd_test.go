package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// TestRootCommand tests the root command configuration
func TestRootCommand(t *testing.T) {
	if !strings.HasPrefix(rootCmd.Use, "uart-shell") {
		t.Errorf("rootCmd.Use = %s, want uart-shell prefix", rootCmd.Use)
	}

	if rootCmd.Short == "" {
		t.Error("rootCmd.Short should not be empty")
	}

	// Check that subcommands are registered
	found := false
	for _, cmd := range rootCmd.Commands() {
		if cmd.Use == "list" {
			found = true
			break
		}
	}
	if !found {
		t.Error("Expected subcommand 'list' not found")
	}
}

// TestRootCommandArgValidation tests that the endpoint argument count is enforced
func TestRootCommandArgValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no arguments", []string{}},
		{"one argument", []string{"/dev/ttyUSB0"}},
		{"three arguments", []string{"/dev/ttyUSB0", "115200", "extra"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rootCmd.Args(rootCmd, tt.args)
			if err == nil {
				t.Errorf("args %v should be rejected", tt.args)
			}
		})
	}

	if err := rootCmd.Args(rootCmd, []string{"/dev/ttyUSB0", "115200"}); err != nil {
		t.Errorf("two arguments should be accepted, got: %v", err)
	}
}

// TestBadBaudRateFailsBeforeOpen tests that an unsupported baud token is a
// usage error and nothing is opened
func TestBadBaudRateFailsBeforeOpen(t *testing.T) {
	err := runSession(rootCmd, []string{"/dev/ttyUSB0", "12345"})
	if err == nil {
		t.Fatal("unsupported baud rate should be rejected")
	}
	if !strings.Contains(err.Error(), "unsupported baud rate") {
		t.Errorf("error = %v, want unsupported baud rate", err)
	}
}

// TestListCommandHelp tests the list command wiring
func TestListCommandHelp(t *testing.T) {
	output := &bytes.Buffer{}

	cmd := &cobra.Command{Use: "test"}
	cmd.AddCommand(listCmd)
	cmd.SetOut(output)
	cmd.SetErr(output)

	cmd.SetArgs([]string{"list", "--help"})
	if err := cmd.Execute(); err != nil {
		t.Errorf("list --help failed: %v", err)
	}

	if !strings.Contains(output.String(), "serial devices") {
		t.Errorf("list help output missing description: %q", output.String())
	}
}

// TestCommandStructure tests that all commands are properly structured
func TestCommandStructure(t *testing.T) {
	commands := []*cobra.Command{rootCmd, listCmd}

	for _, cmd := range commands {
		if cmd.Use == "" {
			t.Errorf("Command %v has empty Use field", cmd)
		}
		if cmd.Short == "" {
			t.Errorf("Command %s has empty Short description", cmd.Use)
		}
	}
}
