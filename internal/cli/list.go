package perfcompare

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// listCmd groups listing subcommands.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Group commands for listing resources",
}

// commandsCmd implements 'list commands', which prints the available
// commands and subcommands in a hierarchical, indented, two-column format.
var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List all commands and subcommands in two columns",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runListCommands(cmd.OutOrStdout(), rootCmd)
	},
}

func init() {
	listCmd.AddCommand(commandsCmd)
	rootCmd.AddCommand(listCmd)
}

// commandInfo holds the path and description of a command for display.
type commandInfo struct {
	path        string
	description string
}

func runListCommands(out io.Writer, root *cobra.Command) {
	entries := collectCommands(root, "", "")

	width := 0
	for _, e := range entries {
		width = max(width, len(e.path))
	}

	fmt.Fprintln(out, "Commands and Subcommands:")
	for _, e := range entries {
		if strings.Contains(e.path, "completion") || strings.Contains(e.path, "help") {
			continue
		}
		fmt.Fprintf(out, "  %-*s  %s\n", width, e.path, e.description)
	}
}

// collectCommands flattens the command tree depth-first.
func collectCommands(cmd *cobra.Command, parent, indent string) []commandInfo {
	path := cmd.Name()
	if parent != "" {
		path = parent + " " + cmd.Name()
	}
	out := []commandInfo{{path: indent + path, description: cmd.Short}}
	for _, sub := range cmd.Commands() {
		out = append(out, collectCommands(sub, path, indent+"  ")...)
	}
	return out
}
