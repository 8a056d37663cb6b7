package perfcompare

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// resetFlags restores every flag of the command tree to its default.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// executeCommand runs the root command against a fresh memory filesystem.
func executeCommand(t *testing.T, fs afero.Fs, args ...string) (string, string, error) {
	t.Helper()

	prevFs := appFs
	appFs = fs
	t.Cleanup(func() {
		appFs = prevFs
		resetFlags(rootCmd)
		viper.SetConfigType("json")
		_ = viper.ReadConfig(strings.NewReader("{}"))
		currentConfig = nil
	})

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	_, err := rootCmd.ExecuteC()
	return stdout.String(), stderr.String(), err
}

// TestRootCmd verifies running the root command with an invalid subcommand reports an error.
func TestRootCmd(t *testing.T) {
	_, stderr, err := executeCommand(t, afero.NewMemMapFs(), "nonexistent")
	if err == nil {
		t.Error("Expected an error for a nonexistent command, but got none")
	}

	expected := "unknown command \"nonexistent\" for \"perfcompare\""
	if !strings.Contains(stderr, expected) {
		t.Errorf("Expected output to contain '%s', but got '%s'", expected, stderr)
	}
}

func TestListCommands(t *testing.T) {
	stdout, _, err := executeCommand(t, afero.NewMemMapFs(), "list", "commands")
	if err != nil {
		t.Fatalf("list commands: %v", err)
	}
	for _, want := range []string{"perfcompare compare", "perfcompare microbench roll", "perfcompare show config"} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("expected %q in output:\n%s", want, stdout)
		}
	}
	if strings.Contains(stdout, "completion") {
		t.Fatalf("completion command should be hidden:\n%s", stdout)
	}
}
