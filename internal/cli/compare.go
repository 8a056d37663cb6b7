package perfcompare

import (
	"time"

	"github.com/fatih/color"
	"github.com/mengfei25/torch-xpu-ops/internal/compare"
	"github.com/mengfei25/torch-xpu-ops/internal/report"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// flagAliases maps the legacy comparison script option names onto the
// current flags.
var flagAliases = map[string]string{
	"xpu-file":    "target",
	"cuda-file":   "baseline",
	"output-file": "output",
}

// compareCmd merges target and baseline performance CSVs into one report.
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare target and baseline inductor performance CSVs",
	Long: `Walk the target directory for performance CSVs, pair each file with the
file at the same relative path under the baseline directory, and write one
row per model with eager/inductor latencies and cross-backend ratios. The
table and the geometric means of the three ratio columns are printed to
stdout.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg == nil {
			return errors.New("configuration not loaded")
		}

		rep, err := compare.Run(compare.Options{
			Fs:               appFs,
			TargetDir:        cfg.TargetDir,
			BaselineDir:      cfg.BaselineDir,
			Pattern:          cfg.FilePattern(),
			CategoryPatterns: cfg.CategoryPatterns,
		})
		if err != nil {
			return err
		}

		stdout := cmd.OutOrStdout()
		stderr := cmd.ErrOrStderr()
		compare.Print(stdout, rep)

		if err := compare.SaveCSV(appFs, cfg.OutputFile(), rep.Rows); err != nil {
			return err
		}
		color.New(color.FgGreen).Fprintf(stderr, "Report written to %s\n", cfg.OutputFile())

		if missing := countMissingBaselines(rep); missing > 0 {
			color.New(color.FgYellow).Fprintf(stderr, "%d of %d target files had no baseline counterpart\n", missing, len(rep.Files))
		}

		if cfg.JSONOutputPath == "" && cfg.HTMLOutputPath == "" {
			return nil
		}
		doc := report.NewDocument(rep, cfg.TargetDir, cfg.BaselineDir, time.Now())
		if cfg.JSONOutputPath != "" {
			if err := report.WriteJSON(appFs, cfg.JSONOutputPath, doc); err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(stderr, "Report JSON written to %s\n", cfg.JSONOutputPath)
		}
		if cfg.HTMLOutputPath != "" {
			if err := report.WriteHTML(appFs, cfg.HTMLOutputPath, doc); err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(stderr, "Report HTML written to %s\n", cfg.HTMLOutputPath)
		}
		return nil
	},
}

func countMissingBaselines(rep compare.Report) int {
	n := 0
	for _, f := range rep.Files {
		if !f.HasBaseline {
			n++
		}
	}
	return n
}

func init() {
	flags := compareCmd.Flags()
	flags.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		if alias, ok := flagAliases[name]; ok {
			name = alias
		}
		return pflag.NormalizedName(name)
	})

	flags.StringP("target", "t", "", "directory of target backend performance CSVs (alias --xpu-file)")
	flags.StringP("baseline", "b", "", "directory of baseline backend performance CSVs (alias --cuda-file)")
	flags.StringP("output", "o", "./report.csv", "destination CSV report (alias --output-file)")
	flags.String("pattern", "*_xpu_performance.csv", "file name glob selecting target CSVs")
	flags.String("json-output", "", "optional path for a JSON export of the report")
	flags.String("html-output", "", "optional path for an HTML export of the report")

	for key, flag := range map[string]string{
		"target":     "target",
		"baseline":   "baseline",
		"output":     "output",
		"pattern":    "pattern",
		"jsonOutput": "json-output",
		"htmlOutput": "html-output",
	} {
		_ = viper.BindPFlag(key, flags.Lookup(flag))
	}

	rootCmd.AddCommand(compareCmd)
}
