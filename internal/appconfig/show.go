package appconfig

import (
	"fmt"
	"io"

	"github.com/k0kubun/pp"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, file string, cfg Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Target Dir:        %s\n", cfg.TargetDir)
	fmt.Fprintf(out, "  Baseline Dir:      %s\n", cfg.BaselineDir)
	fmt.Fprintf(out, "  Output:            %s\n", cfg.OutputFile())
	fmt.Fprintf(out, "  Pattern:           %s\n", cfg.FilePattern())
	if cfg.JSONOutputPath != "" {
		fmt.Fprintf(out, "  JSON Output:       %s\n", cfg.JSONOutputPath)
	}
	if cfg.HTMLOutputPath != "" {
		fmt.Fprintf(out, "  HTML Output:       %s\n", cfg.HTMLOutputPath)
	}
	if len(cfg.CategoryPatterns) > 0 {
		fmt.Fprintf(out, "  Category Patterns: %v\n", cfg.CategoryPatterns)
	}
	fmt.Fprintf(out, "  Debug:             %v\n", cfg.Debug)
	fmt.Fprintf(out, "  Log File:          %s\n", logFileLabel(cfg))
	fmt.Fprintf(out, "  Microbench:        iterations=%d warmup=%d maxElements=%d\n",
		cfg.Microbench.Iterations, cfg.Microbench.Warmup, cfg.Microbench.MaxElements)
}

func logFileLabel(cfg Config) string {
	if p := cfg.LogFilePath(); p != "" {
		return p
	}
	return "(stderr only)"
}

// Dump pretty-prints the whole struct.
func Dump(out io.Writer, cfg Config) error {
	_, err := pp.Fprintln(out, cfg)
	return err
}
