package main

import (
	cmd "github.com/mengfei25/torch-xpu-ops/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// main starts the perfcompare CLI. Build metadata is injected with -ldflags.
func main() {
	cmd.SetVersionInfo(version, commit, date)
	cmd.Execute()
}
