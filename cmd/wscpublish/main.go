// Package main is the entry point for the wscpublish CLI.
package main

import (
	"errors"
	"os"

	"github.com/WarpspeedSCP/wscpublish/internal/cli"
	"github.com/WarpspeedSCP/wscpublish/internal/logging"
)

// Build-time variables set via ldflags.
//
//nolint:gochecknoglobals // Version variables must be package-level for ldflags injection
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	info := cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	rootCmd := cli.NewRootCommand(info)

	if err := rootCmd.Execute(); err != nil {
		// Compile failures already printed their diagnostics.
		if errors.Is(err, cli.ErrCompileFailed) {
			return cli.ExitCompileErrors
		}
		logger := logging.Default()
		logger.Error("command failed", logging.FieldError, err)
		return cli.ExitInternalError
	}

	return cli.ExitSuccess
}
