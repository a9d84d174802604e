// Package main provides the entry point for the liftoff CLI.
package main

import (
	"context"
	"os"

	"github.com/mrz1836/liftoff/internal/cli"
	"github.com/mrz1836/liftoff/internal/signal"
)

// Set via ldflags at build time.
//
//nolint:gochecknoglobals // ldflags targets
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	handler := signal.NewHandler(context.Background())
	err := cli.Execute(handler.Context(), cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})
	handler.Stop()
	os.Exit(cli.ExitCodeForError(err))
}
