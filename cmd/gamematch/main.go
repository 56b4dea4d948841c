// Package main provides the entry point for the gamematch CLI.
package main

import (
	"context"
	"os"
	"time"

	"github.com/guarzo/gamematch/cmd/gamematch/app"
)

// Version information populated at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	application := app.New(version, commit, date)

	ctx, cancel := app.ContextWithSignals(context.Background())
	defer cancel()

	err := application.Execute(ctx, os.Args[1:])

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if shutdownErr := application.Shutdown(shutdownCtx); shutdownErr != nil {
		application.Logger().Error().Err(shutdownErr).Msg("shutdown error")
	}

	app.ExitOnError(err)
}
