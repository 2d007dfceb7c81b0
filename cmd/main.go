package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/mdnxzzzz/vaultmusic/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	_ = godotenv.Load()

	logger := shared.NewLogger(nil)

	runner := NewRunner(RunnerOpts{Logger: logger})

	app := &cli.Command{
		Name:     "vaultmusic",
		Usage:    "State-sync backend for the VaultMusic mini app",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
