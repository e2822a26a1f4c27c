package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/go-notes-nosql/internal/cli"
	"github.com/go-notes-nosql/internal/config"
	"github.com/go-notes-nosql/internal/pkg/logging"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	slog.SetDefault(logging.New(os.Stderr, cfg.LogLevel))

	if err := cli.NewRootCmd(cfg).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "notesctl:", err)
		os.Exit(1)
	}
}
