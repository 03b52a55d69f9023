package main

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/mcoot/memgame-go/internal/cli"
)

func main() {
	// An optional .env file supplies MEMGAME_* defaults
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.New(slog.NewJSONHandler(os.Stderr, nil)).Warn("could not read .env file", slog.String("error", err.Error()))
	}

	cli.Execute()
}
