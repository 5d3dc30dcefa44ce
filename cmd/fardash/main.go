package main

import (
	"context"
	"log/slog"
	"os"

	"fardash/internal/app"
)

func main() {
	application, err := app.NewApplication()
	if err != nil {
		slog.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := application.Run(context.Background()); err != nil {
		slog.Error("Application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
