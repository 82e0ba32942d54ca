package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/GoArmGo/WardrobeApp/internal/di"
)

func main() {
	mode := flag.String("mode", "server", "Режим запуска приложения: server или worker")
	flag.Parse()

	// bootstrap-логгер используется только до инициализации основного
	bootstrapLogger := slog.New(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
	)
	bootstrapLogger.Info("starting application", "mode", *mode)

	application, err := di.BuildApp()
	if err != nil {
		bootstrapLogger.Error("failed to build app", "error", err)
		os.Exit(1)
	}

	logger := application.LoggerIns()

	if err := application.Run(context.Background(), mode); err != nil {
		logger.Error("application run failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}
