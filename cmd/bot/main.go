package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/PoluyanbIch/MathQuizBot/internal/config"
	"github.com/PoluyanbIch/MathQuizBot/internal/logger"
	"github.com/PoluyanbIch/MathQuizBot/internal/service"
	"github.com/PoluyanbIch/MathQuizBot/internal/telegram"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logg, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logg.Sync()

	// Результаты живут только в памяти
	leaderboardService := service.NewMemoryLeaderboardService()

	bot, err := telegram.NewBot(cfg, leaderboardService, logg)
	if err != nil {
		logg.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logg.Info("🤖 Bot is starting...")
	if err := bot.Run(ctx); err != nil {
		logg.Error("bot stopped", "error", err)
		os.Exit(1)
	}
}
