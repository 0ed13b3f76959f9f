package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"lingvotest-bot/internal/app"
	"lingvotest-bot/internal/infra/config"
	"lingvotest-bot/internal/infra/logging"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}
	logging.Setup(cfg.Logging.File, cfg.Logging.MaxSizeMB, cfg.Logging.MaxBackups, cfg.Logging.MaxAgeDays)

	application, err := app.NewApp(configPath)
	if err != nil {
		log.Fatalf("Не удалось инициализировать приложение: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Println("bot starting")
	if err := application.ListenAndServe(ctx); err != nil {
		log.Fatalf("Бот завершился с ошибкой: %v", err)
	}
}
