package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
	"sessions-to-notion/app"
)

func main() {
	if err := godotenv.Load(".env.local"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatal(err)
	}
	var config app.Config
	if err := envconfig.Process("", &config); err != nil {
		log.Fatal(err)
	}
	if !run(&config) {
		os.Exit(1)
	}
}

func run(config *app.Config) bool {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	logger, cleanupLogger, err := app.InitLogger(config)
	if err != nil {
		log.Panic(err)
	}
	defer cleanupLogger()
	logger.Info("initializing", zap.String("sessions_base_url", config.SessionsSettings.BaseURL))
	a, cleanupApp, err := app.InitApp(ctx, logger, config)
	if err != nil {
		logger.Error("failed to initialize", zap.Error(err))
		return false
	}
	defer cleanupApp()
	if _, err := a.Run(ctx); err != nil {
		logger.Error("failed to run", zap.Error(err))
		return false
	}
	return true
}
