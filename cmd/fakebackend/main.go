package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"SettleKaro/config"
	"SettleKaro/internal/fakebackend"
	"SettleKaro/pkg/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.NewFakeBackendConfig()
	if err != nil {
		log.Fatalf("Config error: %s", err)
	}
	l := logger.Setup(logger.Options{Level: cfg.LogLevel})
	gin.SetMode(gin.ReleaseMode)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := fakebackend.Run(ctx, cfg, l); err != nil {
		l.Error("fake backend stopped", "error", err)
		os.Exit(1)
	}
}
