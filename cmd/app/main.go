package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"invite_contest_bot/internal/api"
	"invite_contest_bot/internal/bot"
	"invite_contest_bot/internal/middleware"
	"invite_contest_bot/internal/repository"
	"invite_contest_bot/internal/service"
	"invite_contest_bot/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	err = logger.Initialize(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zapLogger := logger.Logger()

	repo, err := repository.New(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to initialize repository", zap.Error(err))
	}
	defer repo.Close()

	tgAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		zapLogger.Fatal("Failed to initialize telegram api", zap.Error(err))
	}
	tgAPI.Debug = cfg.Telegram.Debug

	notifier := bot.NewNotifier(tgAPI)

	userService := service.NewUserService(repo)
	referralService := service.NewReferralService(repo)
	broadcastService := service.NewBroadcastService(repo, notifier, cfg.Broadcast.BatchSize, cfg.Broadcast.BatchPause)
	svc := service.NewService(userService, referralService, broadcastService)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	contestBot := bot.New(tgAPI, svc, notifier, cfg.Telegram.GroupID)
	go func() {
		if err := contestBot.Run(ctx); err != nil && ctx.Err() == nil {
			zapLogger.Error("bot stopped", zap.Error(err))
		}
	}()

	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{
		http.MethodHead,
		http.MethodGet,
		http.MethodPost,
	}
	corsConfig.AllowHeaders = []string{"*"}
	corsConfig.MaxAge = 12 * time.Hour

	router.Use(cors.New(corsConfig))

	a := router.Group("/api/v1")
	api.NewBroadcastRoutes(a, svc, middleware.AdminToken(cfg.AdminToken))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	zapLogger.Info("Starting server", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		zapLogger.Fatal("Failed to start server", zap.Error(err))
	}
}
