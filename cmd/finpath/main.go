package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/aliskhannn/finpath/internal/config"
	httpdelivery "github.com/aliskhannn/finpath/internal/delivery/http"
	httpH "github.com/aliskhannn/finpath/internal/delivery/http/handlers"
	"github.com/aliskhannn/finpath/internal/delivery/telegram"
	"github.com/aliskhannn/finpath/internal/logger"
	"github.com/aliskhannn/finpath/internal/observability"
	"github.com/aliskhannn/finpath/internal/service"
	"github.com/aliskhannn/finpath/internal/storage"
)

func main() {
	// A missing .env is fine, the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, lg); err != nil {
		lg.Fatal("finpath stopped with error", zap.Error(err))
	}
	lg.Info("finpath stopped")
}

func run(ctx context.Context, cfg *config.Config, lg *zap.Logger) error {
	shutdownTracing, err := observability.InitTracing(ctx, cfg.Tracing, cfg.Env, lg)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			lg.Warn("tracer shutdown failed", zap.Error(err))
		}
	}()

	contentRepo, err := loadContent(ctx, cfg, lg)
	if err != nil {
		return err
	}

	quizStore, closeStore, err := newQuizStore(ctx, cfg, lg)
	if err != nil {
		return err
	}
	defer closeStore()

	contentService := service.NewContentService(contentRepo)
	quizService := service.NewQuizService(contentRepo, quizStore, lg)
	quizService.Subscribe(service.LogTransitions(lg))

	router, err := httpdelivery.NewRouter(httpdelivery.RouterConfig{
		PageHandler:   httpH.NewPageHandler(contentService),
		QuizHandler:   httpH.NewQuizHandler(quizService, cfg.Session.TTL, cfg.IsProduction(), lg),
		HealthHandler: httpH.NewHealthHandler(),
		Logger:        lg,
		Tracing:       cfg.Tracing.Enabled,
		ServiceName:   observability.ServiceName,
	})
	if err != nil {
		return err
	}

	srv := httpdelivery.NewServer(cfg.HTTP, router, lg)
	runners := []func(context.Context) error{srv.Run}

	if cfg.TelegramAPIToken != "" {
		handler, err := newTelegramHandler(cfg, lg, contentService, quizService)
		if err != nil {
			return err
		}
		runners = append(runners, handler.Run)
	} else {
		lg.Info("telegram bot disabled, TELEGRAM_API_TOKEN is empty")
	}

	return serve(ctx, runners...)
}

func newTelegramHandler(
	cfg *config.Config,
	lg *zap.Logger,
	contentService *service.ContentService,
	quizService *service.QuizService,
) (*telegram.Handler, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	bot.Debug = !cfg.IsProduction()

	// Set commands.
	commands := []tgbotapi.BotCommand{
		{
			Command:     "start",
			Description: "Start the bot",
		},
		{
			Command:     "lessons",
			Description: "Browse the lessons",
		},
		{
			Command:     "quiz",
			Description: "Test your knowledge",
		},
		{
			Command:     "help",
			Description: "Help",
		},
	}
	if _, err := bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	lg.Info("telegram bot authorized", zap.String("username", bot.Self.UserName))

	return telegram.NewHandler(bot, lg, contentService, quizService, storage.NewChatQuizStorage()), nil
}
