package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/m04kA/SMC-KnollBot/internal/api/handlers/health"
	statushandler "github.com/m04kA/SMC-KnollBot/internal/api/handlers/status"
	"github.com/m04kA/SMC-KnollBot/internal/api/handlers/telegram_webhook"
	"github.com/m04kA/SMC-KnollBot/internal/api/handlers/webhook_status"
	"github.com/m04kA/SMC-KnollBot/internal/config"
	"github.com/m04kA/SMC-KnollBot/internal/service/status"
	"github.com/m04kA/SMC-KnollBot/internal/service/telegram"
	"github.com/m04kA/SMC-KnollBot/internal/usecase/ask_question"
	"github.com/m04kA/SMC-KnollBot/internal/usecase/route_update"
	"github.com/m04kA/SMC-KnollBot/internal/usecase/start_message"
	"github.com/m04kA/SMC-KnollBot/internal/worker"
	"github.com/m04kA/SMC-KnollBot/pkg/logger"
	"github.com/m04kA/SMC-KnollBot/pkg/metrics"
)

func runServe(parent context.Context, configPath string) error {
	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.RequireTelegram(); err != nil {
		return err
	}

	// Инициализируем logger
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Close()

	log.Info("Starting Knoll bot...")

	// Инициализируем метрики; nil *Metrics безопасно принимает вызовы
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	st := status.New()

	// Контекст процесса: отменяется по SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Инициализируем агента
	knoll, err := buildAgent(ctx, cfg, log, metricsCollector)
	if err != nil {
		return fmt.Errorf("failed to initialize agent: %w", err)
	}

	// Инициализируем лимитер вопросов
	rl, err := buildLimiter(ctx, cfg.RateLimit, log)
	if err != nil {
		return fmt.Errorf("failed to initialize rate limiter: %w", err)
	}
	defer func() {
		if err := rl.close(); err != nil {
			log.Warn("Failed to close rate limiter: %v", err)
		}
	}()

	// Инициализируем Telegram Bot API
	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		return fmt.Errorf("failed to initialize Telegram Bot API: %w", err)
	}
	st.SetTelegramReady(true)
	log.Info("Telegram Bot API initialized (@%s)", bot.Self.UserName)

	// Инициализируем Telegram Service
	telegramSvc := telegram.NewService(bot, telegram.Options{
		MessagesPerSecond: cfg.Telegram.MessagesPerSecond,
		PollingTimeout:    seconds(cfg.Telegram.PollingTimeout),
		Recorder:          metricsCollector,
	})
	log.Info("Telegram service initialized")

	// Инициализируем use cases
	askQuestionUC := ask_question.New(ask_question.Config{
		AgentTimeout:  seconds(cfg.Agent.Timeout),
		MessageLimit:  cfg.Reply.MessageLimit,
		ResponseDelay: time.Duration(cfg.Reply.ResponseDelayMs) * time.Millisecond,
		ChunkDelay:    time.Duration(cfg.Reply.ChunkDelayMs) * time.Millisecond,
		PlainText:     cfg.Reply.PlainText,
	}, knoll, rl, telegramSvc, st, metricsCollector, log)
	startMessageUC := start_message.New(telegramSvc)
	routeUpdateUC := route_update.New(askQuestionUC, startMessageUC, log)
	log.Info("Use cases initialized")

	// Определяем режим работы: Webhook или Long Polling
	var webhookProbe worker.WebhookInfoProvider
	pollCtx, cancelPolling := context.WithCancel(ctx)
	defer cancelPolling()

	if endpoint := cfg.Telegram.WebhookEndpoint(); endpoint != "" {
		// Режим Webhook
		st.SetMode(status.ModeWebhook)
		log.Info("Using Webhook mode")

		err := setWebhookWithRetry(ctx, telegramSvc, endpoint,
			cfg.Telegram.WebhookAttempts, seconds(cfg.Telegram.WebhookRetryDelay), log)
		if err != nil {
			log.Warn("Webhook is not set, updates will not arrive until it is fixed: %v", err)
		}
		webhookProbe = telegramSvc
	} else {
		// Режим Long Polling
		st.SetMode(status.ModePolling)
		log.Info("Using Long Polling mode")

		if err := telegramSvc.DeleteWebhook(); err != nil {
			log.Warn("Failed to delete webhook (may not exist): %v", err)
		}

		pollingHandler := worker.NewPollingHandler(routeUpdateUC, log.With("component", "polling"))
		updatesChan := telegramSvc.GetUpdatesChan(0)
		go pollingHandler.Start(pollCtx, updatesChan)
		log.Info("Telegram long polling started")
	}

	// Фоновые задачи обслуживания
	scheduler := worker.NewScheduler(worker.SchedulerConfig{
		EvictInterval: seconds(cfg.Maintenance.EvictInterval),
		EvictIdle:     seconds(cfg.Maintenance.EvictIdle),
		ProbeInterval: seconds(cfg.Maintenance.WebhookProbeInterval),
	}, rl.evicter, webhookProbe, metricsCollector, log.With("component", "scheduler"))
	if err := scheduler.Register(); err != nil {
		return fmt.Errorf("failed to register maintenance jobs: %w", err)
	}
	scheduler.Start()
	log.Info("Maintenance scheduler started (%d jobs)", scheduler.Jobs())

	// Настраиваем роутер
	r := newRouter(cfg, metricsCollector, routes{
		status:        statushandler.NewHandler(st),
		health:        health.NewHandler(st),
		webhookStatus: webhook_status.NewHandler(telegramSvc, log),
		webhook:       telegram_webhook.NewHandler(routeUpdateUC, st, log),
	}, log)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  seconds(cfg.Server.ReadTimeout),
		WriteTimeout: seconds(cfg.Server.WriteTimeout),
		IdleTimeout:  seconds(cfg.Server.IdleTimeout),
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Ожидаем сигнал завершения или падение сервера
	var runErr error
	select {
	case <-ctx.Done():
	case err, ok := <-serverErr:
		if ok {
			runErr = fmt.Errorf("server failed: %w", err)
		}
	}

	log.Info("Shutting down...")
	st.BeginShutdown()

	// Останавливаем приём обновлений ПЕРЕД сервером
	if st.Mode() == status.ModePolling {
		telegramSvc.StopReceivingUpdates()
		cancelPolling()
	}
	scheduler.Stop()
	log.Info("Maintenance scheduler stopped")

	if st.Mode() == status.ModeWebhook {
		if err := telegramSvc.DeleteWebhook(); err != nil {
			log.Warn("Failed to delete webhook: %v", err)
		} else {
			log.Info("Telegram webhook deleted")
		}
	}

	// Graceful shutdown HTTP сервера
	shutdownCtx, cancel := context.WithTimeout(context.Background(), seconds(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
	return runErr
}
