package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"tournaments/config"
	"tournaments/db"
	"tournaments/handlers"
	"tournaments/messaging"
	"tournaments/metrics"
	"tournaments/models"
	"tournaments/repositories"
	api "tournaments/routes"
	"tournaments/services"
)

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	// Продюсер Kafka
	kafkaPublisher, err := messaging.NewKafkaPublisher(messaging.KafkaPublisherConfig{
		Brokers: cfg.KafkaBrokers,
		Topic:   cfg.KafkaTopic,
	}, logger)
	if err != nil {
		logger.Error("failed to initialize kafka publisher", slog.Any("error", err))
		os.Exit(1)
	}
	defer kafkaPublisher.Close()
	logger.Info("kafka publisher initialized", slog.String("topic", cfg.KafkaTopic))

	// Хаб рассылки событий по websocket
	eventHub := messaging.NewHub()
	go eventHub.Run()
	logger.Info("event hub started")

	// Метрики
	appMetrics := metrics.New()

	// Инициализация репозиториев
	tournamentRepo := repositories.NewPostgresDocumentRepository(dbConn, "tournaments",
		func() *models.Tournament { return &models.Tournament{} })
	teamRepo := repositories.NewPostgresDocumentRepository(dbConn, "teams",
		func() *models.Team { return &models.Team{} })
	outboxRepo := repositories.NewPostgresOutboxRepository(dbConn)
	unitOfWork := repositories.NewUnitOfWork(dbConn)
	logger.Info("repositories initialized")

	// Инициализация сервисов
	tournamentService := services.NewTournamentService(unitOfWork, tournamentRepo, outboxRepo, logger)
	teamService := services.NewTeamService(unitOfWork, teamRepo, outboxRepo, logger)
	groupService := services.NewGroupService(unitOfWork, tournamentRepo, teamRepo, outboxRepo, logger)
	logger.Info("services initialized")

	// Диспетчер outbox
	dispatcher := messaging.NewDispatcher(
		outboxRepo,
		kafkaPublisher,
		eventHub,
		appMetrics,
		logger,
		cfg.OutboxInterval,
		cfg.OutboxBatchSize,
	)

	// Инициализация обработчиков HTTP
	teamHandler := handlers.NewTeamHandler(teamService)
	tournamentHandler := handlers.NewTournamentHandler(tournamentService)
	groupHandler := handlers.NewGroupHandler(groupService)
	webSocketHandler := handlers.NewWebSocketHandler(eventHub)
	logger.Info("HTTP handlers initialized")

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(router, appMetrics, teamHandler, tournamentHandler, groupHandler, webSocketHandler)
	logger.Info("routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Info("outbox dispatcher started",
			slog.Duration("interval", cfg.OutboxInterval),
			slog.Int("batch_size", cfg.OutboxBatchSize),
		)
		return dispatcher.Run(groupCtx)
	})

	group.Go(func() error {
		logger.Info("starting server", slog.String("address", server.Addr))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
	case <-groupCtx.Done():
		logger.Error("component failed, shutting down")
	}

	// Останавливаем сервер и диспетчер
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()

	logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("failed to force close server", slog.Any("error", closeErr))
		}
	}
	cancel()

	if err := group.Wait(); err != nil {
		logger.Error("component error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("application exited")
}
