package internal

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	token_adapter "github.com/Omkar-XD/Realty-Match-System/internal/adapters/jwt"
	logger_adapter "github.com/Omkar-XD/Realty-Match-System/internal/adapters/logger"
	postgres_adapter "github.com/Omkar-XD/Realty-Match-System/internal/adapters/postgres"
	rabbitmq_adapter "github.com/Omkar-XD/Realty-Match-System/internal/adapters/rabbitmq"
	"github.com/Omkar-XD/Realty-Match-System/internal/adapters/rest"
	"github.com/Omkar-XD/Realty-Match-System/internal/configs"
	"github.com/Omkar-XD/Realty-Match-System/internal/constants"
	"github.com/Omkar-XD/Realty-Match-System/internal/core/port"
	"github.com/Omkar-XD/Realty-Match-System/internal/core/scoring"
	"github.com/Omkar-XD/Realty-Match-System/internal/core/usecase"
	fluentlogger "github.com/Omkar-XD/Realty-Match-System/pkg/fluent_logger"
	"github.com/Omkar-XD/Realty-Match-System/pkg/postgres"
	"github.com/Omkar-XD/Realty-Match-System/pkg/rabbitmq/rabbitmq_common"
	"github.com/Omkar-XD/Realty-Match-System/pkg/rabbitmq/rabbitmq_consumer"
	"github.com/Omkar-XD/Realty-Match-System/pkg/rabbitmq/rabbitmq_producer"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
)

const shutdownTimeout = 15 * time.Second

// App – структура приложения
type App struct {
	config       *configs.AppConfig
	dbPool       *pgxpool.Pool
	apiServer    *rest.Server
	fluentClient *fluent.Fluent
	logger       port.LoggerPort

	// nil, если RabbitMQ выключен
	connManager           *rabbitmq_common.ConnectionManager
	propertyListener      port.EventListenerPort
	notificationsProducer *rabbitmq_producer.Publisher
}

// NewApp - composition root: здесь все зависимости создаются и связываются
func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// --- 1. Логгеры ---
	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogger.Level),
		UseColor: true,
	})
	activeLoggers := []port.LoggerPort{stdoutLogger}

	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
			Async:     true,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiLoggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	baseLogger := multiLogger.WithFields(port.Fields{"service_name": appConfig.AppName})
	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	application := &App{
		config:       appConfig,
		fluentClient: fluentClient,
		logger:       appLogger,
	}

	// При ошибке сборки освобождаем уже созданное
	ok := false
	defer func() {
		if !ok {
			application.closeResources()
		}
	}()

	// --- 2. Модель скоринга ---
	weights, err := scoring.LoadWeightsFromFile(appConfig.Matching.WeightsPath)
	if err != nil {
		appLogger.Warn("Failed to load scoring weights, falling back to defaults", port.Fields{
			"path":  appConfig.Matching.WeightsPath,
			"error": err.Error(),
		})
	}
	model := scoring.NewModel(weights)

	// --- 3. PostgreSQL ---
	dbPool, err := postgres.NewClient(context.Background(), postgres.Config{
		DatabaseURL: appConfig.Database.URL,
		MaxConns:    appConfig.Database.MaxConns,
	})
	if err != nil {
		appLogger.Error("Failed to connect to PostgreSQL", err, nil)
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	application.dbPool = dbPool
	appLogger.Info("Successfully connected to PostgreSQL pool!", nil)

	catalog, err := postgres_adapter.NewCatalogAdapter(dbPool, appConfig.Matching.PushdownLocations)
	if err != nil {
		appLogger.Error("Failed to create catalog adapter", err, nil)
		return nil, fmt.Errorf("failed to create catalog adapter: %w", err)
	}

	// --- 4. RabbitMQ: уведомления о совпадениях ---
	var notifier port.MatchNotifierPort
	if appConfig.RabbitMQ.Enabled {
		connManagerLogger := baseLogger.WithFields(port.Fields{"component": "rabbitmq_conn_manager"})
		connManager, err := rabbitmq_common.NewConnectionManager(
			rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
			rabbitmq_adapter.NewPkgLoggerBridge(connManagerLogger),
		)
		if err != nil {
			appLogger.Error("Failed to create connection manager", err, nil)
			return nil, fmt.Errorf("failed to create connection manager: %w", err)
		}
		application.connManager = connManager
		appLogger.Info("RabbitMQ Connection Manager initialized.", nil)

		producerLogger := baseLogger.WithFields(port.Fields{"component": "rabbitmq_producer"})
		producer, err := rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
			Config:                   rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
			ExchangeName:             constants.ExchangeNotifications,
			ExchangeType:             "topic",
			DurableExchange:          true,
			DeclareExchangeIfMissing: true,
			Logger:                   rabbitmq_adapter.NewPkgLoggerBridge(producerLogger),
		}, connManager)
		if err != nil {
			appLogger.Error("Failed to create notifications producer", err, nil)
			return nil, fmt.Errorf("failed to create notifications producer: %w", err)
		}
		application.notificationsProducer = producer

		matchesNotifier, err := rabbitmq_adapter.NewMatchesNotifierAdapter(producer, constants.RoutingKeyMatchesFound)
		if err != nil {
			return nil, err
		}
		notifier = matchesNotifier
	} else {
		appLogger.Info("RabbitMQ is disabled, match notifications will not be published.", nil)
	}

	// --- 5. Use case'ы ---
	findMatchesUseCase := usecase.NewFindMatchesForRequirementUseCase(catalog, model)
	findBestMatchesUseCase := usecase.NewFindBestMatchesUseCase(findMatchesUseCase)
	propertyMatchesUseCase := usecase.NewFindMatchesForPropertyUseCase(catalog, model, notifier)
	countMatchesUseCase := usecase.NewCountMatchesBatchUseCase(findMatchesUseCase, appConfig.Matching.BatchConcurrency)
	appLogger.Info("Use cases initialized.", nil)

	// --- 6. RabbitMQ: входящие события о новых объектах ---
	if application.connManager != nil {
		listener, err := rabbitmq_adapter.NewPropertyListedConsumerAdapter(rabbitmq_consumer.ConsumerConfig{
			Config:                 rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
			QueueName:              constants.QueuePropertyListed,
			DeclareQueue:           true,
			DurableQueue:           true,
			ExchangeNameForBind:    constants.ExchangeProperties,
			DeclareExchangeForBind: true,
			ExchangeTypeForBind:    "topic",
			DurableExchangeForBind: true,
			RoutingKeyForBind:      constants.RoutingKeyPropertyListed,
			PrefetchCount:          appConfig.RabbitMQ.PrefetchCount,
			ConsumerTag:            appConfig.AppName + "_property_listed",
		}, propertyMatchesUseCase, baseLogger, application.connManager)
		if err != nil {
			appLogger.Error("Failed to create Property Listed listener", err, nil)
			return nil, err
		}
		application.propertyListener = listener
		appLogger.Info("Property Listed Events Listener initialized.", nil)
	}

	// --- 7. REST API ---
	var authMiddleware *rest.AuthMiddleware
	if appConfig.Auth.Enabled {
		tokenService, err := token_adapter.NewTokenService(appConfig.Auth.JWTSecret)
		if err != nil {
			return nil, fmt.Errorf("failed to create token service: %w", err)
		}
		authMiddleware = rest.NewAuthMiddleware(tokenService)
	}

	metrics := rest.NewMetrics(strings.ReplaceAll(appConfig.AppName, "-", "_"))
	matchHandler := rest.NewMatchHandler(findMatchesUseCase, findBestMatchesUseCase, propertyMatchesUseCase, countMatchesUseCase, metrics)
	application.apiServer = rest.NewServer(rest.ServerConfig{
		Port:           appConfig.Rest.PORT,
		AllowedOrigins: appConfig.Rest.AllowedOrigins,
	}, matchHandler, metrics, authMiddleware, baseLogger)
	appLogger.Info("REST API server configured.", port.Fields{"auth_enabled": appConfig.Auth.Enabled})

	ok = true
	return application, nil
}

// Run запускает компоненты и ждет сигнала на завершение
func (a *App) Run() error {
	appCtx, cancelApp := context.WithCancel(context.Background())

	var wg sync.WaitGroup
	errorsCh := make(chan error, 2)

	a.logger.Info("Application is starting...", nil)

	if a.propertyListener != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			listenerLogger := a.logger.WithFields(port.Fields{"listener_name": "Property Listed Events Listener"})
			listenerLogger.Info("Starting listener...", nil)

			if err := a.propertyListener.Start(appCtx); err != nil {
				listenerLogger.Error("Listener stopped with an unexpected error", err, nil)
				errorsCh <- fmt.Errorf("property listed listener error: %w", err)
				return
			}
			listenerLogger.Info("Listener stopped gracefully due to context cancellation.", nil)
		}()
	}

	go func() {
		if err := a.apiServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errorsCh <- fmt.Errorf("failed to start HTTP server: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	a.logger.Info("Application running. Waiting for signals or server error...", nil)

	var runErr error
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case runErr = <-errorsCh:
		a.logger.Error("A critical component failed, shutting down", runErr, nil)
	}

	a.logger.Info("Shutdown sequence initiated...", nil)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := a.apiServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("Error during API server shutdown", err, nil)
	}

	cancelApp()
	a.logger.Info("Waiting for background processes to finish...", nil)
	wg.Wait()

	a.closeResources()
	return runErr
}

// closeResources закрывает ресурсы в порядке, обратном созданию
func (a *App) closeResources() {
	if a.propertyListener != nil {
		if err := a.propertyListener.Close(); err != nil {
			a.logger.Error("Error closing property listed listener", err, nil)
		}
	}

	if a.notificationsProducer != nil {
		if err := a.notificationsProducer.Close(); err != nil {
			a.logger.Error("Error closing notifications producer", err, nil)
		}
	}

	if a.connManager != nil {
		if err := a.connManager.Close(); err != nil {
			a.logger.Error("Error closing RabbitMQ connection manager", err, nil)
		}
	}

	if a.dbPool != nil {
		a.dbPool.Close()
		a.logger.Info("PostgreSQL pool closed.", nil)
	}

	a.logger.Info("Application shut down gracefully.", nil)

	if a.fluentClient != nil {
		if err := a.fluentClient.Close(); err != nil {
			// fluent может быть уже недоступен, поэтому пишем в stdout
			fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
		}
	}
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}
