package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/tair/field-inventory/docs"
	"github.com/tair/field-inventory/internal/inventory"
	httpDelivery "github.com/tair/field-inventory/internal/inventory/delivery/http"
	"github.com/tair/field-inventory/internal/inventory/domain"
	"github.com/tair/field-inventory/internal/inventory/metrics"
	"github.com/tair/field-inventory/internal/inventory/repository"
	"github.com/tair/field-inventory/internal/inventory/repository/memory"
	"github.com/tair/field-inventory/kafka"
	"github.com/tair/field-inventory/pkg/auth"
	"github.com/tair/field-inventory/pkg/config"
	"github.com/tair/field-inventory/pkg/database"
	"github.com/tair/field-inventory/pkg/logger"
	"github.com/tair/field-inventory/pkg/tracing"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	logger.Init(cfg.ServiceName, cfg.IsDevelopment())
	logger.SetLevel(cfg.LogLevel)

	logger.Logger.Info().
		Str("service", cfg.ServiceName).
		Str("environment", cfg.Environment).
		Str("log_level", cfg.LogLevel).
		Str("store", cfg.Store).
		Msg("Starting field inventory service")

	// Initialize tracer
	tp, err := tracing.InitTracer(cfg.ServiceName, cfg.JaegerEndpoint)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	uow, health, closeStore := openStore(cfg)
	defer closeStore()

	redisClient := openRedis(cfg)
	if redisClient != nil {
		defer redisClient.Close()
	}

	var publisher *kafka.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err = kafka.NewPublisher(cfg.KafkaBrokers)
		if err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to create Kafka publisher, audit events will not be published")
		} else {
			defer publisher.Close()
		}
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	// Initialize handlers with Wire DI
	svc, err := inventory.InitializeService(uow, redisClient, publisher, m, cfg)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize service")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(cfg.KafkaBrokers) > 0 {
		startGoodsReceiptConsumer(ctx, cfg, svc)
	}

	server := newHTTPServer(cfg, svc.Handler, health, m)
	go func() {
		logger.Logger.Info().
			Str("port", cfg.HTTPPort).
			Str("metrics_endpoint", "/metrics").
			Msg("HTTP server started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	<-ctx.Done()
	logger.Logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to shutdown HTTP server")
	}
}

func openStore(cfg *config.Config) (domain.UnitOfWork, httpDelivery.HealthCheck, func()) {
	if cfg.Store == config.StoreMemory {
		logger.Logger.Warn().Msg("Using in-memory store, data is lost on restart")
		return memory.NewStore(cfg.DBLockTimeout),
			func(context.Context) error { return nil },
			func() {}
	}

	db, err := database.NewGormConnection(database.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}

	gormUoW := repository.NewGormUnitOfWork(db, cfg.DBLockTimeout)
	if err := gormUoW.AutoMigrate(); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
	}
	logger.Logger.Info().Msg("Database initialized successfully")

	return repository.NewTracingUnitOfWork(gormUoW, "postgres"),
		sqlDB.PingContext,
		func() { sqlDB.Close() }
}

func openRedis(cfg *config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Logger.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("Redis unavailable, scope cache disabled")
		client.Close()
		return nil
	}

	logger.Logger.Info().Str("addr", cfg.RedisAddr).Dur("ttl", cfg.ScopeCacheTTL).Msg("Scope cache enabled")
	return client
}

func startGoodsReceiptConsumer(ctx context.Context, cfg *config.Config, svc *inventory.Service) {
	consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaGroupID, []string{kafka.TopicGoodsReceived})
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to create Kafka consumer, goods receipts disabled")
		return
	}
	inventory.RegisterGoodsReceipts(consumer, svc.ReceiveGoods)

	if err := consumer.Start(ctx); err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to start goods receipt consumer")
		consumer.Close()
		return
	}

	go func() {
		<-ctx.Done()
		if err := consumer.Close(); err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to close Kafka consumer")
		}
	}()
}

func newHTTPServer(cfg *config.Config, handler *httpDelivery.InventoryHandler, health httpDelivery.HealthCheck, m *metrics.Metrics) *http.Server {
	router := mux.NewRouter()

	middlewareConfig := httpDelivery.DefaultMiddlewareConfig(m, cfg.RequestTimeout)
	httpDelivery.RegisterMiddlewares(router, middlewareConfig)

	handler.RegisterRoutes(router, httpDelivery.AuthMiddleware(auth.NewTokenValidator(cfg.JWTSecret)))
	handler.RegisterHealthCheck(router, health)
	httpDelivery.RegisterSwaggerDocs(router, httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	return &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           httpDelivery.SetupCORS(middlewareConfig)(router),
		ReadHeaderTimeout: 10 * time.Second,
	}
}
