package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/Ramsey-B/dahlia/config"
	auditrecordrepo "github.com/Ramsey-B/dahlia/internal/repositories/auditrecord"
	episoderepo "github.com/Ramsey-B/dahlia/internal/repositories/episode"
	movierepo "github.com/Ramsey-B/dahlia/internal/repositories/movie"
	seasonrepo "github.com/Ramsey-B/dahlia/internal/repositories/season"
	showrepo "github.com/Ramsey-B/dahlia/internal/repositories/show"
	auditservice "github.com/Ramsey-B/dahlia/internal/services/audit"
	"github.com/Ramsey-B/dahlia/internal/services/catalog"
	"github.com/Ramsey-B/dahlia/pkg/database"
	"github.com/Ramsey-B/dahlia/pkg/events"
	"github.com/Ramsey-B/dahlia/pkg/kafka"
	"github.com/Ramsey-B/dahlia/pkg/middleware"
	"github.com/Ramsey-B/dahlia/pkg/redis"
	auditrecordroutes "github.com/Ramsey-B/dahlia/pkg/routes/auditrecord"
	episoderoutes "github.com/Ramsey-B/dahlia/pkg/routes/episode"
	"github.com/Ramsey-B/dahlia/pkg/routes/health"
	movieroutes "github.com/Ramsey-B/dahlia/pkg/routes/movie"
	seasonroutes "github.com/Ramsey-B/dahlia/pkg/routes/season"
	showroutes "github.com/Ramsey-B/dahlia/pkg/routes/show"
	"github.com/Ramsey-B/dahlia/pkg/startup"
	"github.com/Ramsey-B/dahlia/pkg/tracing"
	"github.com/Ramsey-B/dahlia/pkg/tracing/exporters"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := newLogger(cfg)

	if cfg.TracingEnabled {
		shutdownTracing, err := setupTracing(cfg)
		if err != nil {
			logger.WithError(err).Error("Failed to set up tracing, continuing without it")
		} else {
			defer shutdownTracing()
		}
	}

	db, err := sqlx.Connect(cfg.DatabaseDriver, databaseDSN(cfg))
	if err != nil {
		logger.WithError(err).Error("Failed to connect to database")
		os.Exit(1)
	}
	db.SetMaxOpenConns(cfg.DatabaseMaxOpenConns)
	db.SetMaxIdleConns(cfg.DatabaseMaxIdleConns)
	db.SetConnMaxLifetime(cfg.DatabaseConnMaxLifetime)

	dbInstance := database.NewDatabaseInstance(db, logger)

	var redisClient *redis.Client
	if cfg.RedisEnabled {
		redisClient, err = redis.NewClient(redis.Config{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, logger)
		if err != nil {
			logger.WithError(err).Error("Failed to connect to redis")
			os.Exit(1)
		}
		defer redisClient.Close()
	}

	var emitter catalog.EventEmitter
	if cfg.KafkaEnabled {
		producerConfig := kafka.DefaultProducerConfig()
		producerConfig.Brokers = cfg.KafkaBrokers
		producerConfig.Topic = cfg.KafkaTopic
		producerConfig.BatchSize = cfg.KafkaBatchSize
		producerConfig.BatchTimeout = time.Duration(cfg.KafkaBatchTimeout) * time.Millisecond
		producerConfig.RequiredAcks = cfg.KafkaRequiredAcks
		producerConfig.Compression = cfg.KafkaCompression

		producer, err := kafka.NewProducer(producerConfig, logger)
		if err != nil {
			logger.WithError(err).Error("Failed to create kafka producer")
			os.Exit(1)
		}
		defer producer.Close()

		emitter = events.NewEmitter(producer, logger)
	}

	shows := showrepo.NewRepository(dbInstance, logger)
	seasons := seasonrepo.NewRepository(dbInstance, logger)
	episodes := episoderepo.NewRepository(dbInstance, logger)
	movies := movierepo.NewRepository(dbInstance, logger)
	auditRecords := auditrecordrepo.NewRepository(dbInstance, logger)

	catalogService := catalog.NewService(dbInstance, shows, seasons, episodes, movies, emitter, logger)

	recorder := auditservice.NewRecorder(auditRecords, auditservice.Config{
		BufferSize:   cfg.AuditBufferSize,
		WriteTimeout: time.Duration(cfg.AuditWriteTimeoutSeconds) * time.Second,
		Retention:    cfg.AuditRetention,
	}, logger)

	var checker *health.Checker
	if redisClient != nil {
		checker = health.NewChecker(db, redisClient, cfg.Version)
	} else {
		checker = health.NewChecker(db, nil, cfg.Version)
	}

	e := newEcho(cfg, logger, recorder, catalogService, auditRecords, checker)

	boot := startup.NewStartup(logger, cfg.StartupMaxAttempts)
	boot.AddDependency(&databaseDependency{db: db, cfg: cfg, logger: logger})
	boot.AddDependency(recorder)
	if redisClient != nil {
		locker := redis.NewLocker(redisClient, "")
		sweeper := auditservice.NewSweeper(auditRecords, locker, auditservice.SweeperConfig{
			SweepInterval: cfg.AuditSweepInterval,
			LockTTL:       cfg.AuditSweepLockTTL,
		}, logger)
		boot.AddDependency(sweeper)
	}
	boot.AddDependency(&httpDependency{e: e, port: cfg.Port, logger: logger})

	ctx := context.Background()
	if err := boot.Start(ctx); err != nil {
		logger.WithError(err).Error("Startup failed")
		os.Exit(1)
	}
	checker.SetReady(true)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	checker.SetReady(false)

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := boot.Stop(stopCtx); err != nil {
		logger.WithError(err).Error("Shutdown failed")
		os.Exit(1)
	}
}

func newLogger(cfg config.Config) ectologger.Logger {
	var zapLogger *zap.Logger
	var err error
	if cfg.PrettyLogs {
		zapLogger, err = zap.NewDevelopment()
	} else {
		zapLogger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	return zapadapter.NewZapEctoLogger(zapLogger, nil)
}

func newEcho(
	cfg config.Config,
	logger ectologger.Logger,
	recorder *auditservice.Recorder,
	catalogService *catalog.Service,
	auditRecords *auditrecordrepo.Repository,
	checker *health.Checker,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.Error(logger)

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: cfg.AllowMethods,
	}))
	if cfg.TracingEnabled {
		e.Use(otelecho.Middleware(cfg.AppName))
	}
	e.Use(middleware.Context())
	e.Use(middleware.Logger(logger))
	if cfg.AuthEnabled {
		e.Use(middleware.Authentication(logger, cfg.AuthIssuerURL, cfg.AuthClientID))
	} else {
		e.Use(middleware.TestAuth())
	}
	e.Use(middleware.Audit(recorder, logger))

	checker.Register(e)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1")
	showroutes.NewHandler(catalogService, logger).Register(api.Group("/shows"))
	seasonroutes.NewHandler(catalogService, logger).Register(api.Group("/seasons"))
	episoderoutes.NewHandler(catalogService, logger).Register(api.Group("/episodes"))
	movieroutes.NewHandler(catalogService, logger).Register(api.Group("/movies"))
	auditrecordroutes.NewHandler(auditRecords, logger).Register(api.Group("/audit-records"))

	return e
}

func databaseDSN(cfg config.Config) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DatabaseHost, cfg.DatabasePort, cfg.DatabaseUserName, cfg.DatabasePassword,
		cfg.DatabaseName, cfg.DatabaseSSLMode)
}

func setupTracing(cfg config.Config) (func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exporter, err := exporters.NewOTLPExporter(ctx, exporters.OTLPConfig{
		Endpoint: cfg.TracingOTLPEndpoint,
		Insecure: cfg.TracingOTLPInsecure,
		Timeout:  10 * time.Second,
	})
	if err != nil {
		return nil, err
	}

	provider := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(provider)
	tracing.SetTracer(provider.Tracer(cfg.AppName))

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = provider.Shutdown(shutdownCtx)
	}, nil
}

// databaseDependency pings the pool and applies migrations as the root of the
// startup graph.
type databaseDependency struct {
	db     *sqlx.DB
	cfg    config.Config
	logger ectologger.Logger
}

func (d *databaseDependency) GetName() string {
	return "database"
}

func (d *databaseDependency) DependsOn() []string {
	return nil
}

func (d *databaseDependency) Start(ctx context.Context) error {
	if err := d.db.PingContext(ctx); err != nil {
		return err
	}

	driver, err := migratepg.WithInstance(d.db.DB, &migratepg.Config{})
	if err != nil {
		return err
	}

	migrations := database.NewMigrationService(d.logger, &database.MigrationConfig{
		MigrationFolderPath: d.cfg.DatabaseMigrationFolderPath,
		Version:             uint(d.cfg.DatabaseMigrationVersion),
		AutoRollback:        d.cfg.DatabaseMigrationAutoRollback,
	})

	return migrations.Migrate(d.cfg.DatabaseName, driver)
}

func (d *databaseDependency) Stop(ctx context.Context) error {
	return d.db.Close()
}

type httpDependency struct {
	e      *echo.Echo
	port   int
	logger ectologger.Logger
}

func (h *httpDependency) GetName() string {
	return "http"
}

func (h *httpDependency) DependsOn() []string {
	return []string{"database", "audit-recorder"}
}

func (h *httpDependency) Start(ctx context.Context) error {
	go func() {
		if err := h.e.Start(fmt.Sprintf(":%d", h.port)); err != nil && err != http.ErrServerClosed {
			h.logger.WithError(err).Error("HTTP server stopped unexpectedly")
		}
	}()
	return nil
}

func (h *httpDependency) Stop(ctx context.Context) error {
	return h.e.Shutdown(ctx)
}
