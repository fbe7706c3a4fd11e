package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/loan-calculator/internal/calculator"
	"github.com/iwvelando/loan-calculator/internal/config"
	"github.com/iwvelando/loan-calculator/internal/draft"
	"github.com/iwvelando/loan-calculator/internal/server"
	"github.com/iwvelando/loan-calculator/internal/submission"
	"github.com/iwvelando/loan-calculator/pkg/constants"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// loadConfiguration reports whether configPath was missing and built-in
// defaults were used instead.
func loadConfiguration(configPath string) (*config.Configuration, bool, error) {
	if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
		return config.Defaults(), true, nil
	}
	conf, err := config.LoadConfiguration(configPath)
	return conf, false, err
}

func newDraftStore(ctx context.Context, conf config.RedisConfig, logger *zap.Logger) (draft.Store, func(), error) {
	if conf.Address == "" {
		return draft.NewMemoryStore(), func() {}, nil
	}
	client, err := draft.NewRedisClient(ctx, conf.Address, conf.Password, conf.DB)
	if err != nil {
		return nil, nil, err
	}
	return draft.NewRedisStore(client, conf.DraftTTL, logger), func() { _ = client.Close() }, nil
}

func newRepository(ctx context.Context, conf config.DatabaseConfig, logger *zap.Logger) (submission.Repository, func(), error) {
	if conf.DSN == "" {
		return submission.NewMemoryRepository(), func() {}, nil
	}
	db, err := submission.OpenPostgres(ctx, conf.Driver, conf.DSN)
	if err != nil {
		return nil, nil, err
	}
	repo := submission.NewPostgresRepository(db, logger)
	if err := repo.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return repo, func() { _ = db.Close() }, nil
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Printf("{\"op\": \"main\", \"level\": \"warn\", \"msg\": \"failed to load .env file\", \"error\": \"%v\"}\n", err)
	}

	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	address := flag.String("address", "", "listen address override")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	conf, usedDefaults, err := loadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}
	if *address != "" {
		conf.Server.Address = *address
	}

	logger, err := config.NewLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	if usedDefaults {
		logger.Info("configuration file not found, using built-in defaults",
			zap.String("op", "main"),
			zap.String("config", *configLocation),
			zap.String("example", constants.ExampleConfigFile),
		)
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	serverConfig, err := server.NewConfig(conf.Server)
	if err != nil {
		logger.Fatal("invalid server configuration", zap.String("op", "main"), zap.Error(err))
	}

	loanCatalog, err := conf.Catalog()
	if err != nil {
		logger.Fatal("failed to build loan type catalog", zap.String("op", "main"), zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startupCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	drafts, closeDrafts, err := newDraftStore(startupCtx, conf.Redis, logger)
	if err != nil {
		cancel()
		logger.Fatal("failed to initialize draft store", zap.String("op", "main"), zap.Error(err))
	}
	defer closeDrafts()

	repo, closeRepo, err := newRepository(startupCtx, conf.Database, logger)
	cancel()
	if err != nil {
		logger.Fatal("failed to initialize application repository", zap.String("op", "main"), zap.Error(err))
	}
	defer closeRepo()

	calc := calculator.NewService(loanCatalog, logger)
	handler := server.NewHandler(server.Options{
		Logger:      logger,
		Calculator:  calc,
		Drafts:      drafts,
		Submissions: submission.NewService(calc, repo, logger),
		MaxBodySize: serverConfig.BodySizeBytes(),
		Version:     serverConfig.Version,
	})
	srv := serverConfig.HTTPServer(handler)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", zap.String("op", "main"), zap.Error(err))
		}
	}()

	logger.Info("loan calculator API listening",
		zap.String("op", "main"),
		zap.String("address", serverConfig.Address),
		zap.Int("loan_types", loanCatalog.Len()),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server failed", zap.String("op", "main"), zap.Error(err))
	}
}
