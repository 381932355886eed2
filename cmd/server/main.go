// Package main initializes and starts the demo authentication server,
// setting up configuration, logging, database and Redis connections,
// repositories, services and handlers.
package main

import (
	"cmp"
	"context"
	"flag"
	"fmt"
	"os"

	nethttp "net/http"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/atinyakov/ClaimKeeper/internal/config"
	"github.com/atinyakov/ClaimKeeper/internal/db"
	"github.com/atinyakov/ClaimKeeper/internal/logger"
	"github.com/atinyakov/ClaimKeeper/internal/repository"
	"github.com/atinyakov/ClaimKeeper/internal/server/handler/http"
	"github.com/atinyakov/ClaimKeeper/internal/service"
	"github.com/atinyakov/ClaimKeeper/internal/sessionstore"
	"github.com/atinyakov/ClaimKeeper/internal/token"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	_ = godotenv.Load()

	// Parse command-line and environment configuration.
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.StringVar(&configPath, "c", "", "path to config file (shorthand)")
	flag.Parse()
	if path := os.Getenv("CONFIG"); path != "" {
		configPath = path
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	figure.NewFigure("ClaimKeeper", "", true).Print()
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	if err := log.Init(cfg.Log.Level); err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Log.Sync() }()
	zapLogger := log.Log

	// Initialize PostgreSQL and seed the demo account.
	postgresDB, err := db.InitPostgres(cfg.Server.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}
	if err := db.SeedDemoAccounts(context.Background(), postgresDB, zapLogger); err != nil {
		zapLogger.Fatal("cannot seed demo accounts", zap.Error(err))
	}

	// Initialize the Redis-backed refresh-session store.
	redisClient, err := sessionstore.NewClient(context.Background(),
		cfg.Server.Redis.Addr, cfg.Server.Redis.Password, cfg.Server.Redis.DB, 5)
	if err != nil {
		zapLogger.Fatal("cannot connect to redis", zap.Error(err))
	}
	sessions := sessionstore.NewRedisStore(redisClient)

	// Token signing and verification.
	tokens := token.NewManager(cfg.Server.Token.AccessSecret, cfg.Server.Token.RefreshSecret)

	// Repositories and business-logic services.
	accountRepo := repository.NewPostgresAccountRepository(postgresDB)
	authService := service.NewAuthService(accountRepo, sessions, tokens,
		cfg.Server.Token.AccessTTL, cfg.Server.Token.RefreshTTL, zapLogger)

	// HTTP handlers and router.
	authHandler := &http.AuthHandler{AuthService: authService}
	router := http.NewRouter(authHandler, tokens, zapLogger)

	server := &nethttp.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", cfg.Server.Addr))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
