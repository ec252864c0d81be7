package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/feral-file/ff-social-escrow/internal/adapter"
	"github.com/feral-file/ff-social-escrow/internal/api/auth"
	"github.com/feral-file/ff-social-escrow/internal/api/middleware"
	"github.com/feral-file/ff-social-escrow/internal/api/server"
	"github.com/feral-file/ff-social-escrow/internal/api/shared/executor"
	"github.com/feral-file/ff-social-escrow/internal/config"
	"github.com/feral-file/ff-social-escrow/internal/logger"
	"github.com/feral-file/ff-social-escrow/internal/messaging"
	"github.com/feral-file/ff-social-escrow/internal/program"
	"github.com/feral-file/ff-social-escrow/internal/providers/jetstream"
	solanaprovider "github.com/feral-file/ff-social-escrow/internal/providers/solana"
	"github.com/feral-file/ff-social-escrow/internal/query"
	"github.com/feral-file/ff-social-escrow/internal/ratelimit"
	"github.com/feral-file/ff-social-escrow/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadAPIConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "api-server",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting social escrow API")

	programID, err := solana.PublicKeyFromBase58(cfg.Solana.ProgramID)
	if err != nil {
		logger.FatalCtx(ctx, "Invalid program id", zap.Error(err), zap.String("program_id", cfg.Solana.ProgramID))
	}
	mint, err := solana.PublicKeyFromBase58(cfg.Solana.Mint)
	if err != nil {
		logger.FatalCtx(ctx, "Invalid or missing token mint", zap.Error(err), zap.String("mint", cfg.Solana.Mint))
	}

	// Admin instructions are disabled without an admin key
	var admin solana.PublicKey
	if cfg.Solana.AdminSecret != "" {
		adminKey, err := solana.PrivateKeyFromBase58(cfg.Solana.AdminSecret)
		if err != nil {
			logger.FatalCtx(ctx, "Invalid admin secret", zap.Error(err))
		}
		admin = adminKey.PublicKey()
	} else {
		logger.WarnCtx(ctx, "Admin secret not configured, admin endpoints are disabled")
	}

	// Connect to database
	db, err := store.Open(cfg.Database.Driver, cfg.Database.DSN(), cfg.Debug)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("driver", cfg.Database.Driver))
	}

	// Configure connection pool
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	if cfg.Database.AutoMigrate {
		if err := store.Migrate(db); err != nil {
			logger.FatalCtx(ctx, "Failed to migrate database", zap.Error(err))
		}
	}
	logger.InfoCtx(ctx, "Connected to database",
		zap.String("driver", cfg.Database.Driver),
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
	)

	// Initialize store and adapters
	dataStore := store.NewStore(db)
	jsonAdapter := adapter.NewJSON()
	clock := adapter.NewClock()

	// Rate limiter, shared through Redis when configured
	var redisClient adapter.RedisClient
	if cfg.RateLimit.RedisURL != "" {
		redisClient, err = adapter.NewRedisClient(cfg.RateLimit.RedisURL)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to create Redis client", zap.Error(err))
		}
	}
	proxy, err := ratelimit.NewProxy(cfg.RateLimit, redisClient, clock)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create rate limit proxy", zap.Error(err))
	}
	defer func() {
		if err := proxy.Close(); err != nil {
			logger.Error(err, zap.String("component", "rate_limit_proxy"))
		}
	}()

	// Ledger events are published only when NATS is configured
	var publisher messaging.Publisher
	if cfg.NATS.URL != "" {
		publisher, err = jetstream.NewPublisher(ctx, jetstream.Config{
			URL:            cfg.NATS.URL,
			StreamName:     cfg.NATS.StreamName,
			MaxReconnects:  cfg.NATS.MaxReconnects,
			ReconnectWait:  cfg.NATS.ReconnectWait,
			ConnectionName: cfg.NATS.ConnectionName,
		}, adapter.NewNatsJetStream(), jsonAdapter)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to create NATS publisher", zap.Error(err))
		}
		defer publisher.Close()
		logger.InfoCtx(ctx, "Connected to NATS", zap.String("stream", cfg.NATS.StreamName))
	}

	escrowProgram := program.New(program.Options{
		ProgramID: programID,
		Mint:      mint,
		Store:     dataStore,
		Clock:     clock,
		JSON:      jsonAdapter,
		Publisher: publisher,
	})

	// Reads come from the local ledger or from the deployed program
	var source query.AccountSource
	switch cfg.Query.Source {
	case "rpc":
		solanaClient := adapter.NewSolanaClient(cfg.Solana.RPCURL)
		defer func() {
			_ = solanaClient.Close()
		}()
		source = solanaprovider.NewAccountSource(solanaClient, proxy, programID, cfg.Solana.Commitment)
		logger.InfoCtx(ctx, "Reading accounts over RPC", zap.String("rpc_url", cfg.Solana.RPCURL))
	case "store", "":
		source = query.NewStoreSource(dataStore)
	default:
		logger.FatalCtx(ctx, "Unsupported query source", zap.String("source", cfg.Query.Source))
	}
	querier := query.New(source, escrowProgram.Deriver(), cfg.Query.Concurrency)

	signIn := auth.NewSignIn(auth.Config{
		Domain:     cfg.Auth.SignInDomain,
		JWTSecret:  cfg.Auth.JWTSecret,
		NonceTTL:   cfg.Auth.NonceTTL,
		SessionTTL: cfg.Auth.SessionTTL,
	}, dataStore, clock, jsonAdapter)

	exec := executor.NewExecutor(executor.Options{
		Program: escrowProgram,
		Querier: querier,
		SignIn:  signIn,
		Proxy:   proxy,
		Admin:   admin,
		JSON:    jsonAdapter,
	})

	// Create server config
	serverConfig := server.Config{
		Debug:          cfg.Debug,
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:    time.Duration(cfg.Server.IdleTimeout) * time.Second,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Auth: middleware.AuthConfig{
			JWTSecret: cfg.Auth.JWTSecret,
			APIKeys:   cfg.Auth.APIKeys,
		},
	}

	// Create and start server
	srv := server.New(serverConfig, exec)

	// Start server in a goroutine
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "server"))
		cancel()
	}

	// Create shutdown context with timeout (don't use canceled ctx)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	logger.InfoCtx(shutdownCtx, "Shutting down server...")

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.FatalCtx(shutdownCtx, "Server forced to shutdown", zap.Error(err))
	}

	// Use non-context logger for final message since original ctx is canceled
	logger.Info("API server stopped")
}
