package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	grpcadapter "github.com/simaogato/portfolio-tracker/internal/adapter/grpc"
	httpadapter "github.com/simaogato/portfolio-tracker/internal/adapter/http"
	"github.com/simaogato/portfolio-tracker/internal/adapter/quote"
	"github.com/simaogato/portfolio-tracker/internal/adapter/quote/alphavantage"
	"github.com/simaogato/portfolio-tracker/internal/adapter/quote/yahoo"
	"github.com/simaogato/portfolio-tracker/internal/adapter/repository/postgres"
	"github.com/simaogato/portfolio-tracker/internal/config"
	"github.com/simaogato/portfolio-tracker/internal/domain"
	"github.com/simaogato/portfolio-tracker/internal/usecase/clients"
	"github.com/simaogato/portfolio-tracker/internal/usecase/enrichment"
	"github.com/simaogato/portfolio-tracker/internal/usecase/ledger"
	"github.com/simaogato/portfolio-tracker/internal/usecase/registry"
	"github.com/simaogato/portfolio-tracker/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	logger.SetGlobalLogger(log)

	// 1. Setup Database
	if cfg.RunMigrations {
		result, err := postgres.RunMigrations(cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).
				Uint("version_from", result.VersionFrom).
				Bool("dirty", result.Dirty).
				Msg("DB migration failed")
		}
		log.Info().
			Uint("version_from", result.VersionFrom).
			Uint("version_to", result.VersionTo).
			Msg("DB migration success")
	}

	db, err := postgres.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// 2. Initialize Repositories (Postgres)
	clientRepo := postgres.NewClientRepository(db)
	assetRepo := postgres.NewAssetRepository(db)
	allocationRepo := postgres.NewAllocationRepository(db)

	// 3. Quote provider, bounded per lookup
	quotes := quote.WithTimeout(newQuoteProvider(cfg, log), cfg.QuoteTimeout)

	// 4. Initialize Services (Use Cases)
	assetService := registry.NewAssetService(assetRepo, quotes, log)
	allocationService := ledger.NewAllocationService(clientRepo, assetRepo, allocationRepo)
	enrichmentService := enrichment.NewEnrichmentService(allocationService, quotes, cfg.EnrichConcurrency, log)
	clientService := clients.NewClientService(clientRepo, log)

	// 5. Start HTTP Server
	httpServer := httpadapter.New(httpadapter.Config{
		Port:              cfg.HTTPPort,
		Log:               log,
		Health:            db,
		AssetService:      assetService,
		AllocationService: allocationService,
		EnrichmentService: enrichmentService,
		ClientService:     clientService,
	})

	go func() {
		if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to serve HTTP")
		}
	}()

	// 6. Start gRPC Server
	grpcServer := grpclib.NewServer(
		grpclib.ChainUnaryInterceptor(
			grpcadapter.RecoveryInterceptor(log),
			grpcadapter.LoggingInterceptor(log),
		),
	)
	grpcadapter.RegisterPortfolioServiceServer(grpcServer,
		grpcadapter.NewServer(assetService, allocationService, enrichmentService))
	reflection.Register(grpcServer)

	grpcAddr := fmt.Sprintf(":%d", cfg.GRPCPort)
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		log.Fatal().Err(err).Str("addr", grpcAddr).Msg("Failed to listen")
	}

	go func() {
		log.Info().Str("addr", grpcAddr).Msg("gRPC server listening")
		if err := grpcServer.Serve(lis); err != nil {
			log.Fatal().Err(err).Msg("Failed to serve gRPC")
		}
	}()

	// Graceful shutdown
	waitForShutdown(log, httpServer, grpcServer)
}

// newQuoteProvider selects the configured provider implementation
func newQuoteProvider(cfg *config.Config, log zerolog.Logger) domain.QuoteProvider {
	switch cfg.QuoteProvider {
	case config.ProviderYahoo:
		return yahoo.NewClient(log)
	default:
		return alphavantage.NewClient(cfg.AlphaVantageAPIKey, cfg.AlphaVantageBaseURL, log)
	}
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down both servers
func waitForShutdown(log zerolog.Logger, httpServer *httpadapter.Server, grpcServer *grpclib.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	grpcServer.GracefulStop()
	log.Info().Msg("Servers stopped")
}
