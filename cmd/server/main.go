package main

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flightsurety-relay/internal/infrastructure/config"
	"flightsurety-relay/internal/infrastructure/persistence"
	"flightsurety-relay/internal/interface/chain"
	mongoRepo "flightsurety-relay/internal/interface/repository"
	"flightsurety-relay/internal/usecase"
	"flightsurety-relay/pkg/logger"
	"flightsurety-relay/pkg/metrics"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	rosterRepo "flightsurety-relay/internal/interface/repository"
	domainRepo "flightsurety-relay/internal/domain/repository"
)

const rebuildInterval = 30 * time.Second

func main() {
	// Create logger
	log := logger.NewLogger()
	log.Info("Starting FlightSurety oracle relay")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appMetrics := metrics.NewMetrics("flightsurety")

	// Set up MongoDB connection for the read-side projections
	log.Info("Connecting to MongoDB")
	mongoClient, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoUser, cfg.MongoPassword)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}
	db := persistence.GetDatabase(mongoClient, cfg.MongoDB)
	snapshotRepository := mongoRepo.NewMongoSnapshotRepository(db, log)

	// Oracle roster persistence is optional; without it the pool draws
	// fresh status codes on every start.
	var oracleRoster domainRepo.OracleRosterRepository
	if cfg.PostgresURI != "" {
		gormDB, err := gorm.Open(postgres.Open(cfg.PostgresURI), &gorm.Config{})
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", "error", err)
		}
		oracleRoster = rosterRepo.NewGormOracleRosterRepository(gormDB)
	} else {
		log.Warn("No POSTGRES_DSN configured, oracle roster will not be persisted")
	}

	// Load oracle accounts and connect to the ledger node
	keys, err := chain.LoadKeys(cfg.OracleKeysFile)
	if err != nil {
		log.Fatal("Failed to load oracle keys", "error", err)
	}

	log.Info("Connecting to ledger node", "network", cfg.Network, "rpc", cfg.RPCURL)
	client, err := chain.Dial(ctx, cfg.RPCURL, cfg.WSURL, common.HexToAddress(cfg.AppAddress), keys, log)
	if err != nil {
		log.Fatal("Failed to connect to ledger node", "error", err)
	}
	defer client.Close()

	rebuilder := usecase.NewStateRebuilder(client, snapshotRepository, log, appMetrics)
	pool := usecase.NewOraclePool(
		client,
		oracleRoster,
		rand.New(rand.NewSource(time.Now().UnixNano())),
		cfg.RegistrationPause,
		log,
		appMetrics,
	)
	relay := usecase.NewConsensusRelay(client, client, pool, log, appMetrics)

	// Register the oracle pool, then answer status requests until shutdown
	go func() {
		if err := pool.EnsureRegistered(ctx, chain.AddressesOf(keys)); err != nil {
			log.Error("Oracle registration aborted", "error", err)
			return
		}
		log.Info("Oracle pool ready", "oracles", len(pool.Roster()))

		if err := relay.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error("Consensus relay stopped", "error", err)
		}
	}()

	// Rebuild state periodically so the projections stay fresh
	go func() {
		if err := rebuilder.Rebuild(ctx); err != nil {
			log.Error("Initial state rebuild failed", "error", err)
		}

		rebuildTicker := time.NewTicker(rebuildInterval)
		defer rebuildTicker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info("State rebuilder stopped")
				return
			case <-rebuildTicker.C:
				if err := rebuilder.Rebuild(ctx); err != nil {
					log.Error("State rebuild failed", "error", err)
					appMetrics.ErrorsCount.WithLabelValues("rebuild").Inc()
				}
			}
		}
	}()

	// Set up the HTTP surface
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
	})
	mux.HandleFunc("/api", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"message": "An API for use with your Dapp!",
		})
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel() // Cancel the context to stop all goroutines

	// Disconnect from MongoDB
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		log.Error("MongoDB disconnect error", "error", err)
	}

	log.Info("Relay stopped")
}
