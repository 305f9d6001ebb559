package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"travelctx-service/internal/domain/repository"
	"travelctx-service/internal/infrastructure/config"
	"travelctx-service/internal/infrastructure/persistence"
	"travelctx-service/internal/interface/httpapi"
	storeRepo "travelctx-service/internal/interface/repository"
	"travelctx-service/internal/usecase"
	"travelctx-service/pkg/logger"
	"travelctx-service/pkg/metrics"
	"travelctx-service/pkg/userlock"
	"travelctx-service/pkg/utils"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Create logger
	log := logger.NewLogger()
	log.Info("Starting Travel Context Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up the record store
	var store repository.RecordStore
	var mongoClient *mongo.Client
	switch cfg.StorageBackend {
	case "memory":
		log.Warn("Using in-memory record store, data will not survive restarts")
		store = storeRepo.NewMemoryRecordStore()
	default:
		log.Info("Connecting to MongoDB")
		client, db, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoDB, cfg.MongoUser, cfg.MongoPassword)
		if err != nil {
			log.Fatal("Failed to connect to MongoDB", "error", err)
		}
		mongoClient = client
		store = storeRepo.NewMongoRecordStore(db)
	}

	// Set up the currency converter
	var converter repository.CurrencyConverter
	if cfg.PostgresDSN != "" {
		gormDB, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", "error", err)
		}
		converter = storeRepo.NewGormCurrencyRateRepository(gormDB)
	} else {
		log.Warn("No rate database configured, using static currency rates")
		converter = storeRepo.NewStaticCurrencyConverter()
	}

	// Set up usecases
	locks := userlock.NewRegistry()
	profileManager := usecase.NewProfileManager(store, locks, log)
	preferenceEngine := usecase.NewPreferenceEngine(store, converter, locks, log, cfg.ReferenceCurrency)
	historyTracker := usecase.NewHistoryTracker(store, preferenceEngine, locks, log, cfg.PopularRoutesTopN)
	conversationTracker := usecase.NewConversationTracker(store, locks, log, cfg.ConversationWindow)
	suggestionGenerator := usecase.NewSuggestionGenerator(profileManager, historyTracker, preferenceEngine, log, cfg.BudgetBandWidth)
	privacyService := usecase.NewPrivacyService(store, locks, log)

	// Set up HTTP API
	m := metrics.NewMetrics("travelctx")
	intentParser := utils.NewIntentParser(log)
	apiHandler := httpapi.NewHandler(
		profileManager,
		historyTracker,
		conversationTracker,
		suggestionGenerator,
		privacyService,
		intentParser,
		m,
		log,
	)

	mux := http.NewServeMux()
	apiHandler.Register(mux)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
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
	if mongoClient != nil {
		if err := mongoClient.Disconnect(ctx); err != nil {
			log.Error("MongoDB disconnect error", "error", err)
		}
	}

	log.Info("Travel Context Service stopped")
}
