package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/sixthdegree/contactsearch/internal/config"
	"github.com/sixthdegree/contactsearch/internal/db"
	dbMemory "github.com/sixthdegree/contactsearch/internal/db/memory"
	dbRedis "github.com/sixthdegree/contactsearch/internal/db/redis"
	"github.com/sixthdegree/contactsearch/internal/domain"
	logpkg "github.com/sixthdegree/contactsearch/internal/logger"
	"github.com/sixthdegree/contactsearch/internal/metrics"
	"github.com/sixthdegree/contactsearch/internal/repository/resultcache"
	"github.com/sixthdegree/contactsearch/internal/repository/snapshot"
	chiTransport "github.com/sixthdegree/contactsearch/internal/transport/chi"
	openaiTransport "github.com/sixthdegree/contactsearch/internal/transport/openai"
	"github.com/sixthdegree/contactsearch/internal/usecase/candidate"
	"github.com/sixthdegree/contactsearch/internal/usecase/diversify"
	"github.com/sixthdegree/contactsearch/internal/usecase/parser"
	"github.com/sixthdegree/contactsearch/internal/usecase/rank"
	searchuc "github.com/sixthdegree/contactsearch/internal/usecase/search"
	"github.com/sixthdegree/contactsearch/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting contactsearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	// Create database store based on driver
	var store db.Store
	switch cfg.Database.Driver {
	case "memory":
		store = dbMemory.NewStore()
	case "redis":
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
		})
	default:
		logger.Fatal("Unknown database driver", zap.String("driver", cfg.Database.Driver))
	}
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register pipeline metrics explicitly (no init())
	metrics.Register()

	// Embedder: optional, semantic recall degrades to lexical-only without it.
	var embedder domain.Embedder
	if cfg.Embedding.APIKey != "" {
		embedder = openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
			APIKey:     cfg.Embedding.APIKey,
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
			Logger:     logger,
		})
		logger.Info("Embedder created",
			zap.String("model", cfg.Embedding.Model),
			zap.Int("dimensions", cfg.Embedding.Dimensions))
	} else {
		logger.Warn("No embedding API key configured, semantic recall disabled")
	}

	// Reasoner: optional, serves the parser fallback and the analytical agent.
	var (
		resolver domain.QueryResolver
		agent    domain.Agent
	)
	if cfg.Reasoning.APIKey != "" {
		reasoner := openaiTransport.NewReasoner(&openaiTransport.ReasonerConfig{
			APIKey:  cfg.Reasoning.APIKey,
			BaseURL: cfg.Reasoning.BaseURL,
			Model:   cfg.Reasoning.Model,
			Logger:  logger,
		})
		resolver = reasoner
		agent = reasoner
		logger.Info("Reasoner created", zap.String("model", cfg.Reasoning.Model))
	} else {
		logger.Warn("No reasoning API key configured, parser fallback and agent disabled")
	}

	snapshots := snapshot.NewManager(store, embedder, cfg.Storage.KeyPrefix, logger)
	cache := resultcache.New(store, cfg.Storage.KeyPrefix,
		time.Duration(cfg.Search.CacheTTLSec)*time.Second, logger)

	searchSvc := searchuc.NewService(searchuc.Deps{
		Snapshots: snapshots,
		Cache:     cache,
		Parser:    parser.New(resolver, cfg.Search.ParserFallbackMinTokens, logger),
		Generator: candidate.NewGenerator(
			cfg.Search.RecallLimit,
			cfg.Search.MinLexicalResults,
			cfg.Search.LexicalConfidence,
			cfg.Search.LexicalScoreScale,
			logger,
		),
		Features:     rank.NewFeatureFactory(cfg.Search.LexicalScoreScale),
		Scorer:       rank.NewScorer(),
		Diversifier:  diversify.New(cfg.Search.MaxPerCompany, cfg.Search.MaxPerIndustry),
		Classifier:   searchuc.NewClassifier(cfg.Search.SoftKeywords, cfg.Search.ComplexKeywords),
		Agent:        agent,
		AgentTimeout: time.Duration(cfg.Reasoning.TimeoutSec) * time.Second,
		Logger:       logger,
	})

	server := chiTransport.NewServer(searchSvc, store, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
