package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kailas-cloud/petmatch/internal/config"
	"github.com/kailas-cloud/petmatch/internal/db"
	"github.com/kailas-cloud/petmatch/internal/db/memory"
	dbRedis "github.com/kailas-cloud/petmatch/internal/db/redis"
	"github.com/kailas-cloud/petmatch/internal/domain"
	logpkg "github.com/kailas-cloud/petmatch/internal/logger"
	"github.com/kailas-cloud/petmatch/internal/metrics"
	"github.com/kailas-cloud/petmatch/internal/repository/embcache"
	matchrepo "github.com/kailas-cloud/petmatch/internal/repository/match"
	petrepo "github.com/kailas-cloud/petmatch/internal/repository/pet"
	"github.com/kailas-cloud/petmatch/internal/repository/postgres"
	chiTransport "github.com/kailas-cloud/petmatch/internal/transport/chi"
	openaiEmb "github.com/kailas-cloud/petmatch/internal/transport/openai"
	embeddinguc "github.com/kailas-cloud/petmatch/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/petmatch/internal/usecase/health"
	matchinguc "github.com/kailas-cloud/petmatch/internal/usecase/matching"
	scoringuc "github.com/kailas-cloud/petmatch/internal/usecase/scoring"
	"github.com/kailas-cloud/petmatch/internal/version"
)

// backend bundles the repositories and probes of one database driver.
type backend struct {
	pets    matchinguc.PetRepository
	matches matchinguc.MatchRepository
	pinger  healthuc.StorePinger
	// kv backs the embedding cache. Postgres has no KV facade, so it gets an in-process store.
	kv    db.KVStore
	close func()
}

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

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

	logger.Info("Starting petmatch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("build_date", version.Date),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	ctx := context.Background()

	be, err := openBackend(ctx, &cfg.Database)
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer be.close()
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.RegisterHTTPMetrics()
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterMatchingMetrics()

	text, image, probe := buildEmbedders(&cfg.Embedding, be.kv, logger)
	adapter := embeddinguc.NewAdapter(image, text, cfg.Embedding.ImageTimeout())

	policy := cfg.Matching.Policy()
	engine := scoringuc.New(adapter, policy)
	logger.Info("Scoring policy",
		zap.Float64("threshold", policy.Threshold),
		zap.Float64("image_gate", policy.ImageGate),
		zap.Bool("hard_gate", policy.HardGate),
		zap.String("breed_mode", string(policy.BreedMode)),
	)

	matchSvc := matchinguc.New(be.pets, be.matches, engine).
		WithThreshold(policy.Threshold).
		WithMaxImages(cfg.Matching.MaxImages).
		WithConditionalRetire(cfg.Matching.ConditionalRetire)

	healthSvc := healthuc.New(be.pinger)
	if probe != nil {
		healthSvc = healthSvc.WithProvider(cfg.Embedding.Provider, probe)
	}

	server := chiTransport.NewServer(matchSvc, healthSvc)
	handler := chiTransport.NewRouter(server, chiTransport.RouterConfig{
		APIKeys:     cfg.Auth.APIKeys,
		CORSOrigins: cfg.HTTP.CORSOrigins,
		Logger:      logger,
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		ReadHeaderTimeout: time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

func openBackend(ctx context.Context, cfg *config.DatabaseConfig) (*backend, error) {
	readiness := time.Duration(cfg.ReadinessTimeout) * time.Second

	switch cfg.Driver {
	case config.DriverRedis, config.DriverValkey:
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:      cfg.Addrs,
			Username:   cfg.Username,
			Password:   cfg.Password,
			ClientName: "petmatch",
		})
		if err != nil {
			return nil, fmt.Errorf("create %s store: %w", cfg.Driver, err)
		}
		if err := store.WaitForReady(ctx, readiness); err != nil {
			store.Close()
			return nil, fmt.Errorf("database not ready: %w", err)
		}
		return facadeBackend(store), nil

	case config.DriverMemory:
		return facadeBackend(memory.NewStore()), nil

	case config.DriverPostgres:
		pingCtx, cancel := context.WithTimeout(ctx, readiness)
		defer cancel()

		pg, err := postgres.Open(pingCtx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(pingCtx, pg); err != nil {
			_ = pg.Close()
			return nil, err
		}
		return postgresBackend(pg), nil

	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

func facadeBackend(store db.Store) *backend {
	return &backend{
		pets:    petrepo.New(store),
		matches: matchrepo.New(store),
		pinger:  store,
		kv:      store,
		close:   store.Close,
	}
}

func postgresBackend(pg *sql.DB) *backend {
	return &backend{
		pets:    postgres.NewPetsRepo(pg),
		matches: postgres.NewMatchesRepo(pg),
		pinger:  postgres.NewPinger(pg),
		kv:      memory.NewStore(),
		close:   func() { _ = pg.Close() },
	}
}

// buildEmbedders assembles the decorator chain: OpenAI -> Cached -> Instrumented -> Instruction (text only).
// With no provider configured both embedders report ErrEmbeddingProviderError and signals are absent.
func buildEmbedders(
	cfg *config.EmbeddingConfig,
	kv db.KVStore,
	logger *zap.Logger,
) (domain.Embedder, domain.ImageEmbedder, healthuc.EmbeddingChecker) {
	if !cfg.Enabled() {
		logger.Warn("Embedding provider not configured; image and text signals disabled")
		inst := embeddinguc.NewInstrumentedEmbedder(nil, nil, "", logger)
		return inst, inst, nil
	}

	// Base provider (with transport metrics built-in)
	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:        cfg.APIKey,
		BaseURL:       cfg.BaseURL,
		TextModel:     cfg.TextModel,
		ImageModel:    cfg.ImageModel,
		Dimensions:    cfg.Dimensions,
		InlineImages:  cfg.InlineImages,
		MaxImageBytes: cfg.MaxImageBytes,
		Logger:        logger,
	})

	var (
		text  domain.Embedder      = base
		image domain.ImageEmbedder = base
	)

	// Cached
	if ttl := cfg.CacheTTL(); ttl > 0 && kv != nil {
		cached := embcache.New(base, base, kv, ttl, metrics.EmbeddingCacheTotal, logger)
		text, image = cached, cached
	}

	// Instrumented (debug logs)
	inst := embeddinguc.NewInstrumentedEmbedder(text, image, cfg.TextModel, logger)
	text, image = inst, inst

	// Instruction prefix (outermost, so the cache key includes it)
	if cfg.TextInstruction != "" {
		text = domain.NewInstructionEmbedder(text, cfg.TextInstruction)
	}

	logger.Info("Embedders created",
		zap.String("provider", cfg.Provider),
		zap.String("text_model", cfg.TextModel),
		zap.String("image_model", cfg.ImageModel),
		zap.Int("dimensions", cfg.Dimensions),
		zap.Duration("cache_ttl", cfg.CacheTTL()),
	)

	return text, image, base
}
