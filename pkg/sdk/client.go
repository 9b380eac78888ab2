package petmatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/petmatch/internal/db"
	"github.com/kailas-cloud/petmatch/internal/db/memory"
	dbRedis "github.com/kailas-cloud/petmatch/internal/db/redis"
	"github.com/kailas-cloud/petmatch/internal/domain"
	"github.com/kailas-cloud/petmatch/internal/domain/match"
	"github.com/kailas-cloud/petmatch/internal/domain/report"
	"github.com/kailas-cloud/petmatch/internal/domain/scoring"
	matchrepo "github.com/kailas-cloud/petmatch/internal/repository/match"
	petrepo "github.com/kailas-cloud/petmatch/internal/repository/pet"
	openaiEmb "github.com/kailas-cloud/petmatch/internal/transport/openai"
	embeddinguc "github.com/kailas-cloud/petmatch/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/petmatch/internal/usecase/health"
	matchinguc "github.com/kailas-cloud/petmatch/internal/usecase/matching"
	scoringuc "github.com/kailas-cloud/petmatch/internal/usecase/scoring"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces for substitution in tests.
type matchingUseCase interface {
	Submit(ctx context.Context, in *report.Input) (matchinguc.SubmitResult, error)
	Preview(ctx context.Context, in *report.Input, opts matchinguc.PreviewOptions) ([]match.Candidate, error)
	ListReports(ctx context.Context, status *report.Status) ([]report.Report, error)
	ListMatches(ctx context.Context) ([]match.Record, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the petmatch SDK entry point.
type Client struct {
	store     db.Store
	matchSvc  matchingUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a petmatch Client and connects to the record store.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.driver == "" {
		return nil, errors.New("petmatch: record store required (use WithValkey, WithRedis or WithMemory)")
	}

	policy, err := buildPolicy(cfg)
	if err != nil {
		return nil, err
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("petmatch: record store not ready: %w", err)
	}

	return wireClient(store, cfg, policy, obs), nil
}

func buildPolicy(cfg *clientConfig) (scoring.Policy, error) {
	p := scoring.DefaultPolicy()
	if cfg.threshold != nil {
		p.Threshold = *cfg.threshold
	}
	if err := p.Validate(); err != nil {
		return scoring.Policy{}, fmt.Errorf("petmatch: %w", err)
	}
	return p, nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "valkey", "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:      cfg.addrs,
			Password:   cfg.password,
			DB:         cfg.db,
			ClientName: "petmatch-sdk",
		})
		if err != nil {
			return nil, fmt.Errorf("petmatch: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	case "memory":
		return memory.NewStore(), nil
	default:
		return nil, fmt.Errorf("petmatch: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cfg *clientConfig, policy scoring.Policy, obs *observer) *Client {
	text, images, probe := buildEmbedders(cfg)

	adapter := embeddinguc.NewAdapter(images, text, cfg.imageTimeout)
	engine := scoringuc.New(adapter, policy)

	matchSvc := matchinguc.New(petrepo.New(store), matchrepo.New(store), engine).
		WithThreshold(policy.Threshold).
		WithConditionalRetire(cfg.conditionalRetire)
	if cfg.maxImages > 0 {
		matchSvc = matchSvc.WithMaxImages(cfg.maxImages)
	}

	healthSvc := healthuc.New(store)
	if probe != nil {
		healthSvc = healthSvc.WithProvider("openai", probe)
	}

	return &Client{
		store:     store,
		matchSvc:  matchSvc,
		healthSvc: healthSvc,
		obs:       obs,
	}
}

// buildEmbedders resolves explicit embedders first, then the OpenAI shortcut.
// Absent embedders stay nil interfaces so scoring treats the signal as missing.
func buildEmbedders(cfg *clientConfig) (domain.Embedder, domain.ImageEmbedder, healthuc.EmbeddingChecker) {
	var (
		text   domain.Embedder
		images domain.ImageEmbedder
		probe  healthuc.EmbeddingChecker
	)
	if cfg.openAI != nil {
		base := openaiEmb.NewEmbedder(&openaiEmb.Config{
			APIKey:       cfg.openAI.apiKey,
			BaseURL:      cfg.openAI.baseURL,
			TextModel:    cfg.openAI.model,
			InlineImages: true,
		})
		text, images, probe = base, base, base
	}
	if cfg.embedder != nil {
		text = &embedderAdapter{inner: cfg.embedder}
	}
	if cfg.imageEmbedder != nil {
		images = &imageEmbedderAdapter{inner: cfg.imageEmbedder}
	}
	return text, images, probe
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks record store connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Pets returns the report and matching service.
func (c *Client) Pets() *PetService {
	return &PetService{svc: c.matchSvc, obs: c.obs}
}

// embedderAdapter wraps public Embedder to satisfy internal domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

// imageEmbedderAdapter wraps public ImageEmbedder to satisfy internal domain.ImageEmbedder.
type imageEmbedderAdapter struct {
	inner ImageEmbedder
}

func (a *imageEmbedderAdapter) EmbedImage(ctx context.Context, ref string) (domain.EmbeddingResult, error) {
	r, err := a.inner.EmbedImage(ctx, ref)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed image: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}
