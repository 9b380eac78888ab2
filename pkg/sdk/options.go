package petmatch

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver   string // "valkey", "redis" or "memory"
	addrs    []string
	password string
	db       int

	embedder      Embedder
	imageEmbedder ImageEmbedder
	openAI        *openAIConfig

	threshold         *float64
	maxImages         int
	conditionalRetire bool
	imageTimeout      time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

type openAIConfig struct {
	apiKey  string
	baseURL string
	model   string
}

// WithValkey configures the client to connect to a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithMemory keeps reports in process memory. Nothing survives Close.
func WithMemory() Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "memory"
		c.addrs = nil
	})
}

// WithDB selects a logical database on Redis/Valkey.
func WithDB(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.db = n
	})
}

// WithEmbedder sets the text embedding provider used for breed captions.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithImageEmbedder sets the image embedding provider.
func WithImageEmbedder(e ImageEmbedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.imageEmbedder = e
	})
}

// WithOpenAI uses an OpenAI-compatible /embeddings endpoint for both text and images.
// An empty baseURL means api.openai.com. Explicit WithEmbedder/WithImageEmbedder win.
func WithOpenAI(apiKey, baseURL, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.openAI = &openAIConfig{apiKey: apiKey, baseURL: baseURL, model: model}
	})
}

// WithThreshold sets the minimum score for a match. Default: 0.7.
func WithThreshold(t float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.threshold = &t
	})
}

// WithMaxImages caps the images embedded per report. Default: 5.
func WithMaxImages(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxImages = n
	})
}

// WithConditionalRetire creates a match only when the lost report was still active.
func WithConditionalRetire() Option {
	return optionFunc(func(c *clientConfig) {
		c.conditionalRetire = true
	})
}

// WithImageTimeout bounds each image embedding call. Default: 6s.
func WithImageTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.imageTimeout = d
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
