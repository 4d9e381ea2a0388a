package app

import (
	"context"
	"fmt"

	"github.com/kapu/pokedex-translator-go/internal/config"
	"github.com/kapu/pokedex-translator-go/internal/constants"
	"github.com/kapu/pokedex-translator-go/internal/server"
	"github.com/kapu/pokedex-translator-go/internal/service/pokeapi"
	"github.com/kapu/pokedex-translator-go/internal/service/pokemon"
	"github.com/kapu/pokedex-translator-go/internal/service/translation"
	"github.com/kapu/pokedex-translator-go/internal/util"
	"go.uber.org/zap"
)

// Container bundles assembled services for constructing runtime components like Server.
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	Pokemon  *pokemon.Service
	Breakers []*util.CircuitBreaker
}

// NewServer instantiates the HTTP server using the pre-built dependency graph.
func (c *Container) NewServer() (*server.Server, error) {
	if c == nil || c.Pokemon == nil {
		return nil, fmt.Errorf("pokemon service not initialized")
	}
	return server.New(c.Config.ListenAddr(), server.Dependencies{
		Resolver:   c.Pokemon,
		CacheStats: c.Pokemon.CacheStats,
		Breakers:   c.Breakers,
		Logger:     c.Logger,
	})
}

// Build assembles upstream clients, the result cache and the lookup service, then warms
// the cache with any configured names.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	speciesBreaker := newBreaker("pokeapi", logger)
	translationBreaker := newBreaker("translation", logger)

	species := pokeapi.NewClient(pokeapi.Options{
		BaseURL: cfg.PokeAPI.BaseURL,
		Timeout: cfg.PokeAPI.Timeout,
		Breaker: speciesBreaker,
	}, logger)

	translator, err := buildTranslator(ctx, cfg, translationBreaker, logger)
	if err != nil {
		return nil, err
	}

	resultCache := pokemon.NewResultCache(pokemon.CacheOptions{
		TTL:         cfg.Cache.TTL,
		FallbackTTL: cfg.Cache.FallbackTTL,
		MaxEntries:  cfg.Cache.MaxEntries,
	}, logger)

	svc := pokemon.NewService(species, translator, resultCache, logger)

	if len(cfg.WarmUp.Names) > 0 {
		warmCtx, cancel := context.WithTimeout(ctx, constants.WarmUpConfig.Timeout)
		svc.WarmUp(warmCtx, cfg.WarmUp.Names, cfg.WarmUp.Concurrency)
		cancel()
	}

	logger.Info("Application services assembled",
		zap.String("translation_provider", cfg.Translation.Provider),
		zap.Duration("cache_ttl", cfg.Cache.TTL),
		zap.Int("cache_max_entries", cfg.Cache.MaxEntries),
	)

	return &Container{
		Config:   cfg,
		Logger:   logger,
		Pokemon:  svc,
		Breakers: []*util.CircuitBreaker{speciesBreaker, translationBreaker},
	}, nil
}

func buildTranslator(ctx context.Context, cfg *config.Config, breaker *util.CircuitBreaker, logger *zap.Logger) (translation.Translator, error) {
	switch cfg.Translation.Provider {
	case config.ProviderFunTranslations:
		return translation.NewFunTranslationsClient(translation.FunTranslationsOptions{
			BaseURL:     cfg.Translation.BaseURL,
			APIToken:    cfg.Translation.APIToken,
			Timeout:     cfg.Translation.Timeout,
			Breaker:     breaker,
			RatePerHour: cfg.Translation.RatePerHour,
		}, logger), nil

	case config.ProviderOpenAI, config.ProviderGemini:
		provider, err := buildTextProvider(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return translation.NewLLMTranslator(provider, cfg.Translation.Timeout, breaker, logger), nil

	default:
		return nil, fmt.Errorf("unknown translation provider %q", cfg.Translation.Provider)
	}
}

// buildTextProvider returns the configured LLM provider, falling back to the other
// vendor when its key is also present.
func buildTextProvider(ctx context.Context, cfg *config.Config, logger *zap.Logger) (translation.TextProvider, error) {
	var (
		openaiProvider translation.TextProvider
		geminiProvider translation.TextProvider
	)

	if cfg.OpenAI.APIKey != "" {
		p, err := translation.NewOpenAIProvider(cfg.OpenAI.APIKey, cfg.OpenAI.Model, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create OpenAI provider: %w", err)
		}
		openaiProvider = p
	}
	if cfg.Gemini.APIKey != "" {
		p, err := translation.NewGeminiProvider(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini provider: %w", err)
		}
		geminiProvider = p
	}

	primary, secondary := geminiProvider, openaiProvider
	if cfg.Translation.Provider == config.ProviderOpenAI {
		primary, secondary = openaiProvider, geminiProvider
	}
	if primary == nil {
		return nil, fmt.Errorf("no API key for translation provider %q", cfg.Translation.Provider)
	}
	if secondary == nil {
		return primary, nil
	}

	logger.Info("LLM translation fallback enabled",
		zap.String("primary", primary.Name()),
		zap.String("secondary", secondary.Name()),
	)
	return translation.NewFallbackProvider(primary, secondary, logger), nil
}

func newBreaker(name string, logger *zap.Logger) *util.CircuitBreaker {
	return util.NewCircuitBreaker(name,
		constants.CircuitBreakerConfig.FailureThreshold,
		constants.CircuitBreakerConfig.ResetTimeout,
		logger,
	)
}
