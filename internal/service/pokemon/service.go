package pokemon

import (
	"context"
	"time"

	"github.com/kapu/pokedex-translator-go/internal/domain"
	"github.com/kapu/pokedex-translator-go/internal/service/cache"
	"github.com/kapu/pokedex-translator-go/internal/service/pokeapi"
	"github.com/kapu/pokedex-translator-go/internal/service/translation"
	"github.com/kapu/pokedex-translator-go/pkg/errors"
	"go.uber.org/zap"
)

// Outcome is the terminal state of one resolution.
type Outcome string

const (
	OutcomeDone           Outcome = "done"
	OutcomeFallbackDone   Outcome = "fallback_done"
	OutcomeNotFound       Outcome = "not_found"
	OutcomeInvalidInput   Outcome = "invalid_input"
	OutcomeUpstreamFailed Outcome = "upstream_failed"
	OutcomeCancelled      Outcome = "cancelled"
)

// Resolver is what the HTTP layer needs from this package.
type Resolver interface {
	Resolve(ctx context.Context, rawName string) (domain.PokemonResult, error)
}

type ResultCache = cache.ResultCache[domain.PokemonResult]

// CacheOptions configures NewResultCache.
type CacheOptions struct {
	TTL         time.Duration
	FallbackTTL time.Duration
	MaxEntries  int
}

// NewResultCache builds the per-Pokémon cache. Fallback results get FallbackTTL so a
// recovered translation service is consulted again; translated results get TTL.
func NewResultCache(opts CacheOptions, logger *zap.Logger) *ResultCache {
	return cache.NewResultCache(cache.Config[domain.PokemonResult]{
		TTL:        opts.TTL,
		MaxEntries: opts.MaxEntries,
		TTLFunc: func(r domain.PokemonResult) time.Duration {
			if r.Translated {
				return opts.TTL
			}
			return opts.FallbackTTL
		},
	}, logger)
}

// Service resolves a Pokémon name into a served result: cache, species lookup, style
// selection, translation with fallback to the original description.
type Service struct {
	species    pokeapi.SpeciesFetcher
	translator translation.Translator
	cache      *ResultCache
	logger     *zap.Logger
}

func NewService(species pokeapi.SpeciesFetcher, translator translation.Translator, resultCache *ResultCache, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if resultCache == nil {
		resultCache = NewResultCache(CacheOptions{}, logger)
	}
	return &Service{
		species:    species,
		translator: translator,
		cache:      resultCache,
		logger:     logger,
	}
}

// Resolve returns the result for rawName. Errors are *errors.ValidationError for a bad
// name, *errors.NotFoundError for an unknown species, and upstream errors from the
// species lookup. Translation failures never surface; they fall back to the original
// description.
func (s *Service) Resolve(ctx context.Context, rawName string) (domain.PokemonResult, error) {
	name := domain.NormalizeName(rawName)
	if name == "" {
		s.logOutcome(name, OutcomeInvalidInput, nil)
		return domain.PokemonResult{}, errors.NewValidationError("pokemon name must not be empty", "name", rawName)
	}
	if !domain.IsValidName(name) {
		s.logOutcome(name, OutcomeInvalidInput, nil)
		return domain.PokemonResult{}, errors.NewValidationError("invalid pokemon name", "name", rawName)
	}

	return s.cache.GetOrCompute(ctx, name, func(ctx context.Context) (domain.PokemonResult, error) {
		return s.compute(ctx, name)
	})
}

func (s *Service) compute(ctx context.Context, name string) (domain.PokemonResult, error) {
	info, err := s.species.FetchSpecies(ctx, name)
	if err != nil {
		if errors.IsNotFound(err) {
			s.logOutcome(name, OutcomeNotFound, nil)
		} else {
			s.logOutcome(name, OutcomeUpstreamFailed, err)
		}
		return domain.PokemonResult{}, err
	}

	style := domain.SelectStyle(info)

	translated, err := s.translator.Translate(ctx, info.Description, style)
	if err != nil && ctx.Err() != nil {
		// Every waiter left; a fallback built now would be cached in place of a real translation.
		s.logOutcome(name, OutcomeCancelled, nil)
		return domain.PokemonResult{}, ctx.Err()
	}
	if err != nil {
		s.logger.Info("Translation unavailable, serving original description",
			zap.String("pokemon", name),
			zap.String("style", style.String()),
			zap.String("code", errors.Code(err)),
			zap.Error(err),
		)
		s.logOutcome(name, OutcomeFallbackDone, nil)
		return domain.NewPokemonResult(info, info.Description, style, false), nil
	}

	s.logOutcome(name, OutcomeDone, nil)
	return domain.NewPokemonResult(info, translated, style, true), nil
}

func (s *Service) logOutcome(name string, outcome Outcome, err error) {
	fields := []zap.Field{
		zap.String("pokemon", name),
		zap.String("outcome", string(outcome)),
	}
	if err != nil {
		s.logger.Warn("Pokemon resolution failed", append(fields, zap.Error(err))...)
		return
	}
	s.logger.Debug("Pokemon resolved", fields...)
}

// CacheStats exposes cache counters for the health endpoint.
func (s *Service) CacheStats() cache.Stats {
	return s.cache.Stats()
}
