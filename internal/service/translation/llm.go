package translation

import (
	"context"
	"strings"
	"time"

	"github.com/kapu/pokedex-translator-go/internal/constants"
	"github.com/kapu/pokedex-translator-go/internal/domain"
	"github.com/kapu/pokedex-translator-go/internal/prompt"
	"github.com/kapu/pokedex-translator-go/internal/util"
	"github.com/kapu/pokedex-translator-go/pkg/errors"
	"go.uber.org/zap"
)

// LLMTranslator produces stylized text through a generative model instead of the
// funtranslations API.
type LLMTranslator struct {
	provider TextProvider
	timeout  time.Duration
	breaker  *util.CircuitBreaker
	logger   *zap.Logger
}

func NewLLMTranslator(provider TextProvider, timeout time.Duration, breaker *util.CircuitBreaker, logger *zap.Logger) *LLMTranslator {
	if timeout <= 0 {
		timeout = constants.APIConfig.UpstreamTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LLMTranslator{
		provider: provider,
		timeout:  timeout,
		breaker:  breaker,
		logger:   logger,
	}
}

func (t *LLMTranslator) Translate(ctx context.Context, text string, style domain.TranslationStyle) (string, error) {
	service := strings.ToLower(t.provider.Name())

	if strings.TrimSpace(text) == "" {
		return "", errors.NewValidationError("text must not be empty", "text", text)
	}
	rendered, err := prompt.BuildStylize(style, text)
	if err != nil {
		return "", errors.NewValidationError(err.Error(), "style", style)
	}

	if t.breaker != nil {
		if ok, retryAfter := t.breaker.Allow(); !ok {
			return "", errors.NewUnavailableError("translation provider unavailable", service, retryAfter)
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	out, err := t.provider.Generate(callCtx, rendered)
	out = prompt.CleanCompletion(out)
	if err == nil && out == "" {
		err = errors.NewAPIError("empty completion", service, 0, nil)
	}

	if t.breaker != nil {
		switch {
		case err == nil:
			t.breaker.RecordSuccess()
		case ctx.Err() != nil:
			t.breaker.RecordNeutral()
		case isRateLimitError(err):
			t.breaker.RecordFailure(constants.CircuitBreakerConfig.RateLimitTimeout)
		default:
			t.breaker.RecordFailure(0)
		}
	}

	if err != nil {
		t.logger.Warn("LLM translation failed",
			zap.String("provider", t.provider.Name()),
			zap.String("style", style.String()),
			zap.Error(err),
		)
		if errors.Code(err) != "" {
			return "", err
		}
		return "", errors.NewAPIError("translation provider failed", service, 0, nil).WithCause(err)
	}
	return out, nil
}
