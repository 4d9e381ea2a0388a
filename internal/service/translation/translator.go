package translation

import (
	"context"

	"github.com/kapu/pokedex-translator-go/internal/domain"
)

// Translator rewrites text in the given style. Implementations make at most one
// upstream attempt per call and report every failure as an error; they never return
// an empty string without an error.
type Translator interface {
	Translate(ctx context.Context, text string, style domain.TranslationStyle) (string, error)
}

// TranslatorFunc adapts a function to Translator.
type TranslatorFunc func(ctx context.Context, text string, style domain.TranslationStyle) (string, error)

func (f TranslatorFunc) Translate(ctx context.Context, text string, style domain.TranslationStyle) (string, error) {
	return f(ctx, text, style)
}
