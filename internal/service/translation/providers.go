package translation

import (
	"context"
	stderrors "errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/kapu/pokedex-translator-go/internal/constants"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// TextProvider is a single-prompt text generation backend.
type TextProvider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// OpenAIProvider wraps the OpenAI chat completion client.
type OpenAIProvider struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

func NewOpenAIProvider(apiKey, model string, logger *zap.Logger) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}
	if model == "" {
		model = constants.LLMConfig.DefaultOpenAIModel
	}
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIProvider{
		client: &client,
		model:  model,
		logger: logger,
	}, nil
}

func (o *OpenAIProvider) Name() string {
	return "OpenAI"
}

func (o *OpenAIProvider) Generate(ctx context.Context, prompt string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage("You are a literary style-transfer engine. Output only the rewritten text."),
			openai.UserMessage(prompt),
		},
		MaxCompletionTokens: openai.Int(int64(constants.LLMConfig.MaxOutputTokens)),
	}
	if !strings.HasPrefix(o.model, "gpt-5") {
		params.Temperature = openai.Float(float64(constants.LLMConfig.Temperature))
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		o.logger.Warn("OpenAI generation failed", zap.String("model", o.model), zap.Error(err))
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in OpenAI response")
	}

	o.logger.Debug("OpenAI response received",
		zap.String("model", o.model),
		zap.Int64("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int64("completion_tokens", resp.Usage.CompletionTokens),
	)
	return resp.Choices[0].Message.Content, nil
}

// GeminiProvider wraps the Gemini client.
type GeminiProvider struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

func NewGeminiProvider(ctx context.Context, apiKey, model string, logger *zap.Logger) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if model == "" {
		model = constants.LLMConfig.DefaultGeminiModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiProvider{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

func (g *GeminiProvider) Name() string {
	return "Gemini"
}

func (g *GeminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	temperature := constants.LLMConfig.Temperature
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: int32(constants.LLMConfig.MaxOutputTokens),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}, config)
	if err != nil {
		g.logger.Warn("Gemini generation failed", zap.String("model", g.model), zap.Error(err))
		return "", err
	}

	text := extractTextFromGeminiResponse(resp)
	if text == "" {
		return "", fmt.Errorf("empty response from Gemini")
	}
	return text, nil
}

func extractTextFromGeminiResponse(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return ""
	}

	var texts []string
	for _, part := range candidate.Content.Parts {
		if part.Text != "" {
			texts = append(texts, part.Text)
		}
	}

	return strings.Join(texts, "")
}

// FallbackProvider tries primary first and secondary only when primary fails.
type FallbackProvider struct {
	primary   TextProvider
	secondary TextProvider
	logger    *zap.Logger
}

func NewFallbackProvider(primary, secondary TextProvider, logger *zap.Logger) *FallbackProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FallbackProvider{primary: primary, secondary: secondary, logger: logger}
}

func (f *FallbackProvider) Name() string {
	return f.primary.Name()
}

func (f *FallbackProvider) Generate(ctx context.Context, prompt string) (string, error) {
	text, primaryErr := f.primary.Generate(ctx, prompt)
	if primaryErr == nil {
		return text, nil
	}
	if ctx.Err() != nil {
		return "", primaryErr
	}

	f.logger.Info("Fallback: Generating with "+f.secondary.Name(),
		zap.String("primary", f.primary.Name()),
		zap.Error(primaryErr),
	)
	text, err := f.secondary.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%s: %w; %s: %w", f.primary.Name(), primaryErr, f.secondary.Name(), err)
	}
	return text, nil
}

var (
	geminiCodeRegex = regexp.MustCompile(`"code":(\d{3})`)
	openaiCodeRegex = regexp.MustCompile(`^(\d{3})\s`)
)

// isRateLimitError reports whether a provider error means quota or rate exhaustion.
func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}

	// A joined fallback error may carry a non-429 OpenAI error next to a rate-limited Gemini one.
	var oaErr *openai.Error
	if stderrors.As(err, &oaErr) && oaErr.StatusCode == 429 {
		return true
	}

	msg := err.Error()
	if strings.Contains(msg, "429") || strings.Contains(msg, "Rate limit") || strings.Contains(msg, "quota") ||
		strings.Contains(msg, "RESOURCE_EXHAUSTED") {
		return true
	}

	for _, re := range []*regexp.Regexp{geminiCodeRegex, openaiCodeRegex} {
		if matches := re.FindStringSubmatch(msg); len(matches) > 1 {
			if code, err := strconv.Atoi(matches[1]); err == nil {
				return code == 429
			}
		}
	}
	return false
}
