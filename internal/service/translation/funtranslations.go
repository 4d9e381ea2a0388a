package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kapu/pokedex-translator-go/internal/constants"
	"github.com/kapu/pokedex-translator-go/internal/domain"
	"github.com/kapu/pokedex-translator-go/internal/util"
	"github.com/kapu/pokedex-translator-go/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const funTranslationsService = "funtranslations"

type funTranslationsRequest struct {
	Text string `json:"text"`
}

// FunTranslationsResponse is the body of a successful /translate/{style}.json call.
type FunTranslationsResponse struct {
	Success struct {
		Total int `json:"total"`
	} `json:"success"`
	Contents struct {
		Translated  string `json:"translated"`
		Text        string `json:"text"`
		Translation string `json:"translation"`
	} `json:"contents"`
}

type FunTranslationsClient struct {
	baseURL    string
	apiToken   string
	httpClient *http.Client
	timeout    time.Duration
	breaker    *util.CircuitBreaker
	limiter    *rate.Limiter
	logger     *zap.Logger
}

type FunTranslationsOptions struct {
	BaseURL    string
	APIToken   string
	Timeout    time.Duration
	HTTPClient *http.Client
	Breaker    *util.CircuitBreaker

	// RatePerHour throttles outgoing calls client-side; 0 disables throttling.
	RatePerHour int
}

func NewFunTranslationsClient(opts FunTranslationsOptions, logger *zap.Logger) *FunTranslationsClient {
	if opts.BaseURL == "" {
		opts.BaseURL = constants.APIConfig.FunTranslationsURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = constants.APIConfig.UpstreamTimeout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	var limiter *rate.Limiter
	if opts.RatePerHour > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Hour/time.Duration(opts.RatePerHour)), opts.RatePerHour)
	}

	return &FunTranslationsClient{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		apiToken:   opts.APIToken,
		httpClient: opts.HTTPClient,
		timeout:    opts.Timeout,
		breaker:    opts.Breaker,
		limiter:    limiter,
		logger:     logger,
	}
}

func endpointFor(style domain.TranslationStyle) (string, error) {
	switch style {
	case domain.StyleYoda:
		return "translate/yoda.json", nil
	case domain.StyleShakespeare:
		return "translate/shakespeare.json", nil
	default:
		return "", fmt.Errorf("unsupported translation style %q", style)
	}
}

func (c *FunTranslationsClient) Translate(ctx context.Context, text string, style domain.TranslationStyle) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", errors.NewValidationError("text must not be empty", "text", text)
	}
	endpoint, err := endpointFor(style)
	if err != nil {
		return "", errors.NewValidationError(err.Error(), "style", style)
	}

	if c.breaker != nil {
		if ok, retryAfter := c.breaker.Allow(); !ok {
			return "", errors.NewUnavailableError("translation service unavailable", funTranslationsService, retryAfter)
		}
	}

	if c.limiter != nil && !c.limiter.Allow() {
		if c.breaker != nil {
			c.breaker.RecordNeutral()
		}
		c.logger.Debug("Local translation budget exhausted", zap.String("style", style.String()))
		retryAfter := time.Duration(float64(time.Second) / float64(c.limiter.Limit()))
		return "", errors.NewUnavailableError("translation budget exhausted", funTranslationsService, retryAfter)
	}

	translated, status, err := c.doRequest(ctx, endpoint, text)
	c.recordOutcome(ctx, status, err)
	if err != nil {
		return "", err
	}
	return translated, nil
}

func (c *FunTranslationsClient) doRequest(ctx context.Context, endpoint, text string) (string, int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reqURL := c.baseURL + "/" + endpoint

	payload, err := json.Marshal(funTranslationsRequest{Text: text})
	if err != nil {
		return "", 0, errors.NewAPIError("failed to marshal request", funTranslationsService, 0, nil).WithCause(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return "", 0, errors.NewAPIError("failed to create request", funTranslationsService, 0, map[string]any{
			"url": reqURL,
		}).WithCause(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiToken != "" {
		req.Header.Set(constants.APIConfig.FunTranslationsHeader, c.apiToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", 0, errors.NewAPIError("translation request failed", funTranslationsService, 0, map[string]any{
			"url": reqURL,
		}).WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", resp.StatusCode, errors.NewAPIError("translation service rate limited", funTranslationsService, resp.StatusCode, map[string]any{
			"url": reqURL,
		})
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", resp.StatusCode, errors.NewAPIError(fmt.Sprintf("translation API error: %s", resp.Status), funTranslationsService, resp.StatusCode, map[string]any{
			"url":  reqURL,
			"body": string(body),
		})
	}

	var body FunTranslationsResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err != nil {
		return "", resp.StatusCode, errors.NewAPIError("failed to decode translation payload", funTranslationsService, resp.StatusCode, map[string]any{
			"url": reqURL,
		}).WithCause(err)
	}

	if body.Success.Total != 1 || strings.TrimSpace(body.Contents.Translated) == "" {
		return "", resp.StatusCode, errors.NewAPIError("translation not successful", funTranslationsService, resp.StatusCode, map[string]any{
			"url":   reqURL,
			"total": body.Success.Total,
		})
	}

	return body.Contents.Translated, resp.StatusCode, nil
}

func (c *FunTranslationsClient) recordOutcome(ctx context.Context, status int, err error) {
	if c.breaker == nil {
		return
	}
	switch {
	case err == nil:
		c.breaker.RecordSuccess()
	case ctx.Err() != nil:
		c.breaker.RecordNeutral()
	case status == http.StatusTooManyRequests:
		c.breaker.RecordFailure(constants.CircuitBreakerConfig.RateLimitTimeout)
	case status >= 200 && status < 300:
		// Bad payload from a healthy service.
		c.breaker.RecordSuccess()
	default:
		c.breaker.RecordFailure(0)
	}
}
