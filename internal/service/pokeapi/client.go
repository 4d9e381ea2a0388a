package pokeapi

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/kapu/pokedex-translator-go/internal/constants"
	"github.com/kapu/pokedex-translator-go/internal/domain"
	"github.com/kapu/pokedex-translator-go/internal/util"
	"github.com/kapu/pokedex-translator-go/pkg/errors"
	"go.uber.org/zap"
)

const serviceName = "pokeapi"

// maxBodyBytes caps how much of a species payload is read.
const maxBodyBytes = 4 << 20

// SpeciesFetcher is the contract the orchestrator depends on.
type SpeciesFetcher interface {
	FetchSpecies(ctx context.Context, name string) (*domain.SpeciesInfo, error)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	breaker    *util.CircuitBreaker
	logger     *zap.Logger
}

type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Breaker    *util.CircuitBreaker
}

func NewClient(opts Options, logger *zap.Logger) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = constants.APIConfig.PokeAPIBaseURL
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
	return &Client{
		baseURL:    opts.BaseURL,
		httpClient: opts.HTTPClient,
		timeout:    opts.Timeout,
		breaker:    opts.Breaker,
		logger:     logger,
	}
}

// FetchSpecies looks up a species by name. It returns a *errors.NotFoundError when
// PokeAPI has no such species, a *errors.UnavailableError when the breaker is open and
// a *errors.APIError for every other failure. It makes at most one request.
func (c *Client) FetchSpecies(ctx context.Context, name string) (*domain.SpeciesInfo, error) {
	name = domain.NormalizeName(name)
	if !domain.IsValidName(name) {
		return nil, errors.NewValidationError("invalid pokemon name", "name", name)
	}

	if c.breaker != nil {
		if ok, retryAfter := c.breaker.Allow(); !ok {
			c.logger.Warn("PokeAPI circuit open, skipping request",
				zap.String("pokemon", name),
				zap.Duration("retry_after", retryAfter),
			)
			return nil, errors.NewUnavailableError("species service unavailable", serviceName, retryAfter)
		}
	}

	raw, err := c.doRequest(ctx, name)
	c.recordOutcome(ctx, err)
	if err != nil {
		return nil, err
	}

	return raw.ToSpeciesInfo(name), nil
}

func (c *Client) doRequest(ctx context.Context, name string) (*SpeciesRaw, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reqURL := fmt.Sprintf("%s/api/v2/pokemon-species/%s", c.baseURL, url.PathEscape(name))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errors.NewAPIError("failed to create request", serviceName, 0, map[string]any{
			"url": reqURL,
		}).WithCause(err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("PokeAPI request failed",
			zap.String("pokemon", name),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return nil, errors.NewAPIError("species request failed", serviceName, 0, map[string]any{
			"url": reqURL,
		}).WithCause(err)
	}
	defer resp.Body.Close()

	c.logger.Debug("PokeAPI response",
		zap.String("pokemon", name),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, errors.NewNotFoundError("pokemon", name)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, errors.NewAPIError("species service rate limited", serviceName, resp.StatusCode, map[string]any{
			"url": reqURL,
		})
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, errors.NewAPIError(fmt.Sprintf("PokeAPI error: %s", resp.Status), serviceName, resp.StatusCode, map[string]any{
			"url":  reqURL,
			"body": string(body),
		})
	}

	var raw SpeciesRaw
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&raw); err != nil {
		return nil, errors.NewAPIError("failed to decode species payload", serviceName, resp.StatusCode, map[string]any{
			"url": reqURL,
		}).WithCause(err)
	}

	return &raw, nil
}

func (c *Client) recordOutcome(ctx context.Context, err error) {
	if c.breaker == nil {
		return
	}

	var apiErr *errors.APIError
	switch {
	case err == nil, errors.IsNotFound(err):
		c.breaker.RecordSuccess()
	case ctx.Err() != nil:
		// The caller went away; that says nothing about PokeAPI.
		c.breaker.RecordNeutral()
	case stderrors.As(err, &apiErr) && apiErr.UpstreamStatus == http.StatusTooManyRequests:
		c.breaker.RecordFailure(constants.CircuitBreakerConfig.RateLimitTimeout)
	default:
		c.breaker.RecordFailure(0)
	}
}
