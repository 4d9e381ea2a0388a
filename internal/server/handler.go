package server

import (
	"net/http"
	"net/url"

	"github.com/kapu/pokedex-translator-go/internal/service/cache"
	"github.com/kapu/pokedex-translator-go/internal/service/pokemon"
	"github.com/kapu/pokedex-translator-go/internal/util"
	"github.com/kapu/pokedex-translator-go/pkg/errors"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	msgNotFound     = "Failed to find pokemon"
	msgInvalidInput = "Invalid pokemon name"
	msgUpstream     = "Failed to get pokemon"
)

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status   string                               `json:"status"`
	Cache    *cache.Stats                         `json:"cache,omitempty"`
	Breakers map[string]util.CircuitBreakerStatus `json:"breakers,omitempty"`
}

type handler struct {
	resolver   pokemon.Resolver
	cacheStats func() cache.Stats
	breakers   []*util.CircuitBreaker
	logger     *zap.Logger
}

func (h *handler) register(e *echo.Echo) {
	e.GET("/healthz", h.health)
	// Kept for clients of the older response shape; same payload as /pokemon/:name.
	e.GET("/pokemon/translated/:name", h.getPokemon)
	e.GET("/pokemon/:name", h.getPokemon)
	e.GET("/pokemon/", h.getPokemon)
}

func (h *handler) getPokemon(c echo.Context) error {
	name := c.Param("name")
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}

	result, err := h.resolver.Resolve(c.Request().Context(), name)
	if err != nil {
		return h.writeError(c, name, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *handler) writeError(c echo.Context, name string, err error) error {
	status := errors.StatusCode(err)

	var message string
	switch {
	case errors.IsValidation(err):
		status = http.StatusBadRequest
		message = msgInvalidInput
	case errors.IsNotFound(err):
		status = http.StatusNotFound
		message = msgNotFound
	case errors.IsUnavailable(err):
		status = http.StatusServiceUnavailable
		message = msgUpstream
	default:
		if status < http.StatusInternalServerError {
			status = http.StatusBadGateway
		}
		message = msgUpstream
	}

	if status >= http.StatusInternalServerError {
		h.logger.Warn("Pokemon request failed",
			zap.String("pokemon", name),
			zap.Int("status", status),
			zap.String("code", errors.Code(err)),
			zap.Error(err),
		)
	}
	return c.JSON(status, errorResponse{Error: message})
}

func (h *handler) health(c echo.Context) error {
	resp := healthResponse{Status: "ok"}
	if h.cacheStats != nil {
		stats := h.cacheStats()
		resp.Cache = &stats
	}
	if len(h.breakers) > 0 {
		resp.Breakers = make(map[string]util.CircuitBreakerStatus, len(h.breakers))
		for _, cb := range h.breakers {
			resp.Breakers[cb.Name()] = cb.GetStatus()
		}
	}
	return c.JSON(http.StatusOK, resp)
}
