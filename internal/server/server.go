package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/kapu/pokedex-translator-go/internal/constants"
	"github.com/kapu/pokedex-translator-go/internal/service/cache"
	"github.com/kapu/pokedex-translator-go/internal/service/pokemon"
	"github.com/kapu/pokedex-translator-go/internal/util"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// Dependencies bundles what the HTTP server needs.
type Dependencies struct {
	Resolver   pokemon.Resolver
	CacheStats func() cache.Stats
	Breakers   []*util.CircuitBreaker
	Logger     *zap.Logger
}

type Server struct {
	echo   *echo.Echo
	addr   string
	logger *zap.Logger
}

func New(addr string, deps Dependencies) (*Server, error) {
	if deps.Resolver == nil {
		return nil, fmt.Errorf("resolver must not be nil")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = constants.ServerConfig.ReadTimeout
	e.Server.WriteTimeout = constants.ServerConfig.WriteTimeout

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(accessLog(deps.Logger))

	h := &handler{
		resolver:   deps.Resolver,
		cacheStats: deps.CacheStats,
		breakers:   deps.Breakers,
		logger:     deps.Logger,
	}
	h.register(e)

	return &Server{
		echo:   e,
		addr:   addr,
		logger: deps.Logger,
	}, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", zap.String("addr", s.addr))
	if err := s.echo.Start(s.addr); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
