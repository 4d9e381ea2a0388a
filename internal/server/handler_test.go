package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/kapu/pokedex-translator-go/internal/domain"
	"github.com/kapu/pokedex-translator-go/internal/service/cache"
	"github.com/kapu/pokedex-translator-go/internal/util"
	"github.com/kapu/pokedex-translator-go/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeResolver struct {
	mu     sync.Mutex
	names  []string
	result domain.PokemonResult
	err    error
}

func (f *fakeResolver) Resolve(_ context.Context, rawName string) (domain.PokemonResult, error) {
	f.mu.Lock()
	f.names = append(f.names, rawName)
	f.mu.Unlock()
	return f.result, f.err
}

func newTestServer(t *testing.T, resolver *fakeResolver, deps Dependencies) *Server {
	t.Helper()
	deps.Resolver = resolver
	deps.Logger = zap.NewNop()
	srv, err := New("127.0.0.1:0", deps)
	require.NoError(t, err)
	return srv
}

func doGet(srv *Server, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

var mewtwo = domain.PokemonResult{
	Name:        "mewtwo",
	Description: "Created by a scientist, it was.",
	IsLegendary: true,
	Habitat:     "rare",
	Translated:  true,
	Style:       domain.StyleYoda,
}

func TestGetPokemon(t *testing.T) {
	for _, path := range []string{"/pokemon/mewtwo", "/pokemon/translated/mewtwo"} {
		t.Run(path, func(t *testing.T) {
			resolver := &fakeResolver{result: mewtwo}
			srv := newTestServer(t, resolver, Dependencies{})

			rec := doGet(srv, path)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
			assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, map[string]any{
				"name":        "mewtwo",
				"description": "Created by a scientist, it was.",
				"isLegendary": true,
				"habitat":     "rare",
			}, body)
			assert.Equal(t, []string{"mewtwo"}, resolver.names)
		})
	}
}

func TestGetPokemonPassesEscapedName(t *testing.T) {
	resolver := &fakeResolver{result: mewtwo}
	srv := newTestServer(t, resolver, Dependencies{})

	rec := doGet(srv, "/pokemon/Mr%2DMime")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Mr-Mime"}, resolver.names)
}

func TestGetPokemonErrors(t *testing.T) {
	tests := []struct {
		desc    string
		err     error
		status  int
		message string
	}{
		{"not found", errors.NewNotFoundError("pokemon", "missingno"), http.StatusNotFound, "Failed to find pokemon"},
		{"invalid", errors.NewValidationError("invalid pokemon name", "name", "??"), http.StatusBadRequest, "Invalid pokemon name"},
		{"upstream", errors.NewAPIError("PokeAPI error: 500", "pokeapi", 500, nil), http.StatusBadGateway, "Failed to get pokemon"},
		{"unavailable", errors.NewUnavailableError("open", "pokeapi", time.Minute), http.StatusServiceUnavailable, "Failed to get pokemon"},
		{"timeout", context.DeadlineExceeded, http.StatusGatewayTimeout, "Failed to get pokemon"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			srv := newTestServer(t, &fakeResolver{err: tt.err}, Dependencies{})

			rec := doGet(srv, "/pokemon/missingno")
			assert.Equal(t, tt.status, rec.Code)

			var body errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.message, body.Error)
		})
	}
}

func TestGetPokemonEmptyName(t *testing.T) {
	resolver := &fakeResolver{err: errors.NewValidationError("pokemon name must not be empty", "name", "")}
	srv := newTestServer(t, resolver, Dependencies{})

	rec := doGet(srv, "/pokemon/")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	srv := newTestServer(t, &fakeResolver{}, Dependencies{})
	rec := doGet(srv, "/berries/oran")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	breaker := util.NewCircuitBreaker("pokeapi", 1, time.Minute, zap.NewNop())
	breaker.RecordFailure(0)

	srv := newTestServer(t, &fakeResolver{}, Dependencies{
		CacheStats: func() cache.Stats {
			return cache.Stats{Entries: 2, Hits: 5, Misses: 2, Computations: 2}
		},
		Breakers: []*util.CircuitBreaker{breaker},
	})

	rec := doGet(srv, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)

	var body healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	require.NotNil(t, body.Cache)
	assert.Equal(t, int64(5), body.Cache.Hits)
	assert.Equal(t, util.CircuitStateOpen, body.Breakers["pokeapi"].State)
}

func TestNewRequiresResolver(t *testing.T) {
	_, err := New(":0", Dependencies{})
	assert.Error(t, err)
}
