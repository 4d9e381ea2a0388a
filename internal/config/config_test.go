package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"API_TOKEN", "POKEMON_API_BASE_URL", "TRANSLATION_API_BASE_URL", "SHAKESPEARE_API_BASE_URL",
		"UPSTREAM_TIMEOUT_SECONDS", "CACHE_TTL_MINUTES", "CACHE_FALLBACK_TTL_MINUTES", "CACHE_MAX_ENTRIES",
		"TRANSLATION_PROVIDER", "TRANSLATION_RATE_PER_HOUR", "OPENAI_API_KEY", "GEMINI_API_KEY",
		"WARMUP_POKEMON", "WARMUP_CONCURRENCY", "LOG_LEVEL", "LOG_FILE",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("PORT", "8080")
}

func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.ListenAddr())
	assert.Equal(t, "https://pokeapi.co", cfg.PokeAPI.BaseURL)
	assert.Equal(t, "https://api.funtranslations.com", cfg.Translation.BaseURL)
	assert.Equal(t, ProviderFunTranslations, cfg.Translation.Provider)
	assert.Equal(t, 5*time.Second, cfg.PokeAPI.Timeout)
	assert.Equal(t, time.Duration(0), cfg.Cache.TTL)
	assert.Equal(t, 10*time.Minute, cfg.Cache.FallbackTTL)
	assert.Equal(t, 2048, cfg.Cache.MaxEntries)
	assert.Empty(t, cfg.WarmUp.Names)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadOverrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("POKEMON_API_BASE_URL", "http://localhost:9000/")
	t.Setenv("SHAKESPEARE_API_BASE_URL", "http://localhost:9001")
	t.Setenv("API_TOKEN", "secret")
	t.Setenv("UPSTREAM_TIMEOUT_SECONDS", "2")
	t.Setenv("CACHE_TTL_MINUTES", "60")
	t.Setenv("WARMUP_POKEMON", "pikachu, mewtwo,,zubat ")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000", cfg.PokeAPI.BaseURL)
	assert.Equal(t, "http://localhost:9001", cfg.Translation.BaseURL)
	assert.Equal(t, "secret", cfg.Translation.APIToken)
	assert.Equal(t, 2*time.Second, cfg.Translation.Timeout)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, []string{"pikachu", "mewtwo", "zubat"}, cfg.WarmUp.Names)
}

func TestTranslationBaseURLWinsOverLegacyName(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("SHAKESPEARE_API_BASE_URL", "http://legacy")
	t.Setenv("TRANSLATION_API_BASE_URL", "http://current")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://current", cfg.Translation.BaseURL)
}

func TestLegacyShakespeareEndpointIsTrimmed(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("SHAKESPEARE_API_BASE_URL", "https://api.funtranslations.com/translate/shakespeare.json")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://api.funtranslations.com", cfg.Translation.BaseURL)
}

func TestLoadRequiresPort(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("PORT", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidateProviders(t *testing.T) {
	setBaseEnv(t)

	t.Setenv("TRANSLATION_PROVIDER", "openai")
	_, err := Load()
	assert.ErrorContains(t, err, "OPENAI_API_KEY")

	t.Setenv("OPENAI_API_KEY", "sk-test")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, cfg.Translation.Provider)

	t.Setenv("TRANSLATION_PROVIDER", "Gemini")
	_, err = Load()
	assert.ErrorContains(t, err, "GEMINI_API_KEY")

	t.Setenv("TRANSLATION_PROVIDER", "babelfish")
	_, err = Load()
	assert.ErrorContains(t, err, "unknown TRANSLATION_PROVIDER")
}

func TestValidateRejectsNegativeCacheSettings(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("CACHE_MAX_ENTRIES", "-1")

	_, err := Load()
	assert.Error(t, err)
}
