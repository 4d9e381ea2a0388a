package constants

import "time"

var CacheConfig = struct {
	TTL         time.Duration
	FallbackTTL time.Duration
	MaxEntries  int
}{
	TTL:         0,                // 0 - 만료 없음 (종 데이터는 불변)
	FallbackTTL: 10 * time.Minute, // 10분 - 번역 실패 결과
	MaxEntries:  2048,             // 약 1000종의 두 배
}

var APIConfig = struct {
	PokeAPIBaseURL        string
	FunTranslationsURL    string
	FunTranslationsHeader string
	UpstreamTimeout       time.Duration
}{
	PokeAPIBaseURL:        "https://pokeapi.co",
	FunTranslationsURL:    "https://api.funtranslations.com",
	FunTranslationsHeader: "X-Funtranslations-Api-Secret",
	UpstreamTimeout:       5 * time.Second,
}

var CircuitBreakerConfig = struct {
	FailureThreshold int
	ResetTimeout     time.Duration
	RateLimitTimeout time.Duration
}{
	FailureThreshold: 3,                // 3회 연속 실패 시 Circuit OPEN
	ResetTimeout:     30 * time.Second, // 기본 재시도 대기 시간 (30초)
	RateLimitTimeout: 10 * time.Minute, // 429 Rate Limit 전용 타임아웃
}

var ServerConfig = struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}{
	ReadTimeout:     10 * time.Second,
	WriteTimeout:    30 * time.Second,
	ShutdownTimeout: 10 * time.Second,
}

var WarmUpConfig = struct {
	Concurrency int
	Timeout     time.Duration
}{
	Concurrency: 4,
	Timeout:     2 * time.Minute,
}

var LLMConfig = struct {
	DefaultOpenAIModel string
	DefaultGeminiModel string
	MaxOutputTokens    int
	Temperature        float32
}{
	DefaultOpenAIModel: "gpt-4.1-mini",
	DefaultGeminiModel: "gemini-2.5-flash",
	MaxOutputTokens:    512,
	Temperature:        0.7,
}
