package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func clearLLMEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"STUDYMENTOR_LLM_PROVIDER", "STUDYMENTOR_GEMINI_API_KEY", "STUDYMENTOR_GEMINI_MODEL",
		"STUDYMENTOR_OPENAI_API_KEY", "STUDYMENTOR_ANTHROPIC_API_KEY", "STUDYMENTOR_OPENROUTER_API_KEY",
		"STUDYMENTOR_LLM_MAX_ATTEMPTS", "STUDYMENTOR_LLM_TIMEOUT",
		"GEMINI_API_KEY", "API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "gemini", cfg.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	assert.Equal(t, 1, cfg.Retry.MaxAttempts)
	assert.Zero(t, cfg.Timeout)
}

func TestConfigFromEnv(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("STUDYMENTOR_LLM_PROVIDER", "openai")
	t.Setenv("STUDYMENTOR_OPENAI_API_KEY", "sk-test")
	t.Setenv("STUDYMENTOR_LLM_MAX_ATTEMPTS", "3")
	t.Setenv("STUDYMENTOR_LLM_TIMEOUT", "45s")

	cfg := ConfigFromEnv()
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, 45*time.Second, cfg.Timeout)
	assert.NoError(t, cfg.Validate())
}

func TestConfigFromEnv_IgnoresMalformedTuning(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("STUDYMENTOR_LLM_MAX_ATTEMPTS", "lots")
	t.Setenv("STUDYMENTOR_LLM_TIMEOUT", "soon")

	cfg := ConfigFromEnv()
	assert.Equal(t, 1, cfg.Retry.MaxAttempts)
	assert.Zero(t, cfg.Timeout)
}

func TestDiscoverConfig(t *testing.T) {
	clearLLMEnv(t)
	_, ok := DiscoverConfig()
	assert.False(t, ok)

	t.Setenv("API_KEY", "g-key")
	cfg, ok := DiscoverConfig()
	assert.True(t, ok)
	assert.Equal(t, "gemini", cfg.Provider)
	assert.Equal(t, "g-key", cfg.Gemini.APIKey)

	t.Setenv("API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "a-key")
	cfg, ok = DiscoverConfig()
	assert.True(t, ok)
	assert.Equal(t, "anthropic", cfg.Provider)
}

func TestConfig_ValidateOpenRouterAndGemini(t *testing.T) {
	assert.Error(t, Config{Provider: "gemini"}.Validate())
	assert.Error(t, Config{Provider: "openrouter"}.Validate())
	assert.NoError(t, Config{Provider: "openrouter", OpenRouter: OpenRouterConfig{APIKey: "k"}}.Validate())
}
