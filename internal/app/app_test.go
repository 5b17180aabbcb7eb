package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bosocmputer/medicine_ocr_gemini/configs"
)

func groq(model string) configs.ProviderConfig {
	return configs.ProviderConfig{
		Kind:     configs.KindGroq,
		Endpoint: "http://127.0.0.1:1/openai/v1",
		APIKey:   "test-key",
		Model:    model,
		Timeout:  time.Second,
	}
}

func testConfig() *configs.Config {
	return &configs.Config{
		Details:   groq("llama-3.3-70b-versatile"),
		Suggest:   groq("llama-3.1-8b-instant"),
		Cleanup:   groq("llama-3.3-70b-versatile"),
		Translate: groq("llama-3.3-70b-versatile"),
		OCR:       groq("llama-4-scout"),
		Cache: configs.CacheConfig{
			Backend:   configs.BackendMemory,
			TTL:       configs.DefaultCacheTTL,
			KeyPrefix: configs.DefaultCacheKeyPrefix,
		},
		BaseLanguage:   "English",
		MaxUploadBytes: 1 << 20,
		AllowedOrigins: "*",
	}
}

func TestNew_WiresServices(t *testing.T) {
	a, err := New(context.Background(), testConfig())
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.Lookup)
	assert.NotNil(t, a.Extractor)
	assert.NotNil(t, a.Cache)
	assert.Equal(t, "English", a.Translator.BaseLanguage())
	assert.NotNil(t, a.Handler().Router())

	// details, cleanup and translate share one config
	assert.Len(t, a.completers, 2)
	assert.Equal(t, 0, a.Cache.Count(context.Background()))
}

func TestNew_BadBackend(t *testing.T) {
	cfg := testConfig()
	cfg.Cache.Backend = "floppy"

	_, err := New(context.Background(), cfg)
	assert.Error(t, err)
}

func TestNew_BadOCRProvider(t *testing.T) {
	cfg := testConfig()
	cfg.OCR.Kind = "carrier-pigeon"

	_, err := New(context.Background(), cfg)
	assert.Error(t, err)
}
