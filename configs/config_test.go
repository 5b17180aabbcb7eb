package configs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withKeys() *Config {
	v := NewViper()
	v.Set("GROQ_API_KEY", "groq-key")
	v.Set("GEMINI_API_KEY", "gemini-key")
	return FromViper(v)
}

func TestFromViper_Defaults(t *testing.T) {
	cfg := withKeys()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, KindGroq, cfg.Details.Kind)
	assert.Equal(t, "groq-key", cfg.Details.APIKey)
	assert.Equal(t, DefaultGroqEndpoint, cfg.Details.Endpoint)
	assert.Equal(t, 30*time.Second, cfg.Details.Timeout)

	assert.Equal(t, KindGemini, cfg.Fallback.Kind)
	assert.Equal(t, "gemini-key", cfg.Fallback.APIKey)

	assert.Equal(t, KindGemini, cfg.OCR.Kind)
	assert.Equal(t, 60*time.Second, cfg.OCR.Timeout)
	assert.False(t, cfg.OCRFallback.Enabled())

	assert.Equal(t, BackendSQLite, cfg.Cache.Backend)
	assert.Equal(t, 7*24*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, "medscan_", cfg.Cache.KeyPrefix)
	assert.Equal(t, "English", cfg.BaseLanguage)
}

func TestFromViper_OCRFallback(t *testing.T) {
	v := NewViper()
	v.Set("GROQ_API_KEY", "groq-key")
	v.Set("GEMINI_API_KEY", "gemini-key")
	v.Set("MISTRAL_API_KEY", "mistral-key")
	v.Set("OCR_FALLBACK_PROVIDER", " Mistral ")

	cfg := FromViper(v)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, KindMistral, cfg.OCRFallback.Kind)
	assert.Equal(t, "mistral-ocr-latest", cfg.OCRFallback.Model)
	assert.Equal(t, DefaultMistralEndpoint, cfg.OCRFallback.Endpoint)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing details key", func(c *Config) { c.Details.APIKey = "" }},
		{"unknown details kind", func(c *Config) { c.Details.Kind = "mistral" }},
		{"unknown cache backend", func(c *Config) { c.Cache.Backend = "floppy" }},
		{"zero ttl", func(c *Config) { c.Cache.TTL = 0 }},
		{"sqlite without path", func(c *Config) { c.Cache.SQLitePath = "" }},
		{"bad ocr kind", func(c *Config) { c.OCR.Kind = "fax" }},
		{"no base language", func(c *Config) { c.BaseLanguage = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := withKeys()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidate_OptionalFallback(t *testing.T) {
	cfg := withKeys()
	cfg.Fallback = ProviderConfig{}
	assert.NoError(t, cfg.Validate())

	cfg.OCR = ProviderConfig{Kind: KindTesseract, Model: "eng"}
	assert.NoError(t, cfg.Validate())
}
