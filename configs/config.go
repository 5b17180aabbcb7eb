// config.go - Configuration loaded from environment variables

package configs

import (
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Provider kinds understood by the AI factory
const (
	KindGroq      = "groq"
	KindOpenAI    = "openai"
	KindGemini    = "gemini"
	KindMistral   = "mistral"
	KindTesseract = "tesseract"
)

// Cache backends understood by the storage factory
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendMongo  = "mongo"
	BackendValkey = "valkey"
)

const (
	DefaultGroqEndpoint    = "https://api.groq.com/openai/v1"
	DefaultMistralEndpoint = "https://api.mistral.ai/v1"
	DefaultCacheKeyPrefix  = "medscan_"
	DefaultCacheTTL        = 7 * 24 * time.Hour
)

// ProviderConfig describes one upstream model endpoint.
// Every provider receives its own copy at construction time.
type ProviderConfig struct {
	Kind              string
	Endpoint          string
	APIKey            string
	Model             string
	Timeout           time.Duration
	RequestsPerMinute int
}

// Enabled reports whether the provider has been configured at all
func (p ProviderConfig) Enabled() bool {
	return p.Kind != ""
}

// CacheConfig selects and configures the result cache store
type CacheConfig struct {
	Backend    string
	TTL        time.Duration
	KeyPrefix  string
	MaxEntries int

	SQLitePath string

	MongoURI        string
	MongoDB         string
	MongoCollection string

	ValkeyAddress  string
	ValkeyPassword string
	ValkeyDB       int
}

// Config is the full application configuration
type Config struct {
	// Server
	Port           string
	AllowedOrigins string
	GinMode        string
	MaxUploadBytes int64

	// Logging
	LogLevel  string
	LogFormat string

	// Upstream providers, one per role
	Details     ProviderConfig
	Fallback    ProviderConfig
	Suggest     ProviderConfig
	Cleanup     ProviderConfig
	Translate   ProviderConfig
	OCR         ProviderConfig
	OCRFallback ProviderConfig

	Cache CacheConfig

	// Image preprocessing settings
	EnableImagePreprocessing bool
	MaxImageDimension        int

	// Language the provider answers in; translating into it is a no-op
	BaseLanguage string
}

// Load reads .env (if present) and the process environment into a Config
func Load() (*Config, error) {
	return LoadFrom(NewViper())
}

// LoadFrom is Load with a caller-supplied viper, e.g. one with CLI flags bound
func LoadFrom(v *viper.Viper) (*Config, error) {
	// Load .env file if exists (for local development)
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, using environment variables")
	}

	cfg := FromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"details":  cfg.Details.Kind + "/" + cfg.Details.Model,
		"fallback": cfg.Fallback.Kind + "/" + cfg.Fallback.Model,
		"ocr":      cfg.OCR.Kind,
		"cache":    cfg.Cache.Backend,
	}).Info("✓ Configuration loaded successfully")

	return cfg, nil
}

// NewViper returns a viper reading the environment with every default set
func NewViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ALLOWED_ORIGINS", "*")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("MAX_UPLOAD_BYTES", 10<<20)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")

	v.SetDefault("DETAILS_PROVIDER", KindGroq)
	v.SetDefault("DETAILS_MODEL", "llama-3.3-70b-versatile")
	v.SetDefault("FALLBACK_PROVIDER", KindGemini)
	v.SetDefault("FALLBACK_MODEL", "gemini-2.5-flash")
	v.SetDefault("SUGGEST_PROVIDER", KindGroq)
	v.SetDefault("SUGGEST_MODEL", "llama-3.1-8b-instant")
	v.SetDefault("CLEANUP_PROVIDER", KindGroq)
	v.SetDefault("CLEANUP_MODEL", "llama-3.3-70b-versatile")
	v.SetDefault("TRANSLATE_PROVIDER", KindGemini)
	v.SetDefault("TRANSLATE_MODEL", "gemini-2.5-flash")
	v.SetDefault("OCR_PROVIDER", KindGemini)
	v.SetDefault("OCR_MODEL_NAME", "gemini-2.5-flash")
	v.SetDefault("OCR_FALLBACK_PROVIDER", "")
	v.SetDefault("MISTRAL_MODEL_NAME", "mistral-ocr-latest")

	v.SetDefault("GROQ_ENDPOINT", DefaultGroqEndpoint)
	v.SetDefault("MISTRAL_ENDPOINT", DefaultMistralEndpoint)
	v.SetDefault("PROVIDER_TIMEOUT", 30*time.Second)
	v.SetDefault("OCR_TIMEOUT", 60*time.Second)
	// Groq free tier: 30 RPM, Gemini flash free tier: 15 RPM
	v.SetDefault("GROQ_REQUESTS_PER_MINUTE", 30)
	v.SetDefault("GEMINI_REQUESTS_PER_MINUTE", 12)
	v.SetDefault("MISTRAL_REQUESTS_PER_MINUTE", 60)

	v.SetDefault("CACHE_BACKEND", BackendSQLite)
	v.SetDefault("CACHE_TTL", DefaultCacheTTL)
	v.SetDefault("CACHE_KEY_PREFIX", DefaultCacheKeyPrefix)
	v.SetDefault("CACHE_MAX_ENTRIES", 0)
	v.SetDefault("CACHE_SQLITE_PATH", "medscan_cache.db")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB_NAME", "medscan")
	v.SetDefault("MONGO_CACHE_COLLECTION", "medicine_cache")
	v.SetDefault("VALKEY_ADDRESS", "localhost:6379")
	v.SetDefault("VALKEY_DB", 0)

	v.SetDefault("ENABLE_IMAGE_PREPROCESSING", true)
	v.SetDefault("MAX_IMAGE_DIMENSION", 2000)
	v.SetDefault("BASE_LANGUAGE", "English")

	return v
}

// FromViper builds a Config from an already populated viper instance.
// Exposed so the CLI can layer flags on top of the environment.
func FromViper(v *viper.Viper) *Config {
	provider := func(role, modelKey string, timeout time.Duration) ProviderConfig {
		kind := strings.ToLower(strings.TrimSpace(v.GetString(role + "_PROVIDER")))
		return providerFor(v, kind, v.GetString(modelKey), timeout)
	}

	chatTimeout := v.GetDuration("PROVIDER_TIMEOUT")
	ocrTimeout := v.GetDuration("OCR_TIMEOUT")

	cfg := &Config{
		Port:           v.GetString("PORT"),
		AllowedOrigins: v.GetString("ALLOWED_ORIGINS"),
		GinMode:        v.GetString("GIN_MODE"),
		MaxUploadBytes: v.GetInt64("MAX_UPLOAD_BYTES"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		LogFormat:      v.GetString("LOG_FORMAT"),

		Details:   provider("DETAILS", "DETAILS_MODEL", chatTimeout),
		Fallback:  provider("FALLBACK", "FALLBACK_MODEL", chatTimeout),
		Suggest:   provider("SUGGEST", "SUGGEST_MODEL", chatTimeout),
		Cleanup:   provider("CLEANUP", "CLEANUP_MODEL", chatTimeout),
		Translate: provider("TRANSLATE", "TRANSLATE_MODEL", chatTimeout),

		Cache: CacheConfig{
			Backend:         strings.ToLower(v.GetString("CACHE_BACKEND")),
			TTL:             v.GetDuration("CACHE_TTL"),
			KeyPrefix:       v.GetString("CACHE_KEY_PREFIX"),
			MaxEntries:      v.GetInt("CACHE_MAX_ENTRIES"),
			SQLitePath:      v.GetString("CACHE_SQLITE_PATH"),
			MongoURI:        v.GetString("MONGO_URI"),
			MongoDB:         v.GetString("MONGO_DB_NAME"),
			MongoCollection: v.GetString("MONGO_CACHE_COLLECTION"),
			ValkeyAddress:   v.GetString("VALKEY_ADDRESS"),
			ValkeyPassword:  v.GetString("VALKEY_PASSWORD"),
			ValkeyDB:        v.GetInt("VALKEY_DB"),
		},

		EnableImagePreprocessing: v.GetBool("ENABLE_IMAGE_PREPROCESSING"),
		MaxImageDimension:        v.GetInt("MAX_IMAGE_DIMENSION"),
		BaseLanguage:             v.GetString("BASE_LANGUAGE"),
	}

	ocrKind := strings.ToLower(strings.TrimSpace(v.GetString("OCR_PROVIDER")))
	cfg.OCR = providerFor(v, ocrKind, ocrModel(v, ocrKind), ocrTimeout)

	if fallbackKind := strings.ToLower(strings.TrimSpace(v.GetString("OCR_FALLBACK_PROVIDER"))); fallbackKind != "" {
		cfg.OCRFallback = providerFor(v, fallbackKind, ocrModel(v, fallbackKind), ocrTimeout)
	}

	return cfg
}

func ocrModel(v *viper.Viper, kind string) string {
	switch kind {
	case KindMistral:
		return v.GetString("MISTRAL_MODEL_NAME")
	case KindTesseract:
		return v.GetString("TESSERACT_LANGUAGES")
	default:
		return v.GetString("OCR_MODEL_NAME")
	}
}

// providerFor fills in credentials and endpoint for a provider kind
func providerFor(v *viper.Viper, kind, model string, timeout time.Duration) ProviderConfig {
	p := ProviderConfig{
		Kind:    kind,
		Model:   model,
		Timeout: timeout,
	}

	switch kind {
	case KindGroq:
		p.APIKey = v.GetString("GROQ_API_KEY")
		p.Endpoint = v.GetString("GROQ_ENDPOINT")
		p.RequestsPerMinute = v.GetInt("GROQ_REQUESTS_PER_MINUTE")
	case KindOpenAI:
		p.APIKey = v.GetString("OPENAI_API_KEY")
		p.Endpoint = v.GetString("OPENAI_ENDPOINT")
		p.RequestsPerMinute = v.GetInt("OPENAI_REQUESTS_PER_MINUTE")
	case KindGemini:
		p.APIKey = v.GetString("GEMINI_API_KEY")
		p.Endpoint = v.GetString("GEMINI_ENDPOINT")
		p.RequestsPerMinute = v.GetInt("GEMINI_REQUESTS_PER_MINUTE")
	case KindMistral:
		p.APIKey = v.GetString("MISTRAL_API_KEY")
		p.Endpoint = v.GetString("MISTRAL_ENDPOINT")
		p.RequestsPerMinute = v.GetInt("MISTRAL_REQUESTS_PER_MINUTE")
	}

	return p
}

// Validate checks that every configured provider can actually be constructed
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.Details, validation.By(chatProviderRule)),
		validation.Field(&c.Fallback, validation.By(optionalChatProviderRule)),
		validation.Field(&c.Suggest, validation.By(chatProviderRule)),
		validation.Field(&c.Cleanup, validation.By(chatProviderRule)),
		validation.Field(&c.Translate, validation.By(chatProviderRule)),
		validation.Field(&c.OCR, validation.By(ocrProviderRule)),
		validation.Field(&c.OCRFallback, validation.By(optionalOCRProviderRule)),
		validation.Field(&c.BaseLanguage, validation.Required),
		validation.Field(&c.MaxUploadBytes, validation.Min(int64(1))),
	)
	if err != nil {
		return err
	}

	return validation.ValidateStruct(&c.Cache,
		validation.Field(&c.Cache.Backend, validation.Required,
			validation.In(BackendMemory, BackendSQLite, BackendMongo, BackendValkey)),
		validation.Field(&c.Cache.TTL, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.Cache.KeyPrefix, validation.Required),
		validation.Field(&c.Cache.SQLitePath, validation.When(c.Cache.Backend == BackendSQLite, validation.Required)),
		validation.Field(&c.Cache.MongoURI, validation.When(c.Cache.Backend == BackendMongo, validation.Required)),
		validation.Field(&c.Cache.ValkeyAddress, validation.When(c.Cache.Backend == BackendValkey, validation.Required)),
	)
}

func chatProviderRule(value interface{}) error {
	p, _ := value.(ProviderConfig)
	return validation.ValidateStruct(&p,
		validation.Field(&p.Kind, validation.Required, validation.In(KindGroq, KindOpenAI, KindGemini)),
		validation.Field(&p.APIKey, validation.Required),
		validation.Field(&p.Model, validation.Required),
		validation.Field(&p.Timeout, validation.Min(time.Duration(0))),
	)
}

func optionalChatProviderRule(value interface{}) error {
	if p, _ := value.(ProviderConfig); !p.Enabled() {
		return nil
	}
	return chatProviderRule(value)
}

func ocrProviderRule(value interface{}) error {
	p, _ := value.(ProviderConfig)
	return validation.ValidateStruct(&p,
		validation.Field(&p.Kind, validation.Required,
			validation.In(KindGemini, KindGroq, KindOpenAI, KindMistral, KindTesseract)),
		validation.Field(&p.APIKey, validation.When(p.Kind != KindTesseract, validation.Required)),
		validation.Field(&p.Model, validation.When(p.Kind != KindTesseract, validation.Required)),
	)
}

func optionalOCRProviderRule(value interface{}) error {
	if p, _ := value.(ProviderConfig); !p.Enabled() {
		return nil
	}
	return ocrProviderRule(value)
}
