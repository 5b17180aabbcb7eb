// Package app wires configuration into the services shared by the HTTP server and the CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/bosocmputer/medicine_ocr_gemini/configs"
	"github.com/bosocmputer/medicine_ocr_gemini/internal/ai"
	"github.com/bosocmputer/medicine_ocr_gemini/internal/api"
	"github.com/bosocmputer/medicine_ocr_gemini/internal/cache"
	"github.com/bosocmputer/medicine_ocr_gemini/internal/extraction"
	"github.com/bosocmputer/medicine_ocr_gemini/internal/lookup"
	"github.com/bosocmputer/medicine_ocr_gemini/internal/storage"
	"github.com/bosocmputer/medicine_ocr_gemini/internal/translation"
)

// App holds every long-lived component
type App struct {
	Config     *configs.Config
	Store      storage.Store
	Cache      *cache.ResultCache
	Lookup     *lookup.Service
	Extractor  *extraction.Pipeline
	Translator *translation.Translator

	completers map[configs.ProviderConfig]ai.ChatCompleter
	closers    []io.Closer
}

// New opens the cache store and builds every provider.
// On error everything opened so far is closed again.
func New(ctx context.Context, cfg *configs.Config) (_ *App, err error) {
	a := &App{
		Config:     cfg,
		completers: make(map[configs.ProviderConfig]ai.ChatCompleter),
	}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	a.Store, err = storage.New(ctx, cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache store: %w", err)
	}
	a.closers = append(a.closers, a.Store)
	a.Cache = cache.NewResultCache(a.Store, cfg.Cache.TTL, cfg.Cache.KeyPrefix)

	// Step 1: details providers, primary then fallback
	var details []ai.DetailsProvider
	for _, pc := range []configs.ProviderConfig{cfg.Details, cfg.Fallback} {
		if !pc.Enabled() {
			continue
		}
		completer, err := a.completer(ctx, pc)
		if err != nil {
			return nil, fmt.Errorf("details provider %s: %w", pc.Kind, err)
		}
		details = append(details, ai.NewChatDetailsProvider(completer))
	}

	var suggester lookup.Suggester
	if cfg.Suggest.Enabled() {
		completer, err := a.completer(ctx, cfg.Suggest)
		if err != nil {
			return nil, fmt.Errorf("suggestion provider: %w", err)
		}
		suggester = ai.NewSuggestionProvider(completer)
	}
	a.Lookup = lookup.NewService(a.Cache, suggester, details...)

	// Step 2: OCR and name cleanup
	primaryOCR, fallbackOCR, err := ai.CreateOCRProviderWithFallback(ctx, cfg.OCR, cfg.OCRFallback)
	if err != nil {
		return nil, fmt.Errorf("OCR provider: %w", err)
	}
	a.track(primaryOCR)
	a.track(fallbackOCR)

	var cleaner extraction.Cleaner
	if cfg.Cleanup.Enabled() {
		completer, err := a.completer(ctx, cfg.Cleanup)
		if err != nil {
			return nil, fmt.Errorf("cleanup provider: %w", err)
		}
		cleaner = ai.NewNameCleaner(completer)
	}
	a.Extractor = extraction.NewPipeline(cleaner, extraction.Options{
		Preprocess:   cfg.EnableImagePreprocessing,
		MaxDimension: cfg.MaxImageDimension,
	}, primaryOCR, fallbackOCR)

	// Step 3: translation
	var translator ai.ChatCompleter
	if cfg.Translate.Enabled() {
		translator, err = a.completer(ctx, cfg.Translate)
		if err != nil {
			return nil, fmt.Errorf("translation provider: %w", err)
		}
	}
	a.Translator = translation.NewTranslator(translator, cfg.BaseLanguage)

	logrus.WithFields(logrus.Fields{
		"details_providers": len(details),
		"ocr":               primaryOCR.GetProviderName(),
		"cache":             cfg.Cache.Backend,
		"cache_ttl":         cfg.Cache.TTL,
	}).Info("✅ Services initialized")

	return a, nil
}

// completer returns one shared completer per distinct provider config so
// roles pointing at the same model also share its rate limiter.
func (a *App) completer(ctx context.Context, pc configs.ProviderConfig) (ai.ChatCompleter, error) {
	if c, ok := a.completers[pc]; ok {
		return c, nil
	}
	c, err := ai.CreateChatCompleter(ctx, pc)
	if err != nil {
		return nil, err
	}
	a.completers[pc] = c
	a.track(c)
	return c, nil
}

func (a *App) track(v interface{}) {
	if c, ok := v.(io.Closer); ok && c != nil {
		a.closers = append(a.closers, c)
	}
}

// Handler builds the HTTP API over the app's services
func (a *App) Handler() *api.Handler {
	return api.NewHandler(a.Lookup, a.Extractor, a.Translator, a.Cache, api.Options{
		MaxUploadBytes: a.Config.MaxUploadBytes,
		AllowedOrigins: a.Config.AllowedOrigins,
	})
}

// Close releases providers and the store, newest first
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
