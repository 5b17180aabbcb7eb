// factory.go - Provider factory for creating provider instances from configuration

package ai

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/bosocmputer/medicine_ocr_gemini/configs"
)

// CreateChatCompleter creates the completer for one configured role
func CreateChatCompleter(ctx context.Context, cfg configs.ProviderConfig) (ChatCompleter, error) {
	switch cfg.Kind {
	case configs.KindGroq, configs.KindOpenAI:
		logrus.WithFields(logrus.Fields{"provider": cfg.Kind, "model": cfg.Model}).Debug("🟢 Creating OpenAI-compatible provider")
		return NewOpenAIProvider(cfg), nil

	case configs.KindGemini:
		logrus.WithField("model", cfg.Model).Debug("🔵 Creating Gemini provider")
		provider, err := NewGeminiProvider(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return provider, nil

	default:
		return nil, fmt.Errorf("unsupported chat provider: %s (supported: groq, openai, gemini)", cfg.Kind)
	}
}

// CreateOCRProvider creates an OCR provider based on configuration
func CreateOCRProvider(ctx context.Context, cfg configs.ProviderConfig) (OCRProvider, error) {
	switch cfg.Kind {
	case configs.KindGemini, configs.KindGroq, configs.KindOpenAI:
		completer, err := CreateChatCompleter(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return NewVisionOCRProvider(completer), nil

	case configs.KindMistral:
		logrus.WithField("model", cfg.Model).Debug("🔷 Creating Mistral OCR provider")
		return NewMistralProvider(cfg), nil

	case configs.KindTesseract:
		return NewTesseractProvider(cfg)

	default:
		return nil, fmt.Errorf("unsupported OCR provider: %s (supported: gemini, groq, openai, mistral, tesseract)", cfg.Kind)
	}
}

// CreateOCRProviderWithFallback creates the primary OCR provider and, when configured, a fallback.
// A fallback that cannot be built is logged and skipped.
func CreateOCRProviderWithFallback(ctx context.Context, primaryCfg, fallbackCfg configs.ProviderConfig) (primary OCRProvider, fallback OCRProvider, err error) {
	primary, err = CreateOCRProvider(ctx, primaryCfg)
	if err != nil {
		return nil, nil, err
	}

	if !fallbackCfg.Enabled() {
		return primary, nil, nil
	}

	fallback, err = CreateOCRProvider(ctx, fallbackCfg)
	if err != nil {
		logrus.WithError(err).WithField("provider", fallbackCfg.Kind).Warn("⚠️ Fallback OCR provider unavailable")
		return primary, nil, nil
	}

	logrus.WithField("provider", fallback.GetProviderName()).Info("✅ Fallback OCR provider configured")
	return primary, fallback, nil
}
