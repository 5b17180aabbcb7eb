//go:build tesseract

// tesseract.go - Local OCR through libtesseract (build with -tags tesseract)

package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/otiai10/gosseract/v2"

	"github.com/bosocmputer/medicine_ocr_gemini/configs"
	"github.com/bosocmputer/medicine_ocr_gemini/internal/common"
)

// TesseractProvider runs OCR in-process; it costs nothing and needs no network
type TesseractProvider struct {
	languages     []string
	clientFactory func() *gosseract.Client
}

// NewTesseractProvider reads the language list ("eng+hin" or "eng,hin") from cfg.Model
func NewTesseractProvider(cfg configs.ProviderConfig) (OCRProvider, error) {
	return &TesseractProvider{
		languages:     splitLanguages(cfg.Model),
		clientFactory: gosseract.NewClient,
	}, nil
}

// GetProviderName returns "tesseract"
func (t *TesseractProvider) GetProviderName() string {
	return configs.KindTesseract
}

func (t *TesseractProvider) ProcessPureOCR(ctx context.Context, image ImageInput, reqCtx *common.RequestContext) (result *SimpleOCRResult, usage *common.TokenUsage, err error) {
	start := time.Now()
	defer func() { observeProviderCall(configs.KindTesseract, "ocr", start, err) }()

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	c := t.clientFactory()
	defer c.Close()

	reqCtx.StartSubStep("tesseract_recognize")
	if err := c.SetImageFromBytes(image.Data); err != nil {
		reqCtx.EndSubStep("❌ FAILED")
		return nil, nil, fmt.Errorf("set image: %w", err)
	}
	if len(t.languages) > 0 {
		if err := c.SetLanguage(t.languages...); err != nil {
			reqCtx.EndSubStep("❌ FAILED")
			return nil, nil, fmt.Errorf("set languages: %w", err)
		}
	}

	text, err := c.Text()
	if err != nil {
		reqCtx.EndSubStep("❌ FAILED")
		return nil, nil, fmt.Errorf("recognize text: %w", err)
	}
	plain := strings.TrimSpace(text)
	reqCtx.EndSubStep(fmt.Sprintf("%d chars", len(plain)))

	return &SimpleOCRResult{
		RawDocumentText: plain,
		TextLength:      len(plain),
		Provider:        configs.KindTesseract,
		Metadata: AIMetadata{
			ModelName: "tesseract:" + strings.Join(t.languages, "+"),
		},
	}, &common.TokenUsage{}, nil
}

func splitLanguages(langs string) []string {
	fields := strings.FieldsFunc(langs, func(r rune) bool {
		return r == '+' || r == ',' || r == ' '
	})
	if len(fields) == 0 {
		return []string{"eng"}
	}
	return fields
}
