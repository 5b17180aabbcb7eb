package ai

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/bosocmputer/medicine_ocr_gemini/internal/common"
)

// VisionOCRProvider uses a multimodal chat model as an OCR engine
type VisionOCRProvider struct {
	completer ChatCompleter
}

// NewVisionOCRProvider wraps a completer whose model accepts images
func NewVisionOCRProvider(completer ChatCompleter) *VisionOCRProvider {
	return &VisionOCRProvider{completer: completer}
}

// GetProviderName returns the underlying completer's name
func (v *VisionOCRProvider) GetProviderName() string {
	return v.completer.GetProviderName()
}

// Close closes the wrapped completer when it holds a client
func (v *VisionOCRProvider) Close() error {
	if c, ok := v.completer.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (v *VisionOCRProvider) ProcessPureOCR(ctx context.Context, image ImageInput, reqCtx *common.RequestContext) (*SimpleOCRResult, *common.TokenUsage, error) {
	reqCtx.LogInfo("🔵 Using %s vision OCR", v.completer.GetProviderName())

	res, err := v.completer.Complete(ctx, CompletionRequest{
		UserPrompt: GetPureOCRPrompt(),
		Image:      &image,
		Operation:  "ocr",
	}, reqCtx)
	if err != nil {
		return nil, nil, fmt.Errorf("%s vision OCR failed: %w", v.completer.GetProviderName(), err)
	}

	text := strings.TrimSpace(res.Text)
	result := &SimpleOCRResult{
		RawDocumentText: text,
		TextLength:      len(text),
		Provider:        v.completer.GetProviderName(),
		Metadata:        AIMetadata{ModelName: res.ModelName},
	}
	if res.Usage != nil {
		result.Metadata.PromptTokens = res.Usage.InputTokens
		result.Metadata.OutputTokens = res.Usage.OutputTokens
		result.Metadata.TotalTokens = res.Usage.TotalTokens
	}

	return result, res.Usage, nil
}
