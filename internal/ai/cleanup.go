package ai

import (
	"context"
	"strings"

	"github.com/bosocmputer/medicine_ocr_gemini/internal/common"
)

// NameCleaner picks the medicine name out of raw OCR text
type NameCleaner struct {
	completer ChatCompleter
}

func NewNameCleaner(completer ChatCompleter) *NameCleaner {
	return &NameCleaner{completer: completer}
}

func (c *NameCleaner) GetProviderName() string {
	return c.completer.GetProviderName()
}

// CleanName returns the trimmed model answer, which may be quoted or the literal "null"
func (c *NameCleaner) CleanName(ctx context.Context, rawText string, reqCtx *common.RequestContext) (string, *common.TokenUsage, error) {
	res, err := c.completer.Complete(ctx, CompletionRequest{
		SystemPrompt: GetCleanupSystemPrompt(),
		UserPrompt:   GetCleanupUserPrompt(rawText),
		Operation:    "cleanup",
	}, reqCtx)
	if err != nil {
		return "", nil, err
	}
	return strings.TrimSpace(res.Text), res.Usage, nil
}
