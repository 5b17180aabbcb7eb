package ai

import (
	"context"
	"fmt"

	"github.com/bosocmputer/medicine_ocr_gemini/internal/common"
	"github.com/bosocmputer/medicine_ocr_gemini/internal/medicine"
)

// ChatDetailsProvider asks a chat model for a medicine record.
// The primary and fallback providers differ only in the completer they wrap.
type ChatDetailsProvider struct {
	completer ChatCompleter
}

func NewChatDetailsProvider(completer ChatCompleter) *ChatDetailsProvider {
	return &ChatDetailsProvider{completer: completer}
}

func (p *ChatDetailsProvider) GetProviderName() string {
	return p.completer.GetProviderName()
}

// GetDetails returns medicine.ErrNotFoundSentinel when the model answers {"error": true}
// and a wrapped medicine.ErrInvalidRecord when required fields are missing.
func (p *ChatDetailsProvider) GetDetails(ctx context.Context, name string, reqCtx *common.RequestContext) (*medicine.Record, error) {
	reqCtx.StartStep("details_provider")

	res, err := p.completer.Complete(ctx, CompletionRequest{
		SystemPrompt: GetDetailsSystemPrompt(),
		UserPrompt:   GetDetailsUserPrompt(name),
		JSONMode:     true,
		Operation:    "details",
	}, reqCtx)
	if err != nil {
		reqCtx.EndStep("failed", nil, err)
		return nil, err
	}

	rec, err := medicine.ParseRecord(res.Text)
	if err != nil {
		err = fmt.Errorf("%s: %w", p.completer.GetProviderName(), err)
		reqCtx.EndStep("failed", res.Usage, err)
		return nil, err
	}

	reqCtx.EndStep("success", res.Usage, nil)
	return rec, nil
}
