package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bosocmputer/medicine_ocr_gemini/internal/common"
	"github.com/bosocmputer/medicine_ocr_gemini/internal/medicine"
)

// SuggestionProvider asks a small fast model for autocomplete candidates
type SuggestionProvider struct {
	completer ChatCompleter
}

func NewSuggestionProvider(completer ChatCompleter) *SuggestionProvider {
	return &SuggestionProvider{completer: completer}
}

// Suggest returns the raw "suggestions" array; filtering is the caller's job
func (p *SuggestionProvider) Suggest(ctx context.Context, partial string, reqCtx *common.RequestContext) ([]string, error) {
	res, err := p.completer.Complete(ctx, CompletionRequest{
		SystemPrompt: GetSuggestionsSystemPrompt(),
		UserPrompt:   GetSuggestionsUserPrompt(partial),
		JSONMode:     true,
		Operation:    "suggest",
	}, reqCtx)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(medicine.StripCodeFences(res.Text)), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse suggestions: %w", err)
	}

	return payload.Suggestions, nil
}
