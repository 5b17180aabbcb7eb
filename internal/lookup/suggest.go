package lookup

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/bosocmputer/medicine_ocr_gemini/internal/common"
)

const (
	// MinSuggestLength is the shortest trimmed query that reaches the model
	MinSuggestLength = 3
	// MaxSuggestions caps the returned list
	MaxSuggestions = 5
)

// Suggest returns up to five medicine names for partial. Short queries and any
// provider failure yield an empty, non-nil slice.
func (s *Service) Suggest(ctx context.Context, partial string) []string {
	partial = strings.TrimSpace(partial)
	if utf8.RuneCountInString(partial) < MinSuggestLength || s.suggester == nil {
		return []string{}
	}

	reqCtx := common.NewRequestContext("suggest")
	reqCtx.StartStep("suggestions")

	raw, err := s.suggester.Suggest(ctx, partial, reqCtx)
	if err != nil {
		reqCtx.EndStep("failed", nil, err)
		return []string{}
	}

	out := make([]string, 0, MaxSuggestions)
	for _, candidate := range raw {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		out = append(out, candidate)
		if len(out) == MaxSuggestions {
			break
		}
	}

	reqCtx.EndStep("success", nil, nil)
	return out
}
