package ai

import (
	"context"

	"github.com/bosocmputer/medicine_ocr_gemini/internal/common"
)

// fakeCompleter returns a canned answer and remembers the last request
type fakeCompleter struct {
	name  string
	text  string
	err   error
	calls int
	last  CompletionRequest
}

func (f *fakeCompleter) Complete(_ context.Context, req CompletionRequest, _ *common.RequestContext) (*CompletionResult, error) {
	f.calls++
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &CompletionResult{
		Text:      f.text,
		ModelName: "fake-model",
		Usage:     &common.TokenUsage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15},
	}, nil
}

func (f *fakeCompleter) GetProviderName() string {
	if f.name == "" {
		return "fake"
	}
	return f.name
}
