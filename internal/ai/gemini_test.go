package ai

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

func TestCategorizeGeminiError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		category  string
		status    int
		retryable bool
	}{
		{"rate limit", &googleapi.Error{Code: 429}, "rate_limit", 429, true},
		{"unauthorized", &googleapi.Error{Code: 401}, "unauthorized", 401, false},
		{"server", &googleapi.Error{Code: 503}, "server_error", 503, true},
		{"wrapped api error", fmt.Errorf("call: %w", &googleapi.Error{Code: 413}), "payload_too_large", 413, false},
		{"deadline", context.DeadlineExceeded, "timeout", 0, true},
		{"wrapped deadline", fmt.Errorf("x: %w", context.DeadlineExceeded), "timeout", 0, true},
		{"canceled", context.Canceled, "canceled", 0, false},
		{"quota text", errors.New("Quota exceeded for project"), "quota_exceeded", 0, false},
		{"network text", errors.New("connection reset by peer"), "network_error", 0, true},
		{"safety", errors.New("blocked: SAFETY"), "blocked", 0, false},
		{"other", errors.New("weird"), "unknown", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := categorizeGeminiError(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.category, got.Category)
			assert.Equal(t, tt.status, got.StatusCode)
			assert.Equal(t, tt.retryable, got.Retryable)
			assert.ErrorIs(t, got, tt.err)
		})
	}

	assert.Nil(t, categorizeGeminiError(nil))
}

func TestResponseText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text("Dolo "), genai.Text("650")}},
		}},
	}
	text, err := responseText(resp)
	require.NoError(t, err)
	assert.Equal(t, "Dolo 650", text)

	_, err = responseText(&genai.GenerateContentResponse{})
	assert.Error(t, err)

	_, err = responseText(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []genai.Part{genai.Blob{MIMEType: "image/png"}}}}},
	})
	assert.ErrorContains(t, err, "empty response")
}
