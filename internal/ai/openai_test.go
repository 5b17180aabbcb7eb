package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bosocmputer/medicine_ocr_gemini/configs"
	"github.com/bosocmputer/medicine_ocr_gemini/internal/common"
)

const chatCompletionBody = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "llama-3.3-70b-versatile",
  "choices": [{
    "index": 0,
    "message": {"role": "assistant", "content": "{\"name\":\"Dolo 650\"}"},
    "finish_reason": "stop"
  }],
  "usage": {"prompt_tokens": 120, "completion_tokens": 30, "total_tokens": 150}
}`

func groqConfig(endpoint string) configs.ProviderConfig {
	return configs.ProviderConfig{
		Kind:     configs.KindGroq,
		Endpoint: endpoint,
		APIKey:   "test-key",
		Model:    "llama-3.3-70b-versatile",
		Timeout:  5 * time.Second,
	}
}

func TestOpenAIProvider_Complete(t *testing.T) {
	var body map[string]interface{}
	var authHeader, path string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		authHeader = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, chatCompletionBody)
	}))
	defer server.Close()

	p := NewOpenAIProvider(groqConfig(server.URL))
	assert.Equal(t, "groq", p.GetProviderName())

	res, err := p.Complete(context.Background(), CompletionRequest{
		SystemPrompt: "system",
		UserPrompt:   "user",
		JSONMode:     true,
		Operation:    "details",
	}, common.NewRequestContext("test"))
	require.NoError(t, err)

	assert.Equal(t, "/chat/completions", path)
	assert.Equal(t, "Bearer test-key", authHeader)
	assert.Equal(t, "llama-3.3-70b-versatile", body["model"])
	assert.EqualValues(t, 0, body["temperature"])

	format, ok := body["response_format"].(map[string]interface{})
	require.True(t, ok, "json mode sets response_format")
	assert.Equal(t, "json_object", format["type"])

	messages, ok := body["messages"].([]interface{})
	require.True(t, ok)
	assert.Len(t, messages, 2)

	assert.Equal(t, `{"name":"Dolo 650"}`, res.Text)
	require.NotNil(t, res.Usage)
	assert.Equal(t, 120, res.Usage.InputTokens)
	assert.Equal(t, 30, res.Usage.OutputTokens)
	assert.Greater(t, res.Usage.CostUSD, 0.0)
}

func TestOpenAIProvider_PlainModeOmitsResponseFormat(t *testing.T) {
	var body map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, chatCompletionBody)
	}))
	defer server.Close()

	p := NewOpenAIProvider(groqConfig(server.URL))
	_, err := p.Complete(context.Background(), CompletionRequest{UserPrompt: "user"}, common.NewRequestContext("test"))
	require.NoError(t, err)

	_, hasFormat := body["response_format"]
	assert.False(t, hasFormat)
	assert.Len(t, body["messages"], 1)
}

func TestOpenAIProvider_ImageIsSentAsDataURL(t *testing.T) {
	var raw []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, chatCompletionBody)
	}))
	defer server.Close()

	p := NewOpenAIProvider(groqConfig(server.URL))
	_, err := p.Complete(context.Background(), CompletionRequest{
		UserPrompt: "read this",
		Image:      &ImageInput{Data: []byte("abc"), MIMEType: "image/png"},
	}, common.NewRequestContext("test"))
	require.NoError(t, err)

	assert.Contains(t, string(raw), "data:image/png;base64,YWJj")
}

func TestOpenAIProvider_NoRetryOnServerError(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, `{"error":{"message":"overloaded"}}`)
	}))
	defer server.Close()

	p := NewOpenAIProvider(groqConfig(server.URL))
	_, err := p.Complete(context.Background(), CompletionRequest{UserPrompt: "x"}, common.NewRequestContext("test"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestOpenAIProvider_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	cfg := groqConfig(server.URL)
	cfg.Timeout = 50 * time.Millisecond
	p := NewOpenAIProvider(cfg)

	_, err := p.Complete(context.Background(), CompletionRequest{UserPrompt: "x"}, common.NewRequestContext("test"))
	assert.Error(t, err)
}

func TestOpenAIProvider_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"x","object":"chat.completion","created":1,"model":"m","choices":[]}`)
	}))
	defer server.Close()

	p := NewOpenAIProvider(groqConfig(server.URL))
	_, err := p.Complete(context.Background(), CompletionRequest{UserPrompt: "x"}, common.NewRequestContext("test"))
	assert.ErrorContains(t, err, "no response")
}
