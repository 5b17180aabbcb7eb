// openai.go - OpenAI-compatible chat client (Groq, OpenAI) built on openai-go

package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/bosocmputer/medicine_ocr_gemini/configs"
	"github.com/bosocmputer/medicine_ocr_gemini/internal/common"
	"github.com/bosocmputer/medicine_ocr_gemini/internal/ratelimit"
)

// OpenAIProvider talks to any endpoint speaking the OpenAI chat completions API.
// Groq is reached by pointing the base URL at https://api.groq.com/openai/v1.
type OpenAIProvider struct {
	client  openai.Client
	name    string
	model   string
	timeout time.Duration
	limiter *ratelimit.RateLimiter
}

// NewOpenAIProvider creates a client with SDK retries disabled
func NewOpenAIProvider(cfg configs.ProviderConfig) *OpenAIProvider {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.Endpoint != "" {
		endpoint := cfg.Endpoint
		if !strings.HasSuffix(endpoint, "/") {
			endpoint += "/"
		}
		opts = append(opts, option.WithBaseURL(endpoint))
	}

	return &OpenAIProvider{
		client:  openai.NewClient(opts...),
		name:    cfg.Kind,
		model:   cfg.Model,
		timeout: cfg.Timeout,
		limiter: ratelimit.NewRateLimiter(cfg.Kind, cfg.RequestsPerMinute),
	}
}

// GetProviderName returns the configured kind ("groq" or "openai")
func (p *OpenAIProvider) GetProviderName() string {
	return p.name
}

// Complete performs one chat completion at temperature 0
func (p *OpenAIProvider) Complete(ctx context.Context, req CompletionRequest, reqCtx *common.RequestContext) (result *CompletionResult, err error) {
	start := time.Now()
	defer func() { observeProviderCall(p.name, req.Operation, start, err) }()

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	reqCtx.StartSubStep(p.name + "_rate_limit")
	if err := p.limiter.Wait(ctx); err != nil {
		reqCtx.EndSubStep("cancelled")
		return nil, fmt.Errorf("%s rate limit wait: %w", p.name, err)
	}
	reqCtx.EndSubStep("")

	var messages []openai.ChatCompletionMessageParamUnion
	if req.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(req.SystemPrompt))
	}

	if req.Image != nil {
		dataURL := fmt.Sprintf("data:%s;base64,%s", req.Image.MIMEType, base64.StdEncoding.EncodeToString(req.Image.Data))
		messages = append(messages, openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
			openai.TextContentPart(req.UserPrompt),
			openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
				URL: dataURL,
			}),
		}))
	} else {
		messages = append(messages, openai.UserMessage(req.UserPrompt))
	}

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(p.model),
		Messages:    messages,
		Temperature: openai.Float(0),
	}
	if req.JSONMode {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		}
	}

	reqCtx.StartSubStep(p.name + "_api_call")
	completion, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		reqCtx.EndSubStep("❌ FAILED")
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return nil, fmt.Errorf("%s API error (%d): %w", p.name, apiErr.StatusCode, err)
		}
		return nil, fmt.Errorf("%s request failed: %w", p.name, err)
	}

	if len(completion.Choices) == 0 {
		reqCtx.EndSubStep("❌ EMPTY")
		return nil, fmt.Errorf("no response from %s", p.name)
	}

	usage := calculateTokenCost(p.model, int(completion.Usage.PromptTokens), int(completion.Usage.CompletionTokens))
	reqCtx.EndSubStep(fmt.Sprintf("tokens: %d", usage.TotalTokens))

	return &CompletionResult{
		Text:      completion.Choices[0].Message.Content,
		ModelName: p.model,
		Usage:     usage,
	}, nil
}
