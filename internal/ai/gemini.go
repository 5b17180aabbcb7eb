// gemini.go - Gemini client for the fallback details provider, translation and vision OCR

package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/bosocmputer/medicine_ocr_gemini/configs"
	"github.com/bosocmputer/medicine_ocr_gemini/internal/common"
	"github.com/bosocmputer/medicine_ocr_gemini/internal/ratelimit"
)

// GeminiProvider implements ChatCompleter on top of one long-lived genai client
type GeminiProvider struct {
	client    *genai.Client
	modelName string
	timeout   time.Duration
	limiter   *ratelimit.RateLimiter
}

// NewGeminiProvider creates the genai client; call Close when done
func NewGeminiProvider(ctx context.Context, cfg configs.ProviderConfig) (*GeminiProvider, error) {
	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{
		client:    client,
		modelName: cfg.Model,
		timeout:   cfg.Timeout,
		limiter:   ratelimit.NewRateLimiter(configs.KindGemini, cfg.RequestsPerMinute),
	}, nil
}

// GetProviderName returns "gemini"
func (g *GeminiProvider) GetProviderName() string {
	return configs.KindGemini
}

// Close releases the underlying client
func (g *GeminiProvider) Close() error {
	return g.client.Close()
}

// Complete sends one prompt (plus optional image) and returns the concatenated text parts
func (g *GeminiProvider) Complete(ctx context.Context, req CompletionRequest, reqCtx *common.RequestContext) (result *CompletionResult, err error) {
	start := time.Now()
	defer func() { observeProviderCall(configs.KindGemini, req.Operation, start, err) }()

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	reqCtx.StartSubStep("gemini_rate_limit")
	if err := g.limiter.Wait(ctx); err != nil {
		reqCtx.EndSubStep("cancelled")
		return nil, categorizeGeminiError(err)
	}
	reqCtx.EndSubStep("")

	model := g.client.GenerativeModel(g.modelName)
	model.SetTemperature(0)
	if req.SystemPrompt != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.SystemPrompt)},
		}
	}
	if req.JSONMode {
		model.ResponseMIMEType = "application/json"
	}

	parts := []genai.Part{genai.Text(req.UserPrompt)}
	if req.Image != nil {
		parts = append(parts, genai.Blob{
			MIMEType: req.Image.MIMEType,
			Data:     req.Image.Data,
		})
		reqCtx.LogInfo("📄 Image size: %d bytes, MIME type: %s", len(req.Image.Data), req.Image.MIMEType)
	}

	reqCtx.StartSubStep("call_gemini_api")
	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		gemErr := categorizeGeminiError(err)
		reqCtx.EndSubStep("❌ FAILED")
		reqCtx.LogError("Gemini API call failed: %s", gemErr.Error())
		return nil, gemErr
	}

	text, err := responseText(resp)
	if err != nil {
		reqCtx.EndSubStep("❌ EMPTY")
		return nil, err
	}

	var usage *common.TokenUsage
	if resp.UsageMetadata != nil {
		usage = calculateTokenCost(g.modelName,
			int(resp.UsageMetadata.PromptTokenCount),
			int(resp.UsageMetadata.CandidatesTokenCount),
		)
		reqCtx.EndSubStep(fmt.Sprintf("tokens: %d", usage.TotalTokens))
	} else {
		reqCtx.EndSubStep("")
	}

	if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason == genai.FinishReasonMaxTokens {
		reqCtx.LogWarning("⚠️  Gemini response was truncated (FinishReason: MAX_TOKENS)")
	}

	return &CompletionResult{
		Text:      text,
		ModelName: g.modelName,
		Usage:     usage,
	}, nil
}

// responseText joins the text parts of the first candidate
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response from Gemini API")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	if sb.Len() == 0 {
		return "", fmt.Errorf("empty response from Gemini API")
	}
	return sb.String(), nil
}
