// mistral.go - Mistral AI client for OCR processing

package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bosocmputer/medicine_ocr_gemini/configs"
	"github.com/bosocmputer/medicine_ocr_gemini/internal/common"
	"github.com/bosocmputer/medicine_ocr_gemini/internal/ratelimit"
)

// MistralProvider implements OCRProvider against the Mistral /ocr endpoint
type MistralProvider struct {
	apiKey    string
	modelName string
	endpoint  string
	timeout   time.Duration
	client    *http.Client
	limiter   *ratelimit.RateLimiter
}

// NewMistralProvider creates a new Mistral AI provider
func NewMistralProvider(cfg configs.ProviderConfig) *MistralProvider {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = configs.DefaultMistralEndpoint
	}

	return &MistralProvider{
		apiKey:    cfg.APIKey,
		modelName: cfg.Model,
		endpoint:  strings.TrimSuffix(endpoint, "/"),
		timeout:   cfg.Timeout,
		client:    &http.Client{},
		limiter:   ratelimit.NewRateLimiter(configs.KindMistral, cfg.RequestsPerMinute),
	}
}

// GetProviderName returns "mistral"
func (m *MistralProvider) GetProviderName() string {
	return configs.KindMistral
}

type mistralOCRDocument struct {
	Type     string `json:"type"`
	ImageURL string `json:"image_url,omitempty"`
}

type mistralOCRRequest struct {
	Model    string             `json:"model"`
	Document mistralOCRDocument `json:"document"`
}

type mistralOCRPage struct {
	Index    int    `json:"index"`
	Markdown string `json:"markdown"`
}

type mistralOCRUsageInfo struct {
	PagesProcessed int `json:"pages_processed"`
	DocSizeBytes   int `json:"doc_size_bytes,omitempty"`
}

type mistralOCRResponse struct {
	Model     string              `json:"model"`
	Pages     []mistralOCRPage    `json:"pages"`
	UsageInfo mistralOCRUsageInfo `json:"usage_info"`
}

type mistralErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// ProcessPureOCR sends the image as a base64 data URL and joins the markdown of every page
func (m *MistralProvider) ProcessPureOCR(ctx context.Context, image ImageInput, reqCtx *common.RequestContext) (result *SimpleOCRResult, usage *common.TokenUsage, err error) {
	start := time.Now()
	defer func() { observeProviderCall(configs.KindMistral, "ocr", start, err) }()

	reqCtx.LogInfo("🔷 Using Mistral AI provider (model: %s)", m.modelName)

	if image.MIMEType == "application/pdf" {
		return nil, nil, fmt.Errorf("mistral OCR does not accept PDF sent as base64, use an image format")
	}

	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	if err := m.limiter.Wait(ctx); err != nil {
		return nil, nil, fmt.Errorf("mistral rate limit wait: %w", err)
	}

	request := mistralOCRRequest{
		Model: m.modelName,
		Document: mistralOCRDocument{
			Type:     "image_url",
			ImageURL: fmt.Sprintf("data:%s;base64,%s", image.MIMEType, base64.StdEncoding.EncodeToString(image.Data)),
		},
	}

	reqCtx.StartSubStep("mistral_ocr_api_call")
	response, err := m.callMistralOCRAPI(ctx, request)
	if err != nil {
		reqCtx.EndSubStep("❌ FAILED")
		return nil, nil, fmt.Errorf("mistral OCR API call failed: %w", err)
	}
	reqCtx.EndSubStep("")

	if len(response.Pages) == 0 {
		return nil, nil, fmt.Errorf("no pages returned from Mistral OCR API")
	}

	var extractedText strings.Builder
	for i, page := range response.Pages {
		if i > 0 {
			extractedText.WriteString("\n\n")
		}
		extractedText.WriteString(page.Markdown)
	}
	finalText := extractedText.String()
	reqCtx.LogInfo("✅ Extracted text from %d page(s), length: %d characters", len(response.Pages), len(finalText))

	// pages are reported as tokens so summaries stay comparable
	pagesProcessed := response.UsageInfo.PagesProcessed
	usage = &common.TokenUsage{
		InputTokens: pagesProcessed,
		TotalTokens: pagesProcessed,
		CostUSD:     float64(pagesProcessed) * mistralCostPerPage,
	}

	return &SimpleOCRResult{
		RawDocumentText: finalText,
		TextLength:      len(finalText),
		Provider:        configs.KindMistral,
		Metadata: AIMetadata{
			ModelName:    response.Model,
			PromptTokens: pagesProcessed,
			TotalTokens:  pagesProcessed,
		},
	}, usage, nil
}

// callMistralOCRAPI makes HTTP request to Mistral OCR API
func (m *MistralProvider) callMistralOCRAPI(ctx context.Context, request mistralOCRRequest) (*mistralOCRResponse, error) {
	requestBody, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint+"/ocr", bytes.NewReader(requestBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp mistralErrorResponse
		if err := json.Unmarshal(body, &errorResp); err == nil && errorResp.Error.Message != "" {
			return nil, fmt.Errorf("mistral OCR API error (%d): %s", resp.StatusCode, errorResp.Error.Message)
		}
		return nil, fmt.Errorf("mistral OCR API error (%d): %s", resp.StatusCode, string(body))
	}

	var response mistralOCRResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse OCR response: %w", err)
	}

	return &response, nil
}
