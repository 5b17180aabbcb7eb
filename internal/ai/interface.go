// interface.go - Provider interfaces shared by lookup, extraction and translation

package ai

import (
	"context"

	"github.com/bosocmputer/medicine_ocr_gemini/internal/common"
	"github.com/bosocmputer/medicine_ocr_gemini/internal/medicine"
)

// ImageInput is an in-memory image handed to a vision or OCR model
type ImageInput struct {
	Data     []byte
	MIMEType string
}

// CompletionRequest is one single-turn chat call
type CompletionRequest struct {
	SystemPrompt string
	UserPrompt   string
	// JSONMode asks the model for a JSON object response
	JSONMode bool
	// Image is attached to the user turn when set
	Image *ImageInput
	// Operation labels metrics and logs (details, suggest, cleanup, translate, ocr)
	Operation string
}

// CompletionResult carries the raw text returned by the model
type CompletionResult struct {
	Text      string
	ModelName string
	Usage     *common.TokenUsage
}

// ChatCompleter is a text generation backend (Groq, OpenAI, Gemini).
// Implementations make exactly one upstream call per Complete and never retry.
type ChatCompleter interface {
	Complete(ctx context.Context, req CompletionRequest, reqCtx *common.RequestContext) (*CompletionResult, error)
	GetProviderName() string
}

// DetailsProvider turns a medicine name into a validated record
type DetailsProvider interface {
	// GetDetails returns an error for provider failures, the not-found sentinel and invalid records alike
	GetDetails(ctx context.Context, name string, reqCtx *common.RequestContext) (*medicine.Record, error)

	// GetProviderName returns the name of the provider (e.g., "groq", "gemini")
	GetProviderName() string
}

// OCRProvider defines the interface that all OCR providers must implement
type OCRProvider interface {
	// ProcessPureOCR transcribes every piece of text visible in the image
	ProcessPureOCR(ctx context.Context, image ImageInput, reqCtx *common.RequestContext) (*SimpleOCRResult, *common.TokenUsage, error)

	// GetProviderName returns the name of the provider (e.g., "gemini", "mistral", "tesseract")
	GetProviderName() string
}

// AIMetadata describes which model produced a result
type AIMetadata struct {
	ModelName    string `json:"model_name"`
	PromptTokens int    `json:"prompt_tokens"`
	OutputTokens int    `json:"output_tokens"`
	TotalTokens  int    `json:"total_tokens"`
}

// SimpleOCRResult is the raw transcription of one image
type SimpleOCRResult struct {
	RawDocumentText string     `json:"raw_document_text"`
	TextLength      int        `json:"text_length"`
	Provider        string     `json:"provider"`
	Metadata        AIMetadata `json:"metadata"`
}
