package ai

import "github.com/bosocmputer/medicine_ocr_gemini/internal/common"

// ModelPricing is USD per 1M tokens
type ModelPricing struct {
	InputPerMToken  float64
	OutputPerMToken float64
}

// modelPrices covers the models this service is configured with by default.
// Unknown models are costed at zero.
var modelPrices = map[string]ModelPricing{
	// Groq
	"llama-3.3-70b-versatile": {InputPerMToken: 0.59, OutputPerMToken: 0.79},
	"llama-3.1-8b-instant":    {InputPerMToken: 0.05, OutputPerMToken: 0.08},

	// Gemini
	"gemini-2.5-flash":      {InputPerMToken: 0.30, OutputPerMToken: 2.50},
	"gemini-2.5-flash-lite": {InputPerMToken: 0.10, OutputPerMToken: 0.40},
	"gemini-2.0-flash":      {InputPerMToken: 0.10, OutputPerMToken: 0.40},
	"gemini-1.5-flash":      {InputPerMToken: 0.075, OutputPerMToken: 0.30},

	// OpenAI
	"gpt-4o-mini": {InputPerMToken: 0.15, OutputPerMToken: 0.60},
	"gpt-4o":      {InputPerMToken: 2.50, OutputPerMToken: 10.00},
}

// mistralCostPerPage is Mistral OCR pricing: $2 per 1,000 pages
const mistralCostPerPage = 0.002

// calculateTokenCost builds a TokenUsage for a chat call
func calculateTokenCost(model string, input, output int) *common.TokenUsage {
	pricing := modelPrices[model]
	cost := float64(input)*pricing.InputPerMToken/1_000_000 +
		float64(output)*pricing.OutputPerMToken/1_000_000

	return &common.TokenUsage{
		InputTokens:  input,
		OutputTokens: output,
		TotalTokens:  input + output,
		CostUSD:      cost,
	}
}
