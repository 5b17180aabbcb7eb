// Package extraction turns a photo of a medicine package into a medicine name:
// OCR first, then an LLM pass that picks the name out of the raw text.
package extraction

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"github.com/bosocmputer/medicine_ocr_gemini/internal/ai"
	"github.com/bosocmputer/medicine_ocr_gemini/internal/common"
	"github.com/bosocmputer/medicine_ocr_gemini/internal/metrics"
	"github.com/bosocmputer/medicine_ocr_gemini/internal/processor"
)

var (
	// ErrInvalidImage is returned when the payload is empty or not an image
	ErrInvalidImage = errors.New("invalid image")
	// ErrUnreadableImage is returned when OCR finds fewer than 3 characters
	ErrUnreadableImage = errors.New("no readable text in image")
	// ErrOCRFailed is returned when every OCR provider errored
	ErrOCRFailed = errors.New("OCR failed")
)

// minReadableChars is the shortest OCR text worth sending to the cleanup model
const minReadableChars = 3

// Cleaner extracts a medicine name from raw OCR text
type Cleaner interface {
	CleanName(ctx context.Context, rawText string, reqCtx *common.RequestContext) (string, *common.TokenUsage, error)
	GetProviderName() string
}

// Options controls image preprocessing before OCR
type Options struct {
	Preprocess   bool
	MaxDimension int
}

// Result is the outcome of one extraction
type Result struct {
	Name    string `json:"name"`
	RawText string `json:"raw_text"`
	// LowConfidence marks a name guessed from the first OCR tokens
	LowConfidence bool              `json:"low_confidence"`
	OCRProvider   string            `json:"ocr_provider"`
	Tokens        common.TokenUsage `json:"tokens"`
}

// Pipeline runs OCR providers in order, then the cleaner
type Pipeline struct {
	ocr     []ai.OCRProvider
	cleaner Cleaner
	opts    Options
}

// NewPipeline builds a pipeline; nil OCR providers are skipped so an unset fallback can be passed directly
func NewPipeline(cleaner Cleaner, opts Options, ocr ...ai.OCRProvider) *Pipeline {
	providers := make([]ai.OCRProvider, 0, len(ocr))
	for _, p := range ocr {
		if p != nil {
			providers = append(providers, p)
		}
	}
	return &Pipeline{ocr: providers, cleaner: cleaner, opts: opts}
}

// Extract reads the medicine name from an image
func (p *Pipeline) Extract(ctx context.Context, image []byte) (*Result, error) {
	reqCtx := common.NewRequestContext("scan")
	defer reqCtx.GetSummary()

	mimeType, err := processor.ValidateImage(image)
	if err != nil {
		metrics.ExtractionOutcomes.WithLabelValues("invalid_image").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	input := ai.ImageInput{Data: image, MIMEType: mimeType}
	if p.opts.Preprocess {
		reqCtx.StartStep("image_preprocessing")
		reqCtx.StartSubStep("enhance")
		data, mt, err := processor.PreprocessImage(image, p.opts.MaxDimension)
		if err != nil {
			// keep the original bytes
			reqCtx.EndSubStep("❌ FAILED")
			reqCtx.EndStep("skipped", nil, err)
		} else {
			input = ai.ImageInput{Data: data, MIMEType: mt}
			reqCtx.EndSubStep(humanize.Bytes(uint64(len(image))) + " → " + humanize.Bytes(uint64(len(data))))
			reqCtx.EndStep("success", nil, nil)
		}
	}

	// Stage 1: OCR with fallback
	reqCtx.StartStep("ocr_extraction")
	ocrResult, usage, err := p.runOCR(ctx, input, reqCtx)
	if err != nil {
		reqCtx.EndStep("failed", nil, err)
		metrics.ExtractionOutcomes.WithLabelValues("ocr_failed").Inc()
		return nil, err
	}
	reqCtx.EndStep("success", usage, nil)

	rawText := strings.TrimSpace(ocrResult.RawDocumentText)
	if utf8.RuneCountInString(rawText) < minReadableChars {
		metrics.ExtractionOutcomes.WithLabelValues("unreadable").Inc()
		reqCtx.LogWarning("📷 OCR returned %d chars, treating image as unreadable", utf8.RuneCountInString(rawText))
		return nil, ErrUnreadableImage
	}

	result := &Result{
		RawText:     rawText,
		OCRProvider: ocrResult.Provider,
	}

	// Stage 2: name cleanup
	reqCtx.StartStep("name_cleanup")
	name, cleanupUsage, err := p.clean(ctx, rawText, reqCtx)
	if err != nil || name == "" {
		result.Name = fallbackGuess(rawText)
		result.LowConfidence = true
		reqCtx.EndStep("fallback", cleanupUsage, err)
		reqCtx.LogWarning("🧹 cleanup gave no name, guessing %q from raw text", result.Name)
		metrics.ExtractionOutcomes.WithLabelValues("low_confidence").Inc()
	} else {
		result.Name = name
		reqCtx.EndStep("success", cleanupUsage, nil)
		metrics.ExtractionOutcomes.WithLabelValues("success").Inc()
	}

	result.Tokens = reqCtx.TotalTokens
	return result, nil
}

func (p *Pipeline) runOCR(ctx context.Context, input ai.ImageInput, reqCtx *common.RequestContext) (*ai.SimpleOCRResult, *common.TokenUsage, error) {
	if len(p.ocr) == 0 {
		return nil, nil, fmt.Errorf("%w: no OCR provider configured", ErrOCRFailed)
	}

	var lastErr error
	for i, provider := range p.ocr {
		res, usage, err := provider.ProcessPureOCR(ctx, input, reqCtx)
		if err == nil {
			if res.Provider == "" {
				res.Provider = provider.GetProviderName()
			}
			return res, usage, nil
		}

		lastErr = err
		reqCtx.LogWarning("OCR provider %s failed: %v", provider.GetProviderName(), err)
		if i+1 < len(p.ocr) {
			reqCtx.LogInfo("🔄 Trying fallback OCR provider: %s", p.ocr[i+1].GetProviderName())
		}
		if ctx.Err() != nil {
			break
		}
	}

	return nil, nil, fmt.Errorf("%w: %v", ErrOCRFailed, lastErr)
}

// clean runs the cleanup model and normalizes its answer; "" means no name
func (p *Pipeline) clean(ctx context.Context, rawText string, reqCtx *common.RequestContext) (string, *common.TokenUsage, error) {
	if p.cleaner == nil {
		return "", nil, nil
	}

	answer, usage, err := p.cleaner.CleanName(ctx, rawText, reqCtx)
	if err != nil {
		return "", nil, err
	}

	name := stripQuotes(strings.TrimSpace(answer))
	if isNullAnswer(name) {
		return "", usage, nil
	}
	return name, usage, nil
}

// stripQuotes removes one leading and one trailing quote character, independently
func stripQuotes(s string) string {
	if strings.HasPrefix(s, `"`) || strings.HasPrefix(s, `'`) {
		s = s[1:]
	}
	if strings.HasSuffix(s, `"`) || strings.HasSuffix(s, `'`) {
		s = s[:len(s)-1]
	}
	return strings.TrimSpace(s)
}

func isNullAnswer(s string) bool {
	switch strings.ToLower(s) {
	case "", ai.NullMedicine, "null_medicine", "none":
		return true
	}
	return false
}

// fallbackGuess joins the first two whitespace-separated tokens of the OCR text
func fallbackGuess(rawText string) string {
	fields := strings.Fields(rawText)
	if len(fields) > 2 {
		fields = fields[:2]
	}
	return strings.Join(fields, " ")
}
