// Package translation renders medicine records in another language through a chat model.
package translation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/bosocmputer/medicine_ocr_gemini/internal/ai"
	"github.com/bosocmputer/medicine_ocr_gemini/internal/common"
	"github.com/bosocmputer/medicine_ocr_gemini/internal/medicine"
	"github.com/bosocmputer/medicine_ocr_gemini/internal/metrics"
)

// DefaultBaseLanguage is the language records are produced in
const DefaultBaseLanguage = "English"

// ErrTranslationFailed means the caller should keep showing the original record
var ErrTranslationFailed = errors.New("translation failed")

// Translator translates records with a single chat call per request
type Translator struct {
	completer    ai.ChatCompleter
	baseLanguage string
}

// NewTranslator creates a translator; an empty baseLanguage means English
func NewTranslator(completer ai.ChatCompleter, baseLanguage string) *Translator {
	base := ResolveLanguage(baseLanguage)
	if base == "" {
		base = DefaultBaseLanguage
	}
	return &Translator{completer: completer, baseLanguage: base}
}

// BaseLanguage returns the resolved base language name
func (t *Translator) BaseLanguage() string {
	return t.baseLanguage
}

// IsBase reports whether lang needs no translation
func (t *Translator) IsBase(lang string) bool {
	resolved := ResolveLanguage(lang)
	return resolved == "" || strings.EqualFold(resolved, t.baseLanguage)
}

// Translate returns rec unchanged for the base language. Otherwise the
// translated copy keeps the original name and never carries the cache flag.
func (t *Translator) Translate(ctx context.Context, rec *medicine.Record, lang string, reqCtx *common.RequestContext) (*medicine.Record, error) {
	if rec == nil {
		return nil, fmt.Errorf("%w: no record", ErrTranslationFailed)
	}
	if t.IsBase(lang) {
		return rec, nil
	}
	if reqCtx == nil {
		reqCtx = common.NewRequestContext("translate")
		defer reqCtx.GetSummary()
	}

	target := ResolveLanguage(lang)
	label := metricLabel(target)

	translated, err := t.translate(ctx, rec, target, reqCtx)
	if err != nil {
		metrics.TranslationOutcomes.WithLabelValues(label, "failed").Inc()
		reqCtx.LogWarning("🌐 Translation to %s failed: %v", target, err)
		return nil, fmt.Errorf("%w: %v", ErrTranslationFailed, err)
	}

	metrics.TranslationOutcomes.WithLabelValues(label, "success").Inc()
	return translated, nil
}

func (t *Translator) translate(ctx context.Context, rec *medicine.Record, target string, reqCtx *common.RequestContext) (*medicine.Record, error) {
	if t.completer == nil {
		return nil, errors.New("no translation provider configured")
	}

	// the cache flag is not part of the content to translate
	source := rec.Clone()
	source.Cached = false

	prompt, err := ai.BuildTranslationPrompt(source, target)
	if err != nil {
		return nil, err
	}

	reqCtx.StartStep("translation")
	res, err := t.completer.Complete(ctx, ai.CompletionRequest{
		UserPrompt: prompt,
		JSONMode:   true,
		Operation:  "translate",
	}, reqCtx)
	if err != nil {
		reqCtx.EndStep("failed", nil, err)
		return nil, err
	}

	cleaned := medicine.FixJSONEscaping(medicine.StripCodeFences(res.Text))
	var out medicine.Record
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		err = fmt.Errorf("failed to parse translated JSON: %w", err)
		reqCtx.EndStep("failed", res.Usage, err)
		return nil, err
	}

	out.Name = rec.Name
	out.Cached = false
	if err := out.Validate(); err != nil {
		reqCtx.EndStep("failed", res.Usage, err)
		return nil, err
	}

	reqCtx.EndStep("success", res.Usage, nil)
	return &out, nil
}
