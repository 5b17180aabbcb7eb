package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bosocmputer/medicine_ocr_gemini/internal/common"
	"github.com/bosocmputer/medicine_ocr_gemini/internal/medicine"
)

const doloJSON = `{
  "name": "Dolo 650",
  "category": "Analgesic",
  "manufacturer": "Micro Labs",
  "uses": ["Fever"],
  "warnings": ["Liver damage in overdose"],
  "alternatives": {"generic": "Paracetamol", "similar": ["Crocin"]}
}`

func TestChatDetailsProvider_Valid(t *testing.T) {
	fc := &fakeCompleter{name: "groq", text: "```json\n" + doloJSON + "\n```"}
	p := NewChatDetailsProvider(fc)
	reqCtx := common.NewRequestContext("lookup")

	rec, err := p.GetDetails(context.Background(), "dolo", reqCtx)
	require.NoError(t, err)

	assert.Equal(t, "Dolo 650", rec.Name)
	assert.Equal(t, "Paracetamol", rec.Alternatives.Generic)
	assert.True(t, fc.last.JSONMode)
	assert.Equal(t, "details", fc.last.Operation)
	assert.Contains(t, fc.last.UserPrompt, `"dolo"`)
	assert.Contains(t, fc.last.SystemPrompt, `{"error": true}`)

	require.Len(t, reqCtx.Steps, 1)
	assert.Equal(t, "success", reqCtx.Steps[0].Status)
	assert.Equal(t, 15, reqCtx.TotalTokens.TotalTokens)
}

func TestChatDetailsProvider_Failures(t *testing.T) {
	tests := []struct {
		name    string
		fc      *fakeCompleter
		wantErr error
	}{
		{"sentinel", &fakeCompleter{text: `{"error": true}`}, medicine.ErrNotFoundSentinel},
		{"missing warnings", &fakeCompleter{text: `{"name":"X","uses":[]}`}, medicine.ErrInvalidRecord},
		{"transport", &fakeCompleter{err: errors.New("boom")}, nil},
		{"garbage", &fakeCompleter{text: "I am not JSON"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewChatDetailsProvider(tt.fc)
			reqCtx := common.NewRequestContext("lookup")

			rec, err := p.GetDetails(context.Background(), "x", reqCtx)
			assert.Nil(t, rec)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			require.Len(t, reqCtx.Steps, 1)
			assert.Equal(t, "failed", reqCtx.Steps[0].Status)
		})
	}
}

func TestSuggestionProvider(t *testing.T) {
	fc := &fakeCompleter{text: `{"suggestions": ["Dolo 650", "Dolonex"]}`}
	p := NewSuggestionProvider(fc)

	got, err := p.Suggest(context.Background(), "dol", common.NewRequestContext("suggest"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Dolo 650", "Dolonex"}, got)
	assert.True(t, fc.last.JSONMode)
	assert.Contains(t, fc.last.UserPrompt, `"dol"`)

	fc.text = "nope"
	_, err = p.Suggest(context.Background(), "dol", common.NewRequestContext("suggest"))
	assert.Error(t, err)
}

func TestNameCleaner(t *testing.T) {
	fc := &fakeCompleter{name: "groq", text: "  \"Dolo 650\"\n"}
	c := NewNameCleaner(fc)

	name, usage, err := c.CleanName(context.Background(), "DOLO 650 tablets", common.NewRequestContext("scan"))
	require.NoError(t, err)
	assert.Equal(t, `"Dolo 650"`, name)
	assert.NotNil(t, usage)
	assert.False(t, fc.last.JSONMode)
	assert.Equal(t, "groq", c.GetProviderName())
}

func TestVisionOCRProvider(t *testing.T) {
	fc := &fakeCompleter{name: "gemini", text: "  DOLO 650\nParacetamol  "}
	p := NewVisionOCRProvider(fc)

	img := ImageInput{Data: []byte{1, 2, 3}, MIMEType: "image/jpeg"}
	res, usage, err := p.ProcessPureOCR(context.Background(), img, common.NewRequestContext("scan"))
	require.NoError(t, err)

	assert.Equal(t, "DOLO 650\nParacetamol", res.RawDocumentText)
	assert.Equal(t, "gemini", res.Provider)
	assert.Equal(t, 15, res.Metadata.TotalTokens)
	assert.Equal(t, 15, usage.TotalTokens)
	require.NotNil(t, fc.last.Image)
	assert.Equal(t, "image/jpeg", fc.last.Image.MIMEType)

	fc.err = errors.New("quota")
	_, _, err = p.ProcessPureOCR(context.Background(), img, common.NewRequestContext("scan"))
	assert.ErrorContains(t, err, "vision OCR failed")
}

func TestBuildTranslationPrompt(t *testing.T) {
	rec := &medicine.Record{Name: "Dolo 650", Uses: []string{"Fever"}, Warnings: []string{}}
	prompt, err := BuildTranslationPrompt(rec, "Hindi")
	require.NoError(t, err)

	assert.Contains(t, prompt, "into Hindi")
	assert.Contains(t, prompt, `"Dolo 650" EXACTLY`)
	assert.Contains(t, prompt, "description, uses, sideEffects, warnings, dosage, category")
	assert.Contains(t, prompt, `"uses": [`)
}

func TestCalculateTokenCost(t *testing.T) {
	u := calculateTokenCost("gemini-2.5-flash", 1_000_000, 1_000_000)
	assert.Equal(t, 2_000_000, u.TotalTokens)
	assert.InDelta(t, 2.80, u.CostUSD, 1e-9)

	unknown := calculateTokenCost("mystery-model", 100, 100)
	assert.Equal(t, 0.0, unknown.CostUSD)
}
