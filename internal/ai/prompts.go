// prompts.go - Centralized prompt templates for the medicine lookup models
package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bosocmputer/medicine_ocr_gemini/internal/medicine"
)

// NullMedicine is what the cleanup model answers when no name is present
const NullMedicine = "null"

// GetDetailsSystemPrompt is shared by the primary and fallback details providers
func GetDetailsSystemPrompt() string {
	var sb strings.Builder
	sb.WriteString("You are a medical information assistant API.\n")
	sb.WriteString("Your task is to provide accurate, educational information about medicines in strict JSON format.\n\n")
	sb.WriteString(GetOutputFormatJSON())
	sb.WriteString("\n\n")
	sb.WriteString(GetDetailsRules())
	return sb.String()
}

// GetDetailsUserPrompt asks for one medicine
func GetDetailsUserPrompt(name string) string {
	return fmt.Sprintf("Provide details for the medicine: %q", name)
}

// GetSuggestionsSystemPrompt asks for an object with a "suggestions" array
func GetSuggestionsSystemPrompt() string {
	return `You are a helpful medical autocomplete assistant.
Return a JSON object with a "suggestions" array containing up to 5 medicine names.
Focus on common medicines available in India.
Rules: Return ONLY JSON. Array of strings only.`
}

func GetSuggestionsUserPrompt(partial string) string {
	return fmt.Sprintf("Suggest medicines starting with: %q", partial)
}

// GetPureOCRPrompt asks a vision model for a faithful transcription, nothing else
func GetPureOCRPrompt() string {
	return `You are an OCR engine. Transcribe ALL text visible on this medicine package exactly as printed.

RULES:
1. Output plain text only. No markdown, no commentary, no translation.
2. Keep the reading order, one line per printed line.
3. Include brand names, strengths (e.g. 650, 500mg), composition and manufacturer text.
4. If no text is readable, return an empty response.`
}

// GetCleanupSystemPrompt extracts one medicine name from noisy OCR text
func GetCleanupSystemPrompt() string {
	return `You are an expert OCR text cleaner.
Extract the EXACT medicine name (brand or generic) from messy text.
Rules:
1. Ignore dosage, packaging info, prices, or garbage.
2. Return ONLY the medicine name as a plain string.
3. If no medicine name is found, return "null".`
}

func GetCleanupUserPrompt(rawText string) string {
	return fmt.Sprintf("Extract medicine name from: %q", rawText)
}

// BuildTranslationPrompt embeds the record as indented JSON and names the fields to translate
func BuildTranslationPrompt(rec *medicine.Record, language string) (string, error) {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode record for translation: %w", err)
	}

	return fmt.Sprintf(`You are a medical translation assistant. Translate the following medicine information into %s.

IMPORTANT RULES:
1. Return ONLY a valid JSON object. No markdown, no code fences, no extra text whatsoever.
2. Keep the medicine brand name %q EXACTLY as-is (do NOT translate brand names).
3. Keep manufacturer name as-is.
4. Translate these fields: description, uses, sideEffects, warnings, dosage, category.
5. Keep the same JSON structure and field names in English.
6. Substitutes and alternative brand names should NOT be translated.
7. Make translations natural and easy to understand for a common person.

Here is the medicine data to translate:
%s`, language, rec.Name, string(data)), nil
}
