//go:build !tesseract

package ai

import (
	"errors"

	"github.com/bosocmputer/medicine_ocr_gemini/configs"
)

// ErrTesseractUnavailable is returned when the binary was built without -tags tesseract
var ErrTesseractUnavailable = errors.New("tesseract OCR not compiled in (rebuild with -tags tesseract)")

// NewTesseractProvider reports that local OCR is unavailable in this build
func NewTesseractProvider(_ configs.ProviderConfig) (OCRProvider, error) {
	return nil, ErrTesseractUnavailable
}
