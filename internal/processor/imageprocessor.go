// imageprocessor.go - Image sniffing and preprocessing for better OCR accuracy

package processor

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"math"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/sirupsen/logrus"
)

// DefaultMaxDimension bounds the longest side of a preprocessed image
const DefaultMaxDimension = 2000

// ErrNotAnImage is returned when the payload is not a recognizable image
var ErrNotAnImage = errors.New("payload is not an image")

// DetectMIME sniffs the content type from the bytes, ignoring any parameters
func DetectMIME(data []byte) string {
	mt := mimetype.Detect(data).String()
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	return strings.TrimSpace(mt)
}

// ValidateImage checks that data is non-empty and sniffs as image/*
func ValidateImage(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty payload", ErrNotAnImage)
	}
	mt := DetectMIME(data)
	if !strings.HasPrefix(mt, "image/") {
		return "", fmt.Errorf("%w: detected %s", ErrNotAnImage, mt)
	}
	return mt, nil
}

// PreprocessImage resizes to maxDimension and applies adaptive enhancement.
// Returns the encoded bytes and their MIME type. Formats the decoder does not
// know (webp, heic) fail here and callers are expected to send the original.
func PreprocessImage(data []byte, maxDimension int) ([]byte, string, error) {
	if maxDimension <= 0 {
		maxDimension = DefaultMaxDimension
	}

	inputMIME := DetectMIME(data)

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image (%s): %w", inputMIME, err)
	}

	// Step 1: Analyze image quality
	qualityScore := analyzeImageQuality(img)

	// Step 2: Resize to optimal size
	img = fitWithin(img, maxDimension)

	// Step 3: Apply adaptive processing based on quality score
	switch {
	case qualityScore < 50:
		img = applyAggressiveEnhancement(img)
	case qualityScore < 75:
		img = applyStandardEnhancement(img)
	default:
		img = applyLightEnhancement(img)
	}

	// Step 4: Final sharpening pass
	img = imaging.Sharpen(img, 1.0)

	var buf bytes.Buffer
	mimeType := "image/jpeg"
	if inputMIME == "image/png" {
		err = png.Encode(&buf, img)
		mimeType = "image/png"
	} else {
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95})
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode processed image: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"quality_score": fmt.Sprintf("%.1f", qualityScore),
		"input_size":    humanize.Bytes(uint64(len(data))),
		"output_size":   humanize.Bytes(uint64(buf.Len())),
		"bounds":        fmt.Sprintf("%dx%d", img.Bounds().Dx(), img.Bounds().Dy()),
	}).Debug("🖼️ image preprocessed")

	return buf.Bytes(), mimeType, nil
}

// fitWithin scales img down so neither side exceeds maxDimension
func fitWithin(img image.Image, maxDimension int) image.Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width <= maxDimension && height <= maxDimension {
		return img
	}
	if width > height {
		return imaging.Resize(img, maxDimension, 0, imaging.Lanczos)
	}
	return imaging.Resize(img, 0, maxDimension, imaging.Lanczos)
}

// analyzeImageQuality analyzes image and returns quality score (0-100)
func analyzeImageQuality(img image.Image) float64 {
	bounds := img.Bounds()

	var totalBrightness float64
	minBrightness := 255.0
	maxBrightness := 0.0
	pixelCount := 0

	// Sample every 10th pixel
	for y := bounds.Min.Y; y < bounds.Max.Y; y += 10 {
		for x := bounds.Min.X; x < bounds.Max.X; x += 10 {
			r, g, b, _ := img.At(x, y).RGBA()
			brightness := (float64(r>>8) + float64(g>>8) + float64(b>>8)) / 3.0

			totalBrightness += brightness
			minBrightness = math.Min(minBrightness, brightness)
			maxBrightness = math.Max(maxBrightness, brightness)
			pixelCount++
		}
	}

	if pixelCount == 0 {
		return 0
	}

	avgBrightness := totalBrightness / float64(pixelCount)
	contrast := maxBrightness - minBrightness

	// Ideal: avgBrightness = 128, contrast = 200+
	brightnessScore := 100.0 - math.Abs(avgBrightness-128.0)/1.28
	contrastScore := math.Min(contrast/2.0, 100.0)

	return (brightnessScore * 0.4) + (contrastScore * 0.6)
}

// applyLightEnhancement for good quality images
func applyLightEnhancement(img image.Image) image.Image {
	result := imaging.Sharpen(img, 2.0)
	result = imaging.AdjustContrast(result, 30)
	result = imaging.Grayscale(result)
	result = imaging.AdjustContrast(result, 20)
	return imaging.AdjustGamma(result, 1.05)
}

// applyStandardEnhancement for medium quality images
func applyStandardEnhancement(img image.Image) image.Image {
	result := imaging.Sharpen(img, 3.0)
	result = imaging.AdjustContrast(result, 45)
	result = imaging.AdjustBrightness(result, 15)
	result = imaging.Grayscale(result)
	result = imaging.AdjustContrast(result, 35)
	return imaging.AdjustGamma(result, 1.15)
}

// applyAggressiveEnhancement for poor quality images (glare, foil blister packs)
func applyAggressiveEnhancement(img image.Image) image.Image {
	result := imaging.Sharpen(img, 4.0)
	result = imaging.AdjustContrast(result, 60)
	result = imaging.AdjustBrightness(result, 25)
	result = imaging.Grayscale(result)
	result = imaging.AdjustContrast(result, 55)
	result = imaging.AdjustGamma(result, 1.3)

	// blur then re-sharpen to drop speckle noise
	result = imaging.Blur(result, 0.5)
	result = imaging.Sharpen(result, 2.5)

	return imaging.AdjustContrast(result, 20)
}
