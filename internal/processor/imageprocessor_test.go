package processor

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x/8+y/8)%2 == 0 {
				img.Set(x, y, color.White)
			} else {
				img.Set(x, y, color.Black)
			}
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDetectMIME(t *testing.T) {
	assert.Equal(t, "image/png", DetectMIME(testPNG(t, 4, 4)))
	assert.Equal(t, "text/plain", DetectMIME([]byte("hello world")))
}

func TestValidateImage(t *testing.T) {
	mt, err := ValidateImage(testPNG(t, 4, 4))
	require.NoError(t, err)
	assert.Equal(t, "image/png", mt)

	_, err = ValidateImage(nil)
	assert.ErrorIs(t, err, ErrNotAnImage)

	_, err = ValidateImage([]byte("%PDF-1.4 not an image"))
	assert.ErrorIs(t, err, ErrNotAnImage)
}

func TestPreprocessImage_ResizesAndKeepsPNG(t *testing.T) {
	out, mt, err := PreprocessImage(testPNG(t, 400, 200), 100)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mt)

	img, err := imaging.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 50, img.Bounds().Dy())
}

func TestPreprocessImage_SmallImageNotUpscaled(t *testing.T) {
	out, _, err := PreprocessImage(testPNG(t, 40, 60), 0)
	require.NoError(t, err)

	img, err := imaging.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())
	assert.Equal(t, 60, img.Bounds().Dy())
}

func TestPreprocessImage_RejectsGarbage(t *testing.T) {
	_, _, err := PreprocessImage([]byte("not an image"), 100)
	assert.Error(t, err)
}

func TestAnalyzeImageQuality(t *testing.T) {
	checker, err := imaging.Decode(bytes.NewReader(testPNG(t, 100, 100)))
	require.NoError(t, err)
	flat := imaging.New(100, 100, color.Black)

	assert.Greater(t, analyzeImageQuality(checker), analyzeImageQuality(flat))
}
