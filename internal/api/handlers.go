// handlers.go - HTTP handlers for lookup, suggestions, scanning, translation and cache admin.

package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bosocmputer/medicine_ocr_gemini/internal/common"
	"github.com/bosocmputer/medicine_ocr_gemini/internal/extraction"
	"github.com/bosocmputer/medicine_ocr_gemini/internal/lookup"
	"github.com/bosocmputer/medicine_ocr_gemini/internal/medicine"
	"github.com/bosocmputer/medicine_ocr_gemini/internal/metrics"
	"github.com/bosocmputer/medicine_ocr_gemini/internal/translation"
)

// ServiceName and Version are reported by /health
const (
	ServiceName = "medscan"
	Version     = "1.0.0"
)

// DefaultMaxUploadBytes bounds uploaded and downloaded images
const DefaultMaxUploadBytes = 10 << 20

// Lookup resolves names and partial names
type Lookup interface {
	FetchDetails(ctx context.Context, name string) (*medicine.Record, error)
	Suggest(ctx context.Context, partial string) []string
}

// Extractor reads a medicine name from an image
type Extractor interface {
	Extract(ctx context.Context, image []byte) (*extraction.Result, error)
}

// Translator renders a record in another language
type Translator interface {
	Translate(ctx context.Context, rec *medicine.Record, lang string, reqCtx *common.RequestContext) (*medicine.Record, error)
}

// CacheAdmin exposes cache maintenance
type CacheAdmin interface {
	Count(ctx context.Context) int
	ClearAll(ctx context.Context) int
}

// Options tunes the HTTP layer
type Options struct {
	MaxUploadBytes int64
	AllowedOrigins string
	// HTTPClient downloads images passed by URL; http.DefaultClient when nil
	HTTPClient *http.Client
}

// Handler serves the public API
type Handler struct {
	lookup     Lookup
	extractor  Extractor
	translator Translator
	cache      CacheAdmin
	opts       Options
}

func NewHandler(l Lookup, e Extractor, t Translator, c CacheAdmin, opts Options) *Handler {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if opts.AllowedOrigins == "" {
		opts.AllowedOrigins = "*"
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	return &Handler{lookup: l, extractor: e, translator: t, cache: c, opts: opts}
}

// Router builds a gin engine with middleware and every route registered
func (h *Handler) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(RequestID(), metrics.Middleware(), CORS(h.opts.AllowedOrigins))

	h.RegisterRoutes(router)
	return router
}

// RegisterRoutes attaches the API to r
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	// Root endpoint for SSL verification
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	v1.GET("/medicines/:name", h.GetMedicine)
	v1.GET("/suggestions", h.GetSuggestions)
	v1.POST("/scan", h.Scan)
	v1.POST("/translate", h.Translate)
	v1.GET("/languages", h.Languages)
	v1.GET("/cache/count", h.CacheCount)
	v1.DELETE("/cache", h.ClearCache)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": ServiceName,
		"version": Version,
	})
}

// GetMedicine handles GET /api/v1/medicines/:name
func (h *Handler) GetMedicine(c *gin.Context) {
	rec, err := h.lookup.FetchDetails(c.Request.Context(), c.Param("name"))
	if errors.Is(err, lookup.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "lookup_failed", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// GetSuggestions handles GET /api/v1/suggestions?q=
func (h *Handler) GetSuggestions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"suggestions": h.lookup.Suggest(c.Request.Context(), c.Query("q")),
	})
}

// Scan handles POST /api/v1/scan with a multipart "image" file or an "image_url" field
func (h *Handler) Scan(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.opts.MaxUploadBytes+(1<<20))

	data, err := h.readImage(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    "invalid_request",
			"details":  err.Error(),
			"expected": "multipart form with an image file or image_url",
		})
		return
	}

	result, err := h.extractor.Extract(c.Request.Context(), data)
	switch {
	case errors.Is(err, extraction.ErrInvalidImage):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_image", "details": err.Error()})
		return
	case errors.Is(err, extraction.ErrUnreadableImage):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "unreadable_image"})
		return
	case err != nil:
		c.JSON(http.StatusBadGateway, gin.H{"error": "ocr_failed", "details": err.Error()})
		return
	}

	response := gin.H{
		"name":           result.Name,
		"raw_text":       result.RawText,
		"low_confidence": result.LowConfidence,
		"ocr_provider":   result.OCRProvider,
		"tokens":         result.Tokens,
	}

	if wantLookup(c) {
		rec, err := h.lookup.FetchDetails(c.Request.Context(), result.Name)
		if err != nil {
			response["details_error"] = "not_found"
		} else {
			response["details"] = rec
		}
	}

	c.JSON(http.StatusOK, response)
}

func wantLookup(c *gin.Context) bool {
	raw := c.Query("lookup")
	if raw == "" {
		raw = c.PostForm("lookup")
	}
	v, _ := strconv.ParseBool(raw)
	return v
}

func (h *Handler) readImage(c *gin.Context) ([]byte, error) {
	if fh, err := c.FormFile("image"); err == nil {
		if fh.Size > h.opts.MaxUploadBytes {
			return nil, errTooLarge
		}
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return readLimited(f, h.opts.MaxUploadBytes)
	}

	if url := c.PostForm("image_url"); url != "" {
		return downloadImage(c.Request.Context(), h.opts.HTTPClient, url, h.opts.MaxUploadBytes)
	}

	return nil, errors.New("image or image_url is required")
}

type translateRequest struct {
	Record   *medicine.Record `json:"record"`
	Language string           `json:"language"`
}

// Translate handles POST /api/v1/translate
func (h *Handler) Translate(c *gin.Context) {
	var req translateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Record == nil {
		details := "record is required"
		if err != nil {
			details = err.Error()
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    "invalid_request",
			"details":  details,
			"expected": "JSON with record and language",
		})
		return
	}

	reqCtx := common.NewRequestContext("translate")
	defer reqCtx.GetSummary()

	translated, err := h.translator.Translate(c.Request.Context(), req.Record, req.Language, reqCtx)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":    "translation_failed",
			"original": req.Record,
		})
		return
	}
	c.JSON(http.StatusOK, translated)
}

func (h *Handler) Languages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"languages": translation.SupportedLanguages()})
}

func (h *Handler) CacheCount(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"count": h.cache.Count(c.Request.Context())})
}

func (h *Handler) ClearCache(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"cleared": h.cache.ClearAll(c.Request.Context())})
}

var errTooLarge = errors.New("image exceeds upload limit")

// readLimited reads at most limit bytes and fails if there is more
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, errTooLarge
	}
	return data, nil
}
