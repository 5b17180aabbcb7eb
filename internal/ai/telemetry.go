package ai

import (
	"errors"
	"time"

	"github.com/bosocmputer/medicine_ocr_gemini/internal/metrics"
)

// observeProviderCall records outcome and latency of one upstream call
func observeProviderCall(provider, operation string, start time.Time, err error) {
	if operation == "" {
		operation = "unknown"
	}

	outcome := "success"
	if err != nil {
		outcome = "error"
		var gemErr *GeminiError
		if errors.As(err, &gemErr) {
			outcome = gemErr.Category
		}
	}

	metrics.ProviderRequests.WithLabelValues(provider, operation, outcome).Inc()
	metrics.ProviderLatency.WithLabelValues(provider, operation).Observe(time.Since(start).Seconds())
}
