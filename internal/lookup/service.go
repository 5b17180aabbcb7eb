// Package lookup orchestrates cache, primary and fallback details providers,
// and the autocomplete suggestions.
package lookup

import (
	"context"
	"errors"
	"strings"

	"github.com/bosocmputer/medicine_ocr_gemini/internal/ai"
	"github.com/bosocmputer/medicine_ocr_gemini/internal/common"
	"github.com/bosocmputer/medicine_ocr_gemini/internal/medicine"
)

// ErrNotFound covers both "no such medicine" and "every provider failed"
var ErrNotFound = errors.New("medicine not found")

// ResultCache is the subset of the result cache the service needs
type ResultCache interface {
	Get(ctx context.Context, name string) (*medicine.Record, bool)
	Put(ctx context.Context, name string, rec *medicine.Record)
}

// Suggester returns raw candidate names for a partial query
type Suggester interface {
	Suggest(ctx context.Context, partial string, reqCtx *common.RequestContext) ([]string, error)
}

// Service resolves medicine names to records
type Service struct {
	cache     ResultCache
	providers []ai.DetailsProvider
	suggester Suggester
}

// NewService builds a service; providers are tried in the given order.
// suggester may be nil, in which case Suggest always returns an empty list.
func NewService(cache ResultCache, suggester Suggester, providers ...ai.DetailsProvider) *Service {
	return &Service{
		cache:     cache,
		providers: providers,
		suggester: suggester,
	}
}

// FetchDetails returns the record for name from the cache or the first provider that
// yields a valid record. Cached copies carry Cached=true; fresh records never do.
func (s *Service) FetchDetails(ctx context.Context, name string) (*medicine.Record, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNotFound
	}

	reqCtx := common.NewRequestContext("lookup")
	defer reqCtx.GetSummary()
	log := reqCtx.Logger().WithField("medicine", name)

	if s.cache != nil {
		reqCtx.StartStep("cache_lookup")
		if rec, ok := s.cache.Get(ctx, name); ok {
			reqCtx.EndStep("hit", nil, nil)
			tagged := rec.Clone()
			tagged.Cached = true
			log.Info("⚡ served from cache")
			return tagged, nil
		}
		reqCtx.EndStep("miss", nil, nil)
	}

	for i, provider := range s.providers {
		if err := ctx.Err(); err != nil {
			log.WithError(err).Warn("lookup cancelled")
			return nil, ErrNotFound
		}

		rec, err := provider.GetDetails(ctx, name, reqCtx)
		if err != nil {
			log.WithError(err).WithField("provider", provider.GetProviderName()).Warn("details provider failed")
			if i+1 < len(s.providers) {
				log.Infof("⚠️ switching to %s fallback", s.providers[i+1].GetProviderName())
			}
			continue
		}

		rec.Cached = false
		if s.cache != nil {
			reqCtx.StartStep("cache_write")
			s.cache.Put(ctx, name, rec)
			reqCtx.EndStep("success", nil, nil)
		}

		log.WithField("provider", provider.GetProviderName()).Info("✅ details resolved")
		return rec, nil
	}

	log.Warn("❌ no provider produced a valid record")
	return nil, ErrNotFound
}
