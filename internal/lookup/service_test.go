package lookup

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bosocmputer/medicine_ocr_gemini/internal/cache"
	"github.com/bosocmputer/medicine_ocr_gemini/internal/common"
	"github.com/bosocmputer/medicine_ocr_gemini/internal/medicine"
	"github.com/bosocmputer/medicine_ocr_gemini/internal/storage"
)

type fakeProvider struct {
	name  string
	rec   *medicine.Record
	err   error
	mu    sync.Mutex
	calls []string
}

func (f *fakeProvider) GetDetails(_ context.Context, name string, _ *common.RequestContext) (*medicine.Record, error) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.rec.Clone(), nil
}

func (f *fakeProvider) GetProviderName() string { return f.name }

func (f *fakeProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func record(name string) *medicine.Record {
	return &medicine.Record{Name: name, Uses: []string{"Fever"}, Warnings: []string{"Liver"}}
}

func newCache() *cache.ResultCache {
	return cache.NewResultCache(storage.NewMemoryStore(0), 0, "")
}

func TestFetchDetails_PrimarySuccessIsCached(t *testing.T) {
	ctx := context.Background()
	primary := &fakeProvider{name: "groq", rec: record("Dolo 650")}
	fallback := &fakeProvider{name: "gemini", rec: record("Other")}
	svc := NewService(newCache(), nil, primary, fallback)

	rec, err := svc.FetchDetails(ctx, "Dolo 650")
	require.NoError(t, err)
	assert.Equal(t, "Dolo 650", rec.Name)
	assert.False(t, rec.Cached)
	assert.Equal(t, 0, fallback.callCount())

	again, err := svc.FetchDetails(ctx, "  dolo 650 ")
	require.NoError(t, err)
	assert.True(t, again.Cached)
	assert.Equal(t, 1, primary.callCount(), "second call served from cache")
}

func TestFetchDetails_FallbackOnFailure(t *testing.T) {
	failures := []error{
		errors.New("network down"),
		medicine.ErrNotFoundSentinel,
		medicine.ErrInvalidRecord,
	}

	for _, failure := range failures {
		t.Run(failure.Error(), func(t *testing.T) {
			c := newCache()
			primary := &fakeProvider{name: "groq", err: failure}
			fallback := &fakeProvider{name: "gemini", rec: record("Crocin")}
			svc := NewService(c, nil, primary, fallback)

			rec, err := svc.FetchDetails(context.Background(), "Crocin")
			require.NoError(t, err)
			assert.Equal(t, "Crocin", rec.Name)
			assert.False(t, rec.Cached)
			assert.Equal(t, 1, primary.callCount())
			assert.Equal(t, 1, fallback.callCount())

			_, ok := c.Get(context.Background(), "crocin")
			assert.True(t, ok, "fallback result is cached too")
		})
	}
}

func TestFetchDetails_AllFail(t *testing.T) {
	c := newCache()
	primary := &fakeProvider{name: "groq", err: errors.New("x")}
	fallback := &fakeProvider{name: "gemini", err: medicine.ErrNotFoundSentinel}
	svc := NewService(c, nil, primary, fallback)

	rec, err := svc.FetchDetails(context.Background(), "Nonexistium")
	assert.Nil(t, rec)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, c.Count(context.Background()))
}

func TestFetchDetails_EmptyNameSkipsEverything(t *testing.T) {
	primary := &fakeProvider{name: "groq", rec: record("X")}
	svc := NewService(newCache(), nil, primary)

	for _, name := range []string{"", "   ", "\t\n"} {
		_, err := svc.FetchDetails(context.Background(), name)
		assert.ErrorIs(t, err, ErrNotFound)
	}
	assert.Equal(t, 0, primary.callCount())
}

func TestFetchDetails_CachedCopyDoesNotLeakFlag(t *testing.T) {
	ctx := context.Background()
	c := newCache()
	svc := NewService(c, nil, &fakeProvider{name: "groq", rec: record("Dolo")})

	_, err := svc.FetchDetails(ctx, "Dolo")
	require.NoError(t, err)
	hit, err := svc.FetchDetails(ctx, "Dolo")
	require.NoError(t, err)
	require.True(t, hit.Cached)

	stored, ok := c.Get(ctx, "Dolo")
	require.True(t, ok)
	assert.False(t, stored.Cached)
}

func TestFetchDetails_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	primary := &fakeProvider{name: "groq", rec: record("X")}
	svc := NewService(newCache(), nil, primary)

	_, err := svc.FetchDetails(ctx, "X")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, primary.callCount())
}
