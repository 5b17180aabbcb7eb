package translation

import (
	"context"
	"strings"
	"sync"

	"github.com/bosocmputer/medicine_ocr_gemini/internal/medicine"
)

// Session remembers translations of the record currently on screen so that
// switching back and forth between languages costs one call per language.
type Session struct {
	translator *Translator

	mu           sync.Mutex
	original     *medicine.Record
	translations map[string]*medicine.Record
}

func NewSession(t *Translator) *Session {
	return &Session{translator: t, translations: make(map[string]*medicine.Record)}
}

// Reset switches to a new record and drops every cached translation
func (s *Session) Reset(rec *medicine.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.original = rec
	s.translations = make(map[string]*medicine.Record)
}

// Original returns the record passed to the last Reset
func (s *Session) Original() *medicine.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.original
}

// Show returns the current record in lang, translating at most once per language
func (s *Session) Show(ctx context.Context, lang string) (*medicine.Record, error) {
	s.mu.Lock()
	original := s.original
	key := strings.ToLower(ResolveLanguage(lang))
	cached, ok := s.translations[key]
	s.mu.Unlock()

	if original == nil {
		return nil, ErrTranslationFailed
	}
	if s.translator.IsBase(lang) {
		return original, nil
	}
	if ok {
		return cached, nil
	}

	translated, err := s.translator.Translate(ctx, original, lang, nil)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	// a Reset while we were translating makes this result stale
	if s.original == original {
		s.translations[key] = translated
	}
	s.mu.Unlock()

	return translated, nil
}
