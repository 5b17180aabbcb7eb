package lookup

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bosocmputer/medicine_ocr_gemini/internal/common"
)

type fakeSuggester struct {
	out   []string
	err   error
	calls int
}

func (f *fakeSuggester) Suggest(_ context.Context, _ string, _ *common.RequestContext) ([]string, error) {
	f.calls++
	return f.out, f.err
}

func TestSuggest(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		out       []string
		err       error
		want      []string
		wantCalls int
	}{
		{"too short", "do", []string{"Dolo"}, nil, []string{}, 0},
		{"short after trim", "  do  ", []string{"Dolo"}, nil, []string{}, 0},
		{"multibyte counts runes", "डोलो", []string{"Dolo"}, nil, []string{"Dolo"}, 1},
		{"blanks dropped", "dol", []string{"Dolo 650", " ", "", "Dolonex"}, nil, []string{"Dolo 650", "Dolonex"}, 1},
		{"capped at five", "par", []string{"a", "b", "c", "d", "e", "f", "g"}, nil, []string{"a", "b", "c", "d", "e"}, 1},
		{"provider error", "dol", nil, errors.New("boom"), []string{}, 1},
		{"nil list", "dol", nil, nil, []string{}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := &fakeSuggester{out: tt.out, err: tt.err}
			svc := NewService(nil, fs)

			got := svc.Suggest(context.Background(), tt.query)
			assert.NotNil(t, got)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantCalls, fs.calls)
		})
	}
}

func TestSuggest_NoSuggester(t *testing.T) {
	svc := NewService(nil, nil)
	assert.Equal(t, []string{}, svc.Suggest(context.Background(), "paracetamol"))
}
