package medicine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const doloJSON = `{
  "name": "Dolo 650",
  "category": "Analgesic",
  "manufacturer": "Micro Labs",
  "description": "Paracetamol tablet.",
  "uses": ["Fever", "Headache"],
  "sideEffects": ["Nausea"],
  "warnings": ["Avoid alcohol"],
  "dosage": "1 tablet every 6 hours",
  "alternatives": {"generic": "Paracetamol", "similar": ["Crocin"]},
  "substitutes": ["Calpol 650"]
}`

func TestParseRecord(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
		check   func(t *testing.T, rec *Record)
	}{
		{
			name:  "valid record",
			input: doloJSON,
			check: func(t *testing.T, rec *Record) {
				assert.Equal(t, "Dolo 650", rec.Name)
				assert.Equal(t, []string{"Fever", "Headache"}, rec.Uses)
				assert.Equal(t, "Paracetamol", rec.Alternatives.Generic)
				assert.Equal(t, []string{"Calpol 650"}, rec.Substitutes)
			},
		},
		{
			name:  "wrapped in code fences",
			input: "```json\n" + doloJSON + "\n```",
			check: func(t *testing.T, rec *Record) {
				assert.Equal(t, "Dolo 650", rec.Name)
			},
		},
		{
			name:  "literal newline inside a string",
			input: "{\"name\": \"Dolo\n650\", \"uses\": [], \"warnings\": []}",
			check: func(t *testing.T, rec *Record) {
				assert.Equal(t, "Dolo\n650", rec.Name)
				assert.Empty(t, rec.Uses)
			},
		},
		{
			name:  "provider cannot set the cache flag",
			input: `{"name": "X", "uses": ["a"], "warnings": ["b"], "_cached": true}`,
			check: func(t *testing.T, rec *Record) {
				assert.False(t, rec.Cached)
			},
		},
		{
			name:    "not found sentinel",
			input:   `{"error": true}`,
			wantErr: ErrNotFoundSentinel,
		},
		{
			name:    "missing warnings",
			input:   `{"name": "Dolo 650", "uses": ["Fever"]}`,
			wantErr: ErrInvalidRecord,
		},
		{
			name:    "empty name",
			input:   `{"name": "", "uses": ["Fever"], "warnings": ["x"]}`,
			wantErr: ErrInvalidRecord,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := ParseRecord(tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, rec)
				return
			}
			require.NoError(t, err)
			tt.check(t, rec)
		})
	}
}

func TestParseRecord_Malformed(t *testing.T) {
	for _, input := range []string{"", "not json", `["a", "b"]`, `{"name": "x"`} {
		_, err := ParseRecord(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestStripCodeFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, StripCodeFences("```JSON\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripCodeFences("```\n{\"a\":1}```"))
	assert.Equal(t, `{"a":1}`, StripCodeFences("  {\"a\":1}  "))
}

func TestRecordClone(t *testing.T) {
	rec, err := ParseRecord(doloJSON)
	require.NoError(t, err)

	c := rec.Clone()
	c.Uses[0] = "changed"
	c.Alternatives.Similar[0] = "changed"

	assert.Equal(t, "Fever", rec.Uses[0])
	assert.Equal(t, "Crocin", rec.Alternatives.Similar[0])
	assert.Nil(t, (*Record)(nil).Clone())
}
