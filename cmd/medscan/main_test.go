package main

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestInteractive_DeliversLatestOnly(t *testing.T) {
	var mu sync.Mutex
	var queried []string
	suggest := func(_ context.Context, partial string) []string {
		mu.Lock()
		queried = append(queried, partial)
		mu.Unlock()
		if strings.HasPrefix("dolo", strings.ToLower(partial)) && len(partial) >= 3 {
			return []string{"Dolo 650", "Dolonex"}
		}
		return []string{}
	}

	var out bytes.Buffer
	err := suggestInteractive(context.Background(), suggest, strings.NewReader("d\ndo\ndol\n"), &out, 20*time.Millisecond)
	require.NoError(t, err)

	assert.Equal(t, "dol: Dolo 650, Dolonex\n", out.String())
	mu.Lock()
	assert.Equal(t, []string{"dol"}, queried)
	mu.Unlock()
}

func TestSuggestInteractive_EmptyInput(t *testing.T) {
	var out bytes.Buffer
	err := suggestInteractive(context.Background(), func(context.Context, string) []string {
		t.Fatal("no query expected")
		return nil
	}, strings.NewReader(""), &out, 10*time.Millisecond)

	require.NoError(t, err)
	assert.Empty(t, out.String())
}

func TestLanguagesCommand(t *testing.T) {
	var out bytes.Buffer
	languagesCmd.SetOut(&out)
	require.NoError(t, languagesCmd.RunE(languagesCmd, nil))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(t, lines, 12)
	assert.Contains(t, lines[1], "English")
	assert.Contains(t, out.String(), "हिन्दी")
}

func TestCommandTree(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"lookup", "suggest", "scan", "translate", "cache", "languages"} {
		assert.True(t, names[want], want)
	}

	assert.Error(t, translateCmd.Args(translateCmd, []string{"Dolo"}))
	assert.NoError(t, translateCmd.Args(translateCmd, []string{"Dolo", "650", "hi"}))
}
