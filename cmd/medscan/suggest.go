package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/bosocmputer/medicine_ocr_gemini/internal/lookup"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest [PARTIAL]",
	Short: "Autocomplete a partial medicine name",
	Long: `Prints up to five brand names starting with PARTIAL.

With -i every line read from stdin is treated as the current contents of a
search box: queries are debounced and only the latest result is printed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSuggest,
}

func init() {
	suggestCmd.Flags().BoolP("interactive", "i", false, "read partial names from stdin")
	suggestCmd.Flags().Duration("delay", lookup.DefaultDebounceDelay, "debounce delay in interactive mode")
	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	interactive, _ := cmd.Flags().GetBool("interactive")
	delay, _ := cmd.Flags().GetDuration("delay")

	if !interactive && len(args) == 0 {
		return fmt.Errorf("PARTIAL is required unless -i is given")
	}

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if !interactive {
		for _, s := range a.Lookup.Suggest(ctx, args[0]) {
			fmt.Fprintln(cmd.OutOrStdout(), s)
		}
		return nil
	}

	return suggestInteractive(ctx, a.Lookup.Suggest, cmd.InOrStdin(), cmd.OutOrStdout(), delay)
}

// suggestInteractive feeds each input line to a debouncer and prints delivered results.
// It waits one quiet period after EOF so the last query can finish.
func suggestInteractive(ctx context.Context, suggest lookup.SuggestFunc, in io.Reader, out io.Writer, delay time.Duration) error {
	var wg sync.WaitGroup
	var pending bool
	var mu sync.Mutex

	d := lookup.NewSuggestionDebouncer(suggest, delay)
	defer d.Stop()

	deliver := func(partial string, suggestions []string) {
		defer wg.Done()
		mu.Lock()
		pending = false
		mu.Unlock()

		if len(suggestions) == 0 {
			fmt.Fprintf(out, "%s: (no suggestions)\n", partial)
			return
		}
		fmt.Fprintf(out, "%s: %s\n", partial, strings.Join(suggestions, ", "))
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		mu.Lock()
		if !pending {
			pending = true
			wg.Add(1)
		}
		mu.Unlock()
		d.Submit(ctx, scanner.Text(), deliver)
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	mu.Lock()
	waiting := pending
	mu.Unlock()
	if waiting {
		wg.Wait()
	}
	return nil
}
