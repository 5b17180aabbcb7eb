package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bosocmputer/medicine_ocr_gemini/internal/lookup"
	"github.com/bosocmputer/medicine_ocr_gemini/internal/translation"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup NAME",
	Short: "Show structured information for a medicine",
	Example: `  medscan lookup "Dolo 650"
  medscan lookup Crocin --lang hi,ta`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLookup,
}

func init() {
	lookupCmd.Flags().StringSlice("lang", nil, "also show the record in these languages (name or code)")
	rootCmd.AddCommand(lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	name := strings.Join(args, " ")
	langs, _ := cmd.Flags().GetStringSlice("lang")

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	rec, err := a.Lookup.FetchDetails(ctx, name)
	if errors.Is(err, lookup.ErrNotFound) {
		return fmt.Errorf("no information found for %q", name)
	}
	if err != nil {
		return err
	}
	if err := printJSON(cmd.OutOrStdout(), rec); err != nil {
		return err
	}

	session := translation.NewSession(a.Translator)
	session.Reset(rec)
	for _, lang := range langs {
		translated, err := session.Show(ctx, lang)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "translation to %s failed, showing original only\n", lang)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\n# %s\n", translation.ResolveLanguage(lang))
		if err := printJSON(cmd.OutOrStdout(), translated); err != nil {
			return err
		}
	}
	return nil
}
