package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var translateCmd = &cobra.Command{
	Use:     "translate NAME LANG",
	Short:   "Look up a medicine and show it in another language",
	Example: `  medscan translate "Dolo 650" Hindi`,
	Args:    cobra.MinimumNArgs(2),
	RunE:    runTranslate,
}

func init() {
	rootCmd.AddCommand(translateCmd)
}

func runTranslate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	lang := args[len(args)-1]
	name := strings.Join(args[:len(args)-1], " ")

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	rec, err := a.Lookup.FetchDetails(ctx, name)
	if err != nil {
		return fmt.Errorf("no information found for %q", name)
	}

	translated, err := a.Translator.Translate(ctx, rec, lang, nil)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "translation failed, showing original: %v\n", err)
		return printJSON(cmd.OutOrStdout(), rec)
	}
	return printJSON(cmd.OutOrStdout(), translated)
}
