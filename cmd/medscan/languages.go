package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bosocmputer/medicine_ocr_gemini/internal/translation"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List the languages records can be translated into",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CODE\tNAME\tNATIVE")
		for _, l := range translation.SupportedLanguages() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", l.Code, l.Name, l.Native)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(languagesCmd)
}
