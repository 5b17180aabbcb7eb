package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bosocmputer/medicine_ocr_gemini/internal/extraction"
	"github.com/bosocmputer/medicine_ocr_gemini/internal/medicine"
)

var scanCmd = &cobra.Command{
	Use:   "scan IMAGE",
	Short: "Read a medicine name from a photo of its package",
	Args:  cobra.ExactArgs(1),
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().Bool("lookup", false, "also look up the extracted name")
	rootCmd.AddCommand(scanCmd)
}

type scanOutput struct {
	*extraction.Result
	Details *medicine.Record `json:"details,omitempty"`
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	doLookup, _ := cmd.Flags().GetBool("lookup")

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.Extractor.Extract(ctx, data)
	if errors.Is(err, extraction.ErrUnreadableImage) {
		return fmt.Errorf("could not read any text in %s, try a sharper photo", args[0])
	}
	if err != nil {
		return err
	}

	out := scanOutput{Result: result}
	if result.LowConfidence {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %q is a guess from the raw text\n", result.Name)
	}
	if doLookup {
		rec, err := a.Lookup.FetchDetails(ctx, result.Name)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "no information found for %q\n", result.Name)
		} else {
			out.Details = rec
		}
	}

	return printJSON(cmd.OutOrStdout(), out)
}
