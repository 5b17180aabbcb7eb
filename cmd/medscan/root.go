package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/bosocmputer/medicine_ocr_gemini/configs"
	"github.com/bosocmputer/medicine_ocr_gemini/internal/app"
	"github.com/bosocmputer/medicine_ocr_gemini/internal/common"
)

// env holds the environment plus any flags bound onto it
var env = configs.NewViper()

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "medscan",
	Short: "Look up, scan and translate medicine information",
	Long: `medscan resolves a medicine name to structured information (uses, side effects,
warnings, dosage, alternatives) using LLM providers, reads names from package photos
and translates the result into Indian languages.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		common.InitLogger(env.GetString("LOG_LEVEL"), env.GetString("LOG_FORMAT"))
	},
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// flags override the environment only when set explicitly
	flags := rootCmd.PersistentFlags()
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("cache-backend", "", "cache backend (memory, sqlite, mongo, valkey)")
	flags.String("cache-path", "", "sqlite cache file")

	_ = env.BindPFlag("LOG_LEVEL", flags.Lookup("log-level"))
	_ = env.BindPFlag("CACHE_BACKEND", flags.Lookup("cache-backend"))
	_ = env.BindPFlag("CACHE_SQLITE_PATH", flags.Lookup("cache-path"))
}

// openApp loads configuration and builds the services; callers must Close it
func openApp(ctx context.Context) (*app.App, error) {
	cfg, err := configs.LoadFrom(env)
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg)
}

func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		logrus.Debug(err)
		os.Exit(1)
	}
}
