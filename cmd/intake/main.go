// Package main is the entry point for the intake CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"google.golang.org/genai"

	intake "github.com/vivaneiona/genkit-intake"
)

// version is set at build time via ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "intake",
	Short: "Extract structured patient records from free-text intake notes",
	Long: `intake reads a free-text document (a referral letter, an admission note,
a transcribed phone call) and extracts one structured patient record using a
Gemini model. Basic demographics, contact details and relationships are
extracted by separate concurrent calls and reconciled into one record.

Input is read from FILE, or from stdin when FILE is "-" or omitted.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogger(viper.GetBool("verbose"))
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./intake.yaml or ~/.config/intake/intake.yaml)")
	flags.String("model", intake.DefaultModel, "Gemini model name")
	flags.String("format", "json", "output format: json, yaml or fhir")
	flags.Duration("timeout", 60*time.Second, "per-request timeout")
	flags.BoolP("verbose", "v", false, "debug logging")

	for _, key := range []string{"model", "format", "timeout", "verbose"} {
		_ = viper.BindPFlag(key, flags.Lookup(key))
	}
	viper.SetDefault("max_retries", 2)
	viper.SetDefault("backoff", time.Second)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("intake")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "intake"))
		}
	}

	viper.SetEnvPrefix("INTAKE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func setupLogger(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		}),
	))
}

// apiKey prefers INTAKE_API_KEY (or api_key in the config file) and falls
// back to GEMINI_API_KEY.
func apiKey() string {
	if key := viper.GetString("api_key"); key != "" {
		return key
	}
	return os.Getenv("GEMINI_API_KEY")
}

// newCompleter builds a GeminiCompleter from the current configuration.
func newCompleter(ctx context.Context) (intake.Completer, error) {
	key := apiKey()
	if key == "" {
		return nil, fmt.Errorf("no API key: set INTAKE_API_KEY or GEMINI_API_KEY")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  key,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	opts := []intake.GenerateOption{
		intake.WithModelName(viper.GetString("model")),
		intake.WithRetry(viper.GetInt("max_retries"), viper.GetDuration("backoff")),
	}
	if viper.IsSet("temperature") {
		temp := strconv.FormatFloat(viper.GetFloat64("temperature"), 'f', -1, 64)
		opts = append(opts, intake.WithParameters(map[string]string{"temperature": temp}))
	}
	return intake.NewGeminiCompleter(client, slog.Default(), opts...)
}

// inputPath returns the FILE argument, defaulting to stdin.
func inputPath(args []string) string {
	if len(args) == 0 {
		return "-"
	}
	return args[0]
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
