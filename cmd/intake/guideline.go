package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	intake "github.com/vivaneiona/genkit-intake"
)

var guidelineCmd = &cobra.Command{
	Use:   "guideline [FILE|-]",
	Short: "Extract clinical guideline metadata and lab reference ranges",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := intake.LoadDocument(inputPath(args))
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		ctx, cancel := context.WithTimeout(ctx, viper.GetDuration("timeout"))
		defer cancel()

		c, err := newCompleter(ctx)
		if err != nil {
			return err
		}
		g, err := intake.NewGuidelineExtractor(c, nil, slog.Default())
		if err != nil {
			return err
		}

		gl, err := g.Extract(ctx, doc.Text)
		if err != nil {
			return fmt.Errorf("extract %s: %w", doc.Name, err)
		}
		if gl == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "no guideline found")
			return nil
		}
		format := viper.GetString("format")
		if format == formatFHIR {
			return fmt.Errorf("format %q is only supported for patient records", format)
		}
		return writeValue(cmd.OutOrStdout(), gl, format)
	},
}

func init() {
	rootCmd.AddCommand(guidelineCmd)
}
