package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	intake "github.com/vivaneiona/genkit-intake"
)

var sectionCmd = &cobra.Command{
	Use:   "section KIND [FILE|-]",
	Short: "Run a single section extraction and print the raw fragment",
	Long: `Section runs one extraction pass (basic_info, contact_info or relationships)
and prints the fragment exactly as parsed, before merging, sanitizing or
validation. Useful when tuning a prompt.`,
	Args:      cobra.RangeArgs(1, 2),
	ValidArgs: sectionNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := intake.SectionKind(args[0])
		if !kind.Valid() {
			return fmt.Errorf("%w: %q (want one of %s)", intake.ErrUnknownSection, args[0], strings.Join(sectionNames(), ", "))
		}
		doc, err := intake.LoadDocument(inputPath(args[1:]))
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		c, err := newCompleter(ctx)
		if err != nil {
			return err
		}
		x, err := intake.New(c, nil)
		if err != nil {
			return err
		}
		metrics, reg, err := newMetrics()
		if err != nil {
			return err
		}

		frag, err := x.ExtractSection(ctx, kind, doc.Text,
			intake.WithTimeout(viper.GetDuration("timeout")),
			intake.WithMetrics(metrics),
		)
		logMetrics(slog.Default(), reg)
		if err != nil {
			return err
		}
		return writeValue(cmd.OutOrStdout(), frag, viper.GetString("format"))
	},
}

func sectionNames() []string {
	var names []string
	for _, k := range intake.Sections() {
		names = append(names, string(k))
	}
	return names
}

func init() {
	rootCmd.AddCommand(sectionCmd)
}
