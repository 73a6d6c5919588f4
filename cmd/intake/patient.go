package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	intake "github.com/vivaneiona/genkit-intake"
)

var patientCmd = &cobra.Command{
	Use:   "patient [FILE|-]",
	Short: "Extract one patient record",
	Long: `Patient runs the basic_info, contact_info and relationships extractions
concurrently and prints the reconciled record. When the document describes no
patient it prints "no record found" and exits successfully.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := intake.LoadDocument(inputPath(args))
		if err != nil {
			return err
		}
		slog.Debug("Loaded document", "name", doc.Name, "mime_type", doc.MIMEType, "checksum", doc.Checksum)

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

		p, err := x.ExtractRecord(ctx, doc.Text,
			intake.WithTimeout(viper.GetDuration("timeout")),
			intake.WithMetrics(metrics),
		)
		logMetrics(slog.Default(), reg)
		if err != nil {
			return fmt.Errorf("extract %s: %w", doc.Name, err)
		}
		if p == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "no record found")
			return nil
		}
		return writePatient(cmd.OutOrStdout(), p, viper.GetString("format"))
	},
}

func init() {
	rootCmd.AddCommand(patientCmd)
}
