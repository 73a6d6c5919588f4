package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	intake "github.com/vivaneiona/genkit-intake"
)

var explainCmd = &cobra.Command{
	Use:   "explain [FILE|-]",
	Short: "Show the calls a patient extraction would make, without calling the model",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := intake.LoadDocument(inputPath(args))
		if err != nil {
			return err
		}
		// No model is called, so any completer will do.
		x, err := intake.New(intake.CompleterFunc(nil), nil)
		if err != nil {
			return err
		}

		format := intake.FormatText
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			format = intake.FormatJSON
		}
		out, err := x.Explain(doc.Text, viper.GetString("model"), format, intake.DefaultModelPricing())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	explainCmd.Flags().Bool("json", false, "output the plan as JSON")

	rootCmd.AddCommand(explainCmd)
}
