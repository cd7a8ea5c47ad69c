package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/rbhatti-ai/exportguard-ai/internal/extract"
	"github.com/rbhatti-ai/exportguard-ai/internal/model"
	"github.com/rbhatti-ai/exportguard-ai/internal/report"
)

var (
	analyzeFile        string
	analyzeValue       string
	analyzeCurrency    string
	analyzeDestination string
	analyzeOrigin      string
	analyzeMode        string
	analyzePOR         string
	analyzeReport      bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Assess a single export invoice",
	Long:  "Assesses one shipment from typed fields, an invoice document, or both. Prints the assessment as JSON, or as a formatted compliance report with --report.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initApp(ctx, "analyze")
		if err != nil {
			return err
		}
		defer env.Close()

		input := model.ShipmentInput{
			TypedCurrency: analyzeCurrency,
			Destination:   analyzeDestination,
			OriginCountry: analyzeOrigin,
			Mode:          model.ParseMode(analyzeMode),
			POR:           analyzePOR,
		}
		if analyzeValue != "" {
			if amount, ok := extract.ParseMoney(analyzeValue); ok {
				input.TypedAmount = &amount
			} else {
				return eris.Errorf("invalid --value %q", analyzeValue)
			}
		}

		var doc []byte
		if analyzeFile != "" {
			doc, err = os.ReadFile(analyzeFile)
			if err != nil {
				return eris.Wrapf(err, "read %s", analyzeFile)
			}
		}

		if input.TypedAmount == nil && len(doc) == 0 && analyzeDestination == "" {
			return eris.New("nothing to assess: provide --value, --file, or shipment fields")
		}

		assessment, err := env.Pipeline.Run(ctx, input, doc)
		if err != nil {
			return err
		}

		if analyzeReport {
			cmd.Print(report.RenderText(assessment))
			return nil
		}

		out, err := json.MarshalIndent(assessment, "", "  ")
		if err != nil {
			return eris.Wrap(err, "marshal assessment")
		}
		cmd.Println(string(out))
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFile, "file", "", "invoice document to extract (PDF or text)")
	analyzeCmd.Flags().StringVar(&analyzeValue, "value", "", "declared invoice value (e.g. 2500 or $2,500.00)")
	analyzeCmd.Flags().StringVar(&analyzeCurrency, "currency", "", "currency of the declared value (default CAD)")
	analyzeCmd.Flags().StringVar(&analyzeDestination, "destination", "", "destination country")
	analyzeCmd.Flags().StringVar(&analyzeOrigin, "origin", "", "country of origin")
	analyzeCmd.Flags().StringVar(&analyzeMode, "mode", "", "mode of transport: air, rail, truck, ocean (default truck)")
	analyzeCmd.Flags().StringVar(&analyzePOR, "por", "", "proof-of-report number, if already filed")
	analyzeCmd.Flags().BoolVar(&analyzeReport, "report", false, "print a formatted compliance report instead of JSON")
	rootCmd.AddCommand(analyzeCmd)
}
