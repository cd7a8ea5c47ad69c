package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rbhatti-ai/exportguard-ai/internal/report"
	"github.com/rbhatti-ai/exportguard-ai/internal/store"
)

var (
	assessmentsDestination string
	assessmentsLimit       int
	assessmentsExport      string
)

var assessmentsCmd = &cobra.Command{
	Use:   "assessments",
	Short: "List stored assessments",
	Long:  "Lists stored assessments as JSON, optionally filtered by destination. With --export, writes the list as an XLSX workbook instead.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("assessments"); err != nil {
			return err
		}
		st, err := store.Open(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		assessments, err := st.ListAssessments(ctx, store.AssessmentFilter{
			Destination: assessmentsDestination,
			Limit:       assessmentsLimit,
		})
		if err != nil {
			return err
		}

		if assessmentsExport != "" {
			data, err := report.RenderXLSX(assessments)
			if err != nil {
				return err
			}
			if err := os.WriteFile(assessmentsExport, data, 0o644); err != nil {
				return eris.Wrapf(err, "write %s", assessmentsExport)
			}
			zap.L().Info("exported assessments",
				zap.String("path", assessmentsExport),
				zap.Int("count", len(assessments)),
			)
			return nil
		}

		out, err := json.MarshalIndent(assessments, "", "  ")
		if err != nil {
			return eris.Wrap(err, "marshal assessments")
		}
		cmd.Println(string(out))
		return nil
	},
}

func init() {
	assessmentsCmd.Flags().StringVar(&assessmentsDestination, "destination", "", "filter by destination country")
	assessmentsCmd.Flags().IntVar(&assessmentsLimit, "limit", 0, "max rows to return (default 100)")
	assessmentsCmd.Flags().StringVar(&assessmentsExport, "export", "", "write results to this XLSX file instead of printing JSON")
	rootCmd.AddCommand(assessmentsCmd)
}
