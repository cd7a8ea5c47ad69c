package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rbhatti-ai/exportguard-ai/internal/model"
)

var (
	batchDir         string
	batchDestination string
	batchOrigin      string
	batchMode        string
	batchConcurrency int
)

// batchLine is one output line per assessed invoice.
type batchLine struct {
	File         string `json:"file"`
	AssessmentID string `json:"assessment_id,omitempty"`
	Score        int    `json:"score,omitempty"`
	ValueCAD     float64 `json:"value_cad,omitempty"`
	CERSRequired bool   `json:"cers_required,omitempty"`
	Error        string `json:"error,omitempty"`
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Assess a directory of invoice documents",
	Long:  "Assesses every invoice file in a directory concurrently. Shipment fields given as flags apply to all files; each result is printed as one JSON line.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initApp(ctx, "batch")
		if err != nil {
			return err
		}
		defer env.Close()

		files, err := invoiceFiles(batchDir)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return eris.Errorf("no invoice files found in %s", batchDir)
		}

		concurrency := batchConcurrency
		if concurrency == 0 {
			concurrency = cfg.Batch.MaxConcurrent
		}

		input := model.ShipmentInput{
			Destination:   batchDestination,
			OriginCountry: batchOrigin,
			Mode:          model.ParseMode(batchMode),
		}

		var mu sync.Mutex
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(concurrency)

		for _, file := range files {
			file := file
			g.Go(func() error {
				line := batchLine{File: filepath.Base(file)}

				doc, err := os.ReadFile(file)
				if err != nil {
					line.Error = err.Error()
				} else if a, err := env.Pipeline.Run(gctx, input, doc); err != nil {
					line.Error = err.Error()
				} else {
					line.AssessmentID = a.ID
					line.Score = a.Result.ComplianceScore
					line.ValueCAD = a.Result.ValueCAD
					line.CERSRequired = a.Result.CERSRequired
				}

				out, err := json.Marshal(line)
				if err != nil {
					return eris.Wrap(err, "marshal batch line")
				}
				mu.Lock()
				cmd.Println(string(out))
				mu.Unlock()
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return err
		}

		zap.L().Info("batch complete", zap.Int("files", len(files)))
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchDir, "dir", "", "directory of invoice documents (required)")
	batchCmd.Flags().StringVar(&batchDestination, "destination", "", "destination country for all files")
	batchCmd.Flags().StringVar(&batchOrigin, "origin", "", "country of origin for all files")
	batchCmd.Flags().StringVar(&batchMode, "mode", "", "mode of transport for all files (default truck)")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "max concurrent assessments (default from config)")
	_ = batchCmd.MarkFlagRequired("dir")
	rootCmd.AddCommand(batchCmd)
}

// invoiceFiles lists assessable documents in dir, sorted for stable output.
func invoiceFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "read dir %s", dir)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".pdf", ".txt", ".text":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
