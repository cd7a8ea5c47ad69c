package main

import (
	"context"
	"time"

	"github.com/rbhatti-ai/exportguard-ai/internal/extract"
	"github.com/rbhatti-ai/exportguard-ai/internal/ocr"
	"github.com/rbhatti-ai/exportguard-ai/internal/pipeline"
	"github.com/rbhatti-ai/exportguard-ai/internal/store"
	"github.com/rbhatti-ai/exportguard-ai/pkg/fxrates"
)

// appEnv holds the initialized store and pipeline shared by the analyze,
// serve, and batch commands.
type appEnv struct {
	Store    store.Store
	Pipeline *pipeline.Pipeline
}

// Close releases resources held by the environment.
func (e *appEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initApp validates the config for the given mode and builds the pipeline.
// Callers should defer env.Close().
func initApp(ctx context.Context, mode string) (*appEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}

	ocrExtractor, err := ocr.NewExtractor(cfg.OCR)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	fields, err := extract.New(cfg.Extract)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	fxOpts := []fxrates.Option{}
	if cfg.FX.BaseURL != "" {
		fxOpts = append(fxOpts, fxrates.WithBaseURL(cfg.FX.BaseURL))
	}
	if cfg.FX.RequestsPerSec > 0 {
		fxOpts = append(fxOpts, fxrates.WithRateLimit(cfg.FX.RequestsPerSec))
	}
	fx := fxrates.NewClient(fxOpts...)

	norm := pipeline.NewNormalizer(fx, time.Duration(cfg.FX.TimeoutSecs)*time.Second)

	return &appEnv{
		Store:    st,
		Pipeline: pipeline.New(ocrExtractor, fields, norm, st),
	}, nil
}
