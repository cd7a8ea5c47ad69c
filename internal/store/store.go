// Package store persists completed assessments. Two drivers are provided:
// SQLite for single-node use and Postgres for shared deployments.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/rbhatti-ai/exportguard-ai/internal/config"
	"github.com/rbhatti-ai/exportguard-ai/internal/model"
)

// ErrNotFound is returned when an assessment id does not exist.
var ErrNotFound = eris.New("store: assessment not found")

// AssessmentFilter specifies criteria for listing assessments.
type AssessmentFilter struct {
	Destination string                 `json:"destination,omitempty"`
	Status      model.AssessmentStatus `json:"status,omitempty"`
	Limit       int                    `json:"limit,omitempty"`
	Offset      int                    `json:"offset,omitempty"`
}

// Store defines the persistence interface for assessments.
type Store interface {
	SaveAssessment(ctx context.Context, a *model.Assessment) error
	GetAssessment(ctx context.Context, id string) (*model.Assessment, error)
	ListAssessments(ctx context.Context, filter AssessmentFilter) ([]model.Assessment, error)

	Migrate(ctx context.Context) error
	Close() error
}

// Open creates the store selected by cfg.Driver and runs migrations.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	var s Store
	switch cfg.Driver {
	case "sqlite", "":
		var err error
		s, err = NewSQLite(cfg.Path)
		if err != nil {
			return nil, err
		}
	case "postgres":
		var err error
		s, err = NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}

	if err := s.Migrate(ctx); err != nil {
		s.Close() //nolint:errcheck
		return nil, err
	}
	return s, nil
}
