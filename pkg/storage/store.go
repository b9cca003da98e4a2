package storage

import (
	"context"

	"github.com/opscart/k8s-probe-analyzer/pkg/models"
)

// Store defines the interface for analysis history persistence
type Store interface {
	SaveRun(ctx context.Context, run *models.AnalysisRun, recommendations []*models.Recommendation) error
	ListRecommendations(ctx context.Context, namespace string, limit int) ([]*models.Recommendation, error)

	Ping(ctx context.Context) error
	Close() error
}
