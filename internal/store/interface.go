package store

import (
	"context"

	"monday-export/internal/models"
)

// HistoryStore abstracts the export history backend.
type HistoryStore interface {
	RecordExport(ctx context.Context, record *models.ExportRecord) error
	ListExports(ctx context.Context, filter ExportFilter) ([]models.ExportRecord, error)
}

var _ HistoryStore = (*Store)(nil)
