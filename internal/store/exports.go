package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"monday-export/internal/models"
)

// DefaultListLimit caps history listings when no limit is given.
const DefaultListLimit = 20

// Fixed-width so exported_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ExportFilter narrows a history listing.
type ExportFilter struct {
	BoardID string
	Limit   int
}

// RecordExport inserts a completed export. Missing ids and timestamps are
// filled in on the record.
func (s *Store) RecordExport(ctx context.Context, record *models.ExportRecord) error {
	if record == nil {
		return fmt.Errorf("export record is required")
	}
	if strings.TrimSpace(record.BoardID) == "" {
		return fmt.Errorf("board id is required")
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.ExportedAt.IsZero() {
		record.ExportedAt = time.Now()
	}
	record.ExportedAt = record.ExportedAt.UTC()

	_, err := s.db.ExecContext(ctx, `
INSERT INTO exports (id, board_id, board_name, item_count, subitem_count, path, exported_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.BoardID,
		record.BoardName,
		record.ItemCount,
		record.SubitemCount,
		record.Path,
		formatTime(record.ExportedAt),
	)
	if err != nil {
		return fmt.Errorf("record export: %w", err)
	}
	return nil
}

// ListExports returns recorded exports, newest first.
func (s *Store) ListExports(ctx context.Context, filter ExportFilter) ([]models.ExportRecord, error) {
	query := `SELECT id, board_id, board_name, item_count, subitem_count, path, exported_at FROM exports`
	var args []any
	if boardID := strings.TrimSpace(filter.BoardID); boardID != "" {
		query += " WHERE board_id = ?"
		args = append(args, boardID)
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	query += " ORDER BY exported_at DESC, rowid DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.ExportRecord
	for rows.Next() {
		var (
			record     models.ExportRecord
			exportedAt string
		)
		if err := rows.Scan(
			&record.ID,
			&record.BoardID,
			&record.BoardName,
			&record.ItemCount,
			&record.SubitemCount,
			&record.Path,
			&exportedAt,
		); err != nil {
			return nil, err
		}
		parsed, err := parseTime(exportedAt)
		if err != nil {
			return nil, fmt.Errorf("parse exported_at for %s: %w", record.ID, err)
		}
		record.ExportedAt = parsed
		records = append(records, record)
	}
	return records, rows.Err()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(value string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, value)
}
